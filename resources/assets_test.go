package resources

import (
	"bytes"
	"testing"
)

func TestIconsAreEmbedded(t *testing.T) {
	pngMagic := []byte("\x89PNG\r\n\x1a\n")

	for _, name := range []string{IconActive, IconAway} {
		resource, err := Icon(name)
		if err != nil {
			t.Fatalf("Icon(%q): %v", name, err)
		}
		if !bytes.HasPrefix(resource.Content(), pngMagic) {
			t.Errorf("Icon(%q) is not a PNG", name)
		}
		again, _ := Icon(name)
		if again != resource {
			t.Errorf("Icon(%q) expected the cached resource", name)
		}
	}
}

func TestMissingIcon(t *testing.T) {
	if _, err := Icon("nope.png"); err == nil {
		t.Error("expected an error for a missing icon")
	}
}
