package platform

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	wtsapi32 = windows.NewLazySystemDLL("wtsapi32.dll")

	registerSessionNotification   = wtsapi32.NewProc("WTSRegisterSessionNotification")
	unregisterSessionNotification = wtsapi32.NewProc("WTSUnRegisterSessionNotification")

	registerClassEx  = user32.NewProc("RegisterClassExW")
	unregisterClass  = user32.NewProc("UnregisterClassW")
	createWindowEx   = user32.NewProc("CreateWindowExW")
	destroyWindow    = user32.NewProc("DestroyWindow")
	defWindowProc    = user32.NewProc("DefWindowProcW")
	getMessage       = user32.NewProc("GetMessageW")
	translateMessage = user32.NewProc("TranslateMessage")
	dispatchMessage  = user32.NewProc("DispatchMessageW")
	postMessage      = user32.NewProc("PostMessageW")
	postQuitMessage  = user32.NewProc("PostQuitMessage")
)

const (
	statusWindowClass = "KitKatTimerStatus"

	wmDestroy = 0x0002
	wmClose   = 0x0010

	notifyForThisSession = 0
)

type wndClassEx struct {
	size       uint32
	style      uint32
	wndProc    uintptr
	clsExtra   int32
	wndExtra   int32
	instance   windows.Handle
	icon       windows.Handle
	cursor     windows.Handle
	background windows.Handle
	menuName   *uint16
	className  *uint16
	iconSm     windows.Handle
}

type point struct {
	x, y int32
}

type windowMsg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

type windowsStatusSource struct {
	config StatusConfig
}

func newStatusSource(config StatusConfig) StatusSource {
	return &windowsStatusSource{config: config}
}

// Watch creates a hidden window that receives session switch and power
// broadcast messages, and pumps its queue until ctx is done.
// Message-only windows never see WM_POWERBROADCAST, so the window is a
// top-level one that is never shown.
func (source *windowsStatusSource) Watch(ctx context.Context, sink Sink) error {
	// Window messages are delivered to the thread that created the window.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		return fmt.Errorf("watch status: module handle: %w", err)
	}
	className, err := windows.UTF16PtrFromString(statusWindowClass)
	if err != nil {
		return fmt.Errorf("watch status: %w", err)
	}

	wndProc := windows.NewCallback(func(hwnd, msg, wParam, lParam uintptr) uintptr {
		switch uint32(msg) {
		case wmClose:
			unregisterSessionNotification.Call(hwnd)
			destroyWindow.Call(hwnd)
			return 0
		case wmDestroy:
			postQuitMessage.Call(0)
			return 0
		case wmPowerBroadcast:
			if translateWindowMessage(uint32(msg), wParam, sink) {
				source.logf("status: power broadcast %#x", wParam)
			}
			return 1
		case wmWTSSessionChange:
			if translateWindowMessage(uint32(msg), wParam, sink) {
				source.logf("status: session change %#x", wParam)
			}
			return 0
		}
		result, _, _ := defWindowProc.Call(hwnd, msg, wParam, lParam)
		return result
	})

	class := wndClassEx{
		wndProc:   wndProc,
		instance:  instance,
		className: className,
	}
	class.size = uint32(unsafe.Sizeof(class))
	if atom, _, err := registerClassEx.Call(uintptr(unsafe.Pointer(&class))); atom == 0 {
		return fmt.Errorf("watch status: register window class: %w", err)
	}
	defer unregisterClass.Call(uintptr(unsafe.Pointer(className)), uintptr(instance))

	hwnd, _, err := createWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(className)),
		0,
		0, 0, 0, 0,
		0,
		0,
		uintptr(instance),
		0,
	)
	if hwnd == 0 {
		return fmt.Errorf("watch status: create window: %w", err)
	}

	if ok, _, err := registerSessionNotification.Call(hwnd, notifyForThisSession); ok == 0 {
		// Power broadcasts still arrive without the session subscription.
		source.logf("status: register session notification: %v", err)
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			postMessage.Call(hwnd, wmClose, 0, 0)
		case <-stopped:
		}
	}()

	var msg windowMsg
	for {
		result, _, err := getMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(result) {
		case -1:
			destroyWindow.Call(hwnd)
			return fmt.Errorf("watch status: get message: %w", err)
		case 0:
			return ctx.Err()
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		dispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

func (source *windowsStatusSource) logf(format string, args ...interface{}) {
	if source.config.Debug {
		log.Printf(format, args...)
	}
}
