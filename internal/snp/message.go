// Package snp speaks the line-oriented Snarl Network Protocol to a local notification daemon.
package snp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	fieldSeparator = "#?"
	lineTerminator = "\n"

	protocolType    = "SNP"
	protocolVersion = "1.0"
)

// Action names the request carried by a Message.
type Action string

const (
	ActionRegister     Action = "register"
	ActionUnregister   Action = "unregister"
	ActionNotification Action = "notification"
)

// ErrMalformedLine is returned by Parse for lines that are not SNP messages,
// and by Validate for messages that would not encode to one.
var ErrMalformedLine = errors.New("malformed snp line")

// Field is a single key=value pair.
type Field struct {
	Key   string
	Value string
}

// Message is one SNP request line.
type Message struct {
	Action Action
	App    string
	Extra  []Field
}

// RegisterMessage builds the registration line for app.
func RegisterMessage(app string) Message {
	return Message{Action: ActionRegister, App: app}
}

// UnregisterMessage builds the unregistration line for app.
func UnregisterMessage(app string) Message {
	return Message{Action: ActionUnregister, App: app}
}

// NotificationMessage builds a notification line. timeout is in seconds.
func NotificationMessage(app, title, text string, timeout int) Message {
	return Message{
		Action: ActionNotification,
		App:    app,
		Extra: []Field{
			{Key: "class", Value: "1"},
			{Key: "title", Value: title},
			{Key: "text", Value: text},
			{Key: "timeout", Value: strconv.Itoa(timeout)},
		},
	}
}

// Fields returns the header fields followed by the action-specific ones.
func (message Message) Fields() []Field {
	fields := []Field{
		{Key: "type", Value: protocolType},
		{Key: "version", Value: protocolVersion},
		{Key: "action", Value: string(message.Action)},
		{Key: "app", Value: message.App},
	}
	return append(fields, message.Extra...)
}

// Validate rejects keys and values that would split the encoded line.
// Values may not contain the field separator or a line break.
func (message Message) Validate() error {
	for _, field := range message.Fields() {
		if field.Key == "" || strings.ContainsAny(field.Key, "=\r\n") || strings.Contains(field.Key, fieldSeparator) {
			return fmt.Errorf("validate: %w: bad key %q", ErrMalformedLine, field.Key)
		}
		if strings.ContainsAny(field.Value, "\r\n") || strings.Contains(field.Value, fieldSeparator) {
			return fmt.Errorf("validate: %w: bad %s value %q", ErrMalformedLine, field.Key, field.Value)
		}
	}
	return nil
}

// Encode renders the message as a single terminated line. Callers sending
// untrusted text should check Validate first.
func (message Message) Encode() string {
	var builder strings.Builder
	for index, field := range message.Fields() {
		if index > 0 {
			builder.WriteString(fieldSeparator)
		}
		builder.WriteString(field.Key)
		builder.WriteByte('=')
		builder.WriteString(field.Value)
	}
	builder.WriteString(lineTerminator)
	return builder.String()
}

// Parse reads a line produced by Encode back into its fields, in order.
func Parse(line string) ([]Field, error) {
	line = strings.TrimSuffix(line, lineTerminator)
	if line == "" {
		return nil, fmt.Errorf("parse: %w: empty line", ErrMalformedLine)
	}

	parts := strings.Split(line, fieldSeparator)
	fields := make([]Field, 0, len(parts))
	for _, part := range parts {
		key, value, found := strings.Cut(part, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("parse: %w: %q", ErrMalformedLine, part)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	if fields[0].Key != "type" || fields[0].Value != protocolType {
		return nil, fmt.Errorf("parse: %w: missing type=%s header", ErrMalformedLine, protocolType)
	}
	return fields, nil
}
