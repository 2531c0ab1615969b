// Package channel abstracts the WhatsApp delivery provider. The engine
// builds provider-neutral messages; each sender maps them to its wire
// format, degrading interactive elements to numbered text when needed.
package channel

import (
	"context"
	"fmt"
	"strings"
)

// Message kinds.
const (
	TypeText    = "text"
	TypeButtons = "buttons"
	TypeList    = "list"
)

// Provider limits for interactive messages.
const (
	MaxButtons     = 3
	MaxButtonTitle = 20
	MaxListRows    = 10
)

// Button is one quick-reply option.
type Button struct {
	ID    string
	Title string
}

// ListRow is one row of an interactive list.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSpec is an interactive list: a button that opens rows to pick from.
type ListSpec struct {
	Button string
	Rows   []ListRow
}

// Message is a provider-neutral outbound message.
type Message struct {
	Type    string
	Text    string
	Buttons []Button
	List    *ListSpec
}

// Inbound is a normalized incoming message. ReplyID carries the button or
// list row ID when the user tapped an interactive element.
type Inbound struct {
	MessageID   string
	From        string
	Type        string
	Text        string
	ReplyID     string
	ProfileName string
}

// Sender delivers messages to one provider.
type Sender interface {
	Send(ctx context.Context, to string, msg *Message) error
	MarkRead(ctx context.Context, messageID string) error
	Name() string
}

// Text builds a plain text message.
func Text(text string) *Message {
	return &Message{Type: TypeText, Text: text}
}

// WithButtons builds a button message, clamping to provider limits.
func WithButtons(text string, buttons ...Button) *Message {
	if len(buttons) > MaxButtons {
		buttons = buttons[:MaxButtons]
	}
	for i := range buttons {
		buttons[i].Title = truncate(buttons[i].Title, MaxButtonTitle)
	}
	return &Message{Type: TypeButtons, Text: text, Buttons: buttons}
}

// WithList builds a list message, clamping to provider limits.
func WithList(text, button string, rows ...ListRow) *Message {
	if len(rows) > MaxListRows {
		rows = rows[:MaxListRows]
	}
	return &Message{Type: TypeList, Text: text, List: &ListSpec{Button: button, Rows: rows}}
}

// RenderText flattens the message to plain text, numbering interactive
// options. Used for providers without interactive support and for the
// dedup reply cache.
func (m *Message) RenderText() string {
	switch m.Type {
	case TypeButtons:
		var b strings.Builder
		b.WriteString(m.Text)
		b.WriteString("\n")
		for i, btn := range m.Buttons {
			fmt.Fprintf(&b, "\n%d. %s", i+1, btn.Title)
		}
		return b.String()
	case TypeList:
		var b strings.Builder
		b.WriteString(m.Text)
		b.WriteString("\n")
		for i, row := range m.List.Rows {
			fmt.Fprintf(&b, "\n%d. %s", i+1, row.Title)
			if row.Description != "" {
				fmt.Fprintf(&b, " - %s", row.Description)
			}
		}
		return b.String()
	default:
		return m.Text
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
