package sms

import (
	"context"
	"strings"

	"smsctl/internal/modem"
)

// DeviceMessage is one message stored on the modem. Index is its position in
// the current listing and is only meaningful until the next delete.
type DeviceMessage struct {
	Index     int    `json:"index"`
	Path      string `json:"path"`
	Number    string `json:"number"`
	State     string `json:"state"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Handles returns the on-device message paths in listing order.
func (m *Manager) Handles(ctx context.Context, md *modem.Modem) ([]string, error) {
	return m.Provider.ListMessages(ctx, md.Path)
}

// Messages returns every on-device message with its details.
func (m *Manager) Messages(ctx context.Context, md *modem.Modem) ([]DeviceMessage, error) {
	handles, err := m.Handles(ctx, md)
	if err != nil {
		return nil, err
	}

	msgs := make([]DeviceMessage, 0, len(handles))
	for i, handle := range handles {
		details, err := m.Provider.MessageDetails(ctx, handle)
		if err != nil {
			details = modem.Details{}
		}
		msgs = append(msgs, DeviceMessage{
			Index:     i,
			Path:      handle,
			Number:    details.Get("number", "Unknown"),
			State:     details.Get("state", "unknown"),
			Text:      details.Get("text", ""),
			Timestamp: details.Get("timestamp", ""),
		})
	}
	return msgs, nil
}

// List prints the on-device messages with their indices. A modem that
// cannot be listed is reported, not treated as an error.
func (m *Manager) List(ctx context.Context, md *modem.Modem) []DeviceMessage {
	m.println("Listing SMS messages on the modem...")
	msgs, err := m.Messages(ctx, md)
	if err != nil {
		m.Log.Debug().Err(err).Msg("list failed")
		m.println("Could not get SMS list from modem.")
		return nil
	}
	if len(msgs) == 0 {
		m.println("No SMS messages found on the modem.")
		return msgs
	}

	for _, msg := range msgs {
		text := msg.Text
		if text == "" {
			text = "[No Content]"
		}
		m.printf("[%d] From: %s | State: %s | Content: \"%s\"\n", msg.Index, msg.Number, msg.State, Preview(text, m.PreviewLength))
	}
	return msgs
}

// Preview flattens text to one line and cuts it to at most n characters,
// marking a cut with "...".
func Preview(text string, n int) string {
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
