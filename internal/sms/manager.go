// Package sms implements the user-facing operations: send, receive, list,
// delete, and showing the local log. Device access goes through a
// modem.Provider and persistence through a smslog.Store, so every operation
// can run against fakes.
package sms

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"smsctl/internal/modem"
	"smsctl/internal/smslog"
)

// Manager carries the collaborators shared by all operations.
type Manager struct {
	Provider modem.Provider
	Store    smslog.Store
	// LogName is how the log is named in user-facing output.
	LogName string
	Numbers NumberRule
	// PreviewLength is the number of characters of content shown per message.
	PreviewLength int

	Out io.Writer
	Log zerolog.Logger
	Now func() time.Time
}

// NewManager wires a Manager with default preview length and clock.
func NewManager(p modem.Provider, store smslog.Store, out io.Writer, log zerolog.Logger) *Manager {
	return &Manager{
		Provider:      p,
		Store:         store,
		LogName:       "sms.json",
		Numbers:       DefaultNumberRule,
		PreviewLength: 50,
		Out:           out,
		Log:           log.With().Str("component", "sms").Logger(),
		Now:           time.Now,
	}
}

func (m *Manager) printf(format string, args ...any) {
	fmt.Fprintf(m.Out, format, args...)
}

func (m *Manager) println(args ...any) {
	fmt.Fprintln(m.Out, args...)
}
