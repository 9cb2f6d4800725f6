// Package modem talks to ModemManager. Everything that knows about the shape
// of ModemManager's output lives here, behind the Provider interface.
package modem

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strings"
)

const (
	modemPathPrefix = "/org/freedesktop/ModemManager1/Modem/"
	smsPathPrefix   = "/org/freedesktop/ModemManager1/SMS/"

	// UnknownNumber is reported when the modem does not expose its own number.
	UnknownNumber = "unknown"

	// SMS states as reported by ModemManager.
	StateReceived = "received"
	StateSent     = "sent"
)

var (
	reModemPath = regexp.MustCompile(`/org/freedesktop/ModemManager1/Modem/\d+`)
	reSMSPath   = regexp.MustCompile(`/org/freedesktop/ModemManager1/SMS/\d+`)
)

var (
	ErrModemNotFound = errors.New("modem not found")
	ErrCommandFailed = errors.New("modem command failed")
)

// Details is the flat key/value view of one on-device message.
type Details map[string]string

// Get returns the value for key, or def when it is missing.
func (d Details) Get(key, def string) string {
	if v, ok := d[key]; ok {
		return v
	}
	return def
}

// Provider is the narrow set of operations smsctl needs from the modem
// management service.
type Provider interface {
	// ListModems returns modem paths in the order the service reports them.
	ListModems(ctx context.Context) ([]string, error)
	// ModemInfo returns the labeled properties of a modem. id may be a path
	// or its trailing index.
	ModemInfo(ctx context.Context, id string) (Details, error)
	// CreateMessage stores an outgoing message and returns its SMS path.
	CreateMessage(ctx context.Context, modemPath, number, text string) (string, error)
	SendMessage(ctx context.Context, smsPath string) error
	// ListMessages returns SMS paths in device order.
	ListMessages(ctx context.Context, modemPath string) ([]string, error)
	MessageDetails(ctx context.Context, smsPath string) (Details, error)
	DeleteMessage(ctx context.Context, modemPath, smsPath string) error
	MarkRead(ctx context.Context, smsPath string) error
}

// ModemID returns the trailing index of a modem path ("0" for
// /org/freedesktop/ModemManager1/Modem/0).
func ModemID(modemPath string) string {
	return path.Base(modemPath)
}

// FindModemPaths extracts every modem path from free-form text.
func FindModemPaths(text string) []string {
	return reModemPath.FindAllString(text, -1)
}

// FindSMSPaths extracts every SMS path from free-form text.
func FindSMSPaths(text string) []string {
	return reSMSPath.FindAllString(text, -1)
}

// ParseDetails turns labeled output into a flat map. Each line is split on
// its first colon; any "Section |" label in front of the key is dropped.
// A repeated key keeps its first value.
func ParseDetails(text string) Details {
	d := make(Details)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if i := strings.LastIndex(key, "|"); i >= 0 {
			key = key[i+1:]
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, seen := d[key]; seen {
			continue
		}
		d[key] = unquote(strings.TrimSpace(value))
	}
	return d
}

// unquote strips the single quotes older mmcli releases put around values.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
