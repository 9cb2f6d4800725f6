package sms

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"smsctl/internal/modem"
	"smsctl/internal/smslog"
)

const testModemPath = "/org/freedesktop/ModemManager1/Modem/0"

// fakeProvider is an in-memory modem.
type fakeProvider struct {
	handles  []string
	details  map[string]modem.Details
	created  string
	listErr  error
	failures map[string]bool // "create", "send", "delete <path>", "read <path>"

	calls []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		details:  make(map[string]modem.Details),
		failures: make(map[string]bool),
	}
}

func (f *fakeProvider) add(path string, d modem.Details) {
	f.handles = append(f.handles, path)
	f.details[path] = d
}

func (f *fakeProvider) record(call string) bool {
	f.calls = append(f.calls, call)
	return f.failures[call]
}

func (f *fakeProvider) ListModems(context.Context) ([]string, error) {
	return []string{testModemPath}, nil
}

func (f *fakeProvider) ModemInfo(context.Context, string) (modem.Details, error) {
	return modem.Details{"own": "+8613912345678"}, nil
}

func (f *fakeProvider) CreateMessage(_ context.Context, _, number, text string) (string, error) {
	if f.record("create "+number+" "+text) || f.failures["create"] {
		return "", modem.ErrCommandFailed
	}
	return f.created, nil
}

func (f *fakeProvider) SendMessage(_ context.Context, path string) error {
	if f.record("send "+path) || f.failures["send"] {
		return modem.ErrCommandFailed
	}
	return nil
}

func (f *fakeProvider) ListMessages(context.Context, string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.handles...), nil
}

func (f *fakeProvider) MessageDetails(_ context.Context, path string) (modem.Details, error) {
	d, ok := f.details[path]
	if !ok {
		return nil, modem.ErrCommandFailed
	}
	return d, nil
}

func (f *fakeProvider) DeleteMessage(_ context.Context, _, path string) error {
	if f.record("delete " + path) {
		return modem.ErrCommandFailed
	}
	return nil
}

func (f *fakeProvider) MarkRead(_ context.Context, path string) error {
	if f.record("read " + path) {
		return modem.ErrCommandFailed
	}
	return nil
}

type fixture struct {
	provider *fakeProvider
	store    *smslog.JSONFile
	out      *bytes.Buffer
	mgr      *Manager
	modem    *modem.Modem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := newFakeProvider()
	store := smslog.NewJSONFile(filepath.Join(t.TempDir(), "sms.json"), zerolog.Nop())
	out := &bytes.Buffer{}
	mgr := NewManager(p, store, out, zerolog.Nop())
	mgr.Now = func() time.Time { return time.Date(2026, 10, 18, 9, 15, 2, 0, time.Local) }
	return &fixture{
		provider: p,
		store:    store,
		out:      out,
		mgr:      mgr,
		modem:    &modem.Modem{Path: testModemPath, ID: "0", OwnNumber: "+8613912345678"},
	}
}
