package modem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smsctl/internal/executil"
)

var (
	ErrInvalidNumber = errors.New("invalid phone number")
	ErrUnquotable    = errors.New("message text contains both ' and \"")
)

// MMCLI implements Provider on top of the mmcli command-line tool.
type MMCLI struct {
	Bin    string
	Runner executil.Runner
}

// NewMMCLI returns an adapter running bin (usually "mmcli") through runner.
func NewMMCLI(bin string, runner executil.Runner) *MMCLI {
	if bin == "" {
		bin = "mmcli"
	}
	return &MMCLI{Bin: bin, Runner: runner}
}

func (m *MMCLI) run(ctx context.Context, args ...string) (string, error) {
	out, ok := m.Runner.Output(ctx, m.Bin, args...)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCommandFailed, executil.Format(m.Bin, args))
	}
	return out, nil
}

func (m *MMCLI) ListModems(ctx context.Context) ([]string, error) {
	out, err := m.run(ctx, "-L")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Modem") {
			continue
		}
		paths = append(paths, FindModemPaths(line)...)
	}
	return paths, nil
}

func (m *MMCLI) ModemInfo(ctx context.Context, id string) (Details, error) {
	out, err := m.run(ctx, "-m", id)
	if err != nil {
		return nil, err
	}
	return ParseDetails(out), nil
}

func (m *MMCLI) CreateMessage(ctx context.Context, modemPath, number, text string) (string, error) {
	param, err := CreateParam(number, text)
	if err != nil {
		return "", err
	}
	out, err := m.run(ctx, "-m", modemPath, "--messaging-create-sms="+param)
	if err != nil {
		return "", err
	}

	// "Successfully created new SMS: /org/freedesktop/ModemManager1/SMS/21"
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(strings.ToLower(line), "created") {
			continue
		}
		i := strings.LastIndex(line, ":")
		if i < 0 {
			continue
		}
		if handle := strings.TrimSpace(line[i+1:]); handle != "" {
			return handle, nil
		}
	}
	return "", fmt.Errorf("%w: unexpected create output %q", ErrCommandFailed, out)
}

func (m *MMCLI) SendMessage(ctx context.Context, smsPath string) error {
	_, err := m.run(ctx, "-s", smsPath, "--send")
	return err
}

func (m *MMCLI) ListMessages(ctx context.Context, modemPath string) ([]string, error) {
	out, err := m.run(ctx, "-m", modemPath, "--messaging-list-sms")
	if err != nil {
		return nil, err
	}
	return FindSMSPaths(out), nil
}

func (m *MMCLI) MessageDetails(ctx context.Context, smsPath string) (Details, error) {
	out, err := m.run(ctx, "-s", smsPath)
	if err != nil {
		return nil, err
	}
	return ParseDetails(out), nil
}

func (m *MMCLI) DeleteMessage(ctx context.Context, modemPath, smsPath string) error {
	_, err := m.run(ctx, "-m", modemPath, "--messaging-delete-sms="+smsPath)
	return err
}

func (m *MMCLI) MarkRead(ctx context.Context, smsPath string) error {
	_, err := m.run(ctx, "-s", smsPath, "--read")
	return err
}

// CreateParam builds the key=value list for --messaging-create-sms. Values
// are single-quoted unless the text itself contains a single quote.
func CreateParam(number, text string) (string, error) {
	if number == "" || strings.ContainsAny(number, "'\",=") || hasControl(number) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, number)
	}

	quote := "'"
	if strings.Contains(text, "'") {
		if strings.Contains(text, `"`) {
			return "", ErrUnquotable
		}
		quote = `"`
	}
	return "number='" + number + "',text=" + quote + text + quote, nil
}

func hasControl(s string) bool {
	for _, c := range s {
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}
