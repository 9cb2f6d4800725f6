package modem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Modem is the device chosen for one invocation.
type Modem struct {
	Path      string `json:"path"`
	ID        string `json:"id"`
	OwnNumber string `json:"own_number"`
}

// ServiceChecker reports the active state of a system service unit.
type ServiceChecker interface {
	UnitState(ctx context.Context, unit string) (string, error)
}

// Discoverer picks the first attached modem.
type Discoverer struct {
	Provider Provider
	// Checker and Unit are optional; when set, a failed discovery names the
	// state of the ModemManager unit.
	Checker ServiceChecker
	Unit    string
	Log     zerolog.Logger
}

// FindModem returns the first modem path the service reports.
func FindModem(ctx context.Context, p Provider) (string, error) {
	paths, err := p.ListModems(ctx)
	if err != nil && !errors.Is(err, ErrCommandFailed) {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrModemNotFound
	}
	return paths[0], nil
}

// OwnNumber returns the modem's own phone number, or UnknownNumber.
func OwnNumber(ctx context.Context, p Provider, id string) string {
	info, err := p.ModemInfo(ctx, id)
	if err != nil {
		return UnknownNumber
	}
	own := strings.TrimSpace(info.Get("own", ""))
	if own == "" || own == "--" {
		return UnknownNumber
	}
	// several numbers are comma separated; the first is the primary line
	if i := strings.Index(own, ","); i > 0 {
		own = strings.TrimSpace(own[:i])
	}
	return own
}

// Discover finds the modem and its own number.
func (d *Discoverer) Discover(ctx context.Context) (*Modem, error) {
	path, err := FindModem(ctx, d.Provider)
	if err != nil {
		if errors.Is(err, ErrModemNotFound) {
			return nil, d.explain(ctx, err)
		}
		return nil, err
	}

	m := &Modem{Path: path, ID: ModemID(path)}
	m.OwnNumber = OwnNumber(ctx, d.Provider, m.ID)
	d.Log.Debug().Str("modem", m.Path).Str("own", m.OwnNumber).Msg("modem discovered")
	return m, nil
}

func (d *Discoverer) explain(ctx context.Context, err error) error {
	if d.Checker == nil || d.Unit == "" {
		return err
	}
	state, cerr := d.Checker.UnitState(ctx, d.Unit)
	if cerr != nil {
		d.Log.Debug().Err(cerr).Str("unit", d.Unit).Msg("service state unavailable")
		return err
	}
	return fmt.Errorf("%w (%s is %s)", err, d.Unit, state)
}
