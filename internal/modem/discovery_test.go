package modem

import (
	"context"
	"errors"
	"testing"

	"github.com/nalgeon/be"
	"github.com/rs/zerolog"

	"smsctl/internal/executil"
)

type fakeChecker struct {
	state string
	err   error
	units []string
}

func (f *fakeChecker) UnitState(_ context.Context, unit string) (string, error) {
	f.units = append(f.units, unit)
	return f.state, f.err
}

func TestDiscover(t *testing.T) {
	m := &executil.Mock{}
	m.Expect("mmcli -L", executil.MockResult{Output: listModemsOutput})
	m.Expect("mmcli -m 3", executil.MockResult{Output: modemInfoOutput})
	d := &Discoverer{Provider: NewMMCLI("mmcli", m), Log: zerolog.Nop()}

	got, err := d.Discover(context.Background())
	be.Err(t, err, nil)
	be.Equal(t, got.Path, "/org/freedesktop/ModemManager1/Modem/3")
	be.Equal(t, got.ID, "3")
	be.Equal(t, got.OwnNumber, "+8613912345678")
}

func TestOwnNumberUnknown(t *testing.T) {
	m := &executil.Mock{}
	m.Expect("mmcli -m 0", executil.MockResult{Output: "  Hardware |  model: EC25"})
	p := NewMMCLI("mmcli", m)
	be.Equal(t, OwnNumber(context.Background(), p, "0"), UnknownNumber)

	// command failure also reads as unknown
	be.Equal(t, OwnNumber(context.Background(), p, "1"), UnknownNumber)
}

func TestOwnNumberFirstLineWins(t *testing.T) {
	m := &executil.Mock{}
	m.Expect("mmcli -m 0", executil.MockResult{Output: "  Numbers |  own: +8613912345678\n  SIM     |  own: +8613900000000"})
	be.Equal(t, OwnNumber(context.Background(), NewMMCLI("mmcli", m), "0"), "+8613912345678")
}

func TestDiscoverNoModem(t *testing.T) {
	m := &executil.Mock{}
	m.Expect("mmcli -L", executil.MockResult{Output: "No modems were found"})
	d := &Discoverer{Provider: NewMMCLI("mmcli", m), Log: zerolog.Nop()}

	_, err := d.Discover(context.Background())
	be.Err(t, err, ErrModemNotFound)
}

func TestDiscoverMMCLIMissing(t *testing.T) {
	d := &Discoverer{Provider: NewMMCLI("mmcli", &executil.Mock{}), Log: zerolog.Nop()}
	_, err := d.Discover(context.Background())
	be.Err(t, err, ErrModemNotFound)
}

func TestDiscoverExplainsServiceState(t *testing.T) {
	checker := &fakeChecker{state: "inactive"}
	d := &Discoverer{
		Provider: NewMMCLI("mmcli", &executil.Mock{}),
		Checker:  checker,
		Unit:     "ModemManager.service",
		Log:      zerolog.Nop(),
	}

	_, err := d.Discover(context.Background())
	be.Err(t, err, ErrModemNotFound)
	be.Err(t, err, "ModemManager.service is inactive")
	be.Equal(t, checker.units, []string{"ModemManager.service"})
}

func TestDiscoverCheckerFailureKeepsError(t *testing.T) {
	d := &Discoverer{
		Provider: NewMMCLI("mmcli", &executil.Mock{}),
		Checker:  &fakeChecker{err: errors.New("no bus")},
		Unit:     "ModemManager.service",
		Log:      zerolog.Nop(),
	}
	_, err := d.Discover(context.Background())
	be.Equal(t, err.Error(), ErrModemNotFound.Error())
}
