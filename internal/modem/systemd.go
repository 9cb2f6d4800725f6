package modem

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
)

// SystemdChecker reads unit state from systemd over D-Bus.
type SystemdChecker struct{}

func (SystemdChecker) UnitState(ctx context.Context, unit string) (string, error) {
	if !strings.HasSuffix(unit, ".service") {
		unit = unit + ".service"
	}

	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("connect to systemd: %w", err)
	}
	defer conn.Close()

	props, err := conn.GetUnitPropertiesContext(ctx, unit)
	if err != nil {
		return "", fmt.Errorf("get properties of %s: %w", unit, err)
	}

	state, _ := props["ActiveState"].(string)
	if state == "" {
		state = "unknown"
	}
	if load, ok := props["LoadState"].(string); ok && load == "not-found" {
		state = "not installed"
	}
	return state, nil
}
