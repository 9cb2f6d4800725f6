package modem

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	mmBus            = "org.freedesktop.ModemManager1"
	mmRoot           = dbus.ObjectPath("/org/freedesktop/ModemManager1")
	mmModemIface     = "org.freedesktop.ModemManager1.Modem"
	mmMessagingIface = "org.freedesktop.ModemManager1.Modem.Messaging"
	mmSmsIface       = "org.freedesktop.ModemManager1.Sms"

	dbusObjectManager = "org.freedesktop.DBus.ObjectManager"
)

// smsStates maps MMSmsState values to the names mmcli prints.
var smsStates = map[uint32]string{
	0: "unknown",
	1: "stored",
	2: "receiving",
	3: StateReceived,
	4: "sending",
	5: StateSent,
}

// DBus implements Provider against ModemManager's D-Bus API directly.
// ModemManager has no read flag on its Sms objects, so MarkRead is handed
// to Reader (normally the mmcli adapter).
type DBus struct {
	conn   *dbus.Conn
	Reader ReadMarker
}

// ReadMarker marks an on-device message as read.
type ReadMarker interface {
	MarkRead(ctx context.Context, smsPath string) error
}

// NewDBus connects to the system bus. The connection is shared process-wide
// and is not closed.
func NewDBus(reader ReadMarker) (*DBus, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system DBus: %w", err)
	}
	return &DBus{conn: conn, Reader: reader}, nil
}

func (d *DBus) object(path string) dbus.BusObject {
	return d.conn.Object(mmBus, dbus.ObjectPath(path))
}

func (d *DBus) ListModems(ctx context.Context) ([]string, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	call := d.conn.Object(mmBus, mmRoot).CallWithContext(ctx, dbusObjectManager+".GetManagedObjects", 0)
	if call.Err != nil {
		return nil, fmt.Errorf("%w: GetManagedObjects: %v", ErrCommandFailed, call.Err)
	}
	if err := call.Store(&objects); err != nil {
		return nil, fmt.Errorf("decode managed objects: %w", err)
	}

	var paths []string
	for path, ifaces := range objects {
		if _, ok := ifaces[mmModemIface]; ok {
			paths = append(paths, string(path))
		}
	}
	sortByIndex(paths)
	return paths, nil
}

func (d *DBus) ModemInfo(ctx context.Context, id string) (Details, error) {
	path := id
	if !strings.HasPrefix(path, "/") {
		path = modemPathPrefix + id
	}

	var props map[string]dbus.Variant
	call := d.object(path).CallWithContext(ctx, "org.freedesktop.DBus.Properties.GetAll", 0, mmModemIface)
	if call.Err != nil {
		return nil, fmt.Errorf("%w: GetAll %s: %v", ErrCommandFailed, path, call.Err)
	}
	if err := call.Store(&props); err != nil {
		return nil, fmt.Errorf("decode modem properties: %w", err)
	}
	return modemDetails(props), nil
}

func (d *DBus) CreateMessage(ctx context.Context, modemPath, number, text string) (string, error) {
	props := map[string]dbus.Variant{
		"number": dbus.MakeVariant(number),
		"text":   dbus.MakeVariant(text),
	}
	var sms dbus.ObjectPath
	call := d.object(modemPath).CallWithContext(ctx, mmMessagingIface+".Create", 0, props)
	if call.Err != nil {
		return "", fmt.Errorf("%w: Create: %v", ErrCommandFailed, call.Err)
	}
	if err := call.Store(&sms); err != nil {
		return "", fmt.Errorf("decode created sms path: %w", err)
	}
	return string(sms), nil
}

func (d *DBus) SendMessage(ctx context.Context, smsPath string) error {
	if call := d.object(smsPath).CallWithContext(ctx, mmSmsIface+".Send", 0); call.Err != nil {
		return fmt.Errorf("%w: Send %s: %v", ErrCommandFailed, smsPath, call.Err)
	}
	return nil
}

func (d *DBus) ListMessages(ctx context.Context, modemPath string) ([]string, error) {
	var list []dbus.ObjectPath
	call := d.object(modemPath).CallWithContext(ctx, mmMessagingIface+".List", 0)
	if call.Err != nil {
		return nil, fmt.Errorf("%w: List: %v", ErrCommandFailed, call.Err)
	}
	if err := call.Store(&list); err != nil {
		return nil, fmt.Errorf("decode sms list: %w", err)
	}
	paths := make([]string, 0, len(list))
	for _, p := range list {
		paths = append(paths, string(p))
	}
	return paths, nil
}

func (d *DBus) MessageDetails(ctx context.Context, smsPath string) (Details, error) {
	var props map[string]dbus.Variant
	call := d.object(smsPath).CallWithContext(ctx, "org.freedesktop.DBus.Properties.GetAll", 0, mmSmsIface)
	if call.Err != nil {
		return nil, fmt.Errorf("%w: GetAll %s: %v", ErrCommandFailed, smsPath, call.Err)
	}
	if err := call.Store(&props); err != nil {
		return nil, fmt.Errorf("decode sms properties: %w", err)
	}
	details := smsDetails(props)
	details["path"] = smsPath
	return details, nil
}

func (d *DBus) DeleteMessage(ctx context.Context, modemPath, smsPath string) error {
	call := d.object(modemPath).CallWithContext(ctx, mmMessagingIface+".Delete", 0, dbus.ObjectPath(smsPath))
	if call.Err != nil {
		return fmt.Errorf("%w: Delete %s: %v", ErrCommandFailed, smsPath, call.Err)
	}
	return nil
}

func (d *DBus) MarkRead(ctx context.Context, smsPath string) error {
	if d.Reader == nil {
		return fmt.Errorf("%w: no read marker configured", ErrCommandFailed)
	}
	return d.Reader.MarkRead(ctx, smsPath)
}

func modemDetails(props map[string]dbus.Variant) Details {
	d := make(Details)
	if v, ok := props["OwnNumbers"].Value().([]string); ok && len(v) > 0 {
		d["own"] = strings.Join(v, ", ")
	}
	setString(d, "manufacturer", props["Manufacturer"])
	setString(d, "model", props["Model"])
	setString(d, "revision", props["Revision"])
	setString(d, "equipment id", props["EquipmentIdentifier"])
	return d
}

func smsDetails(props map[string]dbus.Variant) Details {
	d := make(Details)
	setString(d, "number", props["Number"])
	setString(d, "text", props["Text"])
	setString(d, "timestamp", props["Timestamp"])
	setString(d, "smsc", props["SMSC"])
	if v, ok := props["State"].Value().(uint32); ok {
		if name, ok := smsStates[v]; ok {
			d["state"] = name
		} else {
			d["state"] = "unknown"
		}
	}
	return d
}

func setString(d Details, key string, v dbus.Variant) {
	if s, ok := v.Value().(string); ok && s != "" {
		d[key] = s
	}
}

// sortByIndex orders object paths by their numeric suffix.
func sortByIndex(paths []string) {
	index := func(p string) int {
		n, err := strconv.Atoi(ModemID(p))
		if err != nil {
			return -1
		}
		return n
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return index(paths[i]) < index(paths[j])
	})
}
