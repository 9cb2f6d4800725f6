package executil

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"github.com/rs/zerolog"
)

func newTestRunner(buf *bytes.Buffer, timeout time.Duration) *Real {
	return NewReal(timeout, zerolog.New(buf).Level(zerolog.InfoLevel))
}

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestRealOutputTrimmed(t *testing.T) {
	requireCommand(t, "echo")
	var buf bytes.Buffer
	r := newTestRunner(&buf, 0)

	out, ok := r.Output(context.Background(), "echo", "  hello  ")
	be.True(t, ok)
	be.Equal(t, out, "hello")
	be.Equal(t, buf.Len(), 0)
}

func TestRealNoShell(t *testing.T) {
	requireCommand(t, "echo")
	var buf bytes.Buffer
	r := newTestRunner(&buf, 0)

	out, ok := r.Output(context.Background(), "echo", "$HOME; text='a b'")
	be.True(t, ok)
	be.Equal(t, out, "$HOME; text='a b'")
}

func TestRealMissingExecutableIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRunner(&buf, 0)

	out, ok := r.Output(context.Background(), "smsctl-no-such-binary-xyz")
	be.True(t, !ok)
	be.Equal(t, out, "")
	be.Equal(t, buf.Len(), 0)
}

func TestRealNonZeroExitIsLogged(t *testing.T) {
	requireCommand(t, "false")
	var buf bytes.Buffer
	r := newTestRunner(&buf, 0)

	_, ok := r.Output(context.Background(), "false")
	be.True(t, !ok)
	be.True(t, strings.Contains(buf.String(), "command failed"))
	be.True(t, strings.Contains(buf.String(), `"command":"false"`))
}

func TestRealTimeout(t *testing.T) {
	requireCommand(t, "sleep")
	var buf bytes.Buffer
	r := newTestRunner(&buf, 50*time.Millisecond)

	start := time.Now()
	_, ok := r.Output(context.Background(), "sleep", "5")
	be.True(t, !ok)
	be.True(t, time.Since(start) < 4*time.Second)
	be.True(t, strings.Contains(buf.String(), "timed out"))
}

func TestIsExpectedAbsence(t *testing.T) {
	be.True(t, IsExpectedAbsence(`exec: "mmcli": executable file not found in $PATH`))
	be.True(t, IsExpectedAbsence("open /dev/x: No such file or directory"))
	be.True(t, IsExpectedAbsence("error: couldn't find modem: NOT FOUND"))
	be.True(t, !IsExpectedAbsence("exit status 1"))
}

func TestMock(t *testing.T) {
	m := &Mock{}
	m.Expect("mmcli -L", MockResult{Output: "  modem  \n"})
	m.Expect("mmcli -s 1 --send", MockResult{Fail: true})

	out, ok := m.Output(context.Background(), "mmcli", "-L")
	be.True(t, ok)
	be.Equal(t, out, "modem")

	_, ok = m.Output(context.Background(), "mmcli", "-s", "1", "--send")
	be.True(t, !ok)

	_, ok = m.Output(context.Background(), "mmcli", "--unknown")
	be.True(t, !ok)

	be.Equal(t, m.Commands(), []string{"mmcli -L", "mmcli -s 1 --send", "mmcli --unknown"})
	be.True(t, m.WasCalled("mmcli -L"))
	be.Equal(t, m.CallCount("mmcli -L"), 1)
}
