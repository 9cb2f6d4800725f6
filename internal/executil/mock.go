package executil

import (
	"context"
	"strings"
)

// Call records a single command invocation.
type Call struct {
	Name string
	Args []string
}

func (c Call) String() string {
	return Format(c.Name, c.Args)
}

// MockResult is the pre-programmed outcome of one command.
type MockResult struct {
	Output string
	Fail   bool
}

// Mock records commands and replays pre-programmed results. Unknown commands
// fail, the way a missing executable would.
//
//	m := &executil.Mock{}
//	m.Expect("mmcli -L", executil.MockResult{Output: "/org/freedesktop/ModemManager1/Modem/0 [QUALCOMM] 0"})
type Mock struct {
	Calls []Call

	responses map[string]MockResult
}

// Expect programs the result for a full command line ("name arg1 arg2").
func (m *Mock) Expect(command string, result MockResult) {
	if m.responses == nil {
		m.responses = make(map[string]MockResult)
	}
	m.responses[command] = result
}

func (m *Mock) Output(_ context.Context, name string, args ...string) (string, bool) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	m.Calls = append(m.Calls, call)

	r, ok := m.responses[call.String()]
	if !ok || r.Fail {
		return "", false
	}
	return strings.TrimSpace(r.Output), true
}

// WasCalled reports whether command was run at least once.
func (m *Mock) WasCalled(command string) bool {
	return m.CallCount(command) > 0
}

func (m *Mock) CallCount(command string) int {
	n := 0
	for _, c := range m.Calls {
		if c.String() == command {
			n++
		}
	}
	return n
}

// Commands returns every recorded command line in order.
func (m *Mock) Commands() []string {
	out := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		out = append(out, c.String())
	}
	return out
}
