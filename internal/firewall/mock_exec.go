package firewall

import (
	"strings"
	"sync"
)

// MockExec records every command and fails the ones listed in RunErrors,
// keyed by the joined command line.
type MockExec struct {
	mu sync.Mutex

	RunCalls  [][]string
	RunErrors map[string]error
}

func (m *MockExec) Run(name string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := append([]string{name}, args...)
	m.RunCalls = append(m.RunCalls, call)
	return m.RunErrors[strings.Join(call, " ")]
}
