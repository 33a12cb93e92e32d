// Package firewall applies DNS leak-prevention rules scoped to one tunnel
// interface: DNS is pinned to the tunnel's resolver and port 53 is blocked
// on every other interface, for both IP versions.
//
// Everything here is best-effort hardening. A platform missing resolvectl
// or ip6tables still gets a working tunnel; failures are logged, never
// returned, and never block connect or disconnect.
package firewall

import (
	"wg-relay-webui/internal/diaglog"
)

// tunnelDNS is the in-tunnel resolver address pushed to resolvectl.
const tunnelDNS = "10.64.0.1"

// Manager issues the leak-prevention command sequence for one interface.
type Manager struct {
	exec Executor
	log  *diaglog.Logger
}

// NewManager creates a manager. A nil exec uses real processes.
func NewManager(exec Executor, log *diaglog.Logger) *Manager {
	if exec == nil {
		exec = osExec{}
	}
	if log == nil {
		log = diaglog.New("")
	}
	return &Manager{exec: exec, log: log}
}

// blockRules returns the four port-53 block rules for iface. Insert and
// delete use identical argument shapes, which is what makes Apply/Remove
// symmetric.
func blockRules(iface string) [][]string {
	var rules [][]string
	for _, tool := range []string{"iptables", "ip6tables"} {
		for _, proto := range []string{"udp", "tcp"} {
			rules = append(rules, []string{
				tool, "OUTPUT", "!", "-o", iface, "-p", proto, "--dport", "53", "-j", "DROP",
			})
		}
	}
	return rules
}

// Apply routes DNS through iface and inserts the four block rules.
func (m *Manager) Apply(iface string) {
	m.run("resolvectl", "dns", iface, tunnelDNS)
	m.run("resolvectl", "domain", iface, "~.")
	m.run("resolvectl", "flush-caches")
	for _, rule := range blockRules(iface) {
		args := append([]string{"-I"}, rule[1:]...)
		m.run(rule[0], args...)
	}
}

// Remove deletes the four block rules and flushes the DNS cache. Removing
// rules that are not present is a silent no-op.
func (m *Manager) Remove(iface string) {
	for _, rule := range blockRules(iface) {
		args := append([]string{"-D"}, rule[1:]...)
		m.run(rule[0], args...)
	}
	m.run("resolvectl", "flush-caches")
}

// FlushCaches clears the system resolver cache.
func (m *Manager) FlushCaches() {
	m.run("resolvectl", "flush-caches")
}

func (m *Manager) run(name string, args ...string) {
	if err := m.exec.Run(name, args...); err != nil {
		m.log.Warnf("firewall: %s %v failed: %v", name, args, err)
	}
}
