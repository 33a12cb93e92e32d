package firewall

import "os/exec"

// Executor abstracts command execution for resolvectl/iptables operations.
// Every firewall step is fire-and-forget, so only Run is needed.
type Executor interface {
	Run(name string, args ...string) error
}

type osExec struct{}

func (osExec) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}
