package tunnel

import (
	"os/exec"
	"strings"
)

// Runner abstracts external tool invocation so the controller's retry and
// classification logic can be tested with scripted outputs.
type Runner interface {
	// CombinedOutput runs the command and returns its combined stdout+stderr.
	CombinedOutput(name string, args ...string) ([]byte, error)
	// CombinedOutputWithInput is CombinedOutput with input piped to stdin.
	CombinedOutputWithInput(input string, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

func (execRunner) CombinedOutputWithInput(input string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(input)
	return cmd.CombinedOutput()
}
