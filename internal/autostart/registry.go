// Package autostart enforces that at most one relay profile is enabled to
// start at boot, via the distro's wg-quick@<code> systemd template units.
package autostart

import (
	"fmt"
	"os/exec"
	"strings"

	"wg-relay-webui/internal/diaglog"
)

const (
	unitPrefix = "wg-quick@"
	unitSuffix = ".service"
	codeMarker = "-wg-"
)

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(name string, args ...string) error
	Output(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (execRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Registry queries and mutates boot-time enablement of relay tunnels.
type Registry struct {
	runner CommandRunner
	log    *diaglog.Logger
}

// NewRegistry creates a registry. A nil runner uses real systemctl.
func NewRegistry(runner CommandRunner, log *diaglog.Logger) *Registry {
	if runner == nil {
		runner = execRunner{}
	}
	if log == nil {
		log = diaglog.New("")
	}
	return &Registry{runner: runner, log: log}
}

// UnitName returns the systemd unit for a relay code.
func UnitName(code string) string {
	return unitPrefix + code + unitSuffix
}

// IsEnabled reports whether the unit for code is enabled at boot.
// systemctl is-enabled exits non-zero for disabled units, so the exit
// status is ignored and only the reported state text is inspected.
func (r *Registry) IsEnabled(code string) bool {
	out, _ := r.runner.Output("systemctl", "is-enabled", UnitName(code))
	return strings.TrimSpace(string(out)) == "enabled"
}

// EnabledProfile returns the code of the first relay unit reported enabled,
// or ok=false when none is.
func (r *Registry) EnabledProfile() (string, bool) {
	out, err := r.runner.Output("systemctl", "list-unit-files", unitPrefix+"*"+unitSuffix)
	if err != nil {
		r.log.Warnf("autostart: list-unit-files failed: %v", err)
		return "", false
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "enabled" {
			continue
		}
		unit := fields[0]
		if !strings.HasPrefix(unit, unitPrefix) || !strings.HasSuffix(unit, unitSuffix) {
			continue
		}
		code := strings.TrimSuffix(strings.TrimPrefix(unit, unitPrefix), unitSuffix)
		if strings.Contains(code, codeMarker) {
			return code, true
		}
	}
	return "", false
}

// Enable marks code to start at boot. Any other currently enabled relay is
// disabled first so the enabled set never grows beyond one; failure to
// disable the old unit is logged and swallowed, failure to enable the
// requested unit is surfaced.
func (r *Registry) Enable(code string) error {
	if current, ok := r.EnabledProfile(); ok && current != code {
		if err := r.runner.Run("systemctl", "disable", UnitName(current)); err != nil {
			r.log.Warnf("autostart: disable previous %s failed: %v", current, err)
		}
	}
	if err := r.runner.Run("systemctl", "enable", UnitName(code)); err != nil {
		return fmt.Errorf("systemctl enable %s: %w", UnitName(code), err)
	}
	return nil
}

// Disable removes code from boot-time start.
func (r *Registry) Disable(code string) error {
	if err := r.runner.Run("systemctl", "disable", UnitName(code)); err != nil {
		return fmt.Errorf("systemctl disable %s: %w", UnitName(code), err)
	}
	return nil
}
