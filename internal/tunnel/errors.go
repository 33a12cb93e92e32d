package tunnel

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingProfile indicates no profile file exists for the relay code.
	ErrMissingProfile = errors.New("no profile for relay; run setup first")
	// ErrModuleNotLoaded indicates the WireGuard kernel module is absent.
	ErrModuleNotLoaded = errors.New("WireGuard module not loaded; run: modprobe wireguard")
	// ErrInterfaceExists indicates a leftover interface blocks the connect.
	ErrInterfaceExists = errors.New("interface already exists; disconnect first")
)

// CommandError carries the verbatim combined output of a failed external
// tool so nothing is lost or guessed at.
type CommandError struct {
	Tool   string
	Output string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed:\n%s", e.Tool, e.Output)
}
