// Package tunnel sequences WireGuard session lifecycle: profile checks,
// wg-quick up/down, transient-failure classification and retry, and the
// coordinated firewall hardening around both transitions.
//
// Connection state is never stored. Every query asks the live tunnel
// subsystem, so the controller cannot drift from reality across restarts.
package tunnel

import (
	"fmt"
	"strings"

	"wg-relay-webui/internal/diaglog"
	"wg-relay-webui/internal/firewall"
	"wg-relay-webui/internal/profiles"
)

const codeMarker = "-wg-"

// Status is the derived connection state.
type Status struct {
	Connected bool   `json:"connected"`
	Code      string `json:"code,omitempty"`
}

// EventSink receives lifecycle events for the persistent history. Recording
// is best-effort; sinks may fail without affecting the operation.
type EventSink interface {
	Record(action, code, detail string) error
}

// Controller drives the external tunnel tooling.
type Controller struct {
	runner   Runner
	store    *profiles.Store
	firewall *firewall.Manager
	events   EventSink
	log      *diaglog.Logger
}

// NewController wires the controller. A nil runner uses real processes;
// a nil events sink disables history.
func NewController(runner Runner, store *profiles.Store, fw *firewall.Manager, events EventSink, log *diaglog.Logger) *Controller {
	if runner == nil {
		runner = execRunner{}
	}
	if log == nil {
		log = diaglog.New("")
	}
	return &Controller{
		runner:   runner,
		store:    store,
		firewall: fw,
		events:   events,
		log:      log,
	}
}

// Status derives the current connection state from `wg show`. Any failure
// to query reads as disconnected. Pure query, safe at any rate.
func (c *Controller) Status() Status {
	out, err := c.runner.CombinedOutput("wg", "show")
	if err != nil {
		return Status{}
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "interface:") {
			continue
		}
		iface := strings.TrimSpace(strings.TrimPrefix(line, "interface:"))
		if iface != "" && strings.Contains(iface, codeMarker) {
			return Status{Connected: true, Code: iface}
		}
	}
	return Status{}
}

// Connect brings the tunnel for code up. Any currently connected relay is
// disconnected first so at most one tunnel interface is ever active; a
// failed disconnect aborts the connect.
func (c *Controller) Connect(code string) error {
	if current := c.Status(); current.Connected {
		if err := c.Disconnect(current.Code); err != nil {
			return fmt.Errorf("disconnect %s before connecting %s: %w", current.Code, code, err)
		}
	}

	if !c.store.Exists(code) {
		return fmt.Errorf("%w: %s", ErrMissingProfile, c.store.Path(code))
	}

	out, err := c.runner.CombinedOutput("wg-quick", "up", code)
	if err != nil {
		combined := string(out)
		if classified := c.classifyUpFailure(code, combined); classified != nil {
			return classified
		}
		// classifyUpFailure returned nil: the signature-mismatch retry succeeded.
	}

	c.firewall.Apply(code)
	c.log.Infof("tunnel %s up", code)
	c.record("connect", code, "")
	return nil
}

// classifyUpFailure inspects the combined wg-quick output for the known
// failure signatures, in priority order. A nil return means the bounded
// signature-mismatch retry recovered and the connect should proceed.
func (c *Controller) classifyUpFailure(code, combined string) error {
	if strings.Contains(combined, "signature mismatch") {
		// Known benign race in resolvconf state; refresh once and retry
		// exactly once.
		c.log.Warnf("tunnel %s: resolvconf signature mismatch, refreshing and retrying", code)
		if _, err := c.runner.CombinedOutput("resolvconf", "-u"); err != nil {
			c.log.Warnf("tunnel %s: resolvconf -u failed: %v", code, err)
		}
		retryOut, retryErr := c.runner.CombinedOutput("wg-quick", "up", code)
		if retryErr == nil {
			return nil
		}
		err := &CommandError{
			Tool:   "wg-quick up (after resolvconf refresh)",
			Output: strings.TrimSpace(string(retryOut)),
		}
		c.record("connect-failed", code, err.Error())
		return err
	}
	if strings.Contains(combined, "RTNETLINK answers: Operation not supported") {
		c.record("connect-failed", code, ErrModuleNotLoaded.Error())
		return ErrModuleNotLoaded
	}
	if strings.Contains(combined, "already exists") {
		c.record("connect-failed", code, ErrInterfaceExists.Error())
		return ErrInterfaceExists
	}
	err := &CommandError{Tool: "wg-quick up", Output: strings.TrimSpace(combined)}
	c.record("connect-failed", code, err.Error())
	return err
}

// Disconnect tears the tunnel for code down. Firewall rules are removed
// before the interface goes away so the host is never left with rules
// pointing at a dead interface; the wg-quick result is surfaced verbatim.
func (c *Controller) Disconnect(code string) error {
	c.firewall.Remove(code)

	out, err := c.runner.CombinedOutput("wg-quick", "down", code)
	if err != nil {
		cmdErr := &CommandError{Tool: "wg-quick down", Output: strings.TrimSpace(string(out))}
		c.record("disconnect-failed", code, cmdErr.Error())
		return cmdErr
	}

	c.firewall.FlushCaches()
	c.log.Infof("tunnel %s down", code)
	c.record("disconnect", code, "")
	return nil
}

func (c *Controller) record(action, code, detail string) {
	if c.events == nil {
		return
	}
	if err := c.events.Record(action, code, detail); err != nil {
		c.log.Warnf("event history: record %s %s failed: %v", action, code, err)
	}
}
