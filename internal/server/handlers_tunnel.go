package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// requireCodeParam extracts and validates the {code} URL parameter. Relay
// codes become file names and systemd unit names, so anything that could
// escape those contexts is rejected before reaching a collaborator.
func (s *Server) requireCodeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := chi.URLParam(r, "code")
	if code == "" || len(code) > 64 ||
		strings.ContainsAny(code, "/\\") || strings.Contains(code, "..") ||
		!strings.Contains(code, "-wg-") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid relay code"})
		return "", false
	}
	return code, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.tunnel.Status()
	autostartCode, autostartOn := s.autostart.EnabledProfile()
	writeJSON(w, http.StatusOK, map[string]any{
		"connected": status.Connected,
		"code":      status.Code,
		"autostart": map[string]any{
			"enabled": autostartOn,
			"code":    autostartCode,
		},
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	code, ok := s.requireCodeParam(w, r)
	if !ok {
		return
	}
	if err := s.tunnel.Connect(code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tunnel.Status())
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	status := s.tunnel.Status()
	if !status.Connected {
		// Already down; disconnect is idempotent.
		writeJSON(w, http.StatusOK, status)
		return
	}
	if err := s.tunnel.Disconnect(status.Code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tunnel.Status())
}
