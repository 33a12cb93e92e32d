package server

import (
	"net/http"
)

func (s *Server) handleGetAutostart(w http.ResponseWriter, r *http.Request) {
	code, enabled := s.autostart.EnabledProfile()
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": enabled,
		"code":    code,
	})
}

func (s *Server) handleEnableAutostart(w http.ResponseWriter, r *http.Request) {
	code, ok := s.requireCodeParam(w, r)
	if !ok {
		return
	}
	if !s.profiles.Exists(code) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no profile for " + code})
		return
	}
	if err := s.autostart.Enable(code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": true, "code": code})
}

func (s *Server) handleDisableAutostart(w http.ResponseWriter, r *http.Request) {
	code, enabled := s.autostart.EnabledProfile()
	if !enabled {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	if err := s.autostart.Disable(code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
}
