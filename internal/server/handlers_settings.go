package server

import (
	"encoding/json"
	"net/http"

	"wg-relay-webui/internal/settings"
	"wg-relay-webui/internal/version"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.settings.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	// Scrub auth fields, never expose hash or token via the settings API.
	safe := settings.Settings{
		AccountNumber:   current.AccountNumber,
		AssignedAddress: current.AssignedAddress,
		ListenInterface: current.ListenInterface,
		DebugLogLevel:   current.DebugLogLevel,
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": safe})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	// Decode only the public, user-editable fields.
	var payload struct {
		ListenInterface string `json:"listenInterface"`
		DebugLogLevel   string `json:"debugLogLevel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	current, err := s.settings.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	current.ListenInterface = payload.ListenInterface
	current.DebugLogLevel = payload.DebugLogLevel
	if err := s.settings.Save(current); err != nil {
		writeError(w, err)
		return
	}
	s.log.SetLevel(payload.DebugLogLevel)

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Current())
}
