package server

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	codes, err := s.profiles.List()
	if err != nil {
		writeError(w, err)
		return
	}
	autostartCode, _ := s.autostart.EnabledProfile()
	status := s.tunnel.Status()

	type profileInfo struct {
		Code      string `json:"code"`
		Connected bool   `json:"connected"`
		Autostart bool   `json:"autostart"`
	}
	list := make([]profileInfo, 0, len(codes))
	for _, code := range codes {
		list = append(list, profileInfo{
			Code:      code,
			Connected: status.Connected && status.Code == code,
			Autostart: code == autostartCode,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": list})
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Account string `json:"account"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cached, _, err := s.cache.Load()
	if err != nil {
		s.log.Warnf("relay cache load failed, fetching live: %v", err)
		cached = nil
	}

	result, err := s.enroller.Run(r.Context(), payload.Account, cached)
	if err != nil {
		writeError(w, err)
		return
	}

	// Remember the account and assignment for later re-runs.
	current, err := s.settings.Get()
	if err == nil {
		current.AccountNumber = payload.Account
		current.AssignedAddress = result.AssignedAddress
		if err := s.settings.Save(current); err != nil {
			s.log.Warnf("saving setup results to settings failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}
