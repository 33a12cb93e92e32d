package server

import (
	"net/http"
	"time"

	"wg-relay-webui/internal/relays"
)

func (s *Server) handleListRelays(w http.ResponseWriter, r *http.Request) {
	list, fetchedAt, err := s.cache.Load()
	if err != nil {
		writeError(w, err)
		return
	}
	if len(list) == 0 {
		list, fetchedAt, err = s.refreshRelays(r)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	writeRelayList(w, list, fetchedAt)
}

func (s *Server) handleRefreshRelays(w http.ResponseWriter, r *http.Request) {
	list, fetchedAt, err := s.refreshRelays(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeRelayList(w, list, fetchedAt)
}

// refreshRelays fetches the live directory and replaces the cached snapshot.
// A cache write failure is logged but does not fail the request; the fresh
// list is still served.
func (s *Server) refreshRelays(r *http.Request) ([]relays.Relay, time.Time, error) {
	list, err := s.directory.Fetch(r.Context())
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt := time.Now().UTC()
	if err := s.cache.Save(list, fetchedAt); err != nil {
		s.log.Warnf("relay cache save failed: %v", err)
	}
	return list, fetchedAt, nil
}

func writeRelayList(w http.ResponseWriter, list []relays.Relay, fetchedAt time.Time) {
	payload := map[string]any{
		"relays":    list,
		"countries": relays.Group(list).Countries(),
	}
	if !fetchedAt.IsZero() {
		payload["fetchedAt"] = fetchedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, payload)
}
