package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"wg-relay-webui/internal/enroll"
	"wg-relay-webui/internal/registration"
	"wg-relay-webui/internal/tunnel"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// writeError maps domain errors to HTTP statuses and emits a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var regErr *registration.Error
	switch {
	case errors.Is(err, enroll.ErrAccountRequired):
		status = http.StatusBadRequest
	case errors.As(err, &regErr):
		status = http.StatusBadRequest
	case errors.Is(err, tunnel.ErrMissingProfile):
		status = http.StatusNotFound
	case errors.Is(err, tunnel.ErrInterfaceExists):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
