package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pawmart/cart-service/internal/session"
)

const (
	headerUserID    = "X-User-ID"
	headerCartToken = "X-Cart-Token"
)

// respondWithError sends a JSON error body.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// sessionFrom builds the shopper identity from the opaque user id the
// auth collaborator put on the request. No header means a guest.
func sessionFrom(r *http.Request) session.Session {
	return session.Session{UserID: r.Header.Get(headerUserID)}
}

// cartKey is the store key for the request: the user id for
// authenticated shoppers, the device-supplied cart token for guests.
func cartKey(r *http.Request, sess session.Session) string {
	if !sess.Guest() {
		return sess.UserID
	}
	if token := r.Header.Get(headerCartToken); token != "" {
		return "guest:" + token
	}
	return "guest:anonymous"
}
