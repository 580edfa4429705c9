package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sidelith/side/internal/apikey"
	"github.com/sidelith/side/internal/issuer"
	"github.com/sidelith/side/internal/profile"
)

type errorResponse struct {
	Error string `json:"error"`
}

// keyMetadata is what GET /v1/keys returns: everything about the current
// key except the secret itself, which left the building at issuance.
type keyMetadata struct {
	Hint      string    `json:"hint"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Server) caller(r *http.Request) issuer.Caller {
	return issuer.Caller{ProfileID: r.Header.Get(ProfileHeader)}
}

// handleIssueKey mints a fresh key for the caller. The response is the
// one and only disclosure of the plaintext.
func (s *Server) handleIssueKey(w http.ResponseWriter, r *http.Request) {
	issued, err := s.issuer.IssueKey(r.Context(), s.caller(r))
	if err != nil {
		s.writeIssueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issued)
}

func (s *Server) writeIssueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, issuer.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, profile.ErrRevisionConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "key was regenerated concurrently, retry"})
	default:
		s.log.WithError(err).Error("issuing key")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// handleGetKey returns metadata about the caller's current key. Never the
// plaintext: only the stored form exists at this point.
func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	caller := s.caller(r)
	if caller.ProfileID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	p, err := s.profiles.Get(r.Context(), caller.ProfileID)
	if errors.Is(err, profile.ErrNotFound) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("reading profile")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	if p.APIKeyStored == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no key issued"})
		return
	}

	stored, err := apikey.ParseStored(p.APIKeyStored)
	if err != nil {
		s.log.WithError(err).WithField("profile", p.ID).Error("stored key is malformed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, keyMetadata{
		Hint:      stored.Hint,
		Version:   stored.Version,
		UpdatedAt: p.UpdatedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
