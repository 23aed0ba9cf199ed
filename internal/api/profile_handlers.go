package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/profilehub/internal/errors"
	"github.com/vytor/profilehub/internal/logger"
	"github.com/vytor/profilehub/internal/models"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.ProfileService.FetchProfile(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var in models.ProfileInput
	if err := decodeJSON(r, &in); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			log.Warn("profile body over limit: %d bytes", tooLarge.Limit)
			handleError(w, r, errors.NewTooLargeError(tooLarge.Limit))
			return
		}
		log.Warn("invalid profile body: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	res, err := s.ProfileService.UpsertProfile(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if res.Mode == models.UpsertCreated {
		writeJSON(w, r, http.StatusCreated, messageResponse{
			Message: "profile created successfully",
			UserID:  res.ID,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "profile updated successfully"})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.ProfileService.ListSummaries(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summaries)
}
