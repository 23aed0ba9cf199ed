package services

import (
	"context"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"github.com/vytor/profilehub/internal/errors"
	"github.com/vytor/profilehub/internal/logger"
	"github.com/vytor/profilehub/internal/metrics"
	"github.com/vytor/profilehub/internal/models"
	"github.com/vytor/profilehub/internal/repository"
)

const (
	MinAge = 0
	MaxAge = 120
)

// ProfileService owns the singleton profile. It validates writes before they
// reach storage and classifies failures for the HTTP layer.
type ProfileService interface {
	FetchProfile(ctx context.Context) (*models.Profile, error)
	UpsertProfile(ctx context.Context, in models.ProfileInput) (models.UpsertResult, error)
	ListSummaries(ctx context.Context) ([]models.ProfileSummary, error)
	Ready(ctx context.Context) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) FetchProfile(ctx context.Context) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching profile")

	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		log.Error("failed to fetch profile: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile not found, create a new one")
	}
	return profile, nil
}

func (s *profileService) UpsertProfile(ctx context.Context, in models.ProfileInput) (models.UpsertResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("upserting profile")

	profile, err := validate(in)
	if err != nil {
		log.Debug("rejected profile input: %v", err)
		metrics.ProfileWrites.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return models.UpsertResult{}, err
	}

	res, err := s.profileRepo.Upsert(ctx, profile)
	if stderrors.Is(err, repository.ErrNotFound) {
		log.Warn("profile disappeared before it could be updated")
		metrics.ProfileWrites.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return models.UpsertResult{}, errors.NewNotFoundError("profile to update not found")
	}
	if err != nil {
		log.Error("failed to save profile: %v", err)
		metrics.ProfileWrites.WithLabelValues(metrics.OutcomeFailed).Inc()
		return models.UpsertResult{}, errors.NewStorageError(err)
	}

	outcome := metrics.OutcomeUpdated
	if res.Mode == models.UpsertCreated {
		outcome = metrics.OutcomeCreated
	}
	metrics.ProfileWrites.WithLabelValues(outcome).Inc()
	log.Info("profile %s: id=%d", res.Mode, res.ID)
	return res, nil
}

func (s *profileService) ListSummaries(ctx context.Context) ([]models.ProfileSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing profile summaries")

	summaries, err := s.profileRepo.ListSummaries(ctx)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if summaries == nil {
		summaries = []models.ProfileSummary{}
	}
	return summaries, nil
}

func (s *profileService) Ready(ctx context.Context) error {
	if err := s.profileRepo.Ping(ctx); err != nil {
		return errors.NewStorageError(err)
	}
	return nil
}

// validate checks the input and converts it into the stored shape. It never
// touches storage.
func validate(in models.ProfileInput) (models.Profile, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return models.Profile{}, errors.NewValidationError("full_name", "is required")
	}

	var age *int
	if in.Age.Provided() {
		n, err := in.Age.Int()
		if err != nil || n < MinAge || n > MaxAge {
			return models.Profile{}, errors.NewValidationError("age", "must be a number between 0 and 120")
		}
		age = &n
	}

	state := strings.TrimSpace(in.State)
	if state != "" && utf8.RuneCountInString(state) != 2 {
		return models.Profile{}, errors.NewValidationError("state", "must be a 2-letter code (e.g. SP, PE)")
	}

	return models.Profile{
		FullName:        in.FullName,
		Age:             age,
		Street:          in.Street,
		Neighborhood:    in.Neighborhood,
		State:           state,
		Bio:             in.Bio,
		ProfileImageURL: in.ProfileImageURL,
	}, nil
}
