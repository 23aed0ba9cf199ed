package repository

import (
	"context"
	"errors"

	"github.com/vytor/profilehub/internal/models"
)

// ErrNotFound is returned when an update targets a profile row that no longer exists.
var ErrNotFound = errors.New("profile row not found")

// ProfileRepository handles access to the singleton profile row.
type ProfileRepository interface {
	// Get returns the profile, or nil when the store is empty.
	Get(ctx context.Context) (*models.Profile, error)
	// Upsert creates the profile when none exists and updates it in place otherwise.
	// Only the writable fields of p are used.
	Upsert(ctx context.Context, p models.Profile) (models.UpsertResult, error)
	// ListSummaries returns every stored profile in insertion order.
	ListSummaries(ctx context.Context) ([]models.ProfileSummary, error)
	// Ping checks that the backing store answers.
	Ping(ctx context.Context) error
}
