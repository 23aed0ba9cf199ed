package models

import "time"

// Profile is the single user profile. Optional text fields are empty strings
// when unset; Age is nil when unset.
type Profile struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	Age             *int      `json:"age"`
	Street          string    `json:"street"`
	Neighborhood    string    `json:"neighborhood"`
	State           string    `json:"state"`
	Bio             string    `json:"bio"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileSummary is the lightweight listing view of a profile.
type ProfileSummary struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// ProfileInput is a write request as submitted by the client, before validation.
type ProfileInput struct {
	FullName        string   `json:"full_name"`
	Age             AgeInput `json:"age"`
	Street          string   `json:"street"`
	Neighborhood    string   `json:"neighborhood"`
	State           string   `json:"state"`
	Bio             string   `json:"bio"`
	ProfileImageURL string   `json:"profile_image_url"`
}

type UpsertMode int

const (
	UpsertCreated UpsertMode = iota + 1
	UpsertUpdated
)

func (m UpsertMode) String() string {
	switch m {
	case UpsertCreated:
		return "created"
	case UpsertUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// UpsertResult tells whether a write created the profile or updated it.
type UpsertResult struct {
	Mode UpsertMode
	ID   int64
}
