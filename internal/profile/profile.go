package profile

import (
	"context"
	"errors"
	"time"

	"github.com/sidelith/side/internal/apikey"
)

var (
	ErrNotFound = errors.New("profile not found")
	// ErrRevisionConflict means the row changed between read and write.
	// Callers re-read and retry the whole operation; there is no partial
	// state to clean up.
	ErrRevisionConflict = errors.New("profile revision conflict")
)

// Profile is the durable per-user record. APIKeyStored holds the versioned
// stored form of the current key ("" when no key has been issued); the
// plaintext never touches this type.
type Profile struct {
	ID           string
	Email        string
	Tier         apikey.Tier
	APIKeyStored string
	Revision     int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store is the persistence seam for profiles.
type Store interface {
	// Get returns the profile by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Profile, error)
	// Create inserts a new profile. The store assigns CreatedAt/UpdatedAt
	// and starts Revision at 0.
	Create(ctx context.Context, p *Profile) error
	// SetStoredKey overwrites the stored key form for the profile,
	// conditional on the revision observed by the caller. Returns
	// ErrRevisionConflict when the row moved, ErrNotFound when the profile
	// does not exist.
	SetStoredKey(ctx context.Context, id, stored string, revision int64) error
}
