package issuer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sidelith/side/internal/apikey"
	"github.com/sidelith/side/internal/profile"
)

// ErrUnauthorized means the caller identity does not resolve to an
// existing profile.
var ErrUnauthorized = errors.New("unauthorized")

// ProfileLookupError wraps a failure to read the caller's profile.
type ProfileLookupError struct {
	err error
}

func (e *ProfileLookupError) Error() string {
	return fmt.Sprintf("profile lookup failed: %v", e.err)
}

func (e *ProfileLookupError) Unwrap() error { return e.err }

// PersistenceError wraps a failure to write the new stored form. No
// partial state exists when this is returned; the prior key is untouched.
type PersistenceError struct {
	err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting key failed: %v", e.err)
}

func (e *PersistenceError) Unwrap() error { return e.err }

// Caller is the explicit identity of the requester. Resolving a session
// to a profile id happens at the transport edge, never in here.
type Caller struct {
	ProfileID string
}

// IssuedKey is the one-time response. Secret is returned exactly once;
// afterwards only the hint and digest are retrievable.
type IssuedKey struct {
	Secret  string `json:"secret"`
	Hint    string `json:"hint"`
	Message string `json:"message"`
}

const disclosureNotice = "Store this key now. For security it will not be shown again."

// Issuer mints bearer keys and persists their stored form.
type Issuer struct {
	store profile.Store
	log   logrus.FieldLogger
}

func New(store profile.Store, log logrus.FieldLogger) *Issuer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Issuer{store: store, log: log}
}

// IssueKey mints a fresh key for the caller's plan tier and overwrites the
// profile's stored form. The previous key stops verifying as soon as the
// write lands. Concurrent regenerations are serialized by the store's
// revision check; the loser gets a PersistenceError wrapping
// [profile.ErrRevisionConflict].
func (i *Issuer) IssueKey(ctx context.Context, caller Caller) (*IssuedKey, error) {
	if caller.ProfileID == "" {
		return nil, ErrUnauthorized
	}

	p, err := i.store.Get(ctx, caller.ProfileID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, &ProfileLookupError{err: err}
	}

	secret, err := apikey.Mint(p.Tier)
	if err != nil {
		return nil, fmt.Errorf("minting key: %w", err)
	}

	if err := i.store.SetStoredKey(ctx, p.ID, secret.StoredForm(), p.Revision); err != nil {
		return nil, &PersistenceError{err: err}
	}

	i.log.WithFields(logrus.Fields{
		"profile": p.ID,
		"tier":    p.Tier,
		"hint":    secret.Hint,
	}).Info("issued api key")

	return &IssuedKey{
		Secret:  secret.Plaintext,
		Hint:    secret.Hint,
		Message: disclosureNotice,
	}, nil
}
