package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
)

var (
	// ErrNoIdentity is returned when a credential does not name a user.
	ErrNoIdentity = errors.New("credential carries no user id")
	// ErrProfileUnavailable is returned when the profile fetch fails.
	ErrProfileUnavailable = errors.New("user profile unavailable")
	// ErrCredentialRevoked is returned when the credential disappeared while
	// the profile was being fetched.
	ErrCredentialRevoked = errors.New("credential revoked during resolution")
)

// UserFetcher loads a profile by ID.
type UserFetcher interface {
	GetUser(ctx context.Context, id int64) (*api.User, error)
}

// Resolver turns a credential into a user profile.
type Resolver struct {
	users UserFetcher
	creds api.CredentialSource
	log   *zerolog.Logger
}

// NewResolver creates a resolver. creds is consulted after the profile fetch
// to detect a credential cleared concurrently; it may be nil.
func NewResolver(users UserFetcher, creds api.CredentialSource, logger *zerolog.Logger) *Resolver {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Resolver{users: users, creds: creds, log: logger}
}

// Resolve decodes token and fetches the matching profile. It never returns a
// cached profile and persists nothing.
func (r *Resolver) Resolve(ctx context.Context, token string) (*api.User, error) {
	id, ok := UserIDFromToken(token)
	if !ok {
		return nil, ErrNoIdentity
	}

	user, err := r.users.GetUser(ctx, id)
	if err != nil {
		r.log.Debug().Err(err).Int64("user_id", id).Msg("profile fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	if user == nil {
		return nil, ErrProfileUnavailable
	}

	if r.creds != nil {
		current, present := r.creds.Credential(ctx)
		if !present || current != token {
			r.log.Debug().Int64("user_id", id).Msg("credential changed during resolution")
			return nil, ErrCredentialRevoked
		}
	}

	if user.ID == 0 {
		user.ID = id
	}
	return user, nil
}
