// Package session owns the signed-in state of the client: the persisted
// credential, per-user preferences and the facade that coordinates identity
// resolution with room membership.
package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/store"
)

// CredentialKey is the storage key of the bearer credential.
const CredentialKey = "token"

// CredentialStore persists the bearer credential across restarts.
type CredentialStore struct {
	kv  store.KV
	log *zerolog.Logger
}

// NewCredentialStore creates a credential store over kv.
func NewCredentialStore(kv store.KV, logger *zerolog.Logger) *CredentialStore {
	return &CredentialStore{kv: kv, log: orNop(logger)}
}

// Credential returns the stored credential. Read failures are logged and
// reported as no credential.
func (s *CredentialStore) Credential(ctx context.Context) (string, bool) {
	token, ok, err := s.kv.Get(ctx, CredentialKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read credential failed")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetCredential persists token.
func (s *CredentialStore) SetCredential(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, CredentialKey, token); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// ClearCredential removes the stored credential.
func (s *CredentialStore) ClearCredential(ctx context.Context) error {
	if err := s.kv.Delete(ctx, CredentialKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Preferences stores per-user choices.
type Preferences struct {
	kv  store.KV
	log *zerolog.Logger
}

// NewPreferences creates a preference store over kv.
func NewPreferences(kv store.KV, logger *zerolog.Logger) *Preferences {
	return &Preferences{kv: kv, log: orNop(logger)}
}

func directionKey(userID int64) string {
	return "selected_direction_" + strconv.FormatInt(userID, 10)
}

// SelectedDirection returns the direction userID picked on this device.
func (p *Preferences) SelectedDirection(ctx context.Context, userID int64) (int64, bool) {
	raw, ok, err := p.kv.Get(ctx, directionKey(userID))
	if err != nil {
		p.log.Warn().Err(err).Int64("user_id", userID).Msg("read selected direction failed")
		return 0, false
	}
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.log.Warn().Str("value", raw).Int64("user_id", userID).Msg("ignoring malformed selected direction")
		return 0, false
	}
	return id, true
}

// SetSelectedDirection persists the direction choice of userID.
func (p *Preferences) SetSelectedDirection(ctx context.Context, userID, directionID int64) error {
	if err := p.kv.Set(ctx, directionKey(userID), strconv.FormatInt(directionID, 10)); err != nil {
		return fmt.Errorf("store selected direction: %w", err)
	}
	return nil
}

// ClearSelectedDirection forgets the direction choice of userID.
func (p *Preferences) ClearSelectedDirection(ctx context.Context, userID int64) error {
	if err := p.kv.Delete(ctx, directionKey(userID)); err != nil {
		return fmt.Errorf("clear selected direction: %w", err)
	}
	return nil
}

func orNop(logger *zerolog.Logger) *zerolog.Logger {
	if logger != nil {
		return logger
	}
	nop := zerolog.Nop()
	return &nop
}
