// Package settingsstore resolves settings that may come from configuration
// or from the settings table, and reports where each value came from.
package settingsstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// SecretLength is the key size expected by gorilla/csrf.
const SecretLength = 32

const (
	SourceConfiguration = "configuration"
	SourceDatabase      = "database"
	SourceGenerated     = "generated"
)

type Repository interface {
	GetSetting(ctx context.Context, key string) (*entities.Setting, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Priority: configuration > database > generated (and persisted)
type SettingsStore struct {
	repo             Repository
	configuredSecret string
	generateSecret   func() (string, error)
}

func New(repo Repository, configuredSecret string, generate func() (string, error)) *SettingsStore {
	return &SettingsStore{
		repo:             repo,
		configuredSecret: configuredSecret,
		generateSecret:   generate,
	}
}

type SecretInfo struct {
	Secret []byte
	Source string
}

// SessionSecret returns the 32-byte key for CSRF tokens. A configured value
// is used as hex when it decodes to 32 bytes, as raw bytes when it is exactly
// 32 bytes long, and hashed down to 32 bytes otherwise. Without configuration
// the secret is read from the settings table, generating and storing one on
// first use so restarts keep issued tokens valid.
func (s *SettingsStore) SessionSecret(ctx context.Context) (SecretInfo, error) {
	if s.configuredSecret != "" {
		return SecretInfo{Secret: normalizeSecret(s.configuredSecret), Source: SourceConfiguration}, nil
	}

	setting, err := s.repo.GetSetting(ctx, entities.SettingKeySessionSecret)
	switch {
	case err == nil:
		secret, decodeErr := hex.DecodeString(setting.Value)
		if decodeErr == nil && len(secret) == SecretLength {
			return SecretInfo{Secret: secret, Source: SourceDatabase}, nil
		}
		log.Warn().Msg("stored session secret is malformed, generating a new one")
	case !errors.Is(err, catalog.ErrNotFound):
		return SecretInfo{}, fmt.Errorf("failed to load session secret: %w", err)
	}

	encoded, err := s.generateSecret()
	if err != nil {
		return SecretInfo{}, fmt.Errorf("failed to generate session secret: %w", err)
	}
	if err := s.repo.SetSetting(ctx, entities.SettingKeySessionSecret, encoded); err != nil {
		return SecretInfo{}, fmt.Errorf("failed to persist session secret: %w", err)
	}
	secret, err := hex.DecodeString(encoded)
	if err != nil {
		return SecretInfo{}, fmt.Errorf("generated session secret is not hex: %w", err)
	}
	return SecretInfo{Secret: secret, Source: SourceGenerated}, nil
}

func normalizeSecret(value string) []byte {
	if decoded, err := hex.DecodeString(value); err == nil && len(decoded) == SecretLength {
		return decoded
	}
	if len(value) == SecretLength {
		return []byte(value)
	}
	sum := sha256.Sum256([]byte(value))
	return sum[:]
}
