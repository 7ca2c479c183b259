package keyring

import (
	"errors"
	"fmt"

	"github.com/ritual-app/ritual/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no agent secret is stored in the keyring
	ErrNotFound = errors.New("agent secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetAgentSecret retrieves the agent's shared secret from the OS keyring.
// Returns ErrNotFound if no secret is stored.
func GetAgentSecret() (string, error) {
	secret, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// SetAgentSecret stores the agent's shared secret in the OS keyring. The
// agent writes a fresh secret on every startup; clients read it back when
// the lockfile copy is missing or stale.
func SetAgentSecret(secret string) error {
	if secret == "" {
		return errors.New("agent secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, secret); err != nil {
		return fmt.Errorf("failed to store agent secret in keyring: %w", err)
	}
	return nil
}

// DeleteAgentSecret removes the agent's shared secret from the OS keyring.
func DeleteAgentSecret() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete agent secret from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring works but holds nothing for us
	return err == nil || err == keyring.ErrNotFound
}
