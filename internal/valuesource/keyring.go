package valuesource

import (
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/secret"
)

func (r *Resolver) keyringService(named string) string {
	if named != "" {
		return named
	}
	if r.DefaultService != "" {
		return r.DefaultService
	}
	return DefaultKeyringService
}

func (r *Resolver) resolveKeyring(src *v1alpha1.KeyringSource) ([]byte, error) {
	entry, err := keyring.Get(r.keyringService(src.Service), src.User)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve value from keyring: %w", err)
	}

	value, err := secret.DecodeValue(entry)
	if err != nil {
		return nil, fmt.Errorf("keyring entry for %s is not base64 encoded: %w", src.User, err)
	}

	return value, nil
}

// StoreKeyring saves a secret value in the OS keyring under the given
// service and user. The value is base64 encoded before storage so that
// binary payloads survive the string-only keyring API.
func (r *Resolver) StoreKeyring(service, user string, value []byte) error {
	if user == "" {
		return fmt.Errorf("keyring user is required")
	}
	if err := secret.ValidateValue(value); err != nil {
		return err
	}

	if err := keyring.Set(r.keyringService(service), user, secret.EncodeValue(value)); err != nil {
		return fmt.Errorf("failed to store value in keyring: %w", err)
	}

	return nil
}

// DeleteKeyring removes a secret value from the OS keyring.
func (r *Resolver) DeleteKeyring(service, user string) error {
	if user == "" {
		return fmt.Errorf("keyring user is required")
	}

	if err := keyring.Delete(r.keyringService(service), user); err != nil {
		return fmt.Errorf("failed to delete value from keyring: %w", err)
	}

	return nil
}
