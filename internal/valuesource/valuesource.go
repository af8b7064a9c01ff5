// Package valuesource resolves secret values from their declared sources.
//
// A ValueSource in a Secret spec names where the value comes from
// without carrying the value itself, so manifests stay safe to commit.
// This package turns those references into raw bytes: inline literals,
// base64 blobs, files, environment variables, and OS keyring entries.
//
// Keyring entries are stored base64 encoded because the keyring API is
// string-only and secret values may be binary.
package valuesource

import (
	"fmt"
	"os"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/secret"
)

// DefaultKeyringService is the keyring service used when neither the
// source nor the configuration names one.
const DefaultKeyringService = "keyforge"

// Resolver resolves ValueSource specs into raw secret values.
type Resolver struct {
	// DefaultService is the keyring service for sources that do not
	// name their own. Falls back to DefaultKeyringService when empty.
	DefaultService string
}

// NewResolver creates a resolver with the given default keyring service.
func NewResolver(defaultService string) *Resolver {
	return &Resolver{
		DefaultService: defaultService,
	}
}

// Resolve returns the raw secret value named by src.
func (r *Resolver) Resolve(src *v1alpha1.ValueSource) ([]byte, error) {
	if err := Validate(src); err != nil {
		return nil, err
	}

	var value []byte
	switch {
	case src.Literal != "":
		value = []byte(src.Literal)

	case src.Base64 != "":
		decoded, err := secret.DecodeValue(src.Base64)
		if err != nil {
			return nil, err
		}
		value = decoded

	case src.File != "":
		data, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read value file: %w", err)
		}
		value = data

	case src.Env != "":
		env, ok := os.LookupEnv(src.Env)
		if !ok {
			return nil, fmt.Errorf("environment variable %s is not set", src.Env)
		}
		value = []byte(env)

	case src.Keyring != nil:
		entry, err := r.resolveKeyring(src.Keyring)
		if err != nil {
			return nil, err
		}
		value = entry
	}

	if err := secret.ValidateValue(value); err != nil {
		return nil, err
	}

	return value, nil
}

// Validate checks that exactly one source field is set, without
// resolving the value. Inline base64 must decode; file and environment
// sources are only checked for shape since their content can change
// between validation and resolution.
func Validate(src *v1alpha1.ValueSource) error {
	if src == nil {
		return fmt.Errorf("no value source specified")
	}

	count := 0
	if src.Literal != "" {
		count++
	}
	if src.Base64 != "" {
		count++
	}
	if src.File != "" {
		count++
	}
	if src.Env != "" {
		count++
	}
	if src.Keyring != nil {
		count++
	}

	if count == 0 {
		return fmt.Errorf("value source is empty: set one of literal, base64, file, env, keyring")
	}
	if count > 1 {
		return fmt.Errorf("value source sets %d fields, exactly one is allowed", count)
	}

	if src.Keyring != nil && src.Keyring.User == "" {
		return fmt.Errorf("keyring source requires a user")
	}
	if src.Base64 != "" {
		if _, err := secret.DecodeValue(src.Base64); err != nil {
			return err
		}
	}

	return nil
}
