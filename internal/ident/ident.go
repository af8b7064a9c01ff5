// Package ident provides identity conventions for libvirt secrets. This
// includes UUID parsing and formatting between the canonical textual form
// and the 16-byte wire form, and the keyring account naming pattern.
//
// These identity rules are version-independent and shared across all
// API versions.
package ident

import (
	"fmt"
	"strings"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"
)

// ParseUUID parses a textual UUID into the 16-byte form the libvirt
// protocol uses. Accepts any case; the canonical form is lowercase
// 8-4-4-4-12.
//
// Example: "6fa0f562-8e9f-4e28-ad7d-da87efb15b82" → 16 raw bytes
func ParseUUID(s string) (libvirt.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return libvirt.UUID{}, fmt.Errorf("invalid UUID %q: %w", s, err)
	}
	return libvirt.UUID(parsed), nil
}

// FormatUUID formats a 16-byte UUID into the canonical lowercase
// 8-4-4-4-12 textual form.
//
// Example: 16 raw bytes → "6fa0f562-8e9f-4e28-ad7d-da87efb15b82"
func FormatUUID(u libvirt.UUID) string {
	return uuid.UUID(u).String()
}

// NewUUID generates a random UUID in canonical textual form.
func NewUUID() string {
	return uuid.New().String()
}

// ValidateUsageID checks that a usage identifier is acceptable to store.
// Usage IDs name the consuming object (volume path, Ceph auth name, iSCSI
// target); libvirt requires them non-empty for typed usages and they must
// be valid XML text.
func ValidateUsageID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("usage ID must not be empty")
	}
	for _, r := range id {
		if r < 0x20 && r != '\t' {
			return fmt.Errorf("usage ID contains control character %q", r)
		}
	}
	return nil
}

// KeyringUser returns the keyring account name for a secret.
// Format: the secret's canonical UUID string, so one keyring entry maps to
// exactly one hypervisor secret.
func KeyringUser(uuidStr string) string {
	return strings.ToLower(strings.TrimSpace(uuidStr))
}
