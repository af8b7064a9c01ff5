package secret

import (
	"encoding/base64"
	"fmt"
)

// MaxValueLen is the largest secret value the libvirt remote protocol
// accepts (REMOTE_SECRET_VALUE_MAX). Values are validated client-side
// so oversized payloads fail before any RPC is attempted.
const MaxValueLen = 65536

// ValidateValue checks that a secret value can be transferred.
// Empty values are allowed; libvirt accepts zero-length secrets.
func ValidateValue(value []byte) error {
	if len(value) > MaxValueLen {
		return fmt.Errorf("secret value is %d bytes, exceeds maximum of %d", len(value), MaxValueLen)
	}
	return nil
}

// EncodeValue returns the base64 form of a secret value, the encoding
// used when a value passes through manifests or the OS keyring.
func EncodeValue(value []byte) string {
	return base64.StdEncoding.EncodeToString(value)
}

// DecodeValue decodes a base64-encoded secret value.
func DecodeValue(encoded string) ([]byte, error) {
	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 secret value: %w", err)
	}
	return value, nil
}
