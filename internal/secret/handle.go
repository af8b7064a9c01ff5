package secret

import (
	"context"
	"fmt"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/keyforge/internal/ident"
)

// Handle is a live client-side reference to one secret on the hypervisor.
//
// A Handle caches the secret's identity triple (UUID, usage type, usage
// ID) from the lookup or define call that produced it, so the identity
// getters never issue an RPC. Handles are owned by the Manager that
// created them and are not safe for concurrent use.
type Handle struct {
	mgr      *Manager
	rem      libvirt.Secret
	released bool
}

func newHandle(mgr *Manager, rem libvirt.Secret) *Handle {
	return &Handle{
		mgr: mgr,
		rem: rem,
	}
}

// Manager returns the manager this handle was created by.
func (h *Handle) Manager() *Manager {
	return h.mgr
}

// UUID returns the secret's UUID in canonical textual form.
func (h *Handle) UUID() (string, error) {
	if h.released {
		return "", fmt.Errorf("failed to get secret UUID: %w", ErrReleased)
	}
	return ident.FormatUUID(h.rem.UUID), nil
}

// UsageType returns the secret's usage classification.
func (h *Handle) UsageType() (UsageType, error) {
	if h.released {
		return UsageTypeNone, fmt.Errorf("failed to get secret usage type: %w", ErrReleased)
	}
	return UsageType(h.rem.UsageType), nil
}

// UsageID returns the secret's usage identifier. Secrets with usage
// type "none" have an empty usage ID.
func (h *Handle) UsageID() (string, error) {
	if h.released {
		return "", fmt.Errorf("failed to get secret usage ID: %w", ErrReleased)
	}
	return h.rem.UsageID, nil
}

// XMLDesc fetches the secret's XML description from the hypervisor.
// The XML never contains the secret value.
func (h *Handle) XMLDesc(ctx context.Context, flags uint32) (string, error) {
	if h.released {
		return "", fmt.Errorf("failed to get secret XML: %w", ErrReleased)
	}

	xmlDesc, err := h.mgr.client.SecretGetXMLDesc(h.rem, flags)
	if err != nil {
		return "", &RetrievalError{Op: "SecretGetXMLDesc", Err: err}
	}

	return xmlDesc, nil
}

// SetValue uploads the secret value to the hypervisor.
func (h *Handle) SetValue(ctx context.Context, value []byte, flags uint32) error {
	if h.released {
		return fmt.Errorf("failed to set secret value: %w", ErrReleased)
	}

	if err := ValidateValue(value); err != nil {
		return fmt.Errorf("failed to set secret value: %w", err)
	}

	if err := h.mgr.client.SecretSetValue(h.rem, value, flags); err != nil {
		return &RetrievalError{Op: "SecretSetValue", Err: err}
	}

	return nil
}

// GetValue fetches the secret value from the hypervisor. Fails for
// private secrets and for secrets that have no value set.
func (h *Handle) GetValue(ctx context.Context, flags uint32) ([]byte, error) {
	if h.released {
		return nil, fmt.Errorf("failed to get secret value: %w", ErrReleased)
	}

	value, err := h.mgr.client.SecretGetValue(h.rem, flags)
	if err != nil {
		return nil, &RetrievalError{Op: "SecretGetValue", Err: err}
	}

	return value, nil
}

// Undefine removes the secret definition and any stored value from the
// hypervisor. The handle itself stays usable; later calls through it
// fail with lookup errors from libvirt, not from this package.
func (h *Handle) Undefine(ctx context.Context) error {
	if h.released {
		return fmt.Errorf("failed to undefine secret: %w", ErrReleased)
	}

	if err := h.mgr.client.SecretUndefine(h.rem); err != nil {
		return fmt.Errorf("failed to undefine secret: %w", err)
	}

	return nil
}

// Free releases the handle client-side. The secret on the hypervisor is
// untouched. Every operation on the handle afterwards, Free included,
// fails with ErrReleased.
func (h *Handle) Free() error {
	if h.released {
		return fmt.Errorf("failed to free secret handle: %w", ErrReleased)
	}
	h.released = true
	return nil
}
