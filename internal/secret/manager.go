package secret

import (
	"context"
	"fmt"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/keyforge/internal/ident"
)

// LibvirtClient is the interface for libvirt operations.
// This allows for dependency injection and testing.
type LibvirtClient interface {
	ConnectNumOfSecrets() (int32, error)
	ConnectListSecrets(Maxuuids int32) ([]string, error)
	ConnectListAllSecrets(NeedResults int32, Flags libvirt.ConnectListAllSecretsFlags) ([]libvirt.Secret, uint32, error)
	SecretLookupByUUID(UUID libvirt.UUID) (libvirt.Secret, error)
	SecretLookupByUsage(UsageType int32, UsageID string) (libvirt.Secret, error)
	SecretDefineXML(XML string, Flags uint32) (libvirt.Secret, error)
	SecretGetXMLDesc(Secret libvirt.Secret, Flags uint32) (string, error)
	SecretSetValue(Secret libvirt.Secret, Value []byte, Flags uint32) error
	SecretGetValue(Secret libvirt.Secret, Flags uint32) ([]byte, error)
	SecretUndefine(Secret libvirt.Secret) error
}

// Manager coordinates secret operations against one libvirt connection.
// Handles it returns stay bound to this manager.
type Manager struct {
	client LibvirtClient
}

// NewManager creates a new secret manager.
func NewManager(client LibvirtClient) *Manager {
	return &Manager{
		client: client,
	}
}

// NumOfSecrets returns the number of secrets defined on the hypervisor.
func (m *Manager) NumOfSecrets(ctx context.Context) (int, error) {
	num, err := m.client.ConnectNumOfSecrets()
	if err != nil {
		return 0, &RetrievalError{Op: "ConnectNumOfSecrets", Err: err}
	}

	return int(num), nil
}

// ListSecrets returns the UUIDs of all secrets defined on the hypervisor.
func (m *Manager) ListSecrets(ctx context.Context) ([]string, error) {
	num, err := m.client.ConnectNumOfSecrets()
	if err != nil {
		return nil, &RetrievalError{Op: "ConnectNumOfSecrets", Err: err}
	}

	if num == 0 {
		return nil, nil
	}

	uuids, err := m.client.ConnectListSecrets(num)
	if err != nil {
		return nil, &RetrievalError{Op: "ConnectListSecrets", Err: err}
	}

	return uuids, nil
}

// ListAllSecrets returns usage details for all secrets defined on the
// hypervisor.
func (m *Manager) ListAllSecrets(ctx context.Context) ([]Info, error) {
	secrets, _, err := m.client.ConnectListAllSecrets(1, 0)
	if err != nil {
		return nil, &RetrievalError{Op: "ConnectListAllSecrets", Err: err}
	}

	var infos []Info
	for _, rem := range secrets {
		infos = append(infos, Info{
			UUID:      ident.FormatUUID(rem.UUID),
			UsageType: UsageType(rem.UsageType),
			UsageID:   rem.UsageID,
		})
	}

	return infos, nil
}

// LookupByUUID finds a secret by its UUID in canonical textual form.
func (m *Manager) LookupByUUID(ctx context.Context, uuidStr string) (*Handle, error) {
	parsed, err := ident.ParseUUID(uuidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid secret UUID %q: %w", uuidStr, err)
	}

	rem, err := m.client.SecretLookupByUUID(parsed)
	if err != nil {
		return nil, &NotFoundError{Op: "SecretLookupByUUID", Err: err}
	}

	return newHandle(m, rem), nil
}

// LookupByUsage finds a secret by its usage binding. The usage ID is
// passed to the hypervisor as-is, empty included; whether an empty ID
// matches anything is the hypervisor's call.
func (m *Manager) LookupByUsage(ctx context.Context, usageType UsageType, usageID string) (*Handle, error) {
	rem, err := m.client.SecretLookupByUsage(int32(usageType), usageID)
	if err != nil {
		return nil, &NotFoundError{Op: "SecretLookupByUsage", Err: err}
	}

	return newHandle(m, rem), nil
}
