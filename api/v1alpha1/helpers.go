package v1alpha1

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// GroupName and Version identify the API group these types belong to.
	GroupName = "keyforge.cofront.xyz"
	Version   = "v1alpha1"

	// SecretKind and SecretListKind are the kind strings for single
	// resources and list output.
	SecretKind     = "Secret"
	SecretListKind = "SecretList"
)

// NewSecret returns a named Secret with its identity metadata and initial
// phase filled in.
func NewSecret(name string) *Secret {
	return &Secret{
		TypeMeta: TypeMeta{
			APIVersion: GroupName + "/" + Version,
			Kind:       SecretKind,
		},
		ObjectMeta: ObjectMeta{
			Name:              name,
			UID:               uuid.New().String(),
			CreationTimestamp: Time{Time: time.Now()},
			Generation:        1,
		},
		Spec: SecretSpec{
			Usage: SecretUsageSpec{
				Type: UsageTypeNone,
			},
		},
		Status: SecretStatus{
			Phase: SecretPhasePending,
		},
	}
}

// SetDefaultAPIVersion fills in apiVersion and kind when a manifest omits
// them. Fields already set are left alone.
func SetDefaultAPIVersion(secret *Secret) {
	if secret.APIVersion == "" {
		secret.APIVersion = GroupName + "/" + Version
	}
	if secret.Kind == "" {
		secret.Kind = SecretKind
	}
}

// GetUsageType returns the usage type from Spec, mapping an unset type
// to UsageTypeNone.
func (s *Secret) GetUsageType() UsageType {
	if s.Spec.Usage.Type == "" {
		return UsageTypeNone
	}
	return s.Spec.Usage.Type
}

// GetUsageID returns the usage identifier from Spec.
func (s *Secret) GetUsageID() string {
	return s.Spec.Usage.ID
}

// SetPhase records the lifecycle phase in status.
func (s *Secret) SetPhase(phase SecretPhase) {
	s.Status.Phase = phase
}

// GetPhase returns the recorded lifecycle phase.
func (s *Secret) GetPhase() SecretPhase {
	return s.Status.Phase
}

// SetSecretUUID records the hypervisor-assigned UUID in status.
func (s *Secret) SetSecretUUID(uuid string) {
	s.Status.UUID = uuid
}

// GetSecretUUID returns the hypervisor-assigned UUID.
func (s *Secret) GetSecretUUID() string {
	return s.Status.UUID
}

// EffectiveUUID returns the UUID the secret is known by: the one assigned by
// the hypervisor if present, otherwise the one requested in Spec.
func (s *Secret) EffectiveUUID() string {
	if s.Status.UUID != "" {
		return s.Status.UUID
	}
	return s.Spec.UUID
}

// HasValueSource reports whether Spec names a value source.
func (s *Secret) HasValueSource() bool {
	return s.Spec.ValueFrom != nil
}

// UpdateObservedGeneration records that status reflects the current
// metadata.generation.
func (s *Secret) UpdateObservedGeneration() {
	s.Status.ObservedGeneration = s.Generation
}

// Normalize folds user input into canonical form before validation. Names
// and UUIDs are compared case-insensitively everywhere, so they are stored
// lowercase. Usage IDs keep their exact bytes because they must match the
// consuming object (for example a volume path or a Ceph auth name).
func (s *Secret) Normalize() {
	s.Name = strings.ToLower(strings.TrimSpace(s.Name))
	s.Spec.UUID = strings.ToLower(strings.TrimSpace(s.Spec.UUID))
	s.Status.UUID = strings.ToLower(strings.TrimSpace(s.Status.UUID))

	s.Spec.Usage.Type = UsageType(strings.ToLower(strings.TrimSpace(string(s.Spec.Usage.Type))))
	if s.Spec.Usage.Type == "" {
		s.Spec.Usage.Type = UsageTypeNone
	}
}
