package v1alpha1

import "slices"

// Secret represents a libvirt secret managed by Keyforge.
//
// A libvirt secret stores an opaque credential value (volume encryption
// passphrase, Ceph or iSCSI auth key, TLS key, vTPM state key) on the
// hypervisor, addressable by UUID or by a (usage type, usage id) pair.
// This resource separates desired state (Spec) from observed state (Status),
// following Kubernetes API conventions. It can be used standalone via the
// Keyforge CLI or as a Custom Resource Definition in a Kubernetes cluster.
//
// The secret value itself is never part of this resource; Spec.ValueFrom
// names where the value comes from, and Status never echoes it back.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="UUID",type=string,JSONPath=`.status.uuid`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type Secret struct {
	// TypeMeta contains the API version and kind.
	TypeMeta `json:",inline" yaml:",inline"`

	// ObjectMeta contains metadata like name, labels, annotations.
	// +optional
	ObjectMeta `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Spec defines the desired state of the Secret.
	Spec SecretSpec `json:"spec" yaml:"spec"`

	// Status defines the observed state of the Secret.
	// Populated by Keyforge during secret lifecycle operations.
	// +optional
	Status SecretStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// SecretSpec defines the desired state of a Secret.
//
// +k8s:deepcopy-gen=true
type SecretSpec struct {
	// Description is a human-readable description stored with the secret
	// on the hypervisor.
	// +optional
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// UUID is the secret's UUID in canonical textual form.
	// When empty the hypervisor assigns one at definition time.
	// +optional
	UUID string `json:"uuid,omitempty" yaml:"uuid,omitempty"`

	// Ephemeral requests that the hypervisor keep the secret value only in
	// memory, never on disk. Defaults to false.
	// +optional
	Ephemeral bool `json:"ephemeral,omitempty" yaml:"ephemeral,omitempty"`

	// Private makes the secret value write-only: once set it cannot be
	// read back through the management API. Defaults to false.
	// +optional
	Private bool `json:"private,omitempty" yaml:"private,omitempty"`

	// Usage classifies what the secret is used for and binds it to the
	// object that uses it.
	Usage SecretUsageSpec `json:"usage" yaml:"usage"`

	// ValueFrom names the source of the secret value. When set, defining
	// the secret also resolves and uploads the value.
	// +optional
	ValueFrom *ValueSource `json:"valueFrom,omitempty" yaml:"valueFrom,omitempty"`
}

// SecretUsageSpec binds a secret to its consumer.
//
// The ID is interpreted per usage type: the volume path for "volume", the
// Ceph auth name for "ceph", the iSCSI target name for "iscsi", and so on.
// Usage IDs are unique per usage type on a given hypervisor.
//
// +k8s:deepcopy-gen=true
type SecretUsageSpec struct {
	// Type is the usage classification.
	// Valid values: "none" (default), "volume", "ceph", "iscsi", "tls", "vtpm".
	// +optional
	// +kubebuilder:validation:Enum=none;volume;ceph;iscsi;tls;vtpm
	// +kubebuilder:default=none
	Type UsageType `json:"type,omitempty" yaml:"type,omitempty"`

	// ID is the usage identifier. Required for every type except "none".
	// +optional
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// UsageType classifies what a secret is used for.
type UsageType string

const (
	// UsageTypeNone marks a secret with no usage binding.
	UsageTypeNone UsageType = "none"

	// UsageTypeVolume marks a volume encryption secret; the usage ID is
	// the volume path.
	UsageTypeVolume UsageType = "volume"

	// UsageTypeCeph marks a Ceph RBD auth secret; the usage ID is the
	// Ceph auth username.
	UsageTypeCeph UsageType = "ceph"

	// UsageTypeISCSI marks an iSCSI CHAP secret; the usage ID is the
	// target name.
	UsageTypeISCSI UsageType = "iscsi"

	// UsageTypeTLS marks a TLS key secret.
	UsageTypeTLS UsageType = "tls"

	// UsageTypeVTPM marks a vTPM state encryption secret.
	UsageTypeVTPM UsageType = "vtpm"
)

// ValueSource names where a secret value comes from.
// Exactly one field may be set.
//
// +k8s:deepcopy-gen=true
type ValueSource struct {
	// Literal is an inline plain-text value. Avoid for real credentials;
	// prefer Keyring or File so the value stays out of manifests.
	// +optional
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`

	// Base64 is an inline base64-encoded value, for binary secret material.
	// +optional
	Base64 string `json:"base64,omitempty" yaml:"base64,omitempty"`

	// File is a path to a file whose raw contents become the value.
	// +optional
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Env is the name of an environment variable holding the value.
	// +optional
	Env string `json:"env,omitempty" yaml:"env,omitempty"`

	// Keyring reads the value from the OS keyring.
	// +optional
	Keyring *KeyringSource `json:"keyring,omitempty" yaml:"keyring,omitempty"`
}

// KeyringSource identifies an OS keyring entry.
//
// +k8s:deepcopy-gen=true
type KeyringSource struct {
	// Service is the keyring service name. Defaults to the configured
	// keyring service ("keyforge") when empty.
	// +optional
	Service string `json:"service,omitempty" yaml:"service,omitempty"`

	// User is the keyring account name.
	User string `json:"user" yaml:"user"`
}

// SecretStatus defines the observed state of a Secret.
//
// +k8s:deepcopy-gen=true
type SecretStatus struct {
	// Phase represents the current lifecycle phase of the secret.
	// +optional
	// +kubebuilder:validation:Enum=Pending;Defined;Ready;Failed
	Phase SecretPhase `json:"phase,omitempty" yaml:"phase,omitempty"`

	// UUID is the secret's UUID as assigned by the hypervisor.
	// Populated after definition.
	// +optional
	UUID string `json:"uuid,omitempty" yaml:"uuid,omitempty"`

	// Conditions represent the latest available observations of the
	// secret's state.
	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// ObservedGeneration reflects the generation most recently observed by Keyforge.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty" yaml:"observedGeneration,omitempty"`
}

// SecretPhase represents the lifecycle phase of a Secret.
type SecretPhase string

const (
	// SecretPhasePending means the secret has been accepted but not yet
	// defined on the hypervisor.
	SecretPhasePending SecretPhase = "Pending"

	// SecretPhaseDefined means the secret exists on the hypervisor but no
	// value has been set through Keyforge.
	SecretPhaseDefined SecretPhase = "Defined"

	// SecretPhaseReady means the secret is defined and its value is set.
	SecretPhaseReady SecretPhase = "Ready"

	// SecretPhaseFailed means the secret is in a failed state and needs intervention.
	SecretPhaseFailed SecretPhase = "Failed"
)

// Standard condition types for Secret resources.
const (
	// ConditionDefined indicates that the secret exists on the hypervisor.
	ConditionDefined = "Defined"

	// ConditionValueSet indicates that a value has been uploaded for the secret.
	ConditionValueSet = "ValueSet"
)

// DeepCopy returns an independent copy of the Secret.
func (in *Secret) DeepCopy() *Secret {
	if in == nil {
		return nil
	}
	out := Secret{
		TypeMeta:   *in.TypeMeta.DeepCopy(),
		ObjectMeta: *in.ObjectMeta.DeepCopy(),
		Spec:       *in.Spec.DeepCopy(),
		Status:     *in.Status.DeepCopy(),
	}
	return &out
}

// DeepCopy returns an independent copy of the SecretSpec.
func (in *SecretSpec) DeepCopy() *SecretSpec {
	if in == nil {
		return nil
	}
	out := *in
	out.ValueFrom = in.ValueFrom.DeepCopy()
	return &out
}

// DeepCopy returns an independent copy of the SecretUsageSpec.
func (in *SecretUsageSpec) DeepCopy() *SecretUsageSpec {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// DeepCopy returns an independent copy of the ValueSource.
func (in *ValueSource) DeepCopy() *ValueSource {
	if in == nil {
		return nil
	}
	out := *in
	out.Keyring = in.Keyring.DeepCopy()
	return &out
}

// DeepCopy returns an independent copy of the KeyringSource.
func (in *KeyringSource) DeepCopy() *KeyringSource {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// DeepCopy returns an independent copy of the SecretStatus, cloning its
// conditions.
func (in *SecretStatus) DeepCopy() *SecretStatus {
	if in == nil {
		return nil
	}
	out := *in
	out.Conditions = slices.Clone(in.Conditions)
	return &out
}
