// Package v1alpha1 defines the keyforge.cofront.xyz/v1alpha1 resource types.
//
// Manifest metadata follows the Kubernetes object conventions (TypeMeta,
// ObjectMeta, Condition) but is declared locally so manifests stay plain
// YAML files with no apimachinery dependency. Field names and tags line up
// with their upstream counterparts, so a later move to real CRDs would be
// mechanical.
package v1alpha1

import (
	"encoding/json"
	"maps"
	"time"

	"gopkg.in/yaml.v3"
)

// TypeMeta identifies a manifest's kind and schema version.
//
// +k8s:deepcopy-gen=true
type TypeMeta struct {
	// Kind names the resource type, e.g. "Secret".
	// +optional
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version the manifest was written
	// against, e.g. "keyforge.cofront.xyz/v1alpha1".
	// +optional
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
}

// DeepCopy returns an independent copy of the TypeMeta.
func (in *TypeMeta) DeepCopy() *TypeMeta {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// ObjectMeta carries the identifying metadata every manifest has.
//
// +k8s:deepcopy-gen=true
type ObjectMeta struct {
	// Name is the operator-chosen name for the resource,
	// e.g. "ceph-client-key".
	// +optional
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Labels are free-form key/value pairs for organizing manifests.
	// +optional
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// Annotations hold unstructured metadata set by tooling.
	// +optional
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`

	// CreationTimestamp records when the resource was first defined.
	// +optional
	CreationTimestamp Time `json:"creationTimestamp,omitempty" yaml:"creationTimestamp,omitempty"`

	// UID uniquely identifies this resource instance.
	// +optional
	UID string `json:"uid,omitempty" yaml:"uid,omitempty"`

	// Generation increments each time the desired state changes.
	// +optional
	Generation int64 `json:"generation,omitempty" yaml:"generation,omitempty"`
}

// DeepCopy returns an independent copy of the ObjectMeta, cloning its maps.
func (in *ObjectMeta) DeepCopy() *ObjectMeta {
	if in == nil {
		return nil
	}
	out := *in
	out.Labels = maps.Clone(in.Labels)
	out.Annotations = maps.Clone(in.Annotations)
	return &out
}

// Time wraps time.Time so timestamps serialize as RFC3339 strings in both
// JSON and YAML, with the zero value rendered as null.
//
// +k8s:deepcopy-gen=true
type Time struct {
	time.Time `json:"-" yaml:"-"`
}

// DeepCopy returns an independent copy of the Time.
func (in *Time) DeepCopy() *Time {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// MarshalJSON renders the timestamp as an RFC3339 string, or null when zero.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// UnmarshalJSON accepts an RFC3339 string; null and the empty string decode
// to the zero value.
func (t *Time) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null", `""`:
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalYAML renders the timestamp as an RFC3339 scalar, or null when zero.
func (t Time) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(time.RFC3339), nil
}

// UnmarshalYAML accepts an RFC3339 scalar; null and empty nodes decode to
// the zero value.
func (t *Time) UnmarshalYAML(node *yaml.Node) error {
	switch node.Value {
	case "", "null":
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, node.Value)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ConditionStatus is the tri-state value a condition reports.
type ConditionStatus string

const (
	// ConditionTrue means the observed aspect holds.
	ConditionTrue ConditionStatus = "True"
	// ConditionFalse means the observed aspect does not hold.
	ConditionFalse ConditionStatus = "False"
	// ConditionUnknown means the aspect has not been determined yet.
	ConditionUnknown ConditionStatus = "Unknown"
)

// Condition records one observed aspect of a resource's state, such as
// whether a secret is defined on the hypervisor or its value has been
// uploaded.
//
// +k8s:deepcopy-gen=true
type Condition struct {
	// Type names the aspect being reported, e.g. "Defined" or "ValueSet".
	Type string `json:"type" yaml:"type"`

	// Status is True, False, or Unknown.
	Status ConditionStatus `json:"status" yaml:"status"`

	// ObservedGeneration is the metadata.generation the condition was
	// computed from. A value behind the current generation marks the
	// condition as stale.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty" yaml:"observedGeneration,omitempty"`

	// LastTransitionTime is when Status last changed.
	// +optional
	LastTransitionTime Time `json:"lastTransitionTime,omitempty" yaml:"lastTransitionTime,omitempty"`

	// Reason is a short CamelCase token explaining the transition.
	// +optional
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Message is an optional human-readable elaboration.
	// +optional
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// DeepCopy returns an independent copy of the Condition.
func (in *Condition) DeepCopy() *Condition {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}
