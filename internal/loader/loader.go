// Package loader reads and writes Secret manifests.
//
// A manifest is a single YAML document in the keyforge.cofront.xyz/v1alpha1
// format. Loading normalizes identifiers, fills defaults, and validates the
// spec so downstream callers can trust the resource shape.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/ident"
	"github.com/jbweber/keyforge/internal/secret"
	"github.com/jbweber/keyforge/internal/valuesource"
)

// LoadFromFile reads a manifest from disk and decodes it with LoadFromYAML.
func LoadFromFile(path string) (*v1alpha1.Secret, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return LoadFromYAML(data)
}

// LoadFromYAML decodes a Secret manifest, applies defaults, and validates it.
func LoadFromYAML(data []byte) (*v1alpha1.Secret, error) {
	var res v1alpha1.Secret
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := checkTypeMeta(&res); err != nil {
		return nil, err
	}

	applyDefaults(&res)

	if err := validateSpec(&res); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &res, nil
}

// SaveToFile writes a manifest back to disk. Files are created 0600 since
// a manifest may carry an inline literal value.
func SaveToFile(res *v1alpha1.Secret, path string) error {
	v1alpha1.SetDefaultAPIVersion(res)

	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal secret to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}

	return nil
}

// checkTypeMeta rejects manifests that are not keyforge Secrets.
func checkTypeMeta(res *v1alpha1.Secret) error {
	want := v1alpha1.GroupName + "/" + v1alpha1.Version
	switch {
	case res.APIVersion == "":
		return fmt.Errorf("manifest is missing apiVersion")
	case res.Kind == "":
		return fmt.Errorf("manifest is missing kind")
	case res.APIVersion != want:
		return fmt.Errorf("unsupported apiVersion %q, want %s", res.APIVersion, want)
	case res.Kind != v1alpha1.SecretKind:
		return fmt.Errorf("unsupported kind %q, want %s", res.Kind, v1alpha1.SecretKind)
	}
	return nil
}

// applyDefaults normalizes identifiers and fills the initial phase.
func applyDefaults(res *v1alpha1.Secret) {
	res.Normalize()

	if res.Status.Phase == "" {
		res.Status.Phase = v1alpha1.SecretPhasePending
	}
}

// validateSpec rejects specs that libvirt would refuse to define or that
// the value resolver could not act on.
func validateSpec(res *v1alpha1.Secret) error {
	if res.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}

	// A requested UUID must be well formed before it goes near libvirt.
	if res.Spec.UUID != "" {
		if _, err := ident.ParseUUID(res.Spec.UUID); err != nil {
			return fmt.Errorf("spec.uuid: %w", err)
		}
	}

	usageType, err := secret.UsageTypeFromAPI(res.Spec.Usage.Type)
	if err != nil {
		return fmt.Errorf("spec.usage.type: %w", err)
	}

	// Typed usages bind to a consuming object and need an ID. An ID
	// without a type has nothing to bind to.
	if usageType != secret.UsageTypeNone {
		if err := ident.ValidateUsageID(res.Spec.Usage.ID); err != nil {
			return fmt.Errorf("spec.usage.id: %w", err)
		}
	} else if res.Spec.Usage.ID != "" {
		return fmt.Errorf("spec.usage.id requires spec.usage.type")
	}

	if res.Spec.ValueFrom != nil {
		if err := valuesource.Validate(res.Spec.ValueFrom); err != nil {
			return fmt.Errorf("spec.valueFrom: %w", err)
		}
	}

	return nil
}
