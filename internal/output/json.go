package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// JSONFormatter renders Secrets as indented JSON.
type JSONFormatter struct{}

// FormatSecret renders one Secret as a JSON object.
func (f *JSONFormatter) FormatSecret(res *v1alpha1.Secret) (string, error) {
	v1alpha1.SetDefaultAPIVersion(res)

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal secret to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatSecretList renders Secrets as a JSON array.
func (f *JSONFormatter) FormatSecretList(secrets []*v1alpha1.Secret) (string, error) {
	if len(secrets) == 0 {
		return "[]\n", nil
	}

	for _, res := range secrets {
		v1alpha1.SetDefaultAPIVersion(res)
	}

	data, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal secrets to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatSecretListAsItems renders Secrets inside a Kubernetes-style
// SecretList envelope, with apiVersion and kind alongside an items array.
func (f *JSONFormatter) FormatSecretListAsItems(secrets []*v1alpha1.Secret) (string, error) {
	for _, res := range secrets {
		v1alpha1.SetDefaultAPIVersion(res)
	}

	envelope := map[string]interface{}{
		"apiVersion": v1alpha1.GroupName + "/" + v1alpha1.Version,
		"kind":       v1alpha1.SecretListKind,
		"items":      secrets,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		return "", fmt.Errorf("failed to marshal secret list to JSON: %w", err)
	}
	return buf.String(), nil
}
