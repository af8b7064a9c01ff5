package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// YAMLFormatter renders Secrets as round-trippable YAML manifests.
type YAMLFormatter struct{}

// FormatSecret renders one Secret as a YAML document.
func (f *YAMLFormatter) FormatSecret(res *v1alpha1.Secret) (string, error) {
	v1alpha1.SetDefaultAPIVersion(res)

	data, err := yaml.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to marshal secret to YAML: %w", err)
	}
	return string(data), nil
}

// FormatSecretList renders Secrets as a YAML stream, one document per
// secret separated by ---.
func (f *YAMLFormatter) FormatSecretList(secrets []*v1alpha1.Secret) (string, error) {
	if len(secrets) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	for i, res := range secrets {
		if i > 0 {
			buf.WriteString("---\n")
		}
		doc, err := f.FormatSecret(res)
		if err != nil {
			return "", err
		}
		buf.WriteString(doc)
	}
	return buf.String(), nil
}
