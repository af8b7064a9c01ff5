// Package output renders Secret resources for the CLI in table, YAML,
// or JSON form.
package output

import (
	"fmt"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// Format names one of the supported output formats.
type Format string

const (
	// FormatTable renders aligned columns for humans.
	FormatTable Format = "table"
	// FormatYAML renders full manifests suitable for feeding back in.
	FormatYAML Format = "yaml"
	// FormatJSON renders full manifests for machine consumption.
	FormatJSON Format = "json"
)

// Formatter renders Secret resources in one output format.
type Formatter interface {
	// FormatSecret renders a single Secret.
	FormatSecret(res *v1alpha1.Secret) (string, error)

	// FormatSecretList renders a list of Secrets.
	FormatSecretList(secrets []*v1alpha1.Secret) (string, error)
}

// Options selects the format and its knobs.
type Options struct {
	// Format picks the renderer.
	Format Format
	// NoHeaders omits the header row in table format.
	NoHeaders bool
}

// NewFormatter returns the Formatter implementing opts.Format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q (want table, yaml, or json)", opts.Format)
}

// ValidateFormat rejects format strings no formatter implements.
func ValidateFormat(format string) error {
	switch Format(format) {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	}
	return fmt.Errorf("invalid format %q (want table, yaml, or json)", format)
}
