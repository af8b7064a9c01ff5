package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// TableFormatter renders secrets as aligned columns, one row each.
type TableFormatter struct {
	// NoHeaders suppresses the column header row.
	NoHeaders bool
}

// FormatSecret formats a single Secret as a table row.
func (f *TableFormatter) FormatSecret(res *v1alpha1.Secret) (string, error) {
	return f.FormatSecretList([]*v1alpha1.Secret{res})
}

// FormatSecretList formats a list of Secrets as a table.
func (f *TableFormatter) FormatSecretList(secrets []*v1alpha1.Secret) (string, error) {
	if len(secrets) == 0 {
		return "No secrets found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "UUID\tUSAGE\tPHASE\tEPHEMERAL\tPRIVATE\tAGE")
	}

	for _, res := range secrets {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%s\n",
			orDash(res.EffectiveUUID()),
			formatUsage(res),
			orDash(string(res.Status.Phase)),
			res.Spec.Ephemeral,
			res.Spec.Private,
			secretAge(res))
	}

	_ = w.Flush()
	return buf.String(), nil
}

// orDash substitutes "-" for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatUsage renders the usage binding as "type:id", or "-" for
// unbound secrets.
func formatUsage(res *v1alpha1.Secret) string {
	usageType := res.GetUsageType()
	if usageType == v1alpha1.UsageTypeNone {
		return "-"
	}
	return fmt.Sprintf("%s:%s", usageType, res.Spec.Usage.ID)
}

// secretAge renders how long ago the manifest was created, "-" when it
// carries no creation timestamp.
func secretAge(res *v1alpha1.Secret) string {
	if res.CreationTimestamp.IsZero() {
		return "-"
	}
	return formatAge(time.Since(res.CreationTimestamp.Time))
}

// formatAge renders a duration the way kubectl renders ages: the largest
// whole unit among s/m/h/d/w/y, with weeks used only under two months.
func formatAge(d time.Duration) string {
	if d < 0 {
		return "unknown"
	}

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}

	days := int(d.Hours()) / 24
	switch {
	case days >= 365:
		return fmt.Sprintf("%dy", days/365)
	case days >= 7 && days < 56:
		return fmt.Sprintf("%dw", days/7)
	}
	return fmt.Sprintf("%dd", days)
}
