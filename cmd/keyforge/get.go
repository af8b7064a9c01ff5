package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/output"
	"github.com/jbweber/keyforge/internal/secret"
)

var getUsage string

func init() {
	getCmd.Flags().StringVar(&getUsage, "usage", "", "Look up by usage binding instead of UUID, as type:id (e.g. ceph:client.admin)")
}

var getCmd = &cobra.Command{
	Use:   "get [uuid]",
	Short: "Get secret details",
	Long: `Display details of a secret in various output formats.

The secret is addressed by its UUID, or by its usage binding with
--usage. Supports table (default), JSON, and YAML output formats.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := output.ValidateFormat(cfg.Output.Format); err != nil {
			return err
		}

		client, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		mgr := secret.NewManager(client.Libvirt())

		handle, err := lookupSecret(ctx, mgr, args)
		if err != nil {
			return err
		}

		res, err := mgr.Describe(ctx, handle)
		if err != nil {
			return err
		}

		formatter, err := newFormatter(cfg.Output.Format, cfg.Output.NoHeaders)
		if err != nil {
			return err
		}

		rendered, err := formatter.FormatSecret(res)
		if err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}

		fmt.Print(rendered)
		return nil
	},
}

// newFormatter builds the formatter selected by the output config.
func newFormatter(format string, noHeaders bool) (output.Formatter, error) {
	return output.NewFormatter(output.Options{
		Format:    output.Format(format),
		NoHeaders: noHeaders,
	})
}

// lookupSecret resolves the secret named by the command line: a UUID
// positional argument or a --usage binding, never both.
func lookupSecret(ctx context.Context, mgr *secret.Manager, args []string) (*secret.Handle, error) {
	switch {
	case getUsage != "" && len(args) > 0:
		return nil, fmt.Errorf("cannot combine a UUID argument with --usage")
	case getUsage != "":
		usageType, usageID, err := parseUsageBinding(getUsage)
		if err != nil {
			return nil, err
		}
		return mgr.LookupByUsage(ctx, usageType, usageID)
	case len(args) == 1:
		return mgr.LookupByUUID(ctx, args[0])
	default:
		return nil, fmt.Errorf("a secret UUID or --usage binding is required")
	}
}

// parseUsageBinding splits a "type:id" usage binding. The ID may itself
// contain colons, as iSCSI target names do.
func parseUsageBinding(s string) (secret.UsageType, string, error) {
	parts := strings.SplitN(s, ":", 2)
	usageType, err := secret.ParseUsageType(parts[0])
	if err != nil {
		return secret.UsageTypeNone, "", err
	}
	usageID := ""
	if len(parts) == 2 {
		usageID = parts[1]
	}
	return usageType, usageID, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List secrets",
	Long: `List all secrets defined on the hypervisor.

Shows UUID, usage binding, phase, and secret attributes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := output.ValidateFormat(cfg.Output.Format); err != nil {
			return err
		}

		client, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		mgr := secret.NewManager(client.Libvirt())

		infos, err := mgr.ListAllSecrets(ctx)
		if err != nil {
			return err
		}

		secrets := make([]*v1alpha1.Secret, 0, len(infos))
		for _, info := range infos {
			handle, err := mgr.LookupByUUID(ctx, info.UUID)
			if err != nil {
				// Undefined between enumeration and lookup
				continue
			}
			res, err := mgr.Describe(ctx, handle)
			if err != nil {
				continue
			}
			secrets = append(secrets, res)
		}

		formatter, err := newFormatter(cfg.Output.Format, cfg.Output.NoHeaders)
		if err != nil {
			return err
		}

		rendered, err := formatter.FormatSecretList(secrets)
		if err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}

		fmt.Print(rendered)
		return nil
	},
}

var dumpXMLCmd = &cobra.Command{
	Use:   "dumpxml <uuid>",
	Short: "Show secret XML",
	Long: `Print the secret's XML description as stored by the hypervisor.

The XML never contains the secret value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		mgr := secret.NewManager(client.Libvirt())

		handle, err := mgr.LookupByUUID(ctx, args[0])
		if err != nil {
			return err
		}

		xmlDesc, err := handle.XMLDesc(ctx, 0)
		if err != nil {
			return err
		}

		fmt.Print(xmlDesc)
		if !strings.HasSuffix(xmlDesc, "\n") {
			fmt.Println()
		}
		return nil
	},
}
