package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/audit"
	"github.com/jbweber/keyforge/internal/secret"
	"github.com/jbweber/keyforge/internal/valuesource"
)

// Value source flags for "value set".
var (
	valueLiteral        string
	valueBase64         string
	valueFile           string
	valueEnv            string
	valueKeyringUser    string
	valueKeyringService string
)

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Manage secret values",
	Long: `Upload and retrieve the value stored with a secret.

Values live on the hypervisor, never in manifests. The set command
reads the value from exactly one source: an inline literal, a base64
string, a file, an environment variable, or the OS keyring.`,
}

func init() {
	valueCmd.AddCommand(valueSetCmd)
	valueCmd.AddCommand(valueGetCmd)

	valueSetCmd.Flags().StringVar(&valueLiteral, "literal", "", "Plain-text value")
	valueSetCmd.Flags().StringVar(&valueBase64, "base64", "", "Base64-encoded value")
	valueSetCmd.Flags().StringVar(&valueFile, "file", "", "Read the value from a file")
	valueSetCmd.Flags().StringVar(&valueEnv, "env", "", "Read the value from an environment variable")
	valueSetCmd.Flags().StringVar(&valueKeyringUser, "keyring-user", "", "Read the value from an OS keyring entry")
	valueSetCmd.Flags().StringVar(&valueKeyringService, "keyring-service", "", "Keyring service for --keyring-user (default: configured service)")

	valueGetCmd.Flags().Bool("plain", false, "Print the raw value instead of base64")
}

// buildValueSource assembles a value source from the value set flags.
// Validation happens in the resolver.
func buildValueSource() *v1alpha1.ValueSource {
	src := &v1alpha1.ValueSource{
		Literal: valueLiteral,
		Base64:  valueBase64,
		File:    valueFile,
		Env:     valueEnv,
	}
	if valueKeyringUser != "" {
		src.Keyring = &v1alpha1.KeyringSource{
			Service: valueKeyringService,
			User:    valueKeyringUser,
		}
	}
	return src
}

var valueSetCmd = &cobra.Command{
	Use:   "set <uuid>",
	Short: "Set a secret value",
	Long: `Upload a value for a defined secret.

The value comes from exactly one source flag. Values up to 64 KiB are
accepted; larger values are rejected before any upload is attempted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		resolver := valuesource.NewResolver(cfg.Keyring.Service)
		value, err := resolver.Resolve(buildValueSource())
		if err != nil {
			return fmt.Errorf("failed to resolve secret value: %w", err)
		}

		logger, err := newAuditLogger(cfg)
		if err != nil {
			return err
		}
		defer closeAudit(logger)

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

		uuid, err := handle.UUID()
		if err != nil {
			return err
		}

		setErr := handle.SetValue(ctx, value, 0)
		auditResult(logger, audit.ActionSecretSetValue, uuid, handleUsage(handle), setErr)
		if setErr != nil {
			return setErr
		}

		fmt.Printf("✓ Secret value set (%d bytes)\n", len(value))
		return nil
	},
}

var valueGetCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Get a secret value",
	Long: `Fetch the value stored with a secret.

Prints the value base64-encoded; pass --plain for the raw bytes.
Fails for private secrets and for secrets that have no value set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := newAuditLogger(cfg)
		if err != nil {
			return err
		}
		defer closeAudit(logger)

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

		uuid, err := handle.UUID()
		if err != nil {
			return err
		}

		value, getErr := handle.GetValue(ctx, 0)
		auditResult(logger, audit.ActionSecretGetValue, uuid, handleUsage(handle), getErr)
		if getErr != nil {
			return getErr
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			if _, err := os.Stdout.Write(value); err != nil {
				return fmt.Errorf("failed to write secret value: %w", err)
			}
			return nil
		}

		fmt.Println(secret.EncodeValue(value))
		return nil
	},
}
