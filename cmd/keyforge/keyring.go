package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/ident"
	"github.com/jbweber/keyforge/internal/valuesource"
)

// Flags for the keyring subcommands.
var (
	keyringUserFlag string
	keyringService  string
	keyringLiteral  string
	keyringBase64   string
	keyringFile     string
	keyringEnv      string
)

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage OS keyring entries",
	Long: `Store and remove secret values in the OS keyring.

Entries are stored base64-encoded under the configured service, keyed
by the secret's UUID, so manifests can reference them with
spec.valueFrom.keyring. Pass --user to use an arbitrary account name
instead of a secret UUID.`,
}

func init() {
	keyringCmd.AddCommand(keyringStoreCmd)
	keyringCmd.AddCommand(keyringRmCmd)

	keyringStoreCmd.Flags().StringVar(&keyringUserFlag, "user", "", "Keyring account name to use instead of a secret UUID")
	keyringStoreCmd.Flags().StringVar(&keyringService, "service", "", "Keyring service name (default: configured service)")
	keyringStoreCmd.Flags().StringVar(&keyringLiteral, "literal", "", "Plain-text value")
	keyringStoreCmd.Flags().StringVar(&keyringBase64, "base64", "", "Base64-encoded value")
	keyringStoreCmd.Flags().StringVar(&keyringFile, "file", "", "Read the value from a file")
	keyringStoreCmd.Flags().StringVar(&keyringEnv, "env", "", "Read the value from an environment variable")

	keyringRmCmd.Flags().StringVar(&keyringUserFlag, "user", "", "Keyring account name to use instead of a secret UUID")
	keyringRmCmd.Flags().StringVar(&keyringService, "service", "", "Keyring service name (default: configured service)")
}

// keyringAccount returns the keyring account name from the command
// line: the account for a secret UUID argument, or the --user override.
func keyringAccount(args []string) (string, error) {
	switch {
	case keyringUserFlag != "" && len(args) > 0:
		return "", fmt.Errorf("cannot combine a UUID argument with --user")
	case keyringUserFlag != "":
		return keyringUserFlag, nil
	case len(args) == 1:
		if _, err := ident.ParseUUID(args[0]); err != nil {
			return "", err
		}
		return ident.KeyringUser(args[0]), nil
	default:
		return "", fmt.Errorf("a secret UUID or --user account name is required")
	}
}

var keyringStoreCmd = &cobra.Command{
	Use:   "store [uuid]",
	Short: "Store a value in the OS keyring",
	Long: `Store a secret value in the OS keyring.

The value comes from exactly one source flag and is stored base64
encoded. A manifest whose spec.valueFrom.keyring.user names the same
account picks it up at define time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		user, err := keyringAccount(args)
		if err != nil {
			return err
		}

		resolver := valuesource.NewResolver(cfg.Keyring.Service)

		src := &v1alpha1.ValueSource{
			Literal: keyringLiteral,
			Base64:  keyringBase64,
			File:    keyringFile,
			Env:     keyringEnv,
		}
		value, err := resolver.Resolve(src)
		if err != nil {
			return fmt.Errorf("failed to resolve secret value: %w", err)
		}

		if err := resolver.StoreKeyring(keyringService, user, value); err != nil {
			return err
		}

		fmt.Printf("✓ Stored keyring entry for %s\n", user)
		return nil
	},
}

var keyringRmCmd = &cobra.Command{
	Use:   "rm [uuid]",
	Short: "Remove a keyring entry",
	Long: `Remove a secret value from the OS keyring.

The secret on the hypervisor is untouched; undefine it separately with
"keyforge undefine".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		user, err := keyringAccount(args)
		if err != nil {
			return err
		}

		resolver := valuesource.NewResolver(cfg.Keyring.Service)
		if err := resolver.DeleteKeyring(keyringService, user); err != nil {
			return err
		}

		fmt.Printf("✓ Removed keyring entry for %s\n", user)
		return nil
	},
}
