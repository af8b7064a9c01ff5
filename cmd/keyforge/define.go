package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/audit"
	"github.com/jbweber/keyforge/internal/loader"
	"github.com/jbweber/keyforge/internal/secret"
	"github.com/jbweber/keyforge/internal/status"
	"github.com/jbweber/keyforge/internal/valuesource"
)

func init() {
	defineCmd.Flags().Bool("save", false, "Write the updated status back to the manifest file")
}

var defineCmd = &cobra.Command{
	Use:   "define <manifest.yaml>",
	Short: "Define a secret from a manifest file",
	Long: `Define a secret on the hypervisor from a YAML manifest.

The manifest declares the secret's UUID, usage binding, and attributes.
When spec.valueFrom names a value source, the value is resolved and
uploaded in the same step. Defining is idempotent: redefining an
existing UUID updates its metadata and leaves any stored value alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		manifestPath := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		res, err := loader.LoadFromFile(manifestPath)
		if err != nil {
			return err
		}

		// Resolve the value before touching the hypervisor so a bad
		// source leaves nothing half-defined.
		var value []byte
		if res.HasValueSource() {
			resolver := valuesource.NewResolver(cfg.Keyring.Service)
			value, err = resolver.Resolve(res.Spec.ValueFrom)
			if err != nil {
				return fmt.Errorf("failed to resolve secret value: %w", err)
			}
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

		_, applyErr := mgr.Apply(ctx, res, value)

		usage := ""
		if res.GetUsageType() != v1alpha1.UsageTypeNone {
			usage = fmt.Sprintf("%s:%s", res.GetUsageType(), res.GetUsageID())
		}

		// The Defined condition tells apart a failed definition from a
		// failed value upload on an already-defined secret.
		if status.IsConditionTrue(res, v1alpha1.ConditionDefined) {
			auditResult(logger, audit.ActionSecretDefine, res.GetSecretUUID(), usage, nil)
			if value != nil {
				auditResult(logger, audit.ActionSecretSetValue, res.GetSecretUUID(), usage, applyErr)
			}
		} else {
			auditResult(logger, audit.ActionSecretDefine, res.EffectiveUUID(), usage, applyErr)
		}
		if applyErr != nil {
			return applyErr
		}

		fmt.Printf("✓ Secret defined: %s\n", res.GetSecretUUID())
		if value != nil {
			fmt.Printf("✓ Secret value set (%d bytes)\n", len(value))
		}
		fmt.Printf("Phase: %s\n", res.GetPhase())
		if !status.IsReady(res.GetPhase()) {
			fmt.Println("Note: no value stored yet; set one with \"keyforge value set\"")
		}

		save, _ := cmd.Flags().GetBool("save")
		if save {
			if err := loader.SaveToFile(res, manifestPath); err != nil {
				return fmt.Errorf("failed to save manifest: %w", err)
			}
			fmt.Printf("✓ Manifest updated: %s\n", manifestPath)
		}

		return nil
	},
}

var undefineCmd = &cobra.Command{
	Use:   "undefine <uuid>",
	Short: "Undefine a secret",
	Long: `Remove a secret definition and any stored value from the hypervisor.

OS keyring entries are not touched; remove those with "keyforge keyring rm".`,
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

		undefineErr := handle.Undefine(ctx)
		auditResult(logger, audit.ActionSecretUndefine, uuid, handleUsage(handle), undefineErr)
		if undefineErr != nil {
			return undefineErr
		}

		fmt.Printf("✓ Secret undefined: %s\n", uuid)
		return nil
	},
}
