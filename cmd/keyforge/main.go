package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbweber/keyforge/internal/audit"
	"github.com/jbweber/keyforge/internal/config"
	"github.com/jbweber/keyforge/internal/libvirt"
	"github.com/jbweber/keyforge/internal/secret"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Persistent flags shared by all commands. Empty or zero values fall
// back to the loaded configuration.
var (
	cfgFile      string
	socketPath   string
	timeoutSecs  int
	outputFormat string
	noHeaders    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keyforge",
	Short: "Keyforge - Libvirt secret management tool",
	Long: `Keyforge is a CLI tool for managing libvirt secrets with simple YAML manifests.

It provides commands to define secrets, upload and retrieve their values,
and keep credential material out of manifests via files, environment
variables, and the OS keyring.`,
	Version: version + " (" + commit + ")",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: <user config dir>/keyforge/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Libvirt unix socket path")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "Libvirt dial timeout in seconds")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, or yaml")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false, "Omit headers in table output")

	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(undefineCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dumpXMLCmd)
	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(keyringCmd)
	rootCmd.AddCommand(testConnCmd)
}

// loadConfig loads the tool configuration and applies command-line
// overrides on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}

	if socketPath != "" {
		cfg.Connection.Socket = socketPath
	}
	if timeoutSecs > 0 {
		cfg.Connection.TimeoutSeconds = timeoutSecs
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if noHeaders {
		cfg.Output.NoHeaders = true
	}

	return cfg, nil
}

// connect dials the libvirt daemon with the connection settings from cfg.
func connect(ctx context.Context, cfg *config.Config) (*libvirt.Client, error) {
	client, err := libvirt.ConnectWithContext(ctx, cfg.Connection.Socket, cfg.Connection.Timeout())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to libvirt: %w", err)
	}
	return client, nil
}

// closeClient releases the libvirt connection, reporting failures on
// stderr so they cannot clobber the command's own error.
func closeClient(client *libvirt.Client) {
	if err := client.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error closing libvirt connection: %v\n", err)
	}
}

// newAuditLogger opens the audit log named in cfg. Returns nil when
// auditing is not configured; auditResult tolerates a nil logger.
func newAuditLogger(cfg *config.Config) (*audit.Logger, error) {
	if cfg.Audit.LogPath == "" {
		return nil, nil
	}
	return audit.NewLogger(cfg.Audit.LogPath)
}

// closeAudit releases the audit log. Safe on a nil logger.
func closeAudit(logger *audit.Logger) {
	if logger == nil {
		return
	}
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error closing audit log: %v\n", err)
	}
}

// auditResult records an operation outcome when auditing is enabled.
// Audit failures never fail the operation itself.
func auditResult(logger *audit.Logger, action audit.Action, uuid, usage string, opErr error) {
	if logger == nil {
		return
	}
	if err := logger.Result(action, uuid, usage, opErr); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write audit entry: %v\n", err)
	}
}

// handleUsage renders the usage binding cached on a handle as "type:id"
// for audit entries, empty for unbound secrets.
func handleUsage(h *secret.Handle) string {
	usageType, err := h.UsageType()
	if err != nil || usageType == secret.UsageTypeNone {
		return ""
	}
	usageID, err := h.UsageID()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:%s", usageType, usageID)
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Check the libvirt connection",
	Long: `Dial the libvirt daemon and report its version, hostname, and how
many secrets it currently holds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Dialing %s...\n", cfg.Connection.Socket)
		client, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		if err := client.Ping(); err != nil {
			return err
		}
		fmt.Println("✓ Daemon answered")

		version, err := client.Version()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Libvirt version: %s\n", version)

		hostname, err := client.Hostname()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Hypervisor: %s\n", hostname)

		mgr := secret.NewManager(client.Libvirt())
		count, err := mgr.NumOfSecrets(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Secrets defined: %d\n", count)

		return nil
	},
}
