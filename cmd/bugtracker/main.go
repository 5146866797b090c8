package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bugtracker/internal/app"
	"bugtracker/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file if there is one, and otherwise returns
// defaults rooted at the default base directory.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	fallback := config.NewConfig(uuid.New().String(), defaults["base_dir"])
	cfg, err := config.ReadFromFileOrDefault(defaults["config_path"], fallback)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

var rootCmd = &cobra.Command{
	Use:          "bugtracker",
	Short:        "In-memory bug tracking HTTP service",
	SilenceUsage: true,
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("addr") {
			cfg.Server.Address, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Type, _ = cmd.Flags().GetString("store")
		}

		a, err := app.NewBugApp(cfg)
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return a.Serve(ctx)
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		instanceID := uuid.New().String()
		cfg := config.NewConfig(instanceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", defaults["config_path"])
		fmt.Fprintf(cmd.OutOrStdout(), "Instance ID: %s\n", instanceID)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", path)
		fmt.Fprintf(out, "Instance ID:      %s\n", cfg.InstanceID)
		fmt.Fprintf(out, "Base Dir:         %s\n", cfg.BaseDir)
		fmt.Fprintf(out, "Log Dir:          %s\n", cfg.LogDir)
		fmt.Fprintf(out, "Log Level:        %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "Address:          %s\n", cfg.Server.Address)
		fmt.Fprintf(out, "Shutdown Timeout: %s\n", cfg.Server.ShutdownTimeout)
		fmt.Fprintf(out, "Store:            %s\n", cfg.Store.Type)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", config.DefaultAddress, "Listen address")
	serveCmd.Flags().String("store", "memory", "Store backend (memory or sqlite)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
