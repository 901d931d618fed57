package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	clientcmd "github.com/beaconstream/beacon/internal/cmd/client"
	serverrun "github.com/beaconstream/beacon/internal/cmd/server"
	cfgpkg "github.com/beaconstream/beacon/internal/config"
	logpkg "github.com/beaconstream/beacon/pkg/log"
)

func main() {
	// initialize logger for CLI
	// Respect BEACON_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("BEACON_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "beacon",
		Short: "Beacon event gateway CLI",
		Long:  "Beacon is a single-binary SSE event gateway. This CLI manages the server and basic client operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the beacon gateway (HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			httpAddr, _ := cmd.Flags().GetString("http")
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg := cfgpkg.Default()
			if configPath != "" {
				loaded, err := cfgpkg.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			cfgpkg.FromEnv(&cfg)
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}

			if err := serverrun.Run(ctx, serverrun.Options{
				HTTPAddr: httpAddr,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("http", "", "HTTP listen address (overrides config, default :8000)")
	serverStartCmd.Flags().String("config", os.Getenv("BEACON_CONFIG"), "Path to JSON config file")
	serverStartCmd.Flags().String("log-level", os.Getenv("BEACON_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("BEACON_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// client commands (tail, publish, health)
	rootCmd.AddCommand(clientcmd.NewRoot(gatewayURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func gatewayURL() string {
	if v := os.Getenv("BEACON_GATEWAY_URL"); v != "" {
		return v
	}
	return "http://localhost:8000"
}
