package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/healthcalc/calcchain/internal/cli"
	"github.com/healthcalc/calcchain/internal/config"
	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the chain API to calculator pages. Configuration comes from
CALCCHAIN_* environment variables; flags override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Addr, _ = flags.GetString("addr")
		}
		if flags.Changed("backend") {
			b, _ := flags.GetString("backend")
			cfg.Backend = config.Backend(b)
		}
		if flags.Changed("redis-addr") {
			cfg.RedisAddr, _ = flags.GetString("redis-addr")
		}
		if flags.Changed("allow-origin") {
			cfg.AllowedOrigins, _ = flags.GetStringSlice("allow-origin")
		}
		if flags.Changed("chains") {
			cfg.ChainsFile, _ = flags.GetString("chains")
		}
		if flags.Changed("log-level") {
			cfg.LogLevel, _ = flags.GetString("log-level")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.NewWithFormat(os.Stderr, level, cfg.LogFormat)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Serve(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("backend", "memory", "Session backend (memory, redis, file)")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address")
	serveCmd.Flags().StringSlice("allow-origin", nil, "Origin allowed to call the API with the session cookie (repeatable)")
}
