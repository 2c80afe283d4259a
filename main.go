package main

import (
	"context"
	"os"

	"github.com/martinsuchenak/netorg/cmd/health"
	"github.com/martinsuchenak/netorg/cmd/login"
	"github.com/martinsuchenak/netorg/cmd/lookup"
	"github.com/martinsuchenak/netorg/cmd/organize"
	"github.com/martinsuchenak/netorg/cmd/server"
	"github.com/martinsuchenak/netorg/internal/log"
	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists
	env.Load()

	// Initialize structured logging
	log.Configure("info", "console")

	rootCmd := &cli.Command{
		Name:        "netorg",
		Version:     version,
		Usage:       "Network organizer for UniFi-style controllers",
		Description: "Classifies network clients into categories, assigns each one a fixed IP in its category range, and reports on what it found",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (trace, debug, info, warn, error)",
				DefaultValue: "info",
				EnvVars:      []string{"NETORG_LOG_LEVEL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console, json)",
				DefaultValue: "console",
				EnvVars:      []string{"NETORG_LOG_FORMAT"},
				Global:       true,
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logLevel := cmd.GetString("log-level")
			logFormat := cmd.GetString("log-format")
			log.Configure(logLevel, logFormat)
			return ctx, nil
		},
		Commands: []*cli.Command{
			server.Command(),
			organize.Command(),
			health.Command(),
			lookup.Command(),
			login.Command(),
		},
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		log.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
