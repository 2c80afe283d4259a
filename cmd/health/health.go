package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/martinsuchenak/netorg/internal/config"
	"github.com/martinsuchenak/netorg/internal/health"
	"github.com/martinsuchenak/netorg/internal/report"
	"github.com/martinsuchenak/netorg/internal/snmp"
	"github.com/martinsuchenak/netorg/internal/unifi"
	"github.com/paularlott/cli"
)

func Command() *cli.Command {
	flags := config.GetFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:         "output",
			Usage:        "Report format (markdown, json)",
			DefaultValue: "markdown",
		},
	)

	return &cli.Command{
		Name:        "health",
		Usage:       "Evaluate network health",
		Description: "Check for weak wireless signals, overloaded access points and stale clients, and print recommendations",
		Flags:       flags,
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load(cmd)

			if cfg.ControllerURL == "" {
				return errors.New("controller URL is required (set --controller-url or NETORG_CONTROLLER_URL)")
			}

			var opts []unifi.Option
			if cfg.ControllerInsecure {
				opts = append(opts, unifi.WithInsecureTLS())
			}
			controller := unifi.NewClient(cfg.ControllerURL, cfg.ControllerSite, cfg.ControllerAPIKey, opts...)

			clients, err := controller.FetchClients(ctx)
			if err != nil {
				return err
			}
			devices, err := controller.FetchDevices(ctx)
			if err != nil {
				return err
			}

			if cfg.SNMPCommunity != "" {
				resolver := snmp.NewResolver(cfg.SNMPCommunity)
				resolver.EnrichDeviceNames(ctx, devices)
			}

			advisor := health.New(health.DefaultConfig())
			recs := advisor.Evaluate(clients, devices)

			switch cmd.GetString("output") {
			case "json":
				data, err := json.MarshalIndent(recs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			case "markdown":
				fmt.Print(report.HealthMarkdown(recs))
			default:
				return fmt.Errorf("unknown output format %q (use markdown or json)", cmd.GetString("output"))
			}

			return nil
		},
	}
}
