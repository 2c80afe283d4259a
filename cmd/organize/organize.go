package organize

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/config"
	"github.com/martinsuchenak/netorg/internal/identify"
	"github.com/martinsuchenak/netorg/internal/log"
	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/organize"
	"github.com/martinsuchenak/netorg/internal/report"
	"github.com/martinsuchenak/netorg/internal/snmp"
	"github.com/martinsuchenak/netorg/internal/storage"
	"github.com/martinsuchenak/netorg/internal/unifi"
	"github.com/paularlott/cli"
)

// printObserver echoes per-client progress to stderr so stdout stays
// clean for the report.
type printObserver struct{}

func (printObserver) ClientOrganized(entry model.OrganizedEntry) {
	fmt.Fprintf(os.Stderr, "  %-20s -> %-15s (%s)\n", entry.Name, entry.AssignedIP, entry.Category)
}

func (printObserver) ClientUnclassified(entry model.UnclassifiedEntry) {
	fmt.Fprintf(os.Stderr, "  %-20s ?  %s\n", entry.Name, entry.Guess)
}

func (printObserver) ClientRejected(entry model.RejectedEntry) {
	fmt.Fprintf(os.Stderr, "  %-20s !  %s\n", entry.Name, entry.Reason)
}

func Command() *cli.Command {
	flags := config.GetFlags()
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "apply",
			Usage: "Commit the assignments as fixed-IP reservations (default is a dry run)",
		},
		&cli.StringFlag{
			Name:         "output",
			Usage:        "Report format (markdown, json, html)",
			DefaultValue: "markdown",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress per-client progress output",
		},
	)

	return &cli.Command{
		Name:        "organize",
		Usage:       "Run one organization pass",
		Description: "Fetch the client list from the controller, classify every client, assign addresses, and print a report. Without --apply nothing is written to the controller.",
		Flags:       flags,
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load(cmd)

			if cfg.ControllerURL == "" {
				return errors.New("controller URL is required (set --controller-url or NETORG_CONTROLLER_URL)")
			}

			scheme, rules, err := config.LoadScheme(cfg.SchemeFile)
			if err != nil {
				return err
			}

			classifier, err := classify.New(rules)
			if err != nil {
				return err
			}
			identifier := identify.New(identify.DefaultThresholds())

			var observer organize.Observer
			if !cmd.GetBool("quiet") {
				observer = printObserver{}
			}

			organizer, err := organize.New(scheme, classifier, identifier, observer)
			if err != nil {
				return err
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
			unifi.ResolveUplinks(clients, devices)

			apply := cmd.GetBool("apply")
			runOpts := organize.Options{Apply: apply}
			if apply {
				runOpts.Committer = controller
			}

			result, err := organizer.Run(ctx, clients, runOpts)
			if err != nil {
				return err
			}

			// Persist the run so the server's history covers CLI passes too.
			if store, err := storage.NewSQLiteStorage(cfg.DataDir); err == nil {
				if err := store.SaveRun(result); err != nil {
					log.Warn("Failed to persist run", "error", err)
				}
				store.Close()
			} else {
				log.Warn("Failed to open run history", "error", err)
			}

			return writeReport(result, cmd.GetString("output"))
		},
	}
}

func writeReport(result *model.Result, format string) error {
	switch format {
	case "json":
		data, err := report.JSON(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "markdown":
		fmt.Print(report.Markdown(result))
	case "html":
		page, err := report.HTML(report.Markdown(result))
		if err != nil {
			return err
		}
		os.Stdout.Write(page)
	default:
		return fmt.Errorf("unknown output format %q (use markdown, json or html)", format)
	}
	return nil
}
