package lookup

import (
	"context"
	"fmt"

	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/config"
	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/oui"
	"github.com/paularlott/cli"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "lookup",
		Usage:       "Look up a MAC address",
		Description: "Show the manufacturer for a MAC address and the category its OUI prefix would classify into. Works offline.",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "mac", Required: true},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scheme",
				Usage:   "Category scheme YAML file",
				EnvVars: []string{"NETORG_SCHEME_FILE"},
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			mac := cmd.GetStringArg("mac")
			if oui.Prefix(mac) == "" {
				return fmt.Errorf("not a valid MAC address or prefix: %s", mac)
			}

			manufacturer := oui.Lookup(mac)
			fmt.Printf("MAC:          %s\n", mac)
			fmt.Printf("Manufacturer: %s\n", manufacturer)

			if hint := oui.ProductHint(manufacturer); hint != "" {
				fmt.Printf("Likely:       %s\n", hint)
			}

			_, rules, err := config.LoadScheme(cmd.GetString("scheme"))
			if err != nil {
				return err
			}
			classifier, err := classify.New(rules)
			if err != nil {
				return err
			}

			if match, ok := classifier.Classify(&model.Client{MAC: mac}); ok {
				fmt.Printf("Category:     %s (%s rule, priority %d)\n", match.Category, match.Tier.String(), match.Priority)
			} else {
				fmt.Println("Category:     no rule matches this prefix")
			}

			return nil
		},
	}
}
