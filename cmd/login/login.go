package login

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paularlott/cli"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "login",
		Usage:       "Set the API token",
		Description: "Prompt for an API token, store its bcrypt hash in .env, and print the plain token once for clients to use",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "env-file",
				Usage:        "Path to the .env file to update",
				DefaultValue: ".env",
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprint(os.Stderr, "API token: ")
			token, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("reading token: %w", err)
			}
			if len(token) == 0 {
				return errors.New("token must not be empty")
			}

			hash, err := bcrypt.GenerateFromPassword(token, bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hashing token: %w", err)
			}

			envFile := cmd.GetString("env-file")
			if err := setEnvValue(envFile, "NETORG_API_AUTH_TOKEN", string(hash)); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Token hash written to %s\n", envFile)
			return nil
		},
	}
}

// setEnvValue updates or appends KEY=VALUE in the env file, keeping all
// other lines untouched.
func setEnvValue(path, key, value string) error {
	var lines []string

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err == nil {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	line := fmt.Sprintf("%s=%q", key, value)
	replaced := false
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), key+"=") {
			lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, line)
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600)
}
