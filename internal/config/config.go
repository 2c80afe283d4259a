package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/paularlott/cli"
)

// Config holds the application configuration
type Config struct {
	ControllerURL      string // Base URL of the network controller
	ControllerSite     string // Controller site name (default "default")
	ControllerAPIKey   string // API key for the controller
	ControllerInsecure bool   // Skip TLS verification (self-signed controllers)

	DataDir      string // SQLite data directory
	ListenAddr   string // HTTP listen address for the server
	APIAuthToken string // Bearer token (plain or bcrypt hash) for the API
	MCPAuthToken string // Bearer token for the MCP endpoint

	SchemeFile    string // YAML file with category scheme and rules
	SNMPCommunity string // SNMP community for uplink name resolution ("" = off)
	OrganizeCron  string // Cron spec for scheduled dry-run passes ("" = off)

	ConfigFile string // Path to .env file (if loaded)
}

// GetFlags returns the CLI flags shared by commands that need configuration.
func GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "controller-url",
			Usage:   "Base URL of the network controller (e.g. https://192.168.1.1)",
			EnvVars: []string{"NETORG_CONTROLLER_URL"},
		},
		&cli.StringFlag{
			Name:         "site",
			Usage:        "Controller site name",
			DefaultValue: "default",
			EnvVars:      []string{"NETORG_SITE"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Controller API key",
			EnvVars: []string{"NETORG_API_KEY"},
		},
		&cli.BoolFlag{
			Name:    "insecure",
			Usage:   "Skip TLS certificate verification",
			EnvVars: []string{"NETORG_INSECURE"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Data directory for run history",
			EnvVars: []string{"NETORG_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "Server listen address (e.g. :8080)",
			EnvVars: []string{"NETORG_LISTEN_ADDR"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API bearer token (plain text or bcrypt hash)",
			EnvVars: []string{"NETORG_API_AUTH_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "mcp-token",
			Usage:   "MCP bearer token",
			EnvVars: []string{"NETORG_MCP_AUTH_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "scheme",
			Usage:   "Category scheme YAML file",
			EnvVars: []string{"NETORG_SCHEME_FILE"},
		},
		&cli.StringFlag{
			Name:    "snmp-community",
			Usage:   "SNMP community for uplink name resolution",
			EnvVars: []string{"NETORG_SNMP_COMMUNITY"},
		},
		&cli.StringFlag{
			Name:    "organize-cron",
			Usage:   "Cron spec for scheduled dry-run passes",
			EnvVars: []string{"NETORG_ORGANIZE_CRON"},
		},
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Command-line flags (via cmd, which already folds in env vars)
// 2. .env file (if exists)
// 3. Default values
func Load(cmd *cli.Command) *Config {
	cfg := &Config{
		ControllerSite: "default",
		DataDir:        "./data",
		ListenAddr:     ":8080",
	}

	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := loadFromEnvFile(cfg, envFile); err == nil {
			cfg.ConfigFile = envFile
		}
	}

	if cmd != nil {
		applyFlag(&cfg.ControllerURL, cmd.GetString("controller-url"))
		applyFlag(&cfg.ControllerSite, cmd.GetString("site"))
		applyFlag(&cfg.ControllerAPIKey, cmd.GetString("api-key"))
		if cmd.GetBool("insecure") {
			cfg.ControllerInsecure = true
		}
		applyFlag(&cfg.DataDir, cmd.GetString("data-dir"))
		applyFlag(&cfg.ListenAddr, cmd.GetString("addr"))
		applyFlag(&cfg.APIAuthToken, cmd.GetString("api-token"))
		applyFlag(&cfg.MCPAuthToken, cmd.GetString("mcp-token"))
		applyFlag(&cfg.SchemeFile, cmd.GetString("scheme"))
		applyFlag(&cfg.SNMPCommunity, cmd.GetString("snmp-community"))
		applyFlag(&cfg.OrganizeCron, cmd.GetString("organize-cron"))
	}

	return cfg
}

// loadFromEnvFile loads configuration from a .env file
func loadFromEnvFile(cfg *Config, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE or KEY="VALUE"
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"")

		switch key {
		case "NETORG_CONTROLLER_URL":
			cfg.ControllerURL = value
		case "NETORG_SITE":
			cfg.ControllerSite = value
		case "NETORG_API_KEY":
			cfg.ControllerAPIKey = value
		case "NETORG_INSECURE":
			cfg.ControllerInsecure = value == "true" || value == "1"
		case "NETORG_DATA_DIR":
			cfg.DataDir = value
		case "NETORG_LISTEN_ADDR":
			cfg.ListenAddr = value
		case "NETORG_API_AUTH_TOKEN":
			cfg.APIAuthToken = value
		case "NETORG_MCP_AUTH_TOKEN":
			cfg.MCPAuthToken = value
		case "NETORG_SCHEME_FILE":
			cfg.SchemeFile = value
		case "NETORG_SNMP_COMMUNITY":
			cfg.SNMPCommunity = value
		case "NETORG_ORGANIZE_CRON":
			cfg.OrganizeCron = value
		}
	}

	return scanner.Err()
}

func applyFlag(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// IsMCPEnabled checks if MCP authentication is configured
func (c *Config) IsMCPEnabled() bool {
	return c.MCPAuthToken != ""
}

// IsAPIAuthEnabled checks if API authentication is configured
func (c *Config) IsAPIAuthEnabled() bool {
	return c.APIAuthToken != ""
}

// String returns a string representation of the config source
func (c *Config) String() string {
	if c.ConfigFile != "" {
		return fmt.Sprintf(".env file (%s)", c.ConfigFile)
	}
	return "flags and environment variables"
}
