package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a directory without a .env file.
	t.Chdir(t.TempDir())

	cfg := Load(nil)
	if cfg.ControllerSite != "default" {
		t.Errorf("Expected default site, got %q", cfg.ControllerSite)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("Expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("Expected default listen address, got %q", cfg.ListenAddr)
	}
	if cfg.IsAPIAuthEnabled() || cfg.IsMCPEnabled() {
		t.Error("Auth must be off by default")
	}
	if cfg.String() != "flags and environment variables" {
		t.Errorf("Unexpected source string %q", cfg.String())
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# controller settings
NETORG_CONTROLLER_URL=https://192.168.1.1
NETORG_SITE=home
NETORG_API_KEY="key-with-quotes"
NETORG_INSECURE=true
NETORG_API_AUTH_TOKEN=secret

not a key value line
NETORG_ORGANIZE_CRON="0 3 * * *"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Writing env file: %v", err)
	}

	cfg := &Config{}
	if err := loadFromEnvFile(cfg, path); err != nil {
		t.Fatalf("loadFromEnvFile() error = %v", err)
	}

	if cfg.ControllerURL != "https://192.168.1.1" {
		t.Errorf("ControllerURL = %q", cfg.ControllerURL)
	}
	if cfg.ControllerSite != "home" {
		t.Errorf("ControllerSite = %q", cfg.ControllerSite)
	}
	if cfg.ControllerAPIKey != "key-with-quotes" {
		t.Errorf("Quotes not stripped: %q", cfg.ControllerAPIKey)
	}
	if !cfg.ControllerInsecure {
		t.Error("Expected insecure flag set")
	}
	if !cfg.IsAPIAuthEnabled() {
		t.Error("Expected API auth enabled")
	}
	if cfg.OrganizeCron != "0 3 * * *" {
		t.Errorf("OrganizeCron = %q", cfg.OrganizeCron)
	}
}

func TestLoad_EnvFilePickedUp(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("NETORG_SITE=attic\n"), 0600); err != nil {
		t.Fatalf("Writing env file: %v", err)
	}
	t.Chdir(dir)

	cfg := Load(nil)
	if cfg.ControllerSite != "attic" {
		t.Errorf("Expected site from .env, got %q", cfg.ControllerSite)
	}
	if cfg.ConfigFile != ".env" {
		t.Errorf("Expected ConfigFile recorded, got %q", cfg.ConfigFile)
	}
}
