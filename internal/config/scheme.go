package config

import (
	"fmt"
	"os"

	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/model"
	"gopkg.in/yaml.v3"
)

// schemeFile is the on-disk shape of the scheme YAML: categories plus an
// optional rule table. Rules omitted means the built-in table.
type schemeFile struct {
	Categories []model.Category `yaml:"categories"`
	Rules      []classify.Rule  `yaml:"rules,omitempty"`
}

// LoadScheme reads the category scheme and rule table from the given YAML
// file. An empty path yields the built-in defaults.
func LoadScheme(path string) (*model.Scheme, []classify.Rule, error) {
	if path == "" {
		return DefaultScheme(), classify.DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scheme file: %w", err)
	}

	var f schemeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing scheme file %s: %w", path, err)
	}

	scheme := &model.Scheme{Categories: f.Categories}
	if len(scheme.Categories) == 0 {
		scheme = DefaultScheme()
	}
	if err := scheme.Validate(); err != nil {
		return nil, nil, fmt.Errorf("scheme file %s: %w", path, err)
	}

	rules := f.Rules
	if len(rules) == 0 {
		rules = classify.DefaultRules()
	}

	return scheme, rules, nil
}

// DefaultScheme organizes a flat 192.168.1.0/24 network. Ranges are
// inclusive and deliberately leave .1 (gateway) and the DHCP tail alone.
func DefaultScheme() *model.Scheme {
	return &model.Scheme{
		Categories: []model.Category{
			{Name: "Infrastructure", StartIP: "192.168.1.2", EndIP: "192.168.1.19", Priority: 100, Description: "Switches, access points, gateways"},
			{Name: "Servers", StartIP: "192.168.1.20", EndIP: "192.168.1.39", Priority: 90, Description: "NAS, hypervisors, home servers"},
			{Name: "Printers", StartIP: "192.168.1.40", EndIP: "192.168.1.49", Priority: 80, Description: "Printers and scanners"},
			{Name: "Cameras", StartIP: "192.168.1.50", EndIP: "192.168.1.69", Priority: 75, Description: "Security cameras and doorbells"},
			{Name: "Media", StartIP: "192.168.1.70", EndIP: "192.168.1.99", Priority: 70, Description: "TVs, streamers, speakers"},
			{Name: "Computers", StartIP: "192.168.1.100", EndIP: "192.168.1.149", Priority: 60, Description: "Desktops and laptops"},
			{Name: "Phones", StartIP: "192.168.1.150", EndIP: "192.168.1.179", Priority: 50, Description: "Phones and tablets"},
			{Name: "IoT", StartIP: "192.168.1.180", EndIP: "192.168.1.219", Priority: 40, Description: "Smart home and IoT devices"},
		},
	}
}
