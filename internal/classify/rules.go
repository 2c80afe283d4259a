package classify

import "fmt"

// Tier orders rule kinds by trust. Metadata reported by the controller
// outranks name keywords, which outrank MAC-prefix heuristics. The numeric
// rule priority breaks ties within a tier only.
type Tier int

const (
	TierMAC  Tier = 1 // OUI prefix heuristics, lowest
	TierName Tier = 2 // display name / hostname keywords
	TierMeta Tier = 3 // OS / device-model fingerprint, highest
)

func (t Tier) String() string {
	switch t {
	case TierMeta:
		return "metadata"
	case TierName:
		return "name"
	case TierMAC:
		return "mac"
	}
	return "unknown"
}

// Rule is one classification signature. Rules are data, not code: new
// device signatures are added to the table (or the scheme YAML file)
// without touching the evaluation algorithm. Exactly one predicate group
// must be set; the group determines the rule's tier.
type Rule struct {
	Category string `yaml:"category"`
	Priority int    `yaml:"priority"`

	NameContains  []string `yaml:"name_contains,omitempty"`
	MACPrefixes   []string `yaml:"mac_prefixes,omitempty"`
	OSContains    []string `yaml:"os_contains,omitempty"`
	ModelContains []string `yaml:"model_contains,omitempty"`
}

// TierOf returns the tier implied by the rule's predicate group.
func (r *Rule) TierOf() Tier {
	if len(r.OSContains) > 0 || len(r.ModelContains) > 0 {
		return TierMeta
	}
	if len(r.NameContains) > 0 {
		return TierName
	}
	return TierMAC
}

// Validate rejects rules with no predicate or predicates from mixed tiers.
func (r *Rule) Validate() error {
	if r.Category == "" {
		return fmt.Errorf("rule has no category")
	}
	meta := len(r.OSContains) > 0 || len(r.ModelContains) > 0
	name := len(r.NameContains) > 0
	mac := len(r.MACPrefixes) > 0

	groups := 0
	for _, set := range []bool{meta, name, mac} {
		if set {
			groups++
		}
	}
	if groups == 0 {
		return fmt.Errorf("rule for category %q has no predicates", r.Category)
	}
	if groups > 1 {
		return fmt.Errorf("rule for category %q mixes predicate tiers", r.Category)
	}
	return nil
}

// DefaultRules is the built-in signature table. It assumes the default
// category scheme; deployments with a custom scheme supply their own table
// in the scheme YAML file.
func DefaultRules() []Rule {
	return []Rule{
		// Metadata tier: explicit signal from the controller fingerprint.
		{Category: "Servers", Priority: 95, OSContains: []string{"synology dsm", "truenas", "unraid", "proxmox", "esxi"}},
		{Category: "Computers", Priority: 90, OSContains: []string{"windows", "macos", "ubuntu", "fedora", "chrome os"}},
		{Category: "Phones", Priority: 85, OSContains: []string{"ios", "android", "ipados"}},
		{Category: "Media", Priority: 80, OSContains: []string{"tvos", "webos", "tizen", "roku os", "android tv"}},
		{Category: "Media", Priority: 75, ModelContains: []string{"apple tv", "chromecast", "shield", "fire tv"}},
		{Category: "Phones", Priority: 70, ModelContains: []string{"iphone", "ipad", "pixel", "galaxy"}},
		{Category: "Computers", Priority: 65, ModelContains: []string{"macbook", "imac", "thinkpad"}},

		// Name tier: keywords in the user alias or DHCP hostname.
		{Category: "Infrastructure", Priority: 100, NameContains: []string{"switch", "router", "gateway", "firewall", "unifi", "-ap-", "ap-", "udm", "usw"}},
		{Category: "Servers", Priority: 90, NameContains: []string{"nas", "server", "srv-", "proxmox", "truenas", "docker", "k8s", "pve"}},
		{Category: "Printers", Priority: 80, NameContains: []string{"printer", "laserjet", "deskjet", "officejet", "brother", "epson"}},
		{Category: "Cameras", Priority: 75, NameContains: []string{"cam", "doorbell", "ring-", "nvr"}},
		{Category: "Media", Priority: 70, NameContains: []string{"tv", "roku", "chromecast", "appletv", "apple-tv", "shield", "sonos", "speaker", "soundbar"}},
		{Category: "Computers", Priority: 60, NameContains: []string{"desktop", "laptop", "macbook", "imac", "-pc", "workstation"}},
		{Category: "Phones", Priority: 55, NameContains: []string{"iphone", "ipad", "pixel", "galaxy", "phone", "oneplus"}},
		{Category: "IoT", Priority: 50, NameContains: []string{"thermostat", "sensor", "plug", "bulb", "hue", "esp", "tasmota", "shelly", "vacuum"}},
		// Room names suggest fixed smart-home gear. Deliberately lower
		// priority than the Servers keywords above, so "nas-office" lands
		// in Servers.
		{Category: "IoT", Priority: 40, NameContains: []string{"office", "bedroom", "kitchen", "living", "hallway", "garage", "garden"}},

		// MAC tier: OUI prefix fallback when nothing else matched.
		{Category: "Infrastructure", Priority: 100, MACPrefixes: []string{"24:a4:3c", "f0:9f:c2", "78:8a:20", "74:ac:b9", "fc:ec:da"}},
		{Category: "Servers", Priority: 90, MACPrefixes: []string{"00:11:32"}},
		{Category: "Printers", Priority: 80, MACPrefixes: []string{"00:1b:a9", "94:57:a5"}},
		{Category: "Cameras", Priority: 75, MACPrefixes: []string{"54:e0:19", "c0:56:e3", "44:19:b6"}},
		{Category: "Media", Priority: 70, MACPrefixes: []string{"b0:a7:37", "cc:6d:a0", "00:0e:58", "5c:aa:fd", "34:d2:70", "44:65:0d", "f0:27:2d", "fc:65:de"}},
		{Category: "IoT", Priority: 60, MACPrefixes: []string{"24:0a:c4", "30:ae:a4", "84:f3:eb", "00:17:88", "18:b4:30", "44:61:32"}},
		// Raspberry Pi boards default to IoT; a nas/server hostname moves
		// them to Servers via the name tier above.
		{Category: "IoT", Priority: 50, MACPrefixes: []string{"b8:27:eb", "dc:a6:32", "e4:5f:01", "28:cd:c1", "d8:3a:dd", "2c:cf:67", "20:f8:3b"}},
	}
}
