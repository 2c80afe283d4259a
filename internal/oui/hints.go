package oui

import "strings"

// productHints maps a manufacturer label (matched case-insensitively by
// substring) to the kind of product that vendor usually ships. Consumed by
// the unknown-device identifier as its first fallback.
var productHints = []struct {
	vendor string
	hint   string
}{
	{"ring", "security camera or doorbell"},
	{"hikvision", "security camera or doorbell"},
	{"philips lighting", "smart lighting bridge or bulb"},
	{"espressif", "DIY IoT device (ESP8266/ESP32 based)"},
	{"raspberry pi", "single-board computer, often running home services"},
	{"sonos", "network speaker"},
	{"nest", "thermostat or smart home device"},
	{"ecobee", "thermostat"},
	{"roku", "streaming media player"},
	{"amazon", "Echo speaker, Fire TV, or Kindle"},
	{"google", "Chromecast, Nest, or Pixel device"},
	{"synology", "network attached storage"},
	{"ubiquiti", "network infrastructure device"},
	{"brother", "printer"},
	{"hewlett packard", "printer"},
	{"sonoff", "smart switch or relay"},
}

// ProductHint returns a likely product description for a manufacturer label,
// or "" when the vendor carries no hint.
func ProductHint(manufacturer string) string {
	if manufacturer == "" || manufacturer == Unknown {
		return ""
	}
	m := strings.ToLower(manufacturer)
	for _, h := range productHints {
		if strings.Contains(m, h.vendor) {
			return h.hint
		}
	}
	return ""
}
