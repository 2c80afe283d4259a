// Package identify produces best-effort, human-readable descriptions for
// clients the classifier could not place. Its output is a diagnostic aid
// only and must never be treated as a classification.
package identify

import (
	"fmt"
	"strings"
	"time"

	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/oui"
)

// Thresholds tune the usage and uptime heuristics.
type Thresholds struct {
	HighVolumeBytes int64         // above: computer/NAS/streaming device
	LowVolumeBytes  int64         // below: sensor or controller
	LongUptime      time.Duration // above: always-on infrastructure
}

// DefaultThresholds match typical home-network traffic patterns.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighVolumeBytes: 1 << 30,  // 1 GiB
		LowVolumeBytes:  1 << 20,  // 1 MiB
		LongUptime:      30 * 24 * time.Hour,
	}
}

// Identifier runs the ranked fallback chain. Pure: the same client always
// yields the same description.
type Identifier struct {
	thresholds Thresholds
}

// New creates an identifier with the given thresholds.
func New(t Thresholds) *Identifier {
	return &Identifier{thresholds: t}
}

// hostnameHints are keyword heuristics for step 2 of the chain, checked in
// order.
var hostnameHints = []struct {
	keyword string
	hint    string
}{
	{"bridge", "hub or bridge for smart home devices"},
	{"controller", "automation controller"},
	{"gateway", "protocol gateway"},
	{"sensor", "environmental or presence sensor"},
	{"monitor", "monitoring device"},
	{"display", "wall display or dashboard"},
	{"clock", "smart clock"},
	{"scale", "smart scale"},
	{"weather", "weather station"},
}

// Describe returns a human-readable guess for the client. Always succeeds;
// the terminal fallback is a generic inspect-manually string. First matching
// step in the chain wins.
func (id *Identifier) Describe(c *model.Client) string {
	// 1. Manufacturer hint from the OUI table.
	manufacturer := oui.Lookup(c.MAC)
	if hint := oui.ProductHint(manufacturer); hint != "" {
		return fmt.Sprintf("Likely a %s (%s)", hint, manufacturer)
	}

	// 2. Hostname keyword heuristics.
	name := strings.ToLower(c.DisplayName())
	for _, h := range hostnameHints {
		if strings.Contains(name, h.keyword) {
			return fmt.Sprintf("Name suggests a %s", h.hint)
		}
	}

	// 3. Traffic volume.
	if c.TotalBytes() > id.thresholds.HighVolumeBytes {
		return "High traffic volume suggests a computer, NAS, or streaming device"
	}
	if c.TotalBytes() > 0 && c.TotalBytes() < id.thresholds.LowVolumeBytes {
		return "Very low traffic volume suggests a sensor or simple controller"
	}

	// 4. Uptime.
	if time.Duration(c.Uptime)*time.Second > id.thresholds.LongUptime {
		return "Long uptime suggests always-on infrastructure"
	}

	// 5. Connection type and, for wireless, signal strength.
	if c.Wired {
		return "Wired device, likely stationary equipment near a switch"
	}
	if c.Signal != 0 {
		quality := SignalQuality(c.Signal)
		switch quality {
		case "Excellent", "Good":
			return fmt.Sprintf("Wireless device with %s signal, probably stationary near an access point", quality)
		default:
			return fmt.Sprintf("Wireless device with %s signal, possibly distant or mobile", quality)
		}
	}

	// 6. Terminal fallback.
	return "Unknown device, inspect manually"
}

// SignalQuality bands a wireless RSSI reading in dBm.
func SignalQuality(dbm int) string {
	switch {
	case dbm >= -50:
		return "Excellent"
	case dbm >= -60:
		return "Good"
	case dbm >= -70:
		return "Fair"
	default:
		return "Poor"
	}
}

// ConnectionContext summarizes how the client is attached, for the
// unclassified report entries.
func ConnectionContext(c *model.Client) string {
	if c.Wired {
		if c.Uplink != "" {
			return fmt.Sprintf("wired via %s", c.Uplink)
		}
		return "wired"
	}
	parts := []string{"wireless"}
	if c.SSID != "" {
		parts = append(parts, fmt.Sprintf("SSID %s", c.SSID))
	}
	if c.Uplink != "" {
		parts = append(parts, fmt.Sprintf("AP %s", c.Uplink))
	}
	if c.Signal != 0 {
		parts = append(parts, fmt.Sprintf("%d dBm (%s)", c.Signal, SignalQuality(c.Signal)))
	}
	return strings.Join(parts, ", ")
}
