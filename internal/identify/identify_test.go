package identify

import (
	"strings"
	"testing"

	"github.com/martinsuchenak/netorg/internal/model"
)

func TestDescribe_ChainOrder(t *testing.T) {
	id := New(DefaultThresholds())

	tests := []struct {
		name   string
		client *model.Client
		want   string
	}{
		{
			// A Ring OUI gives a product hint, which wins over every
			// other step even when the hostname also matches.
			name:   "oui hint first",
			client: &model.Client{MAC: "54:e0:19:00:00:01", Hostname: "doorbell-sensor"},
			want:   "Likely a",
		},
		{
			name:   "hostname keyword",
			client: &model.Client{MAC: "de:ad:be:ef:00:01", Hostname: "temp-sensor-garage"},
			want:   "environmental or presence sensor",
		},
		{
			name:   "high traffic volume",
			client: &model.Client{MAC: "de:ad:be:ef:00:02", RxBytes: 2 << 30},
			want:   "High traffic volume",
		},
		{
			name:   "low traffic volume",
			client: &model.Client{MAC: "de:ad:be:ef:00:03", TxBytes: 512},
			want:   "Very low traffic volume",
		},
		{
			name:   "long uptime",
			client: &model.Client{MAC: "de:ad:be:ef:00:04", Uptime: 40 * 24 * 3600},
			want:   "always-on infrastructure",
		},
		{
			name:   "wired",
			client: &model.Client{MAC: "de:ad:be:ef:00:05", Wired: true},
			want:   "Wired device",
		},
		{
			name:   "wireless fair signal",
			client: &model.Client{MAC: "de:ad:be:ef:00:06", Signal: -65},
			want:   "Fair signal, possibly distant or mobile",
		},
		{
			name:   "wireless good signal",
			client: &model.Client{MAC: "de:ad:be:ef:00:07", Signal: -55},
			want:   "Good signal, probably stationary",
		},
		{
			name:   "terminal fallback",
			client: &model.Client{MAC: "de:ad:be:ef:00:08"},
			want:   "Unknown device, inspect manually",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := id.Describe(tt.client)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Describe() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestDescribe_Pure(t *testing.T) {
	id := New(DefaultThresholds())
	c := &model.Client{MAC: "de:ad:be:ef:00:01", Hostname: "hall-display"}

	first := id.Describe(c)
	for i := 0; i < 3; i++ {
		if got := id.Describe(c); got != first {
			t.Fatalf("Describe() not stable: %q then %q", first, got)
		}
	}
}

func TestSignalQuality(t *testing.T) {
	tests := []struct {
		dbm  int
		want string
	}{
		{-30, "Excellent"},
		{-50, "Excellent"},
		{-51, "Good"},
		{-60, "Good"},
		{-61, "Fair"},
		{-70, "Fair"},
		{-71, "Poor"},
		{-90, "Poor"},
	}

	for _, tt := range tests {
		if got := SignalQuality(tt.dbm); got != tt.want {
			t.Errorf("SignalQuality(%d) = %s, want %s", tt.dbm, got, tt.want)
		}
	}
}

func TestConnectionContext(t *testing.T) {
	tests := []struct {
		name   string
		client *model.Client
		want   string
	}{
		{
			name:   "wired with uplink",
			client: &model.Client{Wired: true, Uplink: "office-switch"},
			want:   "wired via office-switch",
		},
		{
			name:   "wired without uplink",
			client: &model.Client{Wired: true},
			want:   "wired",
		},
		{
			name:   "wireless full detail",
			client: &model.Client{SSID: "HomeNet", Uplink: "hall-ap", Signal: -58},
			want:   "wireless, SSID HomeNet, AP hall-ap, -58 dBm (Good)",
		},
		{
			name:   "wireless bare",
			client: &model.Client{},
			want:   "wireless",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConnectionContext(tt.client); got != tt.want {
				t.Errorf("ConnectionContext() = %q, want %q", got, tt.want)
			}
		})
	}
}
