package health

import (
	"strings"
	"testing"
	"time"

	"github.com/martinsuchenak/netorg/internal/model"
)

func TestEvaluate_WeakSignals(t *testing.T) {
	a := New(DefaultConfig())

	tests := []struct {
		name         string
		client       model.Client
		wantFinding  bool
		wantSeverity string
	}{
		{
			name:         "at threshold",
			client:       model.Client{Name: "cam-garden", Signal: -75},
			wantFinding:  true,
			wantSeverity: "warning",
		},
		{
			name:        "just above threshold",
			client:      model.Client{Name: "tablet", Signal: -74},
			wantFinding: false,
		},
		{
			name:         "deep into poor",
			client:       model.Client{Name: "sensor-shed", Signal: -85},
			wantFinding:  true,
			wantSeverity: "critical",
		},
		{
			name:         "poor but not critical",
			client:       model.Client{Name: "plug-patio", Signal: -80},
			wantFinding:  true,
			wantSeverity: "warning",
		},
		{
			name:        "wired is never flagged",
			client:      model.Client{Name: "nas", Wired: true, Signal: -90},
			wantFinding: false,
		},
		{
			name:        "zero signal means no reading",
			client:      model.Client{Name: "ghost"},
			wantFinding: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := a.Evaluate([]model.Client{tt.client}, nil)
			if !tt.wantFinding {
				if len(recs) != 0 {
					t.Fatalf("Expected no findings, got %+v", recs)
				}
				return
			}
			if len(recs) != 1 {
				t.Fatalf("Expected 1 finding, got %+v", recs)
			}
			if recs[0].Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, recs[0].Severity)
			}
			if !strings.Contains(recs[0].Message, "weak signal") {
				t.Errorf("Unexpected message %q", recs[0].Message)
			}
		})
	}
}

func TestEvaluate_APLoad(t *testing.T) {
	a := New(Config{WeakSignalDBM: -75, APLoadWarn: 3, StaleClientAge: 14 * 24 * time.Hour})

	devices := []model.Device{
		{Name: "hall-ap", MAC: "aa:aa:aa:00:00:01", Type: "uap"},
		{Name: "attic-ap", MAC: "aa:aa:aa:00:00:02", Type: "uap"},
	}

	var clients []model.Client
	for i := 0; i < 3; i++ {
		clients = append(clients, model.Client{Name: "c", Signal: -40, UplinkMAC: "aa:aa:aa:00:00:01"})
	}
	// Wired clients and the second AP's two clients stay under the limit.
	clients = append(clients,
		model.Client{Name: "w", Wired: true, UplinkMAC: "aa:aa:aa:00:00:01"},
		model.Client{Name: "c", Signal: -40, UplinkMAC: "aa:aa:aa:00:00:02"},
		model.Client{Name: "c", Signal: -40, UplinkMAC: "aa:aa:aa:00:00:02"},
	)

	recs := a.Evaluate(clients, devices)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 finding, got %+v", recs)
	}
	if recs[0].Subject != "hall-ap" {
		t.Errorf("Expected the loaded AP by name, got %s", recs[0].Subject)
	}
	if !strings.Contains(recs[0].Message, "3 wireless clients") {
		t.Errorf("Unexpected message %q", recs[0].Message)
	}
}

func TestEvaluate_APLoad_UnnamedDevice(t *testing.T) {
	a := New(Config{WeakSignalDBM: -75, APLoadWarn: 1, StaleClientAge: 14 * 24 * time.Hour})

	devices := []model.Device{{MAC: "aa:aa:aa:00:00:01"}}
	clients := []model.Client{{Name: "c", Signal: -40, UplinkMAC: "aa:aa:aa:00:00:01"}}

	recs := a.Evaluate(clients, devices)
	if len(recs) != 1 || recs[0].Subject != "aa:aa:aa:00:00:01" {
		t.Errorf("Expected the MAC as subject fallback, got %+v", recs)
	}
}

func TestEvaluate_BandCongestion(t *testing.T) {
	a := New(Config{WeakSignalDBM: -75, APLoadWarn: 30, Band24Warn: 3, StaleClientAge: 14 * 24 * time.Hour})

	clients := []model.Client{
		{Name: "a", Signal: -40, Radio: "ng"},
		{Name: "b", Signal: -40, Radio: "ng"},
		{Name: "c", Signal: -40, Radio: "na"},
		{Name: "d", Wired: true, Radio: "ng"}, // wired record, ignored
	}

	if recs := a.Evaluate(clients, nil); len(recs) != 0 {
		t.Fatalf("Two 2.4 GHz clients must stay under the limit, got %+v", recs)
	}

	clients = append(clients, model.Client{Name: "e", Signal: -40, Radio: "ng"})
	recs := a.Evaluate(clients, nil)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 finding, got %+v", recs)
	}
	if recs[0].Subject != "2.4 GHz band" || !strings.Contains(recs[0].Message, "3 clients on 2.4 GHz") {
		t.Errorf("Unexpected finding %+v", recs[0])
	}
}

func TestEvaluate_StaleClients(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := New(DefaultConfig())
	a.now = func() time.Time { return now }

	clients := []model.Client{
		{Name: "old-tablet", LastSeen: now.Add(-15 * 24 * time.Hour).Unix()},
		{Name: "fresh-phone", LastSeen: now.Add(-1 * time.Hour).Unix()},
		{Name: "never-seen"},
	}

	recs := a.Evaluate(clients, nil)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 finding, got %+v", recs)
	}
	if recs[0].Severity != "info" || recs[0].Subject != "old-tablet" {
		t.Errorf("Unexpected finding %+v", recs[0])
	}
	if !strings.Contains(recs[0].Message, "2025-05-17") {
		t.Errorf("Expected last-seen date in message, got %q", recs[0].Message)
	}
}

func TestEvaluate_StableOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := New(Config{WeakSignalDBM: -75, APLoadWarn: 1, StaleClientAge: 14 * 24 * time.Hour})
	a.now = func() time.Time { return now }

	clients := []model.Client{
		{Name: "weak", Signal: -80, UplinkMAC: "aa:aa:aa:00:00:01"},
		{Name: "stale", LastSeen: now.Add(-30 * 24 * time.Hour).Unix()},
	}
	devices := []model.Device{{Name: "ap", MAC: "aa:aa:aa:00:00:01"}}

	recs := a.Evaluate(clients, devices)
	if len(recs) != 3 {
		t.Fatalf("Expected 3 findings, got %+v", recs)
	}
	// Signal findings come first, then AP load, then stale clients.
	if recs[0].Subject != "weak" || recs[1].Subject != "ap" || recs[2].Subject != "stale" {
		t.Errorf("Unexpected order: %s, %s, %s", recs[0].Subject, recs[1].Subject, recs[2].Subject)
	}
}

func TestEvaluate_HealthyNetwork(t *testing.T) {
	a := New(DefaultConfig())

	recs := a.Evaluate([]model.Client{{Name: "fine", Signal: -45}}, nil)
	if len(recs) != 0 {
		t.Errorf("Expected no findings, got %+v", recs)
	}
}
