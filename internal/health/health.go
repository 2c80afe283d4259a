// Package health derives advisory findings from controller client and
// device data. Pure computation; all I/O belongs to the caller.
package health

import (
	"fmt"
	"time"

	"github.com/martinsuchenak/netorg/internal/identify"
	"github.com/martinsuchenak/netorg/internal/model"
)

// Config tunes the advisory thresholds.
type Config struct {
	WeakSignalDBM  int           // at or below: flag the client
	APLoadWarn     int           // clients per AP before flagging
	Band24Warn     int           // 2.4 GHz clients before flagging (0 = off)
	StaleClientAge time.Duration // last-seen older than this: flag
}

// DefaultConfig matches typical home and small-office deployments.
func DefaultConfig() Config {
	return Config{
		WeakSignalDBM:  -75,
		APLoadWarn:     30,
		Band24Warn:     20,
		StaleClientAge: 14 * 24 * time.Hour,
	}
}

// Advisor computes recommendations from a snapshot of controller data.
type Advisor struct {
	cfg Config
	now func() time.Time
}

// New creates an advisor.
func New(cfg Config) *Advisor {
	return &Advisor{cfg: cfg, now: time.Now}
}

// Evaluate runs all checks and returns the findings in a stable order:
// signal, AP load, band congestion, stale clients.
func (a *Advisor) Evaluate(clients []model.Client, devices []model.Device) []model.Recommendation {
	var recs []model.Recommendation
	recs = append(recs, a.weakSignals(clients)...)
	recs = append(recs, a.apLoad(clients, devices)...)
	recs = append(recs, a.bandCongestion(clients)...)
	recs = append(recs, a.staleClients(clients)...)
	return recs
}

func (a *Advisor) weakSignals(clients []model.Client) []model.Recommendation {
	var recs []model.Recommendation
	for i := range clients {
		c := &clients[i]
		if c.Wired || c.Signal == 0 || c.Signal > a.cfg.WeakSignalDBM {
			continue
		}
		severity := "warning"
		if identify.SignalQuality(c.Signal) == "Poor" && c.Signal <= a.cfg.WeakSignalDBM-10 {
			severity = "critical"
		}
		recs = append(recs, model.Recommendation{
			Severity: severity,
			Subject:  c.DisplayName(),
			Message: fmt.Sprintf("weak signal %d dBm (%s); consider moving the device or adding an access point",
				c.Signal, identify.SignalQuality(c.Signal)),
		})
	}
	return recs
}

func (a *Advisor) apLoad(clients []model.Client, devices []model.Device) []model.Recommendation {
	counts := make(map[string]int)
	for i := range clients {
		if !clients[i].Wired && clients[i].UplinkMAC != "" {
			counts[clients[i].UplinkMAC]++
		}
	}

	names := make(map[string]string, len(devices))
	for i := range devices {
		names[devices[i].MAC] = devices[i].Name
	}

	var recs []model.Recommendation
	// Walk devices rather than the count map for deterministic order.
	for i := range devices {
		d := &devices[i]
		n := counts[d.MAC]
		if n < a.cfg.APLoadWarn {
			continue
		}
		name := names[d.MAC]
		if name == "" {
			name = d.MAC
		}
		recs = append(recs, model.Recommendation{
			Severity: "warning",
			Subject:  name,
			Message:  fmt.Sprintf("%d wireless clients on one access point; consider spreading load", n),
		})
	}
	return recs
}

// bandCongestion flags a crowded 2.4 GHz band. The controller reports the
// radio as "ng" for 2.4 GHz; clients without a radio value are ignored.
func (a *Advisor) bandCongestion(clients []model.Client) []model.Recommendation {
	if a.cfg.Band24Warn <= 0 {
		return nil
	}

	band24 := 0
	for i := range clients {
		if !clients[i].Wired && clients[i].Radio == "ng" {
			band24++
		}
	}
	if band24 < a.cfg.Band24Warn {
		return nil
	}

	return []model.Recommendation{{
		Severity: "warning",
		Subject:  "2.4 GHz band",
		Message:  fmt.Sprintf("%d clients on 2.4 GHz; move dual-band capable clients to 5 GHz", band24),
	}}
}

func (a *Advisor) staleClients(clients []model.Client) []model.Recommendation {
	cutoff := a.now().Add(-a.cfg.StaleClientAge).Unix()

	var recs []model.Recommendation
	for i := range clients {
		c := &clients[i]
		if c.LastSeen == 0 || c.LastSeen >= cutoff {
			continue
		}
		recs = append(recs, model.Recommendation{
			Severity: "info",
			Subject:  c.DisplayName(),
			Message:  fmt.Sprintf("not seen since %s; consider forgetting the client", time.Unix(c.LastSeen, 0).Format("2006-01-02")),
		})
	}
	return recs
}
