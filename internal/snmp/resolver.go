// Package snmp resolves names for infrastructure devices the controller
// knows only by address, by querying sysName over SNMP.
package snmp

import (
	"context"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/martinsuchenak/netorg/internal/log"
	"github.com/martinsuchenak/netorg/internal/model"
)

const sysNameOID = ".1.3.6.1.2.1.1.5.0"

// Resolver queries devices with SNMP v2c.
type Resolver struct {
	community string
	port      uint16
	timeout   time.Duration
}

// NewResolver creates a resolver for the given community string.
func NewResolver(community string) *Resolver {
	return &Resolver{
		community: community,
		port:      161,
		timeout:   2 * time.Second,
	}
}

// ResolveName returns the device's sysName.
func (r *Resolver) ResolveName(ctx context.Context, ip string) (string, error) {
	snmp := &gosnmp.GoSNMP{
		Target:    ip,
		Port:      r.port,
		Community: r.community,
		Version:   gosnmp.Version2c,
		Timeout:   r.timeout,
		Retries:   1,
		Context:   ctx,
	}

	if err := snmp.Connect(); err != nil {
		return "", fmt.Errorf("snmp connect %s: %w", ip, err)
	}
	defer snmp.Conn.Close()

	result, err := snmp.Get([]string{sysNameOID})
	if err != nil {
		return "", fmt.Errorf("snmp get %s: %w", ip, err)
	}

	for _, v := range result.Variables {
		if v.Type == gosnmp.OctetString {
			if b, ok := v.Value.([]byte); ok && len(b) > 0 {
				return string(b), nil
			}
		}
	}

	return "", fmt.Errorf("snmp get %s: no sysName returned", ip)
}

// EnrichDeviceNames fills in names for devices the controller returned
// unnamed. Failures are logged and skipped; enrichment is best effort.
func (r *Resolver) EnrichDeviceNames(ctx context.Context, devices []model.Device) {
	for i := range devices {
		d := &devices[i]
		if d.Name != "" || d.IP == "" {
			continue
		}
		name, err := r.ResolveName(ctx, d.IP)
		if err != nil {
			log.Debug("SNMP name resolution failed", "ip", d.IP, "error", err)
			continue
		}
		d.Name = name
		log.Debug("Resolved device name via SNMP", "ip", d.IP, "name", name)
	}
}
