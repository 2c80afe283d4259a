package model

import (
	"fmt"
	"net"
)

// Category is one named class of devices together with the IP sub-range
// reserved for it. Ranges are inclusive on both ends.
type Category struct {
	Name        string `json:"name" yaml:"name"`
	StartIP     string `json:"start_ip" yaml:"start_ip"`
	EndIP       string `json:"end_ip" yaml:"end_ip"`
	Priority    int    `json:"priority" yaml:"priority"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Scheme is the ordered set of categories for an organization pass.
// It is static configuration, not derived data.
type Scheme struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Category returns the category with the given name.
func (s *Scheme) Category(name string) (*Category, bool) {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i], true
		}
	}
	return nil, false
}

// Validate checks that every range parses, start <= end, and that no two
// category ranges overlap.
func (s *Scheme) Validate() error {
	type span struct {
		name       string
		start, end uint32
	}
	spans := make([]span, 0, len(s.Categories))

	for _, c := range s.Categories {
		start, err := IPToUint32(c.StartIP)
		if err != nil {
			return fmt.Errorf("category %q: invalid start_ip %q", c.Name, c.StartIP)
		}
		end, err := IPToUint32(c.EndIP)
		if err != nil {
			return fmt.Errorf("category %q: invalid end_ip %q", c.Name, c.EndIP)
		}
		if start > end {
			return fmt.Errorf("category %q: start_ip %s is after end_ip %s", c.Name, c.StartIP, c.EndIP)
		}
		spans = append(spans, span{c.Name, start, end})
	}

	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].start <= spans[j].end && spans[j].start <= spans[i].end {
				return fmt.Errorf("category ranges overlap: %q and %q", spans[i].name, spans[j].name)
			}
		}
	}

	return nil
}

// IPToUint32 converts a dotted-quad IPv4 address to its 32-bit value.
func IPToUint32(s string) (uint32, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, fmt.Errorf("invalid IP address: %s", s)
	}
	v4 := ip.To4()
	if v4 == nil {
		return 0, fmt.Errorf("not an IPv4 address: %s", s)
	}
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3]), nil
}

// Uint32ToIP converts a 32-bit value back to dotted-quad notation.
func Uint32ToIP(v uint32) string {
	return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)).String()
}
