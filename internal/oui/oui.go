// Package oui maps MAC address prefixes to manufacturer labels.
package oui

import "strings"

// Unknown is returned for prefixes not in the table. It is a valid,
// expected output, not an error.
const Unknown = "Unknown"

// vendors maps the first three octets of a MAC address to a manufacturer.
// Prefixes are lower-case colon-separated.
var vendors = map[string]string{
	// Raspberry Pi
	"b8:27:eb": "Raspberry Pi Foundation",
	"dc:a6:32": "Raspberry Pi Trading",
	"e4:5f:01": "Raspberry Pi Trading",
	"28:cd:c1": "Raspberry Pi Trading",
	"d8:3a:dd": "Raspberry Pi Trading",
	"2c:cf:67": "Raspberry Pi (Trading)",
	"20:f8:3b": "Raspberry Pi Trading",

	// Networking vendors
	"24:a4:3c": "Ubiquiti Inc",
	"f0:9f:c2": "Ubiquiti Inc",
	"78:8a:20": "Ubiquiti Inc",
	"74:ac:b9": "Ubiquiti Inc",
	"fc:ec:da": "Ubiquiti Inc",
	"50:c7:bf": "TP-Link",
	"98:da:c4": "TP-Link",
	"b0:be:76": "TP-Link",
	"00:11:32": "Synology Incorporated",

	// Consumer electronics
	"f0:18:98": "Apple, Inc.",
	"ac:bc:32": "Apple, Inc.",
	"00:03:93": "Apple, Inc.",
	"5c:0a:5b": "Samsung Electro-Mechanics",
	"e8:50:8b": "Samsung Electronics",
	"54:60:09": "Google, Inc.",
	"f4:f5:d8": "Google, Inc.",
	"34:d2:70": "Amazon Technologies Inc.",
	"44:65:0d": "Amazon Technologies Inc.",
	"f0:27:2d": "Amazon Technologies Inc.",
	"fc:65:de": "Amazon Technologies Inc.",
	"b0:a7:37": "Roku, Inc",
	"cc:6d:a0": "Roku, Inc",
	"00:0e:58": "Sonos, Inc.",
	"5c:aa:fd": "Sonos, Inc.",

	// Smart home / IoT
	"00:17:88": "Philips Lighting BV",
	"24:0a:c4": "Espressif Inc.",
	"30:ae:a4": "Espressif Inc.",
	"84:f3:eb": "Espressif Inc.",
	"18:b4:30": "Nest Labs Inc.",
	"44:61:32": "ecobee inc",
	"54:e0:19": "Ring LLC",
	"c0:56:e3": "Hangzhou Hikvision Digital Technology",
	"44:19:b6": "Hangzhou Hikvision Digital Technology",

	// Printers
	"00:1b:a9": "Brother Industries",
	"94:57:a5": "Hewlett Packard",
}

// Lookup returns the manufacturer label for a MAC address, or Unknown.
// Total function: malformed input yields Unknown, never an error.
func Lookup(mac string) string {
	prefix := Prefix(mac)
	if prefix == "" {
		return Unknown
	}
	if vendor, ok := vendors[prefix]; ok {
		return vendor
	}
	return Unknown
}

// Prefix extracts the normalized three-octet OUI prefix from a MAC address.
// Returns "" when the address has fewer than three octets.
func Prefix(mac string) string {
	mac = strings.ToLower(strings.TrimSpace(mac))
	mac = strings.ReplaceAll(mac, "-", ":")
	parts := strings.Split(mac, ":")
	if len(parts) < 3 {
		return ""
	}
	for i := 0; i < 3; i++ {
		if len(parts[i]) != 2 {
			return ""
		}
	}
	return strings.Join(parts[:3], ":")
}
