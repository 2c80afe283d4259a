package model

// Client represents one client record fetched from the controller.
// MAC is the identity key and is never reassigned within a run.
type Client struct {
	MAC       string `json:"mac"`
	Name      string `json:"name,omitempty"`     // user-assigned alias
	Hostname  string `json:"hostname,omitempty"` // DHCP hostname
	IP        string `json:"ip"`
	Wired     bool   `json:"is_wired"`
	Signal    int    `json:"signal,omitempty"` // dBm, wireless only
	SSID      string `json:"essid,omitempty"`
	Radio     string `json:"radio,omitempty"` // "ng" = 2.4 GHz, "na" = 5 GHz
	UplinkMAC string `json:"uplink_mac,omitempty"` // parent AP or switch
	Uplink    string `json:"uplink_name,omitempty"`

	TxBytes   int64 `json:"tx_bytes"`
	RxBytes   int64 `json:"rx_bytes"`
	TxPackets int64 `json:"tx_packets"`
	RxPackets int64 `json:"rx_packets"`
	Uptime    int64 `json:"uptime"`    // seconds
	LastSeen  int64 `json:"last_seen"` // unix seconds

	// Meta is present only when the controller supplied fingerprint
	// metadata; nil means "metadata absent", never zero values.
	Meta *ClientMeta `json:"meta,omitempty"`
}

// ClientMeta holds optional OS/device fingerprint data from the controller.
type ClientMeta struct {
	OSName      string `json:"os_name,omitempty"`
	DeviceModel string `json:"device_model,omitempty"`
}

// DisplayName returns the best human-readable name for the client.
func (c *Client) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Hostname != "" {
		return c.Hostname
	}
	return c.MAC
}

// TotalBytes returns the combined transfer volume for the client.
func (c *Client) TotalBytes() int64 {
	return c.TxBytes + c.RxBytes
}

// Device represents an infrastructure device (AP, switch, gateway) from the
// controller. Used only to resolve uplink names for descriptive output.
type Device struct {
	MAC     string `json:"mac"`
	Name    string `json:"name"`
	Model   string `json:"model,omitempty"`
	Type    string `json:"type,omitempty"` // "uap", "usw", "ugw"
	IP      string `json:"ip,omitempty"`
	State   int    `json:"state,omitempty"`
	Adopted bool   `json:"adopted,omitempty"`

	NumClients int `json:"num_sta,omitempty"`
}
