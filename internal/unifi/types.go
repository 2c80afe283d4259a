package unifi

// Wire types follow the controller's JSON field names. Only the fields the
// organizer and health advisor consume are mapped.

type apiResponse[T any] struct {
	Data []T `json:"data"`
}

type wireClient struct {
	ID        string `json:"_id"`
	MAC       string `json:"mac"`
	Name      string `json:"name,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
	IP        string `json:"ip"`
	IsWired   bool   `json:"is_wired"`
	Signal    int    `json:"signal,omitempty"`
	ESSID     string `json:"essid,omitempty"`
	Radio     string `json:"radio,omitempty"`
	APMAC     string `json:"ap_mac,omitempty"`
	SwMAC     string `json:"sw_mac,omitempty"`
	TxBytes   int64  `json:"tx_bytes"`
	RxBytes   int64  `json:"rx_bytes"`
	TxPackets int64  `json:"tx_packets"`
	RxPackets int64  `json:"rx_packets"`
	Uptime    int64  `json:"uptime"`
	LastSeen  int64  `json:"last_seen"`

	// Fingerprint metadata, absent on controllers without fingerprinting.
	OSName      string `json:"os_name,omitempty"`
	DeviceModel string `json:"dev_id_override,omitempty"`
}

type wireDevice struct {
	ID      string `json:"_id"`
	MAC     string `json:"mac"`
	Name    string `json:"name"`
	Model   string `json:"model,omitempty"`
	Type    string `json:"type,omitempty"`
	IP      string `json:"ip,omitempty"`
	State   int    `json:"state"`
	Adopted bool   `json:"adopted"`
	NumSta  int    `json:"num_sta,omitempty"`
}

type reservationRequest struct {
	MAC        string `json:"mac"`
	UseFixedIP bool   `json:"use_fixedip"`
	FixedIP    string `json:"fixed_ip"`
	Name       string `json:"name,omitempty"`
}
