package model

import "time"

// OrganizedEntry is one client that was classified and given an address.
// Immutable once produced, except for the commit outcome recorded against it.
type OrganizedEntry struct {
	MAC          string `json:"mac"`
	Name         string `json:"name"`
	PriorIP      string `json:"prior_ip,omitempty"`
	AssignedIP   string `json:"assigned_ip"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Wired        bool   `json:"wired"`
	Uplink       string `json:"uplink,omitempty"`

	Committed   bool   `json:"committed"`
	CommitError string `json:"commit_error,omitempty"`
}

// UnclassifiedEntry is a client the rule cascade could not place.
type UnclassifiedEntry struct {
	MAC          string `json:"mac"`
	Name         string `json:"name"`
	IP           string `json:"ip,omitempty"`
	Manufacturer string `json:"manufacturer"`
	Guess        string `json:"guess"`      // best-effort description, never a category
	Connection   string `json:"connection"` // wired/wireless context
}

// RejectedEntry is a malformed client record excluded from the pass.
type RejectedEntry struct {
	MAC    string `json:"mac,omitempty"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Summary holds the aggregate counts for one pass.
type Summary struct {
	Total          int            `json:"total"`
	Organized      int            `json:"organized"`
	Unclassified   int            `json:"unclassified"`
	Rejected       int            `json:"rejected"`
	CommitFailures int            `json:"commit_failures"`
	ByCategory     map[string]int `json:"by_category"`
	ByConnection   map[string]int `json:"by_connection"` // "wired" / "wireless"
	ByManufacturer map[string]int `json:"by_manufacturer"`
}

// Result is the full outcome of one organization pass. It carries everything
// report rendering needs without re-querying the classifier.
type Result struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Applied    bool      `json:"applied"`

	Organized    []OrganizedEntry    `json:"organized"`
	Unclassified []UnclassifiedEntry `json:"unclassified"`
	Rejected     []RejectedEntry     `json:"rejected"`
	Summary      Summary             `json:"summary"`
}

// Recommendation is one health finding derived from controller data.
type Recommendation struct {
	Severity string `json:"severity"` // "info", "warning", "critical"
	Subject  string `json:"subject"`  // client or device the finding is about
	Message  string `json:"message"`
}
