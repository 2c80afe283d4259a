package storage

import (
	"errors"
	"time"

	"github.com/martinsuchenak/netorg/internal/model"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrInvalidID   = errors.New("invalid run ID")
)

// Storage defines the interface for run history persistence
type Storage interface {
	SaveRun(result *model.Result) error
	GetRun(id string) (*model.Result, error)
	ListRuns(limit int) ([]RunSummary, error)
	DeleteRun(id string) error
	ListReservations() ([]Reservation, error)
	Close() error
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Applied      bool      `json:"applied"`
	Total        int       `json:"total"`
	Organized    int       `json:"organized"`
	Unclassified int       `json:"unclassified"`
	Rejected     int       `json:"rejected"`
}

// Reservation records one committed fixed-IP binding.
type Reservation struct {
	MAC         string    `json:"mac"`
	IP          string    `json:"ip"`
	Category    string    `json:"category"`
	Name        string    `json:"name,omitempty"`
	RunID       string    `json:"run_id"`
	CommittedAt time.Time `json:"committed_at"`
}
