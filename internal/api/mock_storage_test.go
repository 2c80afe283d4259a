package api

import (
	"context"
	"fmt"
	"sort"

	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/storage"
)

// mockStorage is a simple in-memory storage for testing
type mockStorage struct {
	runs         map[string]*model.Result
	reservations map[string]storage.Reservation
	saveErr      error
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		runs:         make(map[string]*model.Result),
		reservations: make(map[string]storage.Reservation),
	}
}

func (m *mockStorage) SaveRun(result *model.Result) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if result.RunID == "" {
		return storage.ErrInvalidID
	}
	m.runs[result.RunID] = result
	for _, entry := range result.Organized {
		if entry.Committed {
			m.reservations[entry.MAC] = storage.Reservation{
				MAC:      entry.MAC,
				IP:       entry.AssignedIP,
				Category: entry.Category,
				Name:     entry.Name,
				RunID:    result.RunID,
			}
		}
	}
	return nil
}

func (m *mockStorage) GetRun(id string) (*model.Result, error) {
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return nil, storage.ErrRunNotFound
}

func (m *mockStorage) ListRuns(limit int) ([]storage.RunSummary, error) {
	var runs []storage.RunSummary
	for _, r := range m.runs {
		runs = append(runs, storage.RunSummary{
			ID:        r.RunID,
			StartedAt: r.StartedAt,
			Applied:   r.Applied,
			Total:     r.Summary.Total,
			Organized: r.Summary.Organized,
		})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *mockStorage) DeleteRun(id string) error {
	if _, ok := m.runs[id]; !ok {
		return storage.ErrRunNotFound
	}
	delete(m.runs, id)
	return nil
}

func (m *mockStorage) ListReservations() ([]storage.Reservation, error) {
	var reservations []storage.Reservation
	for _, r := range m.reservations {
		reservations = append(reservations, r)
	}
	sort.Slice(reservations, func(i, j int) bool { return reservations[i].IP < reservations[j].IP })
	return reservations, nil
}

func (m *mockStorage) Close() error { return nil }

// mockController serves canned controller data and records commits
type mockController struct {
	clients   []model.Client
	devices   []model.Device
	fetchErr  error
	commitErr error
	commits   []string
}

func (m *mockController) FetchClients(ctx context.Context) ([]model.Client, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]model.Client, len(m.clients))
	copy(out, m.clients)
	return out, nil
}

func (m *mockController) FetchDevices(ctx context.Context) ([]model.Device, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]model.Device, len(m.devices))
	copy(out, m.devices)
	return out, nil
}

func (m *mockController) CommitReservation(ctx context.Context, mac, ip, hostname string) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits = append(m.commits, fmt.Sprintf("%s=%s", mac, ip))
	return nil
}
