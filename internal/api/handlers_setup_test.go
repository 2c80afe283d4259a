package api

import (
	"testing"

	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/health"
	"github.com/martinsuchenak/netorg/internal/identify"
	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/organize"
)

func testScheme() *model.Scheme {
	return &model.Scheme{
		Categories: []model.Category{
			{Name: "Servers", StartIP: "192.168.1.20", EndIP: "192.168.1.29", Priority: 90},
			{Name: "Printers", StartIP: "192.168.1.40", EndIP: "192.168.1.49", Priority: 80},
			{Name: "IoT", StartIP: "192.168.1.180", EndIP: "192.168.1.189", Priority: 40},
		},
	}
}

// setupTestHandler wires a handler with in-memory collaborators
func setupTestHandler(t *testing.T, ctrl *mockController) (*Handler, *mockStorage) {
	t.Helper()

	scheme := testScheme()
	classifier := classify.MustNew(classify.DefaultRules())
	identifier := identify.New(identify.DefaultThresholds())
	organizer, err := organize.New(scheme, classifier, identifier, nil)
	if err != nil {
		t.Fatalf("Failed to create organizer: %v", err)
	}

	store := newMockStorage()
	advisor := health.New(health.DefaultConfig())

	return NewHandler(store, ctrl, organizer, advisor, classifier, identifier, scheme), store
}
