// Package alloc issues sequential, collision-free addresses from per-category
// IP ranges during a single organization pass.
package alloc

import (
	"errors"
	"fmt"

	"github.com/martinsuchenak/netorg/internal/model"
)

// ErrRangeExhausted is returned when a category's range has no free address
// left. It is recoverable at per-client granularity; the pass continues.
var ErrRangeExhausted = errors.New("category range exhausted")

// State tracks allocation progress for one pass: a cursor per category plus
// the set of already-issued addresses. It is an explicit value owned by the
// pass, never shared across passes. The authoritative record of which IP a
// device holds lives in the controller, not here; cursors restart at each
// category's start address every pass, so addresses are not guaranteed
// stable across separate runs (known limitation, see DESIGN.md).
type State struct {
	cursors map[string]uint32
	issued  map[uint32]struct{}
}

// NewState initializes allocation state from the scheme's starting offsets.
func NewState(scheme *model.Scheme) (*State, error) {
	s := &State{
		cursors: make(map[string]uint32, len(scheme.Categories)),
		issued:  make(map[uint32]struct{}),
	}
	for _, c := range scheme.Categories {
		start, err := model.IPToUint32(c.StartIP)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
		s.cursors[c.Name] = start
	}
	return s, nil
}

// Reserve marks an address as already held, so a rerun over a client list
// that includes committed reservations does not double-issue it.
func (s *State) Reserve(ip string) error {
	v, err := model.IPToUint32(ip)
	if err != nil {
		return err
	}
	s.issued[v] = struct{}{}
	return nil
}

// Issued reports whether an address has been handed out this pass.
func (s *State) Issued(ip string) bool {
	v, err := model.IPToUint32(ip)
	if err != nil {
		return false
	}
	_, ok := s.issued[v]
	return ok
}

// Allocate returns the next unused address in the category's range,
// advancing the cursor past it. Addresses already recorded as issued are
// skipped. Returns ErrRangeExhausted once the scan passes the range end.
//
// Not safe for concurrent use; the classify-allocate-commit phase of a pass
// is serialized by design.
func Allocate(category *model.Category, state *State) (string, error) {
	end, err := model.IPToUint32(category.EndIP)
	if err != nil {
		return "", fmt.Errorf("category %q: %w", category.Name, err)
	}

	cursor, ok := state.cursors[category.Name]
	if !ok {
		start, err := model.IPToUint32(category.StartIP)
		if err != nil {
			return "", fmt.Errorf("category %q: %w", category.Name, err)
		}
		cursor = start
	}

	for cursor <= end {
		candidate := cursor
		cursor++
		if _, taken := state.issued[candidate]; taken {
			continue
		}
		state.issued[candidate] = struct{}{}
		state.cursors[category.Name] = cursor
		return model.Uint32ToIP(candidate), nil
	}

	state.cursors[category.Name] = cursor
	return "", fmt.Errorf("%w: %s (%s-%s)", ErrRangeExhausted, category.Name, category.StartIP, category.EndIP)
}
