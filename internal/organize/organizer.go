// Package organize drives one pass over the controller's client list:
// classify, allocate, optionally commit, aggregate.
package organize

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/martinsuchenak/netorg/internal/alloc"
	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/identify"
	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/oui"
)

// Committer commits a fixed-IP reservation on the controller. Must be
// idempotent: committing the same (mac, ip) twice is not an error.
type Committer interface {
	CommitReservation(ctx context.Context, mac, ip, hostname string) error
}

// Observer receives per-client events during a pass. The core has no
// output-stream dependency; callers inject logging through this.
type Observer interface {
	ClientOrganized(entry model.OrganizedEntry)
	ClientUnclassified(entry model.UnclassifiedEntry)
	ClientRejected(entry model.RejectedEntry)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) ClientOrganized(model.OrganizedEntry)       {}
func (NopObserver) ClientUnclassified(model.UnclassifiedEntry) {}
func (NopObserver) ClientRejected(model.RejectedEntry)         {}

// Options control one pass.
type Options struct {
	// Apply commits each assignment as a reservation. When false the pass
	// is a dry run and the committer is never invoked.
	Apply     bool
	Committer Committer
}

// Organizer holds the static collaborators for organization passes. It has
// no state across invocations; each Run is a fresh, independent pass.
type Organizer struct {
	scheme     *model.Scheme
	classifier *classify.Classifier
	identifier *identify.Identifier
	observer   Observer
}

// New builds an organizer. The scheme is validated for overlapping ranges.
func New(scheme *model.Scheme, classifier *classify.Classifier, identifier *identify.Identifier, observer Observer) (*Organizer, error) {
	if err := scheme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid category scheme: %w", err)
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Organizer{
		scheme:     scheme,
		classifier: classifier,
		identifier: identifier,
		observer:   observer,
	}, nil
}

// Run processes the client list in input order. The classify-allocate-commit
// phase is strictly sequential; allocation state is owned by this call and
// discarded when it returns. Per-client failures (exhausted ranges, commit
// errors, malformed records) are recorded in the result, never fatal.
func (o *Organizer) Run(ctx context.Context, clients []model.Client, opts Options) (*model.Result, error) {
	state, err := alloc.NewState(o.scheme)
	if err != nil {
		return nil, err
	}

	result := &model.Result{
		RunID:     newRunID(),
		StartedAt: time.Now(),
		Applied:   opts.Apply,
		Summary: model.Summary{
			ByCategory:     make(map[string]int),
			ByConnection:   make(map[string]int),
			ByManufacturer: make(map[string]int),
		},
	}

	for i := range clients {
		c := &clients[i]

		if reason, bad := malformed(c); bad {
			entry := model.RejectedEntry{MAC: c.MAC, Name: c.DisplayName(), Reason: reason}
			result.Rejected = append(result.Rejected, entry)
			o.observer.ClientRejected(entry)
			continue
		}

		o.countClient(result, c)

		match, ok := o.classifier.Classify(c)
		if !ok {
			o.addUnclassified(result, c, o.identifier.Describe(c))
			continue
		}

		category, ok := o.scheme.Category(match.Category)
		if !ok {
			// Rule table names a category the scheme does not carry.
			o.addUnclassified(result, c, fmt.Sprintf("Matched category %q which has no configured range", match.Category))
			continue
		}

		ip, err := o.assign(c, category, state)
		if err != nil {
			o.addUnclassified(result, c, fmt.Sprintf("Classified as %s but %v", category.Name, err))
			continue
		}

		entry := model.OrganizedEntry{
			MAC:          c.MAC,
			Name:         c.DisplayName(),
			PriorIP:      c.IP,
			AssignedIP:   ip,
			Category:     category.Name,
			Manufacturer: oui.Lookup(c.MAC),
			Wired:        c.Wired,
			Uplink:       c.Uplink,
		}

		if opts.Apply && opts.Committer != nil {
			if err := opts.Committer.CommitReservation(ctx, c.MAC, ip, c.Hostname); err != nil {
				entry.CommitError = err.Error()
				result.Summary.CommitFailures++
			} else {
				entry.Committed = true
			}
		}

		result.Organized = append(result.Organized, entry)
		result.Summary.ByCategory[category.Name]++
		o.observer.ClientOrganized(entry)
	}

	result.Summary.Total = len(clients)
	result.Summary.Organized = len(result.Organized)
	result.Summary.Unclassified = len(result.Unclassified)
	result.Summary.Rejected = len(result.Rejected)
	result.FinishedAt = time.Now()

	return result, nil
}

// assign keeps the client's current address when it already sits inside the
// category range and has not been issued this pass; otherwise it allocates
// the next free address.
func (o *Organizer) assign(c *model.Client, category *model.Category, state *alloc.State) (string, error) {
	if c.IP != "" && inRange(category, c.IP) && !state.Issued(c.IP) {
		if err := state.Reserve(c.IP); err == nil {
			return c.IP, nil
		}
	}
	return alloc.Allocate(category, state)
}

func (o *Organizer) addUnclassified(result *model.Result, c *model.Client, guess string) {
	entry := model.UnclassifiedEntry{
		MAC:          c.MAC,
		Name:         c.DisplayName(),
		IP:           c.IP,
		Manufacturer: oui.Lookup(c.MAC),
		Guess:        guess,
		Connection:   identify.ConnectionContext(c),
	}
	result.Unclassified = append(result.Unclassified, entry)
	o.observer.ClientUnclassified(entry)
}

func (o *Organizer) countClient(result *model.Result, c *model.Client) {
	if c.Wired {
		result.Summary.ByConnection["wired"]++
	} else {
		result.Summary.ByConnection["wireless"]++
	}
	result.Summary.ByManufacturer[oui.Lookup(c.MAC)]++
}

// malformed rejects records the pass cannot safely process: a missing or
// unparseable MAC, or a current IP that does not parse. Isolate and
// continue, never abort.
func malformed(c *model.Client) (string, bool) {
	if c.MAC == "" {
		return "missing MAC address", true
	}
	if _, err := net.ParseMAC(c.MAC); err != nil {
		return fmt.Sprintf("unparseable MAC address %q", c.MAC), true
	}
	if c.IP != "" && net.ParseIP(c.IP) == nil {
		return fmt.Sprintf("unparseable IP address %q", c.IP), true
	}
	return "", false
}

func inRange(category *model.Category, ip string) bool {
	v, err := model.IPToUint32(ip)
	if err != nil {
		return false
	}
	start, err := model.IPToUint32(category.StartIP)
	if err != nil {
		return false
	}
	end, err := model.IPToUint32(category.EndIP)
	if err != nil {
		return false
	}
	return v >= start && v <= end
}

// newRunID generates a UUIDv7 run identifier.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
