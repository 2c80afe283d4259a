// Package classify assigns client records to categories using an ordered
// rule cascade over hostname keywords, MAC prefixes, and controller
// fingerprint metadata.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/oui"
)

// Match is a successful classification.
type Match struct {
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Tier     Tier   `json:"-"`
	Matched  string `json:"matched,omitempty"` // the predicate value that fired
}

// Classifier evaluates a rule table in strict tier-then-priority order.
// Safe for concurrent use; the rule table is immutable after construction.
type Classifier struct {
	rules []Rule
}

// New builds a classifier from a rule table. Rules are validated and then
// sorted by tier (metadata > name > mac) and priority, descending; table
// order is the final, deterministic tie-break.
func New(rules []Rule) (*Classifier, error) {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].TierOf(), sorted[j].TierOf()
		if ti != tj {
			return ti > tj
		}
		return sorted[i].Priority > sorted[j].Priority
	})

	return &Classifier{rules: sorted}, nil
}

// MustNew is New for the built-in table, which is known valid.
func MustNew(rules []Rule) *Classifier {
	c, err := New(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the first matching rule's category, or ok=false when no
// rule matches. A non-match is not an error; such clients go to the
// unknown-device identifier instead.
func (c *Classifier) Classify(client *model.Client) (Match, bool) {
	name := strings.ToLower(client.DisplayName())
	prefix := oui.Prefix(client.MAC)

	var osName, devModel string
	if client.Meta != nil {
		osName = strings.ToLower(client.Meta.OSName)
		devModel = strings.ToLower(client.Meta.DeviceModel)
	}

	for i := range c.rules {
		r := &c.rules[i]
		if matched, value := ruleMatches(r, name, prefix, osName, devModel); matched {
			return Match{
				Category: r.Category,
				Priority: r.Priority,
				Tier:     r.TierOf(),
				Matched:  value,
			}, true
		}
	}

	return Match{}, false
}

func ruleMatches(r *Rule, name, macPrefix, osName, devModel string) (bool, string) {
	for _, s := range r.OSContains {
		if osName != "" && strings.Contains(osName, s) {
			return true, s
		}
	}
	for _, s := range r.ModelContains {
		if devModel != "" && strings.Contains(devModel, s) {
			return true, s
		}
	}
	for _, s := range r.NameContains {
		if name != "" && strings.Contains(name, s) {
			return true, s
		}
	}
	for _, p := range r.MACPrefixes {
		if macPrefix != "" && macPrefix == strings.ToLower(p) {
			return true, p
		}
	}
	return false, ""
}
