// Package report renders organization results and health findings into
// machine-readable (JSON) and narrative (Markdown, HTML) forms.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/martinsuchenak/netorg/internal/model"
)

// JSON serializes the result for machine consumption.
func JSON(result *model.Result) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// Markdown renders the narrative report. Everything here is derived from
// the result alone; the classifier is never re-queried.
func Markdown(result *model.Result) string {
	var b strings.Builder

	b.WriteString("# Network Organization Report\n\n")
	mode := "dry run"
	if result.Applied {
		mode = "applied"
	}
	fmt.Fprintf(&b, "Run `%s` (%s), started %s.\n\n", result.RunID, mode, result.StartedAt.Format("2006-01-02 15:04:05"))

	writeSummary(&b, &result.Summary)
	writeOrganized(&b, result.Organized)
	writeUnclassified(&b, result.Unclassified)
	writeRejected(&b, result.Rejected)

	return b.String()
}

func writeSummary(b *strings.Builder, s *model.Summary) {
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- Clients processed: %d\n", s.Total)
	fmt.Fprintf(b, "- Organized: %d\n", s.Organized)
	fmt.Fprintf(b, "- Unclassified: %d\n", s.Unclassified)
	if s.Rejected > 0 {
		fmt.Fprintf(b, "- Rejected (malformed records): %d\n", s.Rejected)
	}
	if s.CommitFailures > 0 {
		fmt.Fprintf(b, "- Reservation commit failures: %d\n", s.CommitFailures)
	}
	b.WriteString("\n")

	if len(s.ByConnection) > 0 {
		b.WriteString("Connection types: ")
		b.WriteString(countLine(s.ByConnection))
		b.WriteString("\n\n")
	}
	if len(s.ByManufacturer) > 0 {
		b.WriteString("Top manufacturers: ")
		b.WriteString(countLine(s.ByManufacturer))
		b.WriteString("\n\n")
	}
}

func writeOrganized(b *strings.Builder, entries []model.OrganizedEntry) {
	if len(entries) == 0 {
		return
	}

	b.WriteString("## Organized Clients\n\n")

	grouped := make(map[string][]model.OrganizedEntry)
	var order []string
	for _, e := range entries {
		if _, seen := grouped[e.Category]; !seen {
			order = append(order, e.Category)
		}
		grouped[e.Category] = append(grouped[e.Category], e)
	}

	for _, category := range order {
		fmt.Fprintf(b, "### %s\n\n", category)
		b.WriteString("| Name | MAC | Current IP | Assigned IP | Manufacturer | Status |\n")
		b.WriteString("|------|-----|------------|-------------|--------------|--------|\n")
		for _, e := range grouped[category] {
			status := "pending"
			if e.Committed {
				status = "committed"
			} else if e.CommitError != "" {
				status = "failed: " + e.CommitError
			}
			prior := e.PriorIP
			if prior == "" {
				prior = "-"
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
				e.Name, e.MAC, prior, e.AssignedIP, e.Manufacturer, status)
		}
		b.WriteString("\n")
	}
}

func writeUnclassified(b *strings.Builder, entries []model.UnclassifiedEntry) {
	if len(entries) == 0 {
		return
	}

	b.WriteString("## Unclassified Clients\n\n")
	b.WriteString("These clients need manual review before they can be assigned a range.\n\n")
	for _, e := range entries {
		fmt.Fprintf(b, "- **%s** (`%s`, %s)\n", e.Name, e.MAC, e.Manufacturer)
		fmt.Fprintf(b, "  - Suggestion: %s\n", e.Guess)
		if e.Connection != "" {
			fmt.Fprintf(b, "  - Connection: %s\n", e.Connection)
		}
	}
	b.WriteString("\n")
}

func writeRejected(b *strings.Builder, entries []model.RejectedEntry) {
	if len(entries) == 0 {
		return
	}

	b.WriteString("## Rejected Records\n\n")
	for _, e := range entries {
		label := e.Name
		if label == "" {
			label = e.MAC
		}
		if label == "" {
			label = "(no identity)"
		}
		fmt.Fprintf(b, "- %s: %s\n", label, e.Reason)
	}
	b.WriteString("\n")
}

// HealthMarkdown renders health recommendations.
func HealthMarkdown(recs []model.Recommendation) string {
	var b strings.Builder
	b.WriteString("# Network Health\n\n")

	if len(recs) == 0 {
		b.WriteString("No findings. The network looks healthy.\n")
		return b.String()
	}

	for _, r := range recs {
		fmt.Fprintf(&b, "- **[%s]** %s: %s\n", r.Severity, r.Subject, r.Message)
	}
	return b.String()
}

// countLine formats a count map as "a (3), b (1)" sorted by count descending
// then key, for stable output.
func countLine(counts map[string]int) string {
	type kv struct {
		key   string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, kv{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s (%d)", p.key, p.count))
	}
	return strings.Join(parts, ", ")
}
