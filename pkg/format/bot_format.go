// Package format provides presentation helpers for bot replies.
package format

import (
	"fmt"
	"sort"
	"strings"
)

// Confidence renders a confidence score as a percentage (e.g. "66.7%").
func Confidence(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// Truncate shortens text to maxLength, appending "..." when cut.
func Truncate(text string, maxLength int) string {
	const suffix = "..."
	if len(text) <= maxLength {
		return text
	}
	if maxLength <= len(suffix) {
		return text[:maxLength]
	}
	return text[:maxLength-len(suffix)] + suffix
}

// KeywordsToString joins keywords with ", " for display.
func KeywordsToString(keywords []string) string {
	return strings.Join(keywords, ", ")
}

// ParseKeywords splits a comma-separated keyword list, trimming whitespace
// and dropping empty entries.
func ParseKeywords(text string) []string {
	parts := strings.Split(text, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// CategoryInfo renders a category with its keyword list for bot replies.
func CategoryInfo(name string, keywords []string) string {
	return fmt.Sprintf("📁 %s\n🔑 Keywords: %s", name, KeywordsToString(keywords))
}

// MessageStats renders total message count, per-category distribution
// sorted by count descending, and per-category average confidence sorted
// by confidence descending.
func MessageStats(total int64, byCategory map[string]int64, avgConfidence map[string]float64) string {
	lines := []string{fmt.Sprintf("📊 Total de mensajes: %d\n", total)}

	type entry struct {
		name  string
		count int64
	}
	entries := make([]entry, 0, len(byCategory))
	for name, count := range byCategory {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	for _, e := range entries {
		percentage := 0.0
		if total > 0 {
			percentage = float64(e.count) / float64(total) * 100
		}
		lines = append(lines, fmt.Sprintf("  • %s: %d (%.1f%%)", e.name, e.count, percentage))
	}

	if len(avgConfidence) > 0 {
		type avg struct {
			name  string
			score float64
		}
		avgs := make([]avg, 0, len(avgConfidence))
		for name, score := range avgConfidence {
			avgs = append(avgs, avg{name, score})
		}
		sort.Slice(avgs, func(i, j int) bool {
			if avgs[i].score != avgs[j].score {
				return avgs[i].score > avgs[j].score
			}
			return avgs[i].name < avgs[j].name
		})

		lines = append(lines, "\n🎯 Confianza promedio:")
		for _, a := range avgs {
			lines = append(lines, fmt.Sprintf("  • %s: %s", a.name, Confidence(a.score)))
		}
	}

	return strings.Join(lines, "\n")
}
