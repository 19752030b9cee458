package format

import (
	"strings"
	"testing"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.0, "100.0%"},
		{0.6666666, "66.7%"},
		{0.0, "0.0%"},
	}
	for _, tt := range tests {
		if got := Confidence(tt.score); got != tt.want {
			t.Errorf("Confidence(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain list", "reunion, oficina, jefe", []string{"reunion", "oficina", "jefe"}},
		{"extra whitespace", "  reunion ,oficina  ", []string{"reunion", "oficina"}},
		{"empty entries dropped", "reunion,,oficina,", []string{"reunion", "oficina"}},
		{"single keyword", "reunion", []string{"reunion"}},
		{"only separators", ", ,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeywords(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseKeywords(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseKeywords(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short, 10) = %q", got)
	}
	got := Truncate("a very long message indeed", 10)
	if len(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate long = %q, want 10 chars ending in ...", got)
	}
}

func TestMessageStatsSortedByCount(t *testing.T) {
	out := MessageStats(10, map[string]int64{
		"personal": 3,
		"trabajo":  6,
		"compras":  1,
	}, nil)

	if !strings.Contains(out, "Total de mensajes: 10") {
		t.Errorf("output missing total: %q", out)
	}
	trabajoIdx := strings.Index(out, "trabajo")
	personalIdx := strings.Index(out, "personal")
	comprasIdx := strings.Index(out, "compras")
	if !(trabajoIdx < personalIdx && personalIdx < comprasIdx) {
		t.Errorf("categories not sorted by count desc: %q", out)
	}
	if !strings.Contains(out, "trabajo: 6 (60.0%)") {
		t.Errorf("output missing percentage line: %q", out)
	}
	if strings.Contains(out, "Confianza promedio") {
		t.Errorf("confidence section rendered without averages: %q", out)
	}
}

func TestMessageStatsAverageConfidence(t *testing.T) {
	out := MessageStats(3, map[string]int64{
		"trabajo":  2,
		"personal": 1,
	}, map[string]float64{
		"personal": 0.92,
		"trabajo":  0.75,
	})

	section := strings.Index(out, "🎯 Confianza promedio:")
	if section == -1 {
		t.Fatalf("output missing confidence section: %q", out)
	}
	if !strings.Contains(out, "personal: 92.0%") || !strings.Contains(out, "trabajo: 75.0%") {
		t.Errorf("output missing average lines: %q", out)
	}
	personalIdx := strings.LastIndex(out, "personal")
	trabajoIdx := strings.LastIndex(out, "trabajo")
	if !(section < personalIdx && personalIdx < trabajoIdx) {
		t.Errorf("averages not sorted by confidence desc: %q", out)
	}
}
