package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterLayoutStats(t *testing.T) {
	tests := []struct {
		name    string
		items   int
		rows    int
		pending int
		cached  bool
		want    []string
		notWant string
	}{
		{"fresh without pending", 12, 5, 0, false, []string{"12 items", "5 rows", "fresh"}, "pending"},
		{"pending items", 13, 5, 1, false, []string{"13 items", "1 pending"}, "cached"},
		{"cached", 4, 2, 0, true, []string{"4 items", "2 rows", "cached"}, "fresh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newPrinter(&buf).layoutStats(tt.items, tt.rows, tt.pending, tt.cached)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("layoutStats() = %q, missing %q", out, w)
				}
			}
			if strings.Contains(out, tt.notWant) {
				t.Errorf("layoutStats() = %q, should not contain %q", out, tt.notWant)
			}
		})
	}
}

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.success("Cleared %d cached entries", 3)
	p.file("gallery.layout.json")
	p.keyValue("Snapshot", "3f2b0c1e")
	p.nextStep("Browse", "spotlight browse gallery.layout.json")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("printed %d lines, want 4:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"Cleared 3 cached entries", "gallery.layout.json", "3f2b0c1e", "spotlight browse"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}
