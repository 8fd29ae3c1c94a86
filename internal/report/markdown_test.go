package report

import (
	"strings"
	"testing"
	"time"

	"github.com/campus-tools/iliasdl/internal/journal"
)

func TestWriterWrite(t *testing.T) {
	t.Parallel()

	t.Run("run with failures", func(t *testing.T) {
		t.Parallel()

		var builder strings.Builder
		w := NewWriter(&builder)
		w.now = func() time.Time {
			return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		}

		err := w.Write(&journal.Summary{
			RunID:      7,
			OutputRoot: "/mirror",
			Downloaded: 12,
			Skipped:    3,
			Failed:     1,
			Bytes:      2048,
			ByKind:     map[string]int{"file": 10, "video": 2},
			Failures: []journal.Artifact{
				{Path: "/mirror/Course/missing.pdf", Kind: "file", Detail: "status 404"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := builder.String()
		for _, want := range []string{
			"# Sync Report",
			"`/mirror`",
			"2026-03-14 09:00:00 UTC",
			"2.0 KiB",
			"## Downloads by Kind",
			"video",
			"## Failures",
			"status 404",
			"1 artifact(s) failed",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("report missing %q\n%s", want, got)
			}
		}
	})

	t.Run("empty run has no failure section", func(t *testing.T) {
		t.Parallel()

		var builder strings.Builder
		if err := NewWriter(&builder).Write(&journal.Summary{RunID: 1, OutputRoot: "/mirror"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := builder.String()
		if strings.Contains(got, "## Failures") {
			t.Error("empty run rendered a failure section")
		}
		if !strings.Contains(got, "up to date") {
			t.Error("empty run did not render the up-to-date note")
		}
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
