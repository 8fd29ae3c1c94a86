package journal

import (
	"context"
	"testing"
)

// TestJournalRoundTrip tests run and artifact recording end to end.
func TestJournalRoundTrip(t *testing.T) {
	t.Parallel()

	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	runID, err := j.BeginRun(ctx, "/tmp/mirror")
	if err != nil {
		t.Fatalf("failed to begin run: %v", err)
	}

	records := []Artifact{
		{Path: "Course/notes.pdf", SourceURL: "goto.php?target=file_1_download", Kind: "file", Status: StatusDownloaded, Bytes: 1024},
		{Path: "Course/lecture.mp4", SourceURL: "https://host/clip.mp4", Kind: "video", Status: StatusDownloaded, Bytes: 4096},
		{Path: "Course/old.pdf", Kind: "file", Status: StatusSkipped, Detail: "exists"},
		{Path: "Course/broken.pdf", Kind: "file", Status: StatusFailed, Detail: "fetch x: service reported an error banner"},
	}
	for _, a := range records {
		if err := j.Record(ctx, runID, a); err != nil {
			t.Fatalf("failed to record %s: %v", a.Path, err)
		}
	}

	if err := j.FinishRun(ctx, runID); err != nil {
		t.Fatalf("failed to finish run: %v", err)
	}

	s, err := j.Summarize(ctx, runID)
	if err != nil {
		t.Fatalf("failed to summarize: %v", err)
	}

	if s.OutputRoot != "/tmp/mirror" {
		t.Errorf("expected output root /tmp/mirror, got %q", s.OutputRoot)
	}
	if s.Downloaded != 2 || s.Skipped != 1 || s.Failed != 1 {
		t.Errorf("unexpected counts: downloaded=%d skipped=%d failed=%d", s.Downloaded, s.Skipped, s.Failed)
	}
	if s.Bytes != 5120 {
		t.Errorf("expected 5120 bytes, got %d", s.Bytes)
	}
	if s.ByKind["file"] != 1 || s.ByKind["video"] != 1 {
		t.Errorf("unexpected per-kind counts: %v", s.ByKind)
	}
	if len(s.Failures) != 1 || s.Failures[0].Path != "Course/broken.pdf" {
		t.Errorf("unexpected failures: %+v", s.Failures)
	}
}

// TestJournalReopen tests that a second Open on the same directory reuses
// the schema and keeps prior runs.
func TestJournalReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	first, err := Open(dir)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	runID, err := first.BeginRun(ctx, "/m")
	if err != nil {
		t.Fatalf("failed to begin run: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("failed to close journal: %v", err)
	}

	second, err := Open(dir)
	if err != nil {
		t.Fatalf("failed to reopen journal: %v", err)
	}
	defer second.Close()

	if _, err := second.Summarize(ctx, runID); err != nil {
		t.Errorf("run from first session not visible: %v", err)
	}
}
