package sync

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/campus-tools/iliasdl/internal/config"
	"github.com/campus-tools/iliasdl/internal/model"
	"github.com/campus-tools/iliasdl/internal/schedule"
)

// TestExtractPlayerSource tests the bootstrap-call heuristic in isolation.
func TestExtractPlayerSource(t *testing.T) {
	t.Parallel()

	t.Run("first mp4 source wins", func(t *testing.T) {
		t.Parallel()

		page := "<script>\n  xoctPaellaPlayer.init({\"streams\":[{\"sources\":{\"mp4\":[{\"src\":\"https://media.example/a.mp4\"},{\"src\":\"https://media.example/b.mp4\"}]}}]},\nplayerConfig)\n</script>"
		src, err := extractPlayerSource(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if src != "https://media.example/a.mp4" {
			t.Errorf("want first source, got %q", src)
		}
	})

	t.Run("payload without trailing arguments", func(t *testing.T) {
		t.Parallel()

		page := "<script>\n  xoctPaellaPlayer.init({\"streams\":[{\"sources\":{\"mp4\":[{\"src\":\"https://media.example/c.mp4\"}]}}]})\n</script>"
		src, err := extractPlayerSource(page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if src != "https://media.example/c.mp4" {
			t.Errorf("unexpected source %q", src)
		}
	})

	t.Run("no bootstrap script", func(t *testing.T) {
		t.Parallel()

		if _, err := extractPlayerSource("<html><body>no player here</body></html>"); !errors.Is(err, errNoPlayerScript) {
			t.Errorf("want errNoPlayerScript, got %v", err)
		}
	})

	t.Run("empty stream list", func(t *testing.T) {
		t.Parallel()

		page := "<script>\n  xoctPaellaPlayer.init({\"streams\":[]},\nx)\n</script>"
		if _, err := extractPlayerSource(page); !errors.Is(err, errNoVideoSource) {
			t.Errorf("want errNoVideoSource, got %v", err)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		page := "<script>\n  xoctPaellaPlayer.init(function(){},\nx)\n</script>"
		if _, err := extractPlayerSource(page); err == nil {
			t.Error("want error for non-JSON payload")
		}
	})
}

// TestSyncPluginDispatch tests the listing-to-download video pipeline.
func TestSyncPluginDispatch(t *testing.T) {
	t.Parallel()

	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/ilias.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cmd") != "asyncGetTableGUI" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<table><tbody>
			<tr><td>layout only</td></tr>
			<tr>
				<td></td>
				<td><a target="_blank" href="player?id=7">open</a></td>
				<td><div class="toolbar"></div></td>
			</tr>
			<tr>
				<td></td>
				<td><a target="_blank" href="player?id=8">open</a></td>
				<td> Lecture 01: Intro </td>
				<td>00:42:00</td>
			</tr>
		</tbody></table>`)
	})
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "8" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w,
			"<script>\n  xoctPaellaPlayer.init({\"streams\":[{\"sources\":{\"mp4\":[{\"src\":\"%s/media/clip.mp4\"}]}}]},\nplayerConfig)\n</script>",
			srvURL)
	})
	mux.HandleFunc("/media/clip.mp4", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "mp4-bytes")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	s, root := newTestSyncer(t, srv, nil)
	run(t, s, schedule.Task{
		Path: filepath.Join(root, "Videos"),
		Node: model.Node{Kind: model.KindPluginDispatch, Name: "Videos", Ref: model.Reference{RefID: "42"}},
	})

	data, err := os.ReadFile(filepath.Join(root, "Videos", "Lecture 01- Intro.mp4"))
	if err != nil {
		t.Fatalf("expected video missing: %v", err)
	}
	if string(data) != "mp4-bytes" {
		t.Errorf("unexpected video content %q", data)
	}

	// The row whose title cell renders markup is layout, not an event.
	entries, err := os.ReadDir(filepath.Join(root, "Videos"))
	if err != nil {
		t.Fatalf("failed to list video dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("want exactly one video, got %d entries", len(entries))
	}
}

// TestSyncVideoGates tests the no-videos and exists gates.
func TestSyncVideoGates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("gated video was fetched")
	}))
	defer srv.Close()

	t.Run("no-videos skips", func(t *testing.T) {
		s, root := newTestSyncer(t, srv, func(c *config.Config) { c.NoVideos = true })
		run(t, s, schedule.Task{
			Path: filepath.Join(root, "v.mp4"),
			Node: model.Node{Kind: model.KindVideo, Ref: model.RawReference("player?id=1")},
		})
		if exists(filepath.Join(root, "v.mp4")) {
			t.Error("no-videos still wrote a file")
		}
	})

	t.Run("existing file skips", func(t *testing.T) {
		s, root := newTestSyncer(t, srv, nil)
		path := filepath.Join(root, "v.mp4")
		if err := os.WriteFile(path, []byte("stale"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		run(t, s, schedule.Task{
			Path: path,
			Node: model.Node{Kind: model.KindVideo, Ref: model.RawReference("player?id=1")},
		})
		data, _ := os.ReadFile(path)
		if string(data) != "stale" {
			t.Errorf("existing video was overwritten: %q", data)
		}
	})
}
