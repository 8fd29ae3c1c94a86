package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/campus-tools/iliasdl/internal/journal"
	"github.com/campus-tools/iliasdl/internal/model"
	"github.com/campus-tools/iliasdl/internal/schedule"
)

// playerInitRegex matches the video player bootstrap call embedded in the
// player page. The capture is everything between the call's parentheses.
var playerInitRegex = regexp.MustCompile(`(?s)<script>\s+xoctPaellaPlayer\.init\((.+)\)\s+</script>`)

// Player page extraction errors.
var (
	errNoPlayerScript = errors.New("player bootstrap script not found")
	errNoVideoSource  = errors.New("no mp4 source in player payload")
)

// syncPluginDispatch mirrors a video container: it fetches the plugin's
// asynchronous table listing and submits one video task per row.
func (s *Syncer) syncPluginDispatch(ctx context.Context, task schedule.Task) error {
	if s.cfg.NoVideos {
		return nil
	}
	if err := ensureDir(task.Path); err != nil {
		return err
	}

	listRef := fmt.Sprintf(
		"ilias.php?ref_id=%s&cmdClass=xocteventgui&cmdNode=n7:mz:14p&baseClass=ilObjPluginDispatchGUI&lang=de&limit=20&cmd=asyncGetTableGUI&cmdMode=asynch",
		task.Node.Ref.RefID,
	)
	doc, err := s.client.Fragment(ctx, listRef)
	if err != nil {
		return err
	}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[target="_blank"]`).First()
		if link.Length() == 0 {
			return
		}
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		title, err := cells.Eq(2).Html()
		if err != nil {
			return
		}
		title = strings.TrimSpace(title)
		// A cell that renders markup instead of a title is layout, not
		// an event row.
		if title == "" || strings.HasPrefix(title, "<div") {
			return
		}

		s.logger.Debug("found video", "title", title)
		s.submitAt(ctx, filepath.Join(task.Path, model.Sanitize(title)+".mp4"), model.Node{
			Kind: model.KindVideo,
			Ref:  model.RawReference(href),
		})
	})
	return nil
}

// syncVideo resolves the player page to its first MP4 source and streams it
// to the destination path.
func (s *Syncer) syncVideo(ctx context.Context, task schedule.Task) error {
	if s.cfg.NoVideos {
		return nil
	}
	if !s.cfg.Force && exists(task.Path) {
		s.logger.Debug("skipping download, file exists already", "path", task.Path)
		s.record(ctx, journal.Artifact{
			Path:      task.Path,
			SourceURL: task.Node.Ref.Href,
			Kind:      task.Node.Kind.String(),
			Status:    journal.StatusSkipped,
			Detail:    "exists",
		})
		return nil
	}

	html, err := s.client.Text(ctx, task.Node.Ref.Href)
	if err != nil {
		return err
	}
	source, err := extractPlayerSource(html)
	if err != nil {
		return err
	}

	stream, err := s.client.Stream(ctx, source)
	if err != nil {
		return err
	}
	defer stream.Close()

	s.logger.Info("saving video", "path", task.Path)
	n, err := writeStream(task.Path, stream)
	if err != nil {
		return err
	}

	s.record(ctx, journal.Artifact{
		Path:      task.Path,
		SourceURL: source,
		Kind:      task.Node.Kind.String(),
		Status:    journal.StatusDownloaded,
		Bytes:     n,
	})
	return nil
}

// extractPlayerSource pulls the first MP4 source URL out of the player
// page. The bootstrap call's first argument is a JSON object followed by
// trailing non-JSON arguments; truncating at the first comma-newline
// boundary isolates it. This is a documented heuristic tied to the exact
// upstream page format, not a general parser.
func extractPlayerSource(html string) (string, error) {
	m := playerInitRegex.FindStringSubmatch(html)
	if m == nil {
		return "", errNoPlayerScript
	}

	payloadText, _, _ := strings.Cut(m[1], ",\n")

	var payload struct {
		Streams []struct {
			Sources struct {
				MP4 []struct {
					Src string `json:"src"`
				} `json:"mp4"`
			} `json:"sources"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(payloadText)), &payload); err != nil {
		return "", fmt.Errorf("invalid player payload: %w", err)
	}

	if len(payload.Streams) == 0 || len(payload.Streams[0].Sources.MP4) == 0 {
		return "", errNoVideoSource
	}
	return payload.Streams[0].Sources.MP4[0].Src, nil
}
