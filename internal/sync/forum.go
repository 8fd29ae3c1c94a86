package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/campus-tools/iliasdl/internal/classify"
	"github.com/campus-tools/iliasdl/internal/journal"
	"github.com/campus-tools/iliasdl/internal/model"
	"github.com/campus-tools/iliasdl/internal/schedule"
)

// Forum page selectors.
const (
	postRow       = ".ilFrmPostRow"
	postTitle     = ".ilFrmPostTitle"
	postContainer = ".ilFrmPostContentContainer"
	postContent   = ".ilFrmPostContent"
	postByline    = "span.small"
	forumPages    = "div.ilTableNav > table > tbody > tr > td > a"
	tableLinks    = "tbody tr td a"
)

// fullListMarker identifies the link that re-renders the thread table with
// its maximum row count. The platform caps that count at 800 rows; older
// threads are unreachable through this listing.
const fullListMarker = "trows=800"

// errEmptyForum marks a forum page without the full-listing link.
var errEmptyForum = errors.New("can't find forum thread count selector (empty forum?)")

// syncForum mirrors a forum's thread list: one directory and one thread
// task per row with unseen posts.
func (s *Syncer) syncForum(ctx context.Context, task schedule.Task) error {
	if !s.cfg.Forum {
		return nil
	}
	if err := ensureDir(task.Path); err != nil {
		return err
	}

	listRef := fmt.Sprintf(
		"ilias.php?ref_id=%s&cmd=showThreads&cmdClass=ilrepositorygui&cmdNode=uf&baseClass=ilrepositorygui",
		task.Node.Ref.RefID,
	)
	doc, err := s.client.Page(ctx, listRef)
	if err != nil {
		return err
	}

	// The default listing shows a page of threads; hop through the link
	// that requests the full 800-row table.
	fullRef := ""
	doc.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if href, ok := link.Attr("href"); ok && strings.Contains(href, fullListMarker) {
			fullRef = href
			return false
		}
		return true
	})
	if fullRef == "" {
		return errEmptyForum
	}

	full, err := s.client.Page(ctx, fullRef)
	if err != nil {
		return err
	}

	var rowErr error
	full.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() != 6 {
			return true
		}

		link := cells.Eq(1).Find("a").First()
		if link.Length() == 0 {
			rowErr = errors.New("thread link not found")
			return false
		}
		node, err := classify.FromLink(link, link)
		if err != nil {
			rowErr = err
			return false
		}
		if node.Ref.ThrPK == "" {
			rowErr = errors.New("thr_pk not found for thread")
			return false
		}

		title := strings.TrimSpace(strings.ReplaceAll(link.Text(), "/", "-"))
		threadPath := filepath.Join(task.Path, node.Ref.ThrPK+"_"+model.Sanitize(title))

		available, err := strconv.Atoi(strings.TrimSpace(cells.Eq(3).Text()))
		if err != nil {
			rowErr = fmt.Errorf("parsing post count failed: %w", err)
			return false
		}
		saved := countEntries(threadPath)
		if available <= saved && !s.cfg.Force {
			return true
		}

		s.logger.Info("new posts", "path", threadPath, "available", available, "saved", saved)
		s.submitAt(ctx, threadPath, node)
		return true
	})
	if rowErr != nil {
		return rowErr
	}

	if full.Find(forumPages).Length() > 0 {
		s.logger.Warn("ignoring older threads (801st+)", "path", task.Path)
	}
	return nil
}

// syncThread writes a thread's posts as HTML files and chains to the next
// page when one exists. Pagination is sequential: the continuation task is
// submitted only after this page's posts are written, and it reuses the
// same destination directory.
func (s *Syncer) syncThread(ctx context.Context, task schedule.Task) error {
	if !s.cfg.Forum {
		return nil
	}
	if err := ensureDir(task.Path); err != nil {
		return err
	}

	doc, err := s.client.Page(ctx, task.Node.Ref.Href)
	if err != nil {
		return err
	}

	var postErr error
	doc.Find(postRow).EachWithBreak(func(_ int, post *goquery.Selection) bool {
		name, body, err := extractPost(post)
		if err != nil {
			postErr = err
			return false
		}

		path := filepath.Join(task.Path, name)
		s.logger.Debug("writing", "path", path)
		if _, err := writeStream(path, strings.NewReader(body)); err != nil {
			// A failed post write does not stop the remaining posts.
			s.logger.Error("failed to write post", "path", path, "error", err)
			return true
		}
		s.record(ctx, journal.Artifact{
			Path:   path,
			Kind:   "post",
			Status: journal.StatusDownloaded,
			Bytes:  int64(len(body)),
		})
		return true
	})
	if postErr != nil {
		return postErr
	}

	// Pagination: the last link of the first table reads ">>" unless this
	// is the final page.
	if table := doc.Find("table").First(); table.Length() > 0 {
		last := table.Find(tableLinks).Last()
		if last.Length() == 0 {
			s.logger.Error("unable to find pagination links", "path", task.Path)
			return nil
		}
		if strings.TrimSpace(last.Text()) == ">>" {
			href, ok := last.Attr("href")
			if !ok {
				return errors.New("pagination link has no href")
			}
			s.submitAt(ctx, task.Path, model.Node{
				Kind: model.KindThread,
				Ref:  model.ParseReference(href),
			})
		}
	}
	return nil
}

// extractPost derives a post's file name and raw body from its row.
// The name embeds the post's stable anchor id, so re-running a thread
// overwrites instead of duplicating, and concurrent pages never collide.
func extractPost(post *goquery.Selection) (name, body string, err error) {
	title := strings.TrimSpace(strings.ReplaceAll(post.Find(postTitle).First().Text(), "/", "-"))

	byline := post.Find(postByline).First().Text()
	parts := strings.Split(strings.TrimSpace(byline), "|")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("post byline %q has no author segment", byline)
	}
	author := strings.TrimSpace(parts[1])

	anchor, ok := post.Find(postContainer).First().Find("a").First().Attr("name")
	if !ok {
		return "", "", errors.New("post anchor not found")
	}

	body, err = post.Find(postContent).First().Html()
	if err != nil {
		return "", "", fmt.Errorf("failed to extract post body: %w", err)
	}

	name = fmt.Sprintf("%s_%s_%s.html", anchor, model.Sanitize(author), model.Sanitize(title))
	return name, body, nil
}
