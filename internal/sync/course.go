package sync

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/campus-tools/iliasdl/internal/classify"
	"github.com/campus-tools/iliasdl/internal/model"
	"github.com/campus-tools/iliasdl/internal/schedule"
)

// joinMarker is the literal fragment whose presence in a course page means
// the viewer is not a member. The match is a plain substring check against
// the raw markup; it is known to be brittle but is kept exactly as the
// upstream page requires.
const joinMarker = `input[name="cmd[join]"`

// cmdNodeRegex finds the course GUI's command node inside the course page,
// needed to build the content-tree request.
var cmdNodeRegex = regexp.MustCompile(`cmdNode=uf:\w\w`)

// errNoCmdNode marks a course page without a content-tree command node.
var errNoCmdNode = errors.New("can't find cmdNode")

// errNotMember marks a course the account has not joined; the handler
// turns it into a silent skip, never a logged failure.
var errNotMember = errors.New("not a member of this course")

// syncCourse mirrors one course: directory, member listing, one child task
// per entry. With content-tree mode on, the hierarchical tree is tried
// first and the flat listing is the fallback.
func (s *Syncer) syncCourse(ctx context.Context, task schedule.Task) error {
	if err := ensureDir(task.Path); err != nil {
		return err
	}

	var children []model.Node
	var err error
	if s.cfg.ContentTree {
		children, err = s.courseContentTree(ctx, task.Node)
		if errors.Is(err, errNotMember) {
			// Groups the account is not in are skipped silently.
			s.logger.Debug("skipping course, not a member", "path", task.Path)
			return nil
		}
		if err != nil {
			s.logger.Warn("falling back to incomplete course content extractor",
				"name", task.Node.Name,
				"error", err,
			)
			children, err = s.flatListing(ctx, task.Node)
		}
	} else {
		children, err = s.flatListing(ctx, task.Node)
	}
	if err != nil {
		return err
	}

	for _, child := range children {
		s.submit(ctx, task.Path, child)
	}
	return nil
}

// syncFolder mirrors one folder: directory, flat listing, one child task
// per entry.
func (s *Syncer) syncFolder(ctx context.Context, task schedule.Task) error {
	if err := ensureDir(task.Path); err != nil {
		return err
	}

	children, err := s.flatListing(ctx, task.Node)
	if err != nil {
		return err
	}
	for _, child := range children {
		s.submit(ctx, task.Path, child)
	}
	return nil
}

// flatListing fetches the container page and classifies its list items.
func (s *Syncer) flatListing(ctx context.Context, node model.Node) ([]model.Node, error) {
	doc, err := s.client.Page(ctx, node.Ref.Href)
	if err != nil {
		return nil, err
	}
	return classify.Items(doc)
}

// courseContentTree walks the hierarchical content tree of a course. The
// command node is scraped off the course page first; a page carrying the
// join prompt instead means the account is not a member.
func (s *Syncer) courseContentTree(ctx context.Context, node model.Node) ([]model.Node, error) {
	html, err := s.client.Text(ctx, node.Ref.Href)
	if err != nil {
		return nil, err
	}

	match := cmdNodeRegex.FindString(html)
	if match == "" {
		if strings.Contains(html, joinMarker) {
			return nil, errNotMember
		}
		return nil, errNoCmdNode
	}
	cmdNode := strings.TrimPrefix(match, "cmdNode=")

	treeRef := fmt.Sprintf(
		"ilias.php?ref_id=%s&cmdClass=ilobjcoursegui&cmd=showRepTree&cmdNode=%s&baseClass=ilRepositoryGUI&cmdMode=asynch&exp_cmd=getNodeAsync&node_id=exp_node_rep_exp_%s&exp_cont=il_expl2_jstree_cont_rep_exp&searchterm=",
		node.Ref.RefID, cmdNode, node.Ref.RefID,
	)
	s.logger.Debug("loading content tree", "url", treeRef)

	doc, err := s.client.Fragment(ctx, treeRef)
	if err != nil {
		if strings.Contains(html, joinMarker) {
			return nil, errNotMember
		}
		return nil, err
	}
	return classify.TreeItems(doc), nil
}
