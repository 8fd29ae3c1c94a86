package sync

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/campus-tools/iliasdl/internal/classify"
	"github.com/campus-tools/iliasdl/internal/config"
	"github.com/campus-tools/iliasdl/internal/ilias"
	"github.com/campus-tools/iliasdl/internal/journal"
	"github.com/campus-tools/iliasdl/internal/model"
	"github.com/campus-tools/iliasdl/internal/schedule"
)

// dashboardRef lists the personal desktop, the seed of every crawl.
const dashboardRef = "ilias.php?baseClass=ilPersonalDesktopGUI&cmd=jumpToSelectedItems"

// Syncer executes crawl tasks. One Syncer serves the whole run; it is
// shared read-only across all pool workers.
type Syncer struct {
	client  *ilias.Client
	cfg     *config.Config
	pool    *schedule.Pool
	journal *journal.Journal
	runID   int64
	logger  *slog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger for handler progress and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithJournal attaches a journal recording this run's artifacts.
func WithJournal(j *journal.Journal, runID int64) Option {
	return func(s *Syncer) {
		s.journal = j
		s.runID = runID
	}
}

// New creates a Syncer and its task pool sized to the configured job limit.
func New(client *ilias.Client, cfg *config.Config, opts ...Option) *Syncer {
	s := &Syncer{
		client: client,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pool = schedule.New(cfg.Jobs, s.Process, schedule.WithLogger(s.logger))
	return s
}

// SeedDashboard fetches the personal desktop and submits one task per
// top-level item. A failure here is fatal: nothing has been scheduled yet.
func (s *Syncer) SeedDashboard(ctx context.Context) error {
	doc, err := s.client.Page(ctx, dashboardRef)
	if err != nil {
		return err
	}
	items, err := classify.Items(doc)
	if err != nil {
		return err
	}
	for _, item := range items {
		s.submit(ctx, s.cfg.OutputRoot, item)
	}
	return nil
}

// Wait blocks until the crawl has fully drained.
func (s *Syncer) Wait() {
	s.pool.Wait()
}

// Pool exposes the task pool, primarily for tests observing the gauges.
func (s *Syncer) Pool() *schedule.Pool {
	return s.pool
}

// submit queues one child task below the given parent path.
func (s *Syncer) submit(ctx context.Context, parentPath string, node model.Node) {
	s.pool.Submit(ctx, schedule.Task{
		Path: filepath.Join(parentPath, node.PathName()),
		Node: node,
	})
}

// submitAt queues a task at an explicit destination path. Used where the
// path is not derived from the node's name: plugin-dispatch videos and
// thread pagination.
func (s *Syncer) submitAt(ctx context.Context, path string, node model.Node) {
	s.pool.Submit(ctx, schedule.Task{Path: path, Node: node})
}

// Process dispatches one task to its kind's handler. Errors returned here
// are caught, logged and isolated by the pool.
func (s *Syncer) Process(ctx context.Context, task schedule.Task) error {
	s.logger.Info("syncing",
		"kind", task.Node.Kind.String(),
		"path", task.Path,
		"url", task.Node.Ref.Href,
	)

	err := s.dispatch(ctx, task)
	if err != nil {
		s.record(ctx, journal.Artifact{
			Path:      task.Path,
			SourceURL: task.Node.Ref.Href,
			Kind:      task.Node.Kind.String(),
			Status:    journal.StatusFailed,
			Detail:    err.Error(),
		})
	}
	return err
}

// dispatch routes a task to its kind's handler.
func (s *Syncer) dispatch(ctx context.Context, task schedule.Task) error {
	switch task.Node.Kind {
	case model.KindCourse:
		return s.syncCourse(ctx, task)
	case model.KindFolder:
		return s.syncFolder(ctx, task)
	case model.KindFile:
		return s.syncFile(ctx, task)
	case model.KindPluginDispatch:
		return s.syncPluginDispatch(ctx, task)
	case model.KindVideo:
		return s.syncVideo(ctx, task)
	case model.KindForum:
		return s.syncForum(ctx, task)
	case model.KindThread:
		return s.syncThread(ctx, task)
	default:
		// wiki, exercise handler, generic: out of scope, not traversed
		s.logger.Debug("ignoring",
			"kind", task.Node.Kind.String(),
			"name", task.Node.Name,
			"url", task.Node.Ref.Href,
		)
		return nil
	}
}

// record appends an artifact entry to the journal, when one is attached.
// Journal failures never disturb the crawl.
func (s *Syncer) record(ctx context.Context, a journal.Artifact) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, s.runID, a); err != nil {
		s.logger.Debug("journal write failed", "path", a.Path, "error", err)
	}
}
