package sync

import (
	"context"

	"github.com/campus-tools/iliasdl/internal/journal"
	"github.com/campus-tools/iliasdl/internal/schedule"
)

// syncFile streams one file download to its destination path.
func (s *Syncer) syncFile(ctx context.Context, task schedule.Task) error {
	if s.cfg.SkipFiles {
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

	stream, err := s.client.Stream(ctx, task.Node.Ref.Href)
	if err != nil {
		return err
	}
	defer stream.Close()

	s.logger.Info("writing", "path", task.Path)
	n, err := writeStream(task.Path, stream)
	if err != nil {
		return err
	}

	s.record(ctx, journal.Artifact{
		Path:      task.Path,
		SourceURL: task.Node.Ref.Href,
		Kind:      task.Node.Kind.String(),
		Status:    journal.StatusDownloaded,
		Bytes:     n,
	})
	return nil
}
