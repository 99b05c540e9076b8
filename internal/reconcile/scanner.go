package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"sentinel/internal/catalog"
	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/media"
)

// Report summarizes one reconciliation pass.
type Report struct {
	Scanned    int
	Inserted   int
	Thumbnails int
	Corrupt    int
	Skipped    int
}

// Scanner reconciles on-disk recordings with the catalog at startup. It
// adopts orphaned clips, backfills their thumbnails, and removes
// zero-byte artifacts left by interrupted captures.
type Scanner struct {
	registry *fleet.Registry
	store    *catalog.Store
	runner   *media.Runner
	cfg      *config.Config
	logger   *slog.Logger
}

// New builds a scanner.
func New(registry *fleet.Registry, store *catalog.Store, runner *media.Runner, cfg *config.Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		registry: registry,
		store:    store,
		runner:   runner,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Scan walks the recordings directory once. Per-file failures are
// logged and skipped; the pass itself only fails when the directory
// cannot be read at all. Running Scan twice is a no-op the second time.
func (s *Scanner) Scan(ctx context.Context) (Report, error) {
	var report Report

	entries, err := os.ReadDir(s.cfg.RecordingsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, nil
		}
		return report, fmt.Errorf("read recordings dir: %w", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		report.Scanned++

		name := entry.Name()
		cameraID, captured, err := media.ParseRecordingFileName(name)
		if err != nil {
			s.logger.Debug("skipping foreign file", logging.String(logging.FieldFile, name))
			report.Skipped++
			continue
		}
		if _, ok := s.registry.Get(cameraID); !ok {
			s.logger.Warn("skipping recording for unknown camera",
				logging.Camera(cameraID),
				logging.String(logging.FieldFile, name))
			report.Skipped++
			continue
		}

		fullPath := filepath.Join(s.cfg.RecordingsDir(), name)
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("stat failed", logging.String(logging.FieldFile, name), logging.Error(err))
			report.Skipped++
			continue
		}
		if info.Size() == 0 {
			if err := os.Remove(fullPath); err != nil {
				s.logger.Warn("removing corrupt recording", logging.String(logging.FieldFile, name), logging.Error(err))
			} else {
				s.logger.Info("removed corrupt recording", logging.String(logging.FieldFile, name))
				report.Corrupt++
			}
			continue
		}

		exists, err := s.store.CheckEventExists(ctx, cameraID, captured)
		if err != nil {
			s.logger.Warn("catalog lookup failed", logging.String(logging.FieldFile, name), logging.Error(err))
			report.Skipped++
			continue
		}
		if exists {
			continue
		}

		thumbName := media.ThumbnailFileName(cameraID, captured)
		thumbPath := filepath.Join(s.cfg.ThumbnailsDir(), thumbName)
		thumbRel := path.Join("thumbnails", thumbName)
		if _, err := os.Stat(thumbPath); errors.Is(err, os.ErrNotExist) {
			err := s.runner.ExtractThumbnail(ctx, media.ThumbnailJob{
				VideoPath:  fullPath,
				Offset:     s.cfg.Recording.ThumbnailOffset(),
				OutputPath: thumbPath,
				Timeout:    s.cfg.Snapshot.TimeoutDuration(),
			})
			if err != nil {
				s.logger.Warn("thumbnail backfill failed", logging.String(logging.FieldFile, name), logging.Error(err))
				thumbRel = ""
			} else {
				report.Thumbnails++
			}
		}

		if _, err := s.store.AddEvent(ctx, catalog.NewEvent{
			CameraID:      cameraID,
			Type:          catalog.DetectionPerson,
			VideoPath:     path.Join("recordings", name),
			ThumbnailPath: thumbRel,
			Timestamp:     captured,
		}); err != nil {
			s.logger.Warn("event insert failed", logging.String(logging.FieldFile, name), logging.Error(err))
			report.Skipped++
			continue
		}
		report.Inserted++
		s.logger.Info("adopted orphaned recording",
			logging.Camera(cameraID),
			logging.String(logging.FieldFile, name))
	}

	s.logger.Info("reconciliation complete",
		logging.Int("scanned", report.Scanned),
		logging.Int("inserted", report.Inserted),
		logging.Int("thumbnails", report.Thumbnails),
		logging.Int("corrupt", report.Corrupt),
		logging.Int("skipped", report.Skipped))
	return report, nil
}
