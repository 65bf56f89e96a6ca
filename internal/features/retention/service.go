package retention

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"chainsync/internal/config"
	"chainsync/internal/features/importer"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RetentionService periodically drops idle import sessions and deletes
// uploaded files older than the session TTL.
type RetentionService struct {
	importService importer.ImportService
	uploadDir     string
	ttl           time.Duration
	scheduler     *cron.Cron
	logger        *zap.Logger
}

func NewRetentionService(lc fx.Lifecycle, importService importer.ImportService, cfg *config.Config, logger *zap.Logger) *RetentionService {
	s := &RetentionService{
		importService: importService,
		uploadDir:     cfg.UploadDir,
		ttl:           time.Duration(cfg.SessionTTLHours) * time.Hour,
		scheduler:     cron.New(),
		logger:        logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := s.scheduler.AddFunc("@hourly", s.sweep); err != nil {
				return err
			}
			s.scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := s.scheduler.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})

	return s
}

func (s *RetentionService) sweep() {
	purged := s.importService.PurgeIdleSessions(s.ttl)
	removed := s.purgeUploads()

	if purged > 0 || removed > 0 {
		s.logger.Info("retention sweep",
			zap.Int("sessionsPurged", purged),
			zap.Int("uploadsRemoved", removed),
		)
	}
}

// purgeUploads removes stale files from the upload directory. Errors on
// individual files are logged and skipped so one bad entry does not stall
// the sweep.
func (s *RetentionService) purgeUploads() int {
	if s.uploadDir == "" {
		return 0
	}

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("reading upload dir failed", zap.Error(err))
		}
		return 0
	}

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.uploadDir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn("removing stale upload failed", zap.String("file", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}
