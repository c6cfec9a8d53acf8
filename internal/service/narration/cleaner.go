package narration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Cleaner удаляет забытые временные MP3 старше TTL: остатки упавших процессов.
type Cleaner struct {
	logger *zap.SugaredLogger
}

func NewCleaner(logger *zap.SugaredLogger) *Cleaner { return &Cleaner{logger: logger} }

// Clean удаляет файлы по FilePattern старше ttl из dir (пустой dir — системный temp).
// Возвращает число удалённых файлов.
func (c *Cleaner) Clean(dir string, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	if dir == "" {
		dir = os.TempDir()
	}

	matches, err := filepath.Glob(filepath.Join(dir, FilePattern))
	if err != nil {
		c.logger.Warnw("Некорректный шаблон очистки", "dir", dir, "error", err)
		return 0
	}

	deadline := time.Now().Add(-ttl)
	removed := 0
	for _, path := range matches {
		fi, statErr := os.Stat(path)
		if statErr != nil {
			if !errors.Is(statErr, os.ErrNotExist) {
				c.logger.Warnw("Не удалось получить информацию о файле при очистке", "path", path, "error", statErr)
			}
			continue
		}
		if fi.IsDir() || !fi.ModTime().Before(deadline) {
			continue
		}
		if err := os.Remove(path); err != nil {
			c.logger.Warnw("Не удалось удалить старый файл", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		c.logger.Infow("Очистка временных mp3 выполнена", "dir", dir, "removed", removed, "before", deadline.Format(time.RFC3339))
	}
	return removed
}

// Run чистит dir сразу и затем каждые interval до отмены контекста.
func (c *Cleaner) Run(ctx context.Context, dir string, ttl, interval time.Duration) {
	c.Clean(dir, ttl)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Clean(dir, ttl)
		}
	}
}
