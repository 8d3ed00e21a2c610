// Package scanner walks directories and catalogs any not-yet-known
// video files it finds.
package scanner

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"videovault/library-api/internal/catalog"
	"videovault/library-api/internal/ingest"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var defaultExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
}

// supported consults library.scan_extensions when configured, falling
// back to the built-in whitelist.
func supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	if custom := viper.GetStringSlice("library.scan_extensions"); len(custom) > 0 {
		return slices.Contains(custom, ext)
	}

	return defaultExtensions[ext]
}

// Summary accounts for one scan run. Failures are per-file and expected,
// they never abort the remaining walk.
type Summary struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type Scanner struct {
	Store    *catalog.Store
	Ingestor *ingest.Ingestor
}

func New(store *catalog.Store, ingestor *ingest.Ingestor) *Scanner {
	return &Scanner{Store: store, Ingestor: ingestor}
}

// Scan walks root recursively and ingests every supported video file
// that isn't already cataloged.
func (s *Scanner) Scan(root string) (*Summary, error) {
	sum := &Summary{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			zap.L().Warn("Scan could not access entry, skipping", zap.String("path", path), zap.Error(err))
			sum.Failed++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !supported(path) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		_, known, err := s.Store.VideoByPath(abs)
		if err != nil {
			return err
		}
		if known {
			sum.Skipped++
			return nil
		}

		if _, err := s.Ingestor.Do(abs, nil); err != nil {
			zap.L().Error("Failed to ingest file during scan",
				zap.String("path", abs),
				zap.Error(err))
			sum.Failed++
			return nil
		}

		sum.Added++
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Directory scan finished",
		zap.String("root", root),
		zap.Int("added", sum.Added),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed))

	return sum, nil
}
