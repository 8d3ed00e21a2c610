// Package ingest catalogs video files, shared by the upload endpoint and
// the directory scanner.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"videovault/library-api/internal/catalog"
	"videovault/library-api/internal/media"
	"videovault/library-api/internal/model"

	"go.uber.org/zap"
)

// Degraded-mode defaults used when the prober can't report metadata.
// These are deliberate fallbacks, not error sentinels.
const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

type Ingestor struct {
	Store    *catalog.Store
	Pipeline *media.Pipeline
}

func NewIngestor(store *catalog.Store, pipeline *media.Pipeline) *Ingestor {
	return &Ingestor{Store: store, Pipeline: pipeline}
}

// Options tune a single ingestion.
type Options struct {
	// Tags to attach, resolved with find-or-create semantics
	Tags []string

	// A selection candidate filename chosen before the upload committed.
	// Empty means generate the default thumbnail.
	ChosenThumbnail string
}

// Do catalogs the file at path. A path that is already cataloged updates
// the existing record instead of erroring the flow, so there are never
// two rows for one file. Media tool failures degrade, never abort.
func (i *Ingestor) Do(path string, opts *Options) (*model.Video, error) {
	if opts == nil {
		opts = &Options{}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat video file, %w", err)
	}

	filename := filepath.Base(path)

	duration, width, height := i.probeMetadata(path)

	v := &model.Video{
		Filename: filename,
		Title:    TitleFromFilename(filename),
		FilePath: path,
		FileSize: fi.Size(),
		Duration: duration,
		Width:    width,
		Height:   height,
	}

	existing, found, err := i.Store.VideoByPath(path)
	if err != nil {
		return nil, err
	}

	if found {
		v.ID = existing.ID
	} else {
		_, err = i.Store.AddVideo(v)
		if err == catalog.ErrDuplicatePath {
			// Lost the check-then-insert race, treat the constraint
			// violation as the authoritative signal and update instead
			existing, _, lookupErr := i.Store.VideoByPath(path)
			if lookupErr != nil {
				return nil, lookupErr
			}
			v.ID = existing.ID
		} else if err != nil {
			return nil, err
		}
	}

	upd := catalog.VideoUpdate{
		FileSize: &v.FileSize,
		Duration: &v.Duration,
		Width:    &v.Width,
		Height:   &v.Height,
	}

	if opts.ChosenThumbnail != "" {
		committed, err := i.Pipeline.CommitThumbnail(opts.ChosenThumbnail, filename)
		if err != nil {
			zap.L().Warn("Failed to commit chosen thumbnail, generating default",
				zap.String("chosen", opts.ChosenThumbnail),
				zap.Error(err))
			committed = i.Pipeline.GenerateThumbnail(path, filename)
		}
		v.ThumbnailPath = &committed
	} else {
		thumb := i.Pipeline.GenerateThumbnail(path, filename)
		v.ThumbnailPath = &thumb
	}
	upd.ThumbnailPath = v.ThumbnailPath

	if preview := i.Pipeline.GeneratePreview(path, filename, float64(v.Duration)); preview != nil {
		v.PreviewPath = preview
		upd.PreviewPath = preview
	}

	if _, err := i.Store.UpdateVideo(v.ID, &upd); err != nil {
		return nil, err
	}

	for _, name := range opts.Tags {
		tag, err := i.Store.FindOrCreateTag(name, "")
		if err != nil {
			zap.L().Warn("Failed to resolve tag during ingest",
				zap.String("tag", name),
				zap.Error(err))
			continue
		}

		if _, err := i.Store.AddTagToVideo(v.ID, tag.ID); err != nil {
			zap.L().Warn("Failed to link tag during ingest",
				zap.String("tag", name),
				zap.Error(err))
		}
	}

	i.Store.LogActivity(v.ID, "ingest", filename)

	full, _, err := i.Store.VideoByID(v.ID)
	if err != nil {
		return nil, err
	}

	return full, nil
}

func (i *Ingestor) probeMetadata(path string) (duration, width, height int) {
	width, height = fallbackWidth, fallbackHeight

	if !i.Pipeline.Probe.Available() {
		return 0, width, height
	}

	if d, err := i.Pipeline.Probe.Duration(path); err == nil && d > 0 {
		duration = int(d)
	} else if err != nil {
		zap.L().Warn("Failed to probe duration, defaulting to 0", zap.Error(err))
	}

	if w, h, err := i.Pipeline.Probe.Dimensions(path); err == nil && w > 0 && h > 0 {
		width, height = w, h
	} else if err != nil {
		zap.L().Warn("Failed to probe dimensions, using defaults", zap.Error(err))
	}

	return duration, width, height
}

// TitleFromFilename derives a human readable title: extension stripped,
// separators replaced by spaces.
func TitleFromFilename(filename string) string {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	title = strings.NewReplacer("_", " ", ".", " ").Replace(title)
	return strings.Join(strings.Fields(title), " ")
}

// UniquePath returns a destination under dir that doesn't collide with
// an existing file, appending a numeric suffix when needed.
func UniquePath(dir, filename string) string {
	dest := filepath.Join(dir, filename)
	if _, err := os.Stat(dest); err != nil {
		return dest
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	for n := 1; ; n++ {
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))
		if _, err := os.Stat(dest); err != nil {
			return dest
		}
	}
}
