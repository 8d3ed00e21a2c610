package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var ErrToolUnavailable = errors.New("media tool is not available")

// Artifacts smaller than this are treated as corrupt output.
const minArtifactBytes = 1024

// Pipeline turns video files into browsable artifacts. All artifact names
// are derived purely from the source filename so an existence check
// doubles as a cache.
type Pipeline struct {
	Probe      Prober
	ThumbDir   string
	PreviewDir string
}

func NewPipeline(probe Prober, thumbDir, previewDir string) (*Pipeline, error) {
	for _, dir := range []string{thumbDir, previewDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory %s, %w", dir, err)
		}
	}

	return &Pipeline{
		Probe:      probe,
		ThumbDir:   thumbDir,
		PreviewDir: previewDir,
	}, nil
}

func baseName(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// ThumbName is the committed thumbnail filename for a video file.
func ThumbName(filename string) string {
	return "thumb_" + baseName(filename) + ".jpg"
}

// PreviewName is the preview clip filename for a video file.
func PreviewName(filename string) string {
	return "preview_" + baseName(filename) + ".mp4"
}

// SelectionName is the filename of the n-th selection candidate.
func SelectionName(n int, filename string) string {
	return fmt.Sprintf("selection_%d_thumb_%s.jpg", n, baseName(filename))
}

func (p *Pipeline) ThumbPath(filename string) string {
	return filepath.Join(p.ThumbDir, ThumbName(filename))
}

func (p *Pipeline) PreviewPath(filename string) string {
	return filepath.Join(p.PreviewDir, PreviewName(filename))
}

var dedupSuffix = regexp.MustCompile(`_\d+$`)

// normalizeBase strips the extension and the numeric de-duplication
// suffix appended at upload time, so "clip_2.mp4" and "clip.mp4" compare
// equal when matching selection candidates.
func normalizeBase(filename string) string {
	return dedupSuffix.ReplaceAllString(baseName(filename), "")
}

// GenerateThumbnail produces the committed thumbnail for a video file.
// It never fails: if the tool is missing or errors, a placeholder
// artifact is written instead. The returned path always exists, except
// when even the placeholder could not be written to disk.
func (p *Pipeline) GenerateThumbnail(videoPath, filename string) string {
	dest := p.ThumbPath(filename)

	if _, err := os.Stat(dest); err == nil {
		zap.L().Debug("Thumbnail already exists, reusing", zap.String("path", dest))
		return dest
	}

	if p.Probe.Available() {
		ts := 1.0
		if d, err := p.Probe.Duration(videoPath); err == nil && d > 0 {
			ts = d * 0.10
			if ts < 1 {
				ts = 1
			}
			if ts > 30 {
				ts = 30
			}
		}

		if err := p.Probe.ExtractFrame(videoPath, ts, dest); err == nil {
			return dest
		} else {
			zap.L().Warn("Frame extraction failed, falling back to placeholder",
				zap.String("file", filename),
				zap.Error(err))
		}
	}

	if err := writePlaceholder(dest, filename); err != nil {
		zap.L().Error("Failed to write placeholder thumbnail", zap.Error(err))
	}

	return dest
}

// GeneratePreview produces a short muted clip windowed into the video,
// or nil when the tool is unavailable, the duration unusable, or the
// output implausibly small. Preview absence never blocks ingestion.
func (p *Pipeline) GeneratePreview(videoPath, filename string, duration float64) *string {
	dest := p.PreviewPath(filename)

	if fi, err := os.Stat(dest); err == nil {
		if fi.Size() >= minArtifactBytes {
			zap.L().Debug("Preview already exists, reusing", zap.String("path", dest))
			return &dest
		}

		// Too small to be a playable clip, regenerate
		os.Remove(dest)
	}

	if !p.Probe.Available() {
		return nil
	}

	win, ok := previewWindow(duration)
	if !ok {
		return nil
	}

	if err := p.Probe.ExtractClip(videoPath, win.start, win.length, dest); err != nil {
		zap.L().Warn("Preview generation failed",
			zap.String("file", filename),
			zap.Error(err))
		return nil
	}

	fi, err := os.Stat(dest)
	if err != nil || fi.Size() < minArtifactBytes {
		// Never persist a reference to a broken artifact
		os.Remove(dest)
		zap.L().Warn("Preview output corrupt, discarded", zap.String("file", filename))
		return nil
	}

	return &dest
}

// CommitThumbnail promotes a selection candidate to the committed
// thumbnail and removes every selection candidate belonging to the
// video, the chosen one included. The committed copy is the artifact of
// record from here on.
func (p *Pipeline) CommitThumbnail(selectionName, videoFilename string) (string, error) {
	src := filepath.Join(p.ThumbDir, filepath.Base(selectionName))

	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("selection candidate %s does not exist", selectionName)
	}

	dest := p.ThumbPath(videoFilename)
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("failed to commit thumbnail, %w", err)
	}

	p.CleanupSelection(videoFilename)

	return dest, nil
}

var selectionPattern = regexp.MustCompile(`^selection_\d+_thumb_(.+)\.jpg$`)

// CleanupSelection removes all transient selection candidates whose
// embedded base name matches the video's normalized base name.
func (p *Pipeline) CleanupSelection(videoFilename string) {
	want := normalizeBase(videoFilename)

	entries, err := os.ReadDir(p.ThumbDir)
	if err != nil {
		zap.L().Warn("Failed to list thumbnail directory for cleanup", zap.Error(err))
		return
	}

	for _, e := range entries {
		m := selectionPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}

		if normalizeBase(m[1]) != want {
			continue
		}

		if err := os.Remove(filepath.Join(p.ThumbDir, e.Name())); err != nil {
			zap.L().Warn("Failed to remove selection candidate",
				zap.String("name", e.Name()),
				zap.Error(err))
		}
	}
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}
