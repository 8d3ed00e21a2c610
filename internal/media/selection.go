package media

import (
	"os"
	"path/filepath"
	"videovault/library-api/pkg/util"

	"go.uber.org/zap"
)

// Fixed extraction points used when the duration is unknown.
var fixedTimestamps = []float64{1, 3, 5}

// Candidate is one numbered thumbnail offered for interactive choice.
// Candidates are transient and removed once a choice is committed.
type Candidate struct {
	Index     int     `json:"index"`
	Timestamp float64 `json:"timestamp"`
	Timemark  string  `json:"timemark"`
	Path      string  `json:"path"`
	URL       string  `json:"url"`
}

// GenerateSelectionThumbnails extracts count candidate frames spread over
// the video. Without the probing tool there are no options and the caller
// proceeds with the default thumbnail. Partial success is acceptable.
func (p *Pipeline) GenerateSelectionThumbnails(videoPath, filename string, count int) []Candidate {
	if !p.Probe.Available() {
		return []Candidate{}
	}

	if count <= 0 {
		count = 6
	}

	duration, err := p.Probe.Duration(videoPath)
	if err != nil || duration <= 0 {
		zap.L().Debug("Duration unknown, using fixed selection timestamps",
			zap.String("file", filename))
		return p.fixedSelection(videoPath, filename, count)
	}

	interval := int(duration) / (count + 1)
	if interval <= 0 {
		// Shorter than count+1 seconds, take what fits at 1s spacing
		count = min(count, int(duration))
		if count <= 0 {
			return p.fixedSelection(videoPath, filename, count)
		}
		interval = 1
	}

	candidates := make([]Candidate, 0, count)

	for i := 1; i <= count; i++ {
		ts := float64(interval * i)
		name := SelectionName(i, filename)
		dest := filepath.Join(p.ThumbDir, name)

		if err := p.extractCandidate(videoPath, ts, dest); err != nil {
			// One bad frame doesn't fail the batch
			zap.L().Warn("Selection candidate failed, skipping",
				zap.Int("index", i),
				zap.Float64("ts", ts),
				zap.Error(err))
			continue
		}

		candidates = append(candidates, Candidate{
			Index:     i,
			Timestamp: ts,
			Timemark:  util.Timemark(ts),
			Path:      dest,
			URL:       "/api/thumbnails/selection/" + name,
		})
	}

	return candidates
}

// fixedSelection tries 1s, 3s and 5s in order, at most three candidates.
// If the very first extraction fails the strategy is abandoned; a later
// failure keeps what already succeeded.
func (p *Pipeline) fixedSelection(videoPath, filename string, count int) []Candidate {
	n := min(count, len(fixedTimestamps))
	if n <= 0 {
		n = 1
	}

	candidates := make([]Candidate, 0, n)

	for i := 0; i < n; i++ {
		ts := fixedTimestamps[i]
		name := SelectionName(i+1, filename)
		dest := filepath.Join(p.ThumbDir, name)

		if err := p.extractCandidate(videoPath, ts, dest); err != nil {
			zap.L().Warn("Fixed-timestamp candidate failed",
				zap.Float64("ts", ts),
				zap.Error(err))
			break
		}

		candidates = append(candidates, Candidate{
			Index:     i + 1,
			Timestamp: ts,
			Timemark:  util.Timemark(ts),
			Path:      dest,
			URL:       "/api/thumbnails/selection/" + name,
		})
	}

	return candidates
}

func (p *Pipeline) extractCandidate(videoPath string, ts float64, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	return p.Probe.ExtractFrame(videoPath, ts, dest)
}
