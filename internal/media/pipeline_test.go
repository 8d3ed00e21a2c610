package media

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProbe stands in for ffmpeg. Extractions write a configurable number
// of bytes so the corrupt-output check can be exercised.
type fakeProbe struct {
	available   bool
	duration    float64
	durationErr error

	frameBytes int
	frameErr   error
	frameFails map[float64]bool

	clipBytes int
	clipErr   error

	frameCalls []float64
	clipStarts []float64
	clipLens   []float64
}

func (f *fakeProbe) Available() bool { return f.available }

func (f *fakeProbe) Duration(string) (float64, error) {
	return f.duration, f.durationErr
}

func (f *fakeProbe) Dimensions(string) (int, int, error) {
	return 1920, 1080, nil
}

func (f *fakeProbe) ExtractFrame(_ string, ts float64, dest string) error {
	f.frameCalls = append(f.frameCalls, ts)
	if f.frameErr != nil {
		return f.frameErr
	}
	if f.frameFails[ts] {
		return fmt.Errorf("frame at %.1fs failed", ts)
	}

	n := f.frameBytes
	if n == 0 {
		n = minArtifactBytes
	}
	return os.WriteFile(dest, bytes.Repeat([]byte{0xFF}, n), 0o644)
}

func (f *fakeProbe) ExtractClip(_ string, start, length float64, dest string) error {
	f.clipStarts = append(f.clipStarts, start)
	f.clipLens = append(f.clipLens, length)
	if f.clipErr != nil {
		return f.clipErr
	}

	n := f.clipBytes
	if n == 0 {
		n = minArtifactBytes
	}
	return os.WriteFile(dest, bytes.Repeat([]byte{0xFF}, n), 0o644)
}

func testPipeline(t *testing.T, probe Prober) *Pipeline {
	t.Helper()

	dir := t.TempDir()
	p, err := NewPipeline(probe, filepath.Join(dir, "thumbs"), filepath.Join(dir, "previews"))
	require.NoError(t, err)
	return p
}

func TestArtifactNames(t *testing.T) {
	assert.Equal(t, "thumb_clip.jpg", ThumbName("clip.mp4"))
	assert.Equal(t, "preview_clip.mp4", PreviewName("clip.mkv"))
	assert.Equal(t, "selection_3_thumb_clip.jpg", SelectionName(3, "clip.mp4"))
}

func TestNormalizeBase(t *testing.T) {
	assert.Equal(t, "clip", normalizeBase("clip.mp4"))
	assert.Equal(t, "clip", normalizeBase("clip_2.mp4"))
	assert.Equal(t, "clip", normalizeBase("clip_17.mp4"))
	assert.Equal(t, "ep_01x", normalizeBase("ep_01x.mp4"), "suffix must be trailing digits only")
}

func TestGenerateThumbnailTimestampClamping(t *testing.T) {
	cases := []struct {
		duration float64
		wantTS   float64
	}{
		{600, 30}, // 10% would be 60s, clamped down
		{100, 10},
		{5, 1}, // 10% would be 0.5s, clamped up
		{0, 1}, // unknown duration falls back to 1s
	}

	for _, c := range cases {
		probe := &fakeProbe{available: true, duration: c.duration}
		p := testPipeline(t, probe)

		dest := p.GenerateThumbnail("/library/clip.mp4", "clip.mp4")

		require.Len(t, probe.frameCalls, 1, "duration %.0f", c.duration)
		assert.Equal(t, c.wantTS, probe.frameCalls[0], "duration %.0f", c.duration)
		assert.FileExists(t, dest)
	}
}

func TestGenerateThumbnailReusesExisting(t *testing.T) {
	probe := &fakeProbe{available: true, duration: 60}
	p := testPipeline(t, probe)

	first := p.GenerateThumbnail("/library/clip.mp4", "clip.mp4")
	second := p.GenerateThumbnail("/library/clip.mp4", "clip.mp4")

	assert.Equal(t, first, second)
	assert.Len(t, probe.frameCalls, 1, "second call must hit the cache")
}

func TestGenerateThumbnailPlaceholderWithoutTool(t *testing.T) {
	p := testPipeline(t, &fakeProbe{available: false})

	dest := p.GenerateThumbnail("/library/clip.mp4", "clip.mp4")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "clip.mp4")
}

func TestGenerateThumbnailPlaceholderOnExtractionFailure(t *testing.T) {
	probe := &fakeProbe{available: true, duration: 60, frameErr: fmt.Errorf("boom")}
	p := testPipeline(t, probe)

	dest := p.GenerateThumbnail("/library/clip.mp4", "clip.mp4")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestGenerateThumbnailEscapesFilename(t *testing.T) {
	p := testPipeline(t, &fakeProbe{available: false})

	dest := p.GenerateThumbnail("/library/a<b>.mp4", "a<b>.mp4")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "a<b>")
	assert.Contains(t, string(data), "a&lt;b&gt;")
}

func TestGeneratePreview(t *testing.T) {
	probe := &fakeProbe{available: true}
	p := testPipeline(t, probe)

	dest := p.GeneratePreview("/library/clip.mp4", "clip.mp4", 120)

	require.NotNil(t, dest)
	assert.FileExists(t, *dest)
	require.Len(t, probe.clipStarts, 1)
	assert.Equal(t, 30.0, probe.clipStarts[0])
	assert.Equal(t, 20.0, probe.clipLens[0])
}

func TestGeneratePreviewWithoutTool(t *testing.T) {
	p := testPipeline(t, &fakeProbe{available: false})
	assert.Nil(t, p.GeneratePreview("/library/clip.mp4", "clip.mp4", 120))
}

func TestGeneratePreviewUnusableDuration(t *testing.T) {
	probe := &fakeProbe{available: true}
	p := testPipeline(t, probe)

	assert.Nil(t, p.GeneratePreview("/library/clip.mp4", "clip.mp4", 0))
	assert.Empty(t, probe.clipStarts)
}

func TestGeneratePreviewDiscardsCorruptOutput(t *testing.T) {
	probe := &fakeProbe{available: true, clipBytes: 100}
	p := testPipeline(t, probe)

	dest := p.GeneratePreview("/library/clip.mp4", "clip.mp4", 120)

	assert.Nil(t, dest)
	assert.NoFileExists(t, p.PreviewPath("clip.mp4"), "corrupt artifact must not linger")
}

func TestGeneratePreviewReusesHealthyArtifact(t *testing.T) {
	probe := &fakeProbe{available: true}
	p := testPipeline(t, probe)

	first := p.GeneratePreview("/library/clip.mp4", "clip.mp4", 120)
	second := p.GeneratePreview("/library/clip.mp4", "clip.mp4", 120)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Len(t, probe.clipStarts, 1)
}

func TestGeneratePreviewRegeneratesUndersizedArtifact(t *testing.T) {
	probe := &fakeProbe{available: true}
	p := testPipeline(t, probe)

	require.NoError(t, os.WriteFile(p.PreviewPath("clip.mp4"), []byte("stub"), 0o644))

	dest := p.GeneratePreview("/library/clip.mp4", "clip.mp4", 120)

	require.NotNil(t, dest)
	assert.Len(t, probe.clipStarts, 1, "undersized artifact is not a cache hit")

	fi, err := os.Stat(*dest)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fi.Size(), int64(minArtifactBytes))
}

func TestPreviewWindow(t *testing.T) {
	cases := []struct {
		d          float64
		ok         bool
		start, len float64
	}{
		{0, false, 0, 0},
		{-5, false, 0, 0},
		{1, false, 0, 0}, // nothing left after the 1s tail margin
		{10, true, 1, 8},
		{20, true, 2, 10},
		{30, true, 2, 10},
		{20.5, true, 2, 10},
		{31, true, 15, 11},
		{45, true, 15, 15},
		{60, true, 15, 15},
		{100, true, 30, 20},
		{600, true, 120, 20},
		{62, true, 30, 18.6},
	}

	for _, c := range cases {
		w, ok := previewWindow(c.d)
		require.Equal(t, c.ok, ok, "d=%.1f", c.d)
		if ok {
			assert.InDelta(t, c.start, w.start, 0.001, "start for d=%.1f", c.d)
			assert.InDelta(t, c.len, w.length, 0.001, "length for d=%.1f", c.d)
		}
	}
}

func TestCommitThumbnail(t *testing.T) {
	probe := &fakeProbe{available: true, duration: 120}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 3)
	require.Len(t, candidates, 3)

	chosen := filepath.Base(candidates[1].Path)
	dest, err := p.CommitThumbnail(chosen, "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, p.ThumbPath("clip.mp4"), dest)
	assert.FileExists(t, dest)

	// Every candidate is gone, the chosen one included
	for _, c := range candidates {
		assert.NoFileExists(t, c.Path)
	}
}

func TestCommitThumbnailMissingCandidate(t *testing.T) {
	p := testPipeline(t, &fakeProbe{available: true})

	_, err := p.CommitThumbnail("selection_1_thumb_clip.jpg", "clip.mp4")
	assert.Error(t, err)
}

func TestCleanupSelectionMatchesDedupSuffix(t *testing.T) {
	p := testPipeline(t, &fakeProbe{available: true})

	// Candidates generated before upload dedup renamed the file
	stale := filepath.Join(p.ThumbDir, "selection_1_thumb_clip.jpg")
	other := filepath.Join(p.ThumbDir, "selection_1_thumb_unrelated.jpg")
	committed := filepath.Join(p.ThumbDir, "thumb_clip.jpg")

	for _, f := range []string{stale, other, committed} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	}

	p.CleanupSelection("clip_2.mp4")

	assert.NoFileExists(t, stale)
	assert.FileExists(t, other, "candidates of other videos must survive")
	assert.FileExists(t, committed, "committed thumbnails are never selection candidates")
}

func TestGenerateSelectionThumbnailsSpacing(t *testing.T) {
	probe := &fakeProbe{available: true, duration: 70}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 6)

	require.Len(t, candidates, 6)
	// 70s / 7 slots = 10s spacing
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60}, probe.frameCalls)

	for i, c := range candidates {
		assert.Equal(t, i+1, c.Index)
		assert.FileExists(t, c.Path)
		assert.Equal(t, "/api/thumbnails/selection/"+filepath.Base(c.Path), c.URL)
	}
	assert.Equal(t, "00:00:10", candidates[0].Timemark)
}

func TestGenerateSelectionThumbnailsDefaultCount(t *testing.T) {
	probe := &fakeProbe{available: true, duration: 700}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 0)
	assert.Len(t, candidates, 6)
}

func TestGenerateSelectionThumbnailsShortVideo(t *testing.T) {
	probe := &fakeProbe{available: true, duration: 4}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 6)

	require.Len(t, candidates, 4, "only as many candidates as whole seconds")
	assert.Equal(t, []float64{1, 2, 3, 4}, probe.frameCalls)
}

func TestGenerateSelectionThumbnailsSkipsBadFrames(t *testing.T) {
	probe := &fakeProbe{
		available:  true,
		duration:   70,
		frameFails: map[float64]bool{30: true},
	}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 6)

	require.Len(t, candidates, 5, "one bad frame doesn't fail the batch")
	for _, c := range candidates {
		assert.NotEqual(t, 30.0, c.Timestamp)
	}
}

func TestGenerateSelectionThumbnailsWithoutTool(t *testing.T) {
	p := testPipeline(t, &fakeProbe{available: false})
	assert.Empty(t, p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 6))
}

func TestFixedSelectionFallback(t *testing.T) {
	probe := &fakeProbe{available: true, durationErr: fmt.Errorf("no duration")}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 6)

	require.Len(t, candidates, 3)
	assert.Equal(t, []float64{1, 3, 5}, probe.frameCalls)
}

func TestFixedSelectionAbortsOnFirstFailure(t *testing.T) {
	probe := &fakeProbe{
		available:   true,
		durationErr: fmt.Errorf("no duration"),
		frameFails:  map[float64]bool{1: true},
	}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 6)
	assert.Empty(t, candidates)
	assert.Len(t, probe.frameCalls, 1, "a dead first frame abandons the strategy")
}

func TestFixedSelectionKeepsPartialResults(t *testing.T) {
	probe := &fakeProbe{
		available:   true,
		durationErr: fmt.Errorf("no duration"),
		frameFails:  map[float64]bool{5: true},
	}
	p := testPipeline(t, probe)

	candidates := p.GenerateSelectionThumbnails("/library/clip.mp4", "clip.mp4", 6)

	require.Len(t, candidates, 2)
	assert.Equal(t, []float64{1, 3}, []float64{candidates[0].Timestamp, candidates[1].Timestamp})
}
