// Package media derives visual artifacts from video files. It tolerates
// the complete absence of the external ffmpeg/ffprobe tools: metadata
// falls back to defaults, thumbnails to placeholders, previews to nothing.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Prober is the capability surface of the external media tool.
type Prober interface {
	Available() bool
	Duration(path string) (float64, error)
	Dimensions(path string) (width, height int, err error)
	ExtractFrame(path string, ts float64, dest string) error
	ExtractClip(path string, start, length float64, dest string) error
}

// FFmpeg shells out to ffmpeg/ffprobe. Availability is checked once at
// construction and threaded through, not re-probed at every call site.
type FFmpeg struct {
	ffmpeg    string
	ffprobe   string
	available bool
}

func NewFFmpeg() *FFmpeg {
	f := &FFmpeg{
		ffmpeg:  viper.GetString("ffmpeg.path"),
		ffprobe: viper.GetString("ffprobe.path"),
	}

	if f.ffmpeg == "" {
		f.ffmpeg = "ffmpeg"
	}
	if f.ffprobe == "" {
		f.ffprobe = "ffprobe"
	}

	_, errMpeg := exec.LookPath(f.ffmpeg)
	_, errProbe := exec.LookPath(f.ffprobe)
	f.available = errMpeg == nil && errProbe == nil

	if !f.available {
		zap.L().Warn("ffmpeg/ffprobe not found, running in degraded mode. Thumbnails will be placeholders and previews disabled")
	}

	return f
}

func (f *FFmpeg) Available() bool {
	return f.available
}

func (f *FFmpeg) Duration(p string) (float64, error) {
	if !f.available {
		return 0, ErrToolUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	zap.L().Debug("Running FFprobe to determine video duration")

	cmd := exec.CommandContext(ctx, f.ffprobe, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", "-i", p)

	var stdOut, stdErr bytes.Buffer
	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed, %w (%s)", err, stdErr.String())
	}

	durStr := strings.TrimSpace(stdOut.String())
	d, err := strconv.ParseFloat(durStr, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed duration: %w (%s)", err, stdErr.String())
	}

	return d, nil
}

func (f *FFmpeg) Dimensions(p string) (int, int, error) {
	if !f.available {
		return 0, 0, ErrToolUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffprobe, "-v", "error", "-select_streams", "v:0", "-show_entries", "stream=width,height", "-of", "csv=s=x:p=0", "-i", p)

	var stdOut, stdErr bytes.Buffer
	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		return 0, 0, fmt.Errorf("ffprobe failed, %w (%s)", err, stdErr.String())
	}

	parts := strings.Split(strings.TrimSpace(stdOut.String()), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed dimensions output %q", stdOut.String())
	}

	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed width: %w", err)
	}

	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed height: %w", err)
	}

	return w, h, nil
}

// ExtractFrame writes a single JPEG frame taken at ts seconds.
// -ss before the input uses key-frame seeking so that it's faster.
func (f *FFmpeg) ExtractFrame(p string, ts float64, dest string) error {
	if !f.available {
		return ErrToolUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()

	cmd := exec.CommandContext(ctx, f.ffmpeg, "-loglevel", "error",
		"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
		"-i", p,
		"-frames:v", "1",
		"-q:v", "2",
		"-vf", "scale=-2:360",
		dest, "-y")

	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to extract frame, %w (%s)", err, stdErr.String())
	}

	zap.L().Debug("Extracted frame",
		zap.Float64("ts", ts),
		zap.Duration("took", time.Since(now)))

	return nil
}

// ExtractClip writes a short muted MP4 starting at start seconds.
func (f *FFmpeg) ExtractClip(p string, start, length float64, dest string) error {
	if !f.available {
		return ErrToolUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()

	cmd := exec.CommandContext(ctx, f.ffmpeg, "-loglevel", "error",
		"-ss", strconv.FormatFloat(start, 'f', 3, 64),
		"-i", p,
		"-t", strconv.FormatFloat(length, 'f', 3, 64),
		"-an",
		"-vf", "scale=-2:360",
		"-movflags", "+faststart",
		"-f", "mp4",
		dest, "-y")

	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to extract clip, %w (%s)", err, stdErr.String())
	}

	zap.L().Debug("Extracted preview clip",
		zap.Float64("start", start),
		zap.Float64("length", length),
		zap.Duration("took", time.Since(now)))

	return nil
}
