package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	ffmpegbin "github.com/nmoreau/wavecap/internal/ffmpeg"
)

// StreamInfo describes a single stream reported by ffprobe.
type StreamInfo struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
}

// ProbeInfo is the subset of ffprobe output the pipeline cares about.
type ProbeInfo struct {
	Streams []StreamInfo `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// HasAudio reports whether at least one audio stream is present.
func (p *ProbeInfo) HasAudio() bool {
	for _, stream := range p.Streams {
		if stream.CodecType == "audio" {
			return true
		}
	}
	return false
}

// Duration returns the container duration, or zero if ffprobe did not
// report one.
func (p *ProbeInfo) Duration() time.Duration {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(p.Format.Duration), 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// Probe runs ffprobe against path and returns stream and format metadata.
func Probe(ctx context.Context, path string) (*ProbeInfo, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("ffprobe failed: %s: %w", detail, err)
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeOutput(out.Bytes())
}

func parseProbeOutput(data []byte) (*ProbeInfo, error) {
	var info ProbeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &info, nil
}
