package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"
)

// Result is the parsed ffprobe output for one file. Fields mirror the
// JSON ffprobe emits: numeric format values arrive as strings and are
// coerced later, stream dimensions stay pointers so an absent value is
// distinguishable from zero.
type Result struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

// Format holds the container-level metadata block.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// Stream holds one stream descriptor. Only codec_type "video" and
// "audio" are consumed; other stream types are ignored.
type Stream struct {
	CodecType      string `json:"codec_type"`
	CodecName      string `json:"codec_name"`
	Width          *int   `json:"width,omitempty"`
	Height         *int   `json:"height,omitempty"`
	AvgFrameRate   string `json:"avg_frame_rate"`
	CodecTagString string `json:"codec_tag_string"`
	SampleRate     string `json:"sample_rate"`
	Channels       *int   `json:"channels,omitempty"`
	ChannelLayout  string `json:"channel_layout"`
	StartTime      string `json:"start_time"`
	Duration       string `json:"duration"`
}

// FirstVideo returns the first video stream, or nil if the container
// has none.
func (r *Result) FirstVideo() *Stream {
	return r.first("video")
}

// FirstAudio returns the first audio stream, or nil if the container
// has none.
func (r *Result) FirstAudio() *Stream {
	return r.first("audio")
}

func (r *Result) first(codecType string) *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == codecType {
			return &r.Streams[i]
		}
	}
	return nil
}

// Prober invokes ffprobe against local files.
type Prober struct {
	ffprobePath string
	timeout     time.Duration
}

// NewProber creates a Prober using the given ffprobe binary path and a
// per-invocation timeout. A zero timeout disables the deadline.
func NewProber(ffprobePath string, timeout time.Duration) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// Probe runs ffprobe against the file at path and returns the parsed
// container and stream metadata. A failed invocation returns
// *ExecutionError carrying ffprobe's stderr; unparsable output returns
// *OutputError. No retries: one probe failure is final.
func (p *Prober) Probe(ctx context.Context, path string) (*Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ExecutionError{
			Err:    err,
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, &OutputError{Err: err}
	}

	return &result, nil
}

// Version runs "ffprobe -version" and returns the first line of its
// output. Used by the health check to verify the tool is installed.
func (p *Prober) Version(ctx context.Context) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, "-version")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ExecutionError{
			Err:    err,
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}

	line, _, _ := strings.Cut(stdout.String(), "\n")
	return strings.TrimSpace(line), nil
}
