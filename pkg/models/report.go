package models

// Sync status labels reported by the analyzer. The start-time comparison
// is the primary classifier; the duration comparison is reported as a
// secondary verdict alongside it.
const (
	SyncStatusOK           = "OK: sync present"
	SyncStatusNoVideo      = "warning: missing video stream"
	SyncStatusNoAudio      = "warning: missing audio stream"
	SyncStatusStartSkew    = "warning: start-time mismatch"
	SyncStatusAnalysisFail = "analysis failed"
)

// Secondary duration-based verdicts.
const (
	DurationVerdictGood = "good sync"
	DurationVerdictSkew = "noticeable difference"
)

// CodecException values.
const (
	CodecExceptionOK      = "OK"
	CodecExceptionMissing = "warning: missing required stream"
)

// DiagnosticReport is the normalized analysis result for one uploaded file.
type DiagnosticReport struct {
	SyncStatus  string `json:"sync_status"`
	SyncMessage string `json:"sync_message"`

	Filename   string  `json:"filename"`
	Duration   float64 `json:"duration"`
	SizeBytes  int64   `json:"size_bytes"`
	FormatName string  `json:"format_name"`
	BitRate    int64   `json:"bit_rate"`

	Video *VideoStreamInfo `json:"video,omitempty"`
	Audio *AudioStreamInfo `json:"audio,omitempty"`

	// Skew diagnostics, only set when both streams are present.
	StartSkewSeconds *float64 `json:"start_skew_seconds,omitempty"`
	DurationSkewMS   *float64 `json:"duration_skew_ms,omitempty"`
	DurationVerdict  string   `json:"duration_verdict,omitempty"`

	CodecException string `json:"codec_exception"`
}

// VideoStreamInfo holds the per-stream fields reported for the first
// video stream in the container.
type VideoStreamInfo struct {
	Codec          string `json:"codec"`
	Width          *int   `json:"width,omitempty"`
	Height         *int   `json:"height,omitempty"`
	AvgFrameRate   string `json:"avg_frame_rate"`
	CodecTagString string `json:"codec_tag_string"`
}

// AudioStreamInfo holds the per-stream fields reported for the first
// audio stream in the container.
type AudioStreamInfo struct {
	Codec         string `json:"codec"`
	SampleRate    *int   `json:"sample_rate,omitempty"`
	Channels      *int   `json:"channels,omitempty"`
	ChannelLayout string `json:"channel_layout"`
}

// PingResponse is returned by the health check endpoint.
type PingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the generic error body for rejected or failed requests.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
