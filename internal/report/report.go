// Package report turns parsed ffprobe metadata into a normalized
// diagnostic report with a sync-status classification.
//
// Two skew heuristics exist: the start-time comparison (threshold
// 0.1s) decides the sync_status, and the duration comparison
// (threshold 100ms) is reported separately as duration_verdict. They
// are not equivalent and may disagree on the same file.
package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/avtriage/avtriage/internal/probe"
	"github.com/avtriage/avtriage/pkg/models"
)

// StartSkewThreshold is the start-time difference (seconds) at or above
// which streams are classified as out of sync.
const StartSkewThreshold = 0.1

// DurationSkewThresholdMS is the stream-duration difference
// (milliseconds) at or above which the secondary verdict flags a
// noticeable difference.
const DurationSkewThresholdMS = 100.0

// Build assembles a DiagnosticReport from a successful probe result.
// It is a pure function: the same input always yields the same report,
// and the input is never mutated.
//
// Absent numeric stream fields default to 0 before the skew comparison,
// so a stream that simply omits start_time can produce a false verdict
// either way. That is a documented limitation of the heuristic.
func Build(result *probe.Result) *models.DiagnosticReport {
	video := result.FirstVideo()
	audio := result.FirstAudio()

	r := &models.DiagnosticReport{
		SyncStatus:  models.SyncStatusOK,
		SyncMessage: "container reports both audio and video streams",

		Filename:   orUnknown(result.Format.Filename),
		Duration:   parseFloat(result.Format.Duration),
		SizeBytes:  parseInt(result.Format.Size),
		FormatName: orUnknown(result.Format.FormatName),
		BitRate:    parseInt(result.Format.BitRate),
	}

	switch {
	case video == nil:
		r.SyncStatus = models.SyncStatusNoVideo
		r.SyncMessage = "container has no video track"
	case audio == nil:
		r.SyncStatus = models.SyncStatusNoAudio
		r.SyncMessage = "container has no audio track"
	default:
		classifySkew(r, video, audio)
	}

	if video != nil {
		r.Video = &models.VideoStreamInfo{
			Codec:          orUnknown(video.CodecName),
			Width:          video.Width,
			Height:         video.Height,
			AvgFrameRate:   orUnknown(video.AvgFrameRate),
			CodecTagString: orUnknown(video.CodecTagString),
		}
	}
	if audio != nil {
		r.Audio = &models.AudioStreamInfo{
			Codec:         orUnknown(audio.CodecName),
			SampleRate:    parseIntPtr(audio.SampleRate),
			Channels:      audio.Channels,
			ChannelLayout: orUnknown(audio.ChannelLayout),
		}
	}

	if video != nil && audio != nil {
		r.CodecException = models.CodecExceptionOK
	} else {
		r.CodecException = models.CodecExceptionMissing
	}

	return r
}

// BuildFailure produces the report returned when the probe itself
// failed, carrying the failure detail instead of a classification.
func BuildFailure(err error) *models.DiagnosticReport {
	return &models.DiagnosticReport{
		SyncStatus:     models.SyncStatusAnalysisFail,
		SyncMessage:    err.Error(),
		FormatName:     "unknown",
		Filename:       "unknown",
		CodecException: models.CodecExceptionMissing,
	}
}

// classifySkew runs both heuristics against the two streams. Skew at
// or above the threshold counts as a mismatch.
func classifySkew(r *models.DiagnosticReport, video, audio *probe.Stream) {
	startSkew := math.Abs(parseFloat(video.StartTime) - parseFloat(audio.StartTime))
	rounded := roundTo(startSkew, 3)
	r.StartSkewSeconds = &rounded

	if startSkew >= StartSkewThreshold {
		r.SyncStatus = models.SyncStatusStartSkew
		r.SyncMessage = fmt.Sprintf(
			"video and audio start times differ by %.3f seconds; check whether the audio track is delayed",
			startSkew)
	} else {
		r.SyncMessage = fmt.Sprintf(
			"container reports both audio and video streams, start-time skew %.3f seconds",
			startSkew)
	}

	durationSkewMS := math.Abs(parseFloat(video.Duration)-parseFloat(audio.Duration)) * 1000
	roundedMS := roundTo(durationSkewMS, 2)
	r.DurationSkewMS = &roundedMS

	if durationSkewMS >= DurationSkewThresholdMS {
		r.DurationVerdict = models.DurationVerdictSkew
	} else {
		r.DurationVerdict = models.DurationVerdictGood
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseIntPtr keeps absent or unparsable numeric fields absent instead
// of coercing them to zero.
func parseIntPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
