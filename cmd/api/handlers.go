package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avtriage/avtriage/internal/logging"
	"github.com/avtriage/avtriage/internal/metrics"
	"github.com/avtriage/avtriage/internal/middleware"
	"github.com/avtriage/avtriage/internal/probe"
	"github.com/avtriage/avtriage/internal/report"
	"github.com/avtriage/avtriage/internal/tracing"
	"github.com/avtriage/avtriage/internal/upload"
	"github.com/avtriage/avtriage/pkg/models"
)

// Prober runs the external media probing tool.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
	Version(ctx context.Context) (string, error)
}

// ReportCache stores diagnostic reports keyed by content hash.
type ReportCache interface {
	GetReport(ctx context.Context, contentHash string) (*models.DiagnosticReport, error)
	SetReport(ctx context.Context, contentHash string, report *models.DiagnosticReport) error
}

// API holds the request-handling collaborators. All of them are
// request-scoped or immutable, so handlers are safe to run concurrently.
type API struct {
	prober    Prober
	validator *upload.Validator
	saver     *upload.Saver
	cache     ReportCache
	log       *logging.Logger
}

// ping reports whether the service and its probing tool are available.
func (api *API) ping(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	version, err := api.prober.Version(ctx)
	if err != nil {
		api.log.ErrorWithErr("ffprobe availability check failed", err)
		c.JSON(http.StatusServiceUnavailable, models.PingResponse{
			Status:  "degraded",
			Message: "ffprobe is not available",
		})
		return
	}

	c.JSON(http.StatusOK, models.PingResponse{
		Status:  "ok",
		Message: version,
	})
}

// analyze runs the full pipeline: validate the multipart upload, write
// it to a temp file, probe it, and return the diagnostic report. The
// temp file is removed on every exit path.
func (api *API) analyze(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	reqLog := api.log.WithRequestID(requestID)

	span, ctx := tracing.StartSpan(c.Request.Context(), "analyze")
	defer tracing.FinishSpan(span)

	header, err := c.FormFile("video")
	if err != nil {
		metrics.RecordRejectedUpload("missing_file")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "invalid request",
			Message: "request must include a 'video' file field",
		})
		return
	}

	if err := api.validator.Validate(header); err != nil {
		metrics.RecordRejectedUpload("validation")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "invalid request",
			Message: err.Error(),
		})
		return
	}

	tempPath, contentHash, err := api.saver.Save(header)
	if err != nil {
		reqLog.ErrorWithErr("failed to save upload", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "internal error",
			Message: "analysis could not be completed",
		})
		return
	}
	defer os.Remove(tempPath)

	metrics.RecordUpload(header.Size)
	tracing.SetTag(span, "upload.filename", header.Filename)
	tracing.SetTag(span, "upload.size_bytes", header.Size)

	// Identical content yields an identical report, so serve it from
	// the cache when possible.
	if api.cache != nil {
		if cached, err := api.cache.GetReport(ctx, contentHash); err != nil {
			reqLog.WithError(err).Warn("report cache lookup failed")
		} else if cached != nil {
			metrics.CacheHitsTotal.Inc()
			metrics.RecordAnalysis(cached.SyncStatus)
			reqLog.LogAnalysis(header.Filename, cached.SyncStatus, 0, true)
			c.JSON(http.StatusOK, cached)
			return
		} else {
			metrics.CacheMissesTotal.Inc()
		}
	}

	probeSpan, probeCtx := tracing.StartSpan(ctx, "probe")
	probeStart := time.Now()
	result, err := api.prober.Probe(probeCtx, tempPath)
	probeDuration := time.Since(probeStart)
	tracing.LogError(probeSpan, err)
	tracing.FinishSpan(probeSpan)

	metrics.RecordProbe(probeDuration.Seconds())

	if err != nil {
		api.respondProbeError(c, reqLog, err)
		return
	}

	rep := report.Build(result)

	if api.cache != nil {
		if err := api.cache.SetReport(ctx, contentHash, rep); err != nil {
			reqLog.WithError(err).Warn("report cache store failed")
		}
	}

	metrics.RecordAnalysis(rep.SyncStatus)
	reqLog.LogAnalysis(header.Filename, rep.SyncStatus, probeDuration, false)

	c.JSON(http.StatusOK, rep)
}

// respondProbeError maps probe failures onto the response contract:
// ffprobe's own complaints are safe to return, anything else is logged
// and surfaced as a generic failure.
func (api *API) respondProbeError(c *gin.Context, reqLog *logging.Logger, err error) {
	var execErr *probe.ExecutionError
	if errors.As(err, &execErr) {
		metrics.RecordProbeFailure("execution")
		metrics.RecordAnalysis(models.SyncStatusAnalysisFail)
		reqLog.ErrorWithErr("ffprobe execution failed", err)
		c.JSON(http.StatusUnprocessableEntity, report.BuildFailure(execErr))
		return
	}

	var outErr *probe.OutputError
	if errors.As(err, &outErr) {
		metrics.RecordProbeFailure("output")
	} else {
		metrics.RecordProbeFailure("internal")
	}

	reqLog.ErrorWithErr("analysis failed", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Status:  "internal error",
		Message: "analysis could not be completed",
	})
}
