package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/avtriage/avtriage/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0, 5*time.Minute)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func testReport() *models.DiagnosticReport {
	width := 1920
	height := 1080
	skew := 0.05
	return &models.DiagnosticReport{
		SyncStatus:  models.SyncStatusOK,
		SyncMessage: "container reports both audio and video streams, start-time skew 0.050 seconds",
		Filename:    "clip.mp4",
		Duration:    10.0,
		SizeBytes:   1048576,
		FormatName:  "mov,mp4,m4a,3gp,3g2,mj2",
		BitRate:     838860,
		Video: &models.VideoStreamInfo{
			Codec:          "h264",
			Width:          &width,
			Height:         &height,
			AvgFrameRate:   "30/1",
			CodecTagString: "avc1",
		},
		StartSkewSeconds: &skew,
		CodecException:   models.CodecExceptionOK,
	}
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	if cache == nil {
		t.Fatal("Cache should not be nil")
	}

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCache_ReportOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	hash := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	report := testReport()

	// Test SetReport
	if err := cache.SetReport(ctx, hash, report); err != nil {
		t.Fatalf("SetReport failed: %v", err)
	}

	// Test GetReport
	retrieved, err := cache.GetReport(ctx, hash)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}

	if retrieved == nil {
		t.Fatal("Retrieved report should not be nil")
	}

	if retrieved.SyncStatus != report.SyncStatus {
		t.Errorf("Expected sync status %q, got %q", report.SyncStatus, retrieved.SyncStatus)
	}

	if retrieved.Video == nil || retrieved.Video.Codec != "h264" {
		t.Error("Expected video stream info to round-trip")
	}

	// Test DeleteReport
	if err := cache.DeleteReport(ctx, hash); err != nil {
		t.Fatalf("DeleteReport failed: %v", err)
	}

	retrieved, err = cache.GetReport(ctx, hash)
	if err != nil {
		t.Fatalf("GetReport after delete failed: %v", err)
	}
	if retrieved != nil {
		t.Error("Expected cache miss after delete")
	}
}

func TestCache_Miss(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	retrieved, err := cache.GetReport(context.Background(), "no-such-hash")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if retrieved != nil {
		t.Error("Expected nil report on cache miss")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	hash := "deadbeef"

	if err := cache.SetReport(ctx, hash, testReport()); err != nil {
		t.Fatalf("SetReport failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	retrieved, err := cache.GetReport(ctx, hash)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if retrieved != nil {
		t.Error("Expected report to expire after TTL")
	}
}
