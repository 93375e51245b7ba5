package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9090
  host: "127.0.0.1"

upload:
  maxSizeBytes: 52428800
  allowedExtensions:
    - mp4
    - mkv

probe:
  ffprobePath: "/usr/local/bin/ffprobe"
  timeout: "15s"
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Upload.MaxSizeBytes != 52428800 {
		t.Errorf("Expected max size 52428800, got %d", cfg.Upload.MaxSizeBytes)
	}

	if len(cfg.Upload.AllowedExtensions) != 2 {
		t.Errorf("Expected 2 allowed extensions, got %d", len(cfg.Upload.AllowedExtensions))
	}

	if cfg.Probe.FFprobePath != "/usr/local/bin/ffprobe" {
		t.Errorf("Expected custom ffprobe path, got %s", cfg.Probe.FFprobePath)
	}

	if cfg.Probe.Timeout != 15*time.Second {
		t.Errorf("Expected probe timeout 15s, got %v", cfg.Probe.Timeout)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte("server:\n  port: 8080\n")); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Upload.MaxSizeBytes != 100*1024*1024 {
		t.Errorf("Expected default max size 100MB, got %d", cfg.Upload.MaxSizeBytes)
	}

	if len(cfg.Upload.AllowedExtensions) != 4 {
		t.Errorf("Expected 4 default extensions, got %v", cfg.Upload.AllowedExtensions)
	}

	if cfg.Probe.FFprobePath != "ffprobe" {
		t.Errorf("Expected default ffprobe path, got %s", cfg.Probe.FFprobePath)
	}

	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled by default")
	}

	if cfg.Cache.Enabled {
		t.Error("Expected cache disabled by default")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
