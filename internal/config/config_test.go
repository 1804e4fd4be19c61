package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/config"
)

// setRequired fills the minimum environment Load accepts with defaults.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_DSN", "host=localhost user=anb dbname=anb")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("WEBDAV_URL", "http://nextcloud:8080")
	t.Setenv("WEBDAV_USERNAME", "worker")
	t.Setenv("WEBDAV_PASSWORD", "secret")
}

// load goes through a path that never exists so a developer's local .env file
// cannot leak into the test environment.
func load() (*config.Config, error) {
	return config.Load("testdata/absent.env")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q, want :8000", cfg.HTTPAddr)
	}
	if cfg.QueueBackend != config.QueueBackendStream {
		t.Errorf("QueueBackend = %q, want stream", cfg.QueueBackend)
	}
	if cfg.StorageBackend != config.StorageBackendWebDAV {
		t.Errorf("StorageBackend = %q, want webdav", cfg.StorageBackend)
	}
	if cfg.VideoMinDuration != 20*time.Second || cfg.VideoMaxDuration != 60*time.Second {
		t.Errorf("duration bounds = %s..%s, want 20s..60s", cfg.VideoMinDuration, cfg.VideoMaxDuration)
	}
	if cfg.CacheRankingsTTL != 5*time.Minute {
		t.Errorf("CacheRankingsTTL = %s, want 5m", cfg.CacheRankingsTTL)
	}
}

func TestLoadDurationsAcceptBareSeconds(t *testing.T) {
	setRequired(t)
	t.Setenv("VIDEO_MIN_DURATION", "15")
	t.Setenv("VIDEO_MAX_DURATION", "45s")

	cfg, err := load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VideoMinDuration != 15*time.Second {
		t.Errorf("VideoMinDuration = %s, want 15s from bare integer", cfg.VideoMinDuration)
	}
	if cfg.VideoMaxDuration != 45*time.Second {
		t.Errorf("VideoMaxDuration = %s, want 45s", cfg.VideoMaxDuration)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(t *testing.T)
		wantErr string
	}{
		{
			name:    "missing dsn",
			mutate:  func(t *testing.T) { t.Setenv("POSTGRES_DSN", "") },
			wantErr: "POSTGRES_DSN",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(t *testing.T) { t.Setenv("JWT_SECRET", "") },
			wantErr: "JWT_SECRET",
		},
		{
			name: "inverted duration bounds",
			mutate: func(t *testing.T) {
				t.Setenv("VIDEO_MIN_DURATION", "90s")
				t.Setenv("VIDEO_MAX_DURATION", "60s")
			},
			wantErr: "VIDEO_MIN_DURATION",
		},
		{
			name:    "unknown queue backend",
			mutate:  func(t *testing.T) { t.Setenv("QUEUE_BACKEND", "kafka") },
			wantErr: "QUEUE_BACKEND",
		},
		{
			name:    "rabbitmq backend without url",
			mutate:  func(t *testing.T) { t.Setenv("QUEUE_BACKEND", "rabbitmq") },
			wantErr: "RABBITMQ_URL",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(t *testing.T) { t.Setenv("STORAGE_BACKEND", "gcs") },
			wantErr: "STORAGE_BACKEND",
		},
		{
			name: "s3 backend without endpoint",
			mutate: func(t *testing.T) {
				t.Setenv("STORAGE_BACKEND", "s3")
				t.Setenv("S3_ENDPOINT", "")
			},
			wantErr: "S3_ENDPOINT",
		},
		{
			name: "webdav backend without credentials",
			mutate: func(t *testing.T) {
				t.Setenv("WEBDAV_USERNAME", "")
				t.Setenv("WEBDAV_PASSWORD", "")
			},
			wantErr: "WEBDAV credentials",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			tc.mutate(t)

			_, err := load()
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Load() error = %q, want mention of %q", err, tc.wantErr)
			}
		})
	}
}
