// Package artifacts stores rendered report files in a local directory, an S3
// bucket or a GCS bucket.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/yungbote/feedback360-backend/internal/platform/envutil"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

var ErrNotFound = errors.New("artifact not found")

type Driver string

const (
	DriverLocal Driver = "local"
	DriverS3    Driver = "s3"
	DriverGCS   Driver = "gcs"
)

type Object struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	URL         string    `json:"url,omitempty"`
}

type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	Get(ctx context.Context, key string) ([]byte, Object, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Object, error)
}

type Config struct {
	Driver Driver

	LocalDir string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	GCSBucket       string
	GCSEmulatorHost string
}

func ConfigFromEnv() Config {
	return Config{
		Driver:          Driver(strings.ToLower(envutil.String("ARTIFACT_STORE_DRIVER", string(DriverLocal)))),
		LocalDir:        envutil.String("ARTIFACT_LOCAL_DIR", "./artifacts"),
		S3Bucket:        strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")),
		S3Region:        envutil.String("ARTIFACT_S3_REGION", "us-east-1"),
		S3Endpoint:      strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT")),
		S3PathStyle:     envutil.Bool("ARTIFACT_S3_PATH_STYLE", false),
		GCSBucket:       strings.TrimSpace(os.Getenv("ARTIFACT_GCS_BUCKET")),
		GCSEmulatorHost: strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
	}
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("service", "ArtifactStore", "driver", cfg.Driver)
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocal(cfg.LocalDir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	case DriverGCS:
		return NewGCS(ctx, log, GCSConfig{Bucket: cfg.GCSBucket, EmulatorHost: cfg.GCSEmulatorHost})
	}
	return nil, fmt.Errorf("unknown artifact store driver %q", cfg.Driver)
}

// cleanKey rejects keys that could escape the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("empty artifact key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	return path.Clean(key), nil
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(key)
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	case strings.HasSuffix(s, ".csv"):
		return "text/csv"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	}
	return "application/octet-stream"
}
