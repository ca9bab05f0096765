package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/feedback360-backend/internal/platform/artifacts"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

var openArtifactStore = artifacts.Open

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidDriver StorageProviderBootstrapErrorCode = "invalid_driver"
	StorageProviderBootstrapErrorMissingBucket StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code   StorageProviderBootstrapErrorCode
	Driver string
	Bucket string
	Cause  error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "artifact store bootstrap failed"
	}
	return fmt.Sprintf(
		"artifact store bootstrap failed (code=%s driver=%q bucket=%q): %v",
		e.Code,
		e.Driver,
		e.Bucket,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveArtifactStore opens the configured store. Unless required is set a
// failure is logged and a nil store is returned, which disables archiving.
func resolveArtifactStore(ctx context.Context, log *logger.Logger, cfg artifacts.Config, required bool) (artifacts.Store, error) {
	driver := artifacts.Driver(strings.ToLower(strings.TrimSpace(string(cfg.Driver))))
	bucket := bucketFor(cfg, driver)

	var err error
	switch {
	case driver != "" && driver != artifacts.DriverLocal && driver != artifacts.DriverS3 && driver != artifacts.DriverGCS:
		err = &StorageProviderBootstrapError{
			Code:   StorageProviderBootstrapErrorInvalidDriver,
			Driver: string(driver),
			Cause:  fmt.Errorf("unsupported artifact store driver %q", driver),
		}
	case (driver == artifacts.DriverS3 || driver == artifacts.DriverGCS) && bucket == "":
		err = &StorageProviderBootstrapError{
			Code:   StorageProviderBootstrapErrorMissingBucket,
			Driver: string(driver),
			Cause:  fmt.Errorf("bucket required for %s driver", driver),
		}
	}

	var store artifacts.Store
	if err == nil {
		log.Info("Selecting artifact store", "driver", driver, "bucket", bucket)
		cfg.Driver = driver
		store, err = openArtifactStore(ctx, log, cfg)
		if err != nil {
			err = classifyStorageProviderBootstrapError(cfg, err)
		}
	}
	if err == nil {
		return store, nil
	}

	code := storageProviderBootstrapErrorCode(err)
	if required {
		log.Error("Artifact store bootstrap failed", "driver", driver, "bucket", bucket, "error_code", code, "error", err)
		return nil, err
	}
	log.Warn("Artifact store unavailable; chart archiving disabled", "driver", driver, "bucket", bucket, "error_code", code, "error", err)
	return nil, nil
}

func bucketFor(cfg artifacts.Config, driver artifacts.Driver) string {
	switch driver {
	case artifacts.DriverS3:
		return strings.TrimSpace(cfg.S3Bucket)
	case artifacts.DriverGCS:
		return strings.TrimSpace(cfg.GCSBucket)
	}
	return ""
}

func classifyStorageProviderBootstrapError(cfg artifacts.Config, err error) error {
	var already *StorageProviderBootstrapError
	if errors.As(err, &already) {
		return err
	}
	return &StorageProviderBootstrapError{
		Code:   StorageProviderBootstrapErrorConnectFailed,
		Driver: string(cfg.Driver),
		Bucket: bucketFor(cfg, cfg.Driver),
		Cause:  err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
