package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/gcp"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidMode, Value: "s3"}, StorageProviderBootstrapErrorInvalidMode},
		{"missing emulator host", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingEmulatorHost}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid url", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidURL, Value: "fake-gcs:4443"}, StorageProviderBootstrapErrorInvalidURL},
		{"connect failed", errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCSEmulator}, tc.err)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("cause not preserved: %v", err)
			}
		})
	}
}

type stubBlobStore struct{}

func (stubBlobStore) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "stub://object", nil
}

func (stubBlobStore) DownloadURL(context.Context, string) (string, error) {
	return "stub://signed", nil
}

func TestResolveBlobStoreSelectsEmulatorFromHost(t *testing.T) {
	var seen gcp.ObjectStorageConfig
	orig := newBucketService
	newBucketService = func(_ *logger.Logger, cfg gcp.ObjectStorageConfig) (gcp.BlobStore, error) {
		seen = cfg
		return stubBlobStore{}, nil
	}
	t.Cleanup(func() { newBucketService = orig })

	cfg := Config{Storage: gcp.ObjectStorageConfig{Bucket: "learnnow", EmulatorHost: "http://fake-gcs:4443"}}
	store, err := resolveBlobStore(logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("resolveBlobStore: %v", err)
	}
	if seen.Mode != gcp.ObjectStorageModeGCSEmulator {
		t.Fatalf("mode: want=%q got=%q", gcp.ObjectStorageModeGCSEmulator, seen.Mode)
	}
	uri, err := store.Upload(context.Background(), "k", strings.NewReader("x"), "")
	if err != nil || uri != "stub://object" {
		t.Fatalf("upload through resolved store: uri=%q err=%v", uri, err)
	}
}

func TestResolveBlobStoreRejectsUnknownMode(t *testing.T) {
	cfg := Config{StorageMode: "s3", Storage: gcp.ObjectStorageConfig{Bucket: "learnnow"}}
	_, err := resolveBlobStore(logger.Nop(), cfg)
	if got := storageProviderBootstrapErrorCode(err); got != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorInvalidMode, got)
	}
}

func TestResolveBlobStoreWithoutBucketIsDisabled(t *testing.T) {
	store, err := resolveBlobStore(logger.Nop(), Config{})
	if err != nil {
		t.Fatalf("resolveBlobStore: %v", err)
	}
	_, err = store.DownloadURL(context.Background(), "a.pdf")
	ae, ok := apierr.As(err)
	if !ok || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 api error, got %v", err)
	}
}
