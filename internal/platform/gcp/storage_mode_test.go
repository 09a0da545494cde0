package gcp

import (
	"errors"
	"testing"
)

func TestParseObjectStorageMode(t *testing.T) {
	cases := []struct {
		raw, host string
		want      ObjectStorageMode
	}{
		{"", "", ObjectStorageModeGCS},
		{"", "http://fake-gcs:4443", ObjectStorageModeGCSEmulator},
		{"GCS", "http://fake-gcs:4443", ObjectStorageModeGCS},
		{"gcs_emulator", "", ObjectStorageModeGCSEmulator},
	}
	for _, tc := range cases {
		got, err := ParseObjectStorageMode(tc.raw, tc.host)
		if err != nil {
			t.Fatalf("ParseObjectStorageMode(%q, %q): %v", tc.raw, tc.host, err)
		}
		if got != tc.want {
			t.Fatalf("ParseObjectStorageMode(%q, %q): want=%q got=%q", tc.raw, tc.host, tc.want, got)
		}
	}

	_, err := ParseObjectStorageMode("s3", "")
	var cfgErr *ObjectStorageConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != ObjectStorageConfigErrorInvalidMode {
		t.Fatalf("invalid mode: got %v", err)
	}
}

func TestValidateObjectStorageConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  ObjectStorageConfig
		code ObjectStorageConfigErrorCode
	}{
		{"ok gcs", ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "b"}, ""},
		{"ok emulator", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "b", EmulatorHost: "http://fake-gcs:4443"}, ""},
		{"missing bucket", ObjectStorageConfig{Mode: ObjectStorageModeGCS}, ObjectStorageConfigErrorMissingBucket},
		{"missing host", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "b"}, ObjectStorageConfigErrorMissingEmulatorHost},
		{"relative host", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "b", EmulatorHost: "fake-gcs:4443"}, ObjectStorageConfigErrorInvalidURL},
		{"bad public base", ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "b", PublicBaseURL: "localhost"}, ObjectStorageConfigErrorInvalidURL},
		{"bad mode", ObjectStorageConfig{Mode: "azure", Bucket: "b"}, ObjectStorageConfigErrorInvalidMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateObjectStorageConfig(tc.cfg)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cfgErr *ObjectStorageConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Code != tc.code {
				t.Fatalf("want code %q, got %v", tc.code, err)
			}
		})
	}
}
