package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// BlobStore is the attachment storage the file endpoints front.
type BlobStore interface {
	Upload(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

type FileView struct {
	Key string `json:"key"`
	URI string `json:"uri"`
}

type FileService interface {
	Upload(ctx context.Context, caller Caller, filename string, file io.Reader, contentType string) (*FileView, error)
	DownloadURL(ctx context.Context, caller Caller, key string) (*FileView, error)
}

type fileService struct {
	log   *logger.Logger
	blobs BlobStore
}

func NewFileService(blobs BlobStore, baseLog *logger.Logger) FileService {
	return &fileService{
		log:   baseLog.With("service", "FileService"),
		blobs: blobs,
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Upload stores file under "<user id>/<random id>-<name>" so uploads never
// overwrite each other.
func (s *fileService) Upload(ctx context.Context, caller Caller, filename string, file io.Reader, contentType string) (*FileView, error) {
	if file == nil {
		return nil, apierr.BadRequest("invalid_file", "file is required")
	}
	name := sanitizeFilename(filename)
	if name == "" {
		return nil, apierr.BadRequest("invalid_file", "file name is required")
	}
	key := fmt.Sprintf("%s/%s-%s", caller.UserID, uuid.New(), name)
	uri, err := s.blobs.Upload(ctx, key, file, contentType)
	if err != nil {
		s.log.Error("Upload failed", "key", key, "error", err)
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	s.log.Info("File uploaded", "key", key, "user_id", caller.UserID)
	return &FileView{Key: key, URI: uri}, nil
}

func (s *fileService) DownloadURL(ctx context.Context, caller Caller, key string) (*FileView, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return nil, apierr.BadRequest("invalid_key", "file key is required")
	}
	if path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return nil, apierr.BadRequest("invalid_key", "file key %q is not a plain object path", key)
	}
	uri, err := s.blobs.DownloadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download url for %s: %w", key, err)
	}
	s.log.Debug("Download URL issued", "key", key, "user_id", caller.UserID)
	return &FileView{Key: key, URI: uri}, nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if len(name) > 200 {
		name = name[len(name)-200:]
	}
	return name
}
