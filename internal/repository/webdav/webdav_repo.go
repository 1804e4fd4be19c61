package webdav

import (
	"context"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/studio-b12/gowebdav"
	"go.uber.org/zap"
)

// WebDAVStorage uploads raw video bytes to a Nextcloud-style WebDAV share
// with basic auth. Success is any 2xx from the PUT.
type WebDAVStorage struct {
	client *gowebdav.Client
	root   string
	logger *zap.Logger
}

func NewWebDAVStorage(baseURL, root, username, password string, timeout time.Duration, logger *zap.Logger) (*WebDAVStorage, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := gowebdav.NewClient(parsed.String(), username, password)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &WebDAVStorage{
		client: client,
		root:   root,
		logger: logger,
	}, nil
}

func (s *WebDAVStorage) Upload(ctx context.Context, remotePath string, r io.Reader, size int64, contentType string) error {
	fullPath := path.Join(s.root, remotePath)
	s.logger.Debug("uploading to WebDAV storage",
		zap.String("remote_path", remotePath),
		zap.String("full_path", fullPath),
		zap.Int64("size", size))
	return s.client.WriteStream(fullPath, r, 0644)
}
