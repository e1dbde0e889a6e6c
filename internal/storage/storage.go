// Package storage archives uploaded crop images in an object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/krushiiq/apiserver/config"
)

// Supported values of STORAGE_BACKEND.
const (
	BackendNone  = "none"
	BackendMinio = "minio"
	BackendGCS   = "gcs"
)

// ImagePrefix is the key prefix of archived disease images.
const ImagePrefix = "disease-images/"

// Object is a single upload.
type Object struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectStorage is implemented by each object store backend.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, obj Object) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with the image archive API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// Open builds the backend selected by cfg.Backend and makes sure its
// bucket exists. It returns nil when archiving is disabled.
func Open(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendMinio:
		backend, err = NewMinioClient(cfg.Minio)
	case BackendGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err)
	}
	return NewStorage(backend), nil
}

// ArchiveImage uploads an image under a fresh key and returns the key.
// filename only contributes its extension.
func (s *Storage) ArchiveImage(ctx context.Context, filename, contentType string, data []byte, metadata map[string]string) (string, error) {
	key := ImageKey(filename, contentType)
	err := s.backend.Put(ctx, Object{
		Key:         key,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata:    metadata,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// Close releases backend connections, if the backend holds any.
func (s *Storage) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ImageKey returns a unique object key for an uploaded image, keeping the
// file extension or deriving one from contentType.
func ImageKey(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return ImagePrefix + uuid.NewString() + ext
}
