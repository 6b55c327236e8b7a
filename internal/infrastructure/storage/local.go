// Package storage provides domain.ImageStore implementations.
package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

// LocalStore writes uploads to a directory served under PublicBaseURL
type LocalStore struct {
	dir           string
	publicBaseURL string
	logger        *zap.Logger
}

// NewLocalStore creates dir when missing
func NewLocalStore(dir, publicBaseURL string, log *zap.Logger) (*LocalStore, error) {
	if dir == "" {
		return nil, domain.NewValidationError("storage.local_dir", "is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", domain.ErrStorageFailed, err)
	}
	return &LocalStore{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.OrNop(log).Named("storage.local"),
	}, nil
}

// Dir is the directory uploads are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the image under a random name and returns its public URL
func (s *LocalStore) Save(ctx context.Context, image domain.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageFailed, err)
	}

	name := objectName(image)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, image.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageFailed, err)
	}

	s.logger.Debug("image stored", zap.String("path", path), zap.Int("bytes", len(image.Data)))
	return s.publicBaseURL + "/" + name, nil
}

// objectName is a uuid plus an extension taken from the upload name or its content type
func objectName(image domain.Image) string {
	ext := strings.ToLower(filepath.Ext(image.Filename))
	if ext == "" || len(ext) > 5 {
		ext = extensionFor(image.ContentType)
	}
	return uuid.NewString() + ext
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		return "." + parts[1]
	}
	return ""
}
