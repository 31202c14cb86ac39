package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"acms/internal/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Uploader interface {
	SaveImage(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

// Local keeps uploads on disk under Dir; they are served by the HTTP layer
// from PublicPrefix.
type Local struct {
	dir          string
	publicPrefix string
	baseURL      string
	maxSize      int64
	logger       *zap.Logger
}

func NewLocal(cfg config.StorageConfig, baseURL string, logger *zap.Logger) (*Local, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.UploadDir) == "" {
		return nil, errors.New("upload dir is required")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	maxSize := cfg.MaxPhotoSize
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	return &Local{
		dir:          cfg.UploadDir,
		publicPrefix: "/" + strings.Trim(cfg.PublicPrefix, "/"),
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxSize:      maxSize,
		logger:       logger,
	}, nil
}

func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) PublicPrefix() string {
	return l.publicPrefix
}

// SaveImage stores r under folder with a unique name derived from filename
// and returns its public URL.
func (l *Local) SaveImage(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return "", ErrUnsupportedType
	}
	folder = slug.Make(folder)
	if folder == "" {
		folder = "misc"
	}
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	name := base + "-" + uuid.NewString()[:8] + ext

	targetDir := filepath.Join(l.dir, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", err
	}
	target := filepath.Join(targetDir, name)

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	n, copyErr := io.Copy(f, io.LimitReader(r, l.maxSize+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(target)
		return "", copyErr
	case closeErr != nil:
		_ = os.Remove(target)
		return "", closeErr
	case n > l.maxSize:
		_ = os.Remove(target)
		return "", ErrTooLarge
	}

	l.logger.Debug("file stored", zap.String("path", target), zap.Int64("bytes", n))
	return l.baseURL + path.Join(l.publicPrefix, folder, name), nil
}
