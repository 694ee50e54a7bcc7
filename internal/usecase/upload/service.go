package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/systemink/api/domain"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Service stores uploads on the local filesystem under baseDir and serves
// them from baseURL.
type Service struct {
	baseDir string
	baseURL string
	maxSize int64
}

var _ domain.UploadUsecase = (*Service)(nil)

func NewService(baseDir, baseURL string, maxSize int64) *Service {
	return &Service{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}
}

func (s *Service) Store(ctx context.Context, kind domain.UploadKind, filename, contentType string, size int64, r io.Reader) (string, error) {
	switch kind {
	case domain.UploadCover, domain.UploadAvatar:
	default:
		return "", domain.ErrBadParamInput
	}
	limit := s.maxSize
	if size <= 0 || size > limit {
		return "", domain.ErrBadParamInput
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", domain.ErrBadParamInput
	}

	dir := filepath.Join(s.baseDir, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// 超限一字节即拒绝，避免按声明大小放行被撑爆
	written, err := io.Copy(f, io.LimitReader(r, limit+1))
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	if written > limit {
		_ = os.Remove(path)
		return "", domain.ErrBadParamInput
	}

	logrus.WithFields(logrus.Fields{
		"kind": kind,
		"file": name,
		"size": written,
	}).Info("upload stored")
	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, kind, name), nil
}
