package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type localStorage struct {
	dir       string
	urlPrefix string
}

// NewLocal keeps files in dir and hands out URLs under urlPrefix, which the
// HTTP layer serves statically.
func NewLocal(dir string, urlPrefix string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	return &localStorage{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

func (s *localStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, mediaType string, ext string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("close media file: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}

func (s *localStorage) Remove(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return fmt.Errorf("media url %q is not managed by local storage", url)
	}

	name := path.Base(url)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}

	return nil
}
