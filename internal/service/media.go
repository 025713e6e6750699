package service

import (
	"context"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/MemeBoard/board-service/internal/model"
)

var mediaExtensions = map[string]string{
	".jpg":  model.MediaTypeImage,
	".jpeg": model.MediaTypeImage,
	".png":  model.MediaTypeImage,
	".gif":  model.MediaTypeImage,
	".webp": model.MediaTypeImage,
	".mp4":  model.MediaTypeVideo,
	".webm": model.MediaTypeVideo,
	".mov":  model.MediaTypeVideo,
}

const mediaReleaseTimeout = 10 * time.Second

// validateMedia returns the media type tag and the normalized extension of an upload.
// The declared MIME type and the extension must agree.
func validateMedia(fileHeader *multipart.FileHeader, maxSize int64) (string, string, error) {
	if fileHeader.Size > maxSize {
		return "", "", ErrFileTooLarge
	}

	mimeType, _, err := mime.ParseMediaType(fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return "", "", ErrFileMustBeImageOrVideo
	}

	var mediaType string
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		mediaType = model.MediaTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		mediaType = model.MediaTypeVideo
	default:
		return "", "", ErrFileMustBeImageOrVideo
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if extType, ok := mediaExtensions[ext]; !ok || extType != mediaType {
		return "", "", ErrFileMustHaveAValidExtension
	}

	return mediaType, ext, nil
}

func (s *postService) storeMedia(ctx context.Context, fileHeader *multipart.FileHeader) (string, string, error) {
	mediaType, ext, err := validateMedia(fileHeader, s.config.MaxMediaSize)
	if err != nil {
		return "", "", err
	}

	url, err := s.media.Save(ctx, fileHeader, mediaType, ext)
	if err != nil {
		s.logger.Sugar().Errorf("failed to store media(%s): %s", fileHeader.Filename, err.Error())
		return "", "", ErrFailedToStoreMedia
	}

	return url, mediaType, nil
}

// releaseMedia is best-effort: a failure is logged and never surfaces to the caller.
func (s *postService) releaseMedia(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mediaReleaseTimeout)
	defer cancel()

	if err := s.media.Remove(ctx, *url); err != nil {
		s.logger.Sugar().Warnf("failed to release media(%s): %s", *url, err.Error())
	}
}
