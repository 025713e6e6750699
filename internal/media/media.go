// Package media stores uploaded post media and releases it when a post drops it.
package media

import (
	"context"
	"mime/multipart"
)

type Storage interface {
	// Save stores the file and returns the URL clients use to fetch it.
	Save(ctx context.Context, fileHeader *multipart.FileHeader, mediaType string, ext string) (string, error)
	Remove(ctx context.Context, url string) error
}
