package service

import (
	"context"
	"io"
)

// FileUploadService stores profile media in object storage. Chat and
// gallery binaries go through the media relay server instead.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	Close() error
}
