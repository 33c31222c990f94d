package repository

import (
	"context"

	"chatapp/internal/domain/entity"
)

type GalleryRepository interface {
	Create(ctx context.Context, post *entity.GalleryPost) error
	GetByID(ctx context.Context, id string) (*entity.GalleryPost, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.GalleryPost, int64, error)
	// Delete removes only the metadata document; the binary stays on the
	// media relay.
	Delete(ctx context.Context, id string) error
}
