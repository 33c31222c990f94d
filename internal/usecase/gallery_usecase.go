package usecase

import (
	"context"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/pkg/errors"
)

type GalleryUseCase struct {
	galleryRepo repository.GalleryRepository
	userRepo    repository.UserRepository
}

func NewGalleryUseCase(galleryRepo repository.GalleryRepository, userRepo repository.UserRepository) *GalleryUseCase {
	return &GalleryUseCase{
		galleryRepo: galleryRepo,
		userRepo:    userRepo,
	}
}

type CreatePostInput struct {
	MediaURL  string
	MediaType string
	Caption   string
}

// CreatePost records a gallery entry after the client has uploaded the
// binary to the media relay. Only the URL is stored here.
func (uc *GalleryUseCase) CreatePost(ctx context.Context, userID string, input CreatePostInput) (*entity.GalleryPost, error) {
	if input.MediaURL == "" {
		return nil, errors.BadRequest("media_url is required", nil)
	}
	if input.MediaType != "image" && input.MediaType != "video" {
		return nil, errors.BadRequest("media_type must be image or video", nil)
	}

	post := &entity.GalleryPost{
		UserID:    userID,
		MediaURL:  input.MediaURL,
		MediaType: input.MediaType,
		Caption:   input.Caption,
	}
	if err := uc.galleryRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *GalleryUseCase) ListByUser(ctx context.Context, viewerID, userID string, limit, offset int) ([]*entity.GalleryPost, int64, error) {
	owner, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	for _, blocked := range owner.BlockedUsers {
		if blocked == viewerID {
			return nil, 0, errors.Forbidden("Cannot view this gallery", nil)
		}
	}

	return uc.galleryRepo.ListByUserID(ctx, userID, limit, offset)
}

// DeletePost removes the metadata only. The binary on the media relay is
// not cleaned up.
func (uc *GalleryUseCase) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := uc.galleryRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return errors.Forbidden("Only the owner can delete a post", nil)
	}

	return uc.galleryRepo.Delete(ctx, postID)
}
