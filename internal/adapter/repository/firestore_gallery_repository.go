package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/pkg/errors"
)

type firestoreGalleryRepository struct {
	client *firestore.Client
}

func NewFirestoreGalleryRepository(client *firestore.Client) repository.GalleryRepository {
	return &firestoreGalleryRepository{
		client: client,
	}
}

func (r *firestoreGalleryRepository) Create(ctx context.Context, post *entity.GalleryPost) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	post.CreatedAt = time.Now()

	_, err := r.client.Collection("gallery_posts").Doc(post.ID).Set(ctx, post)
	if err != nil {
		return errors.Internal("Failed to create gallery post", err)
	}
	return nil
}

func (r *firestoreGalleryRepository) GetByID(ctx context.Context, id string) (*entity.GalleryPost, error) {
	doc, err := r.client.Collection("gallery_posts").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Gallery post", err)
		}
		return nil, errors.Internal("Failed to get gallery post", err)
	}

	var post entity.GalleryPost
	if err := doc.DataTo(&post); err != nil {
		return nil, errors.Internal("Failed to parse gallery post data", err)
	}
	post.ID = doc.Ref.ID
	return &post, nil
}

func (r *firestoreGalleryRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.GalleryPost, int64, error) {
	query := r.client.Collection("gallery_posts").Where("userId", "==", userID)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count gallery posts", err)
	}
	total := int64(len(countDocs))

	q := query.OrderBy("createdAt", firestore.Desc)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	var posts []*entity.GalleryPost

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list gallery posts", err)
		}

		var post entity.GalleryPost
		if err := doc.DataTo(&post); err != nil {
			continue
		}
		post.ID = doc.Ref.ID
		posts = append(posts, &post)
	}

	return posts, total, nil
}

func (r *firestoreGalleryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("gallery_posts").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete gallery post", err)
	}
	return nil
}
