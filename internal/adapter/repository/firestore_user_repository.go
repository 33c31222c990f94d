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

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	if user.BlockedUsers == nil {
		user.BlockedUsers = []string{}
	}
	if user.MutedUsers == nil {
		user.MutedUsers = []string{}
	}

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := r.client.Collection("users").Where("email", "==", email).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Internal("Failed to query user by email", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"username":  user.Username,
		"phone":     user.Phone,
		"bio":       user.Bio,
		"avatarURL": user.AvatarURL,
		"updatedAt": time.Now(),
	}

	// Skip empty fields so a partial profile update does not wipe
	// existing values.
	cleanUpdateData := make(map[string]interface{})
	for key, value := range updateData {
		if strVal, ok := value.(string); ok && strVal == "" {
			continue
		}
		cleanUpdateData[key] = value
	}

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, cleanUpdateData, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}

	return nil
}

func (r *firestoreUserRepository) SearchByUsername(ctx context.Context, prefix string, limit int) ([]*entity.User, error) {
	// Firestore prefix scan: bound the range with the prefix plus a high
	// code point.
	query := r.client.Collection("users").
		Where("username", ">=", prefix).
		Where("username", "<", prefix+"\uf8ff").
		Limit(limit)

	iter := query.Documents(ctx)
	var users []*entity.User

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to search users", err)
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			continue
		}
		user.ID = doc.Ref.ID
		if user.Deleted {
			continue
		}
		users = append(users, &user)
	}

	return users, nil
}

func (r *firestoreUserRepository) AdjustCoins(ctx context.Context, userID string, delta int64) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "balanceCoins", Value: firestore.Increment(delta)},
	})
	if err != nil {
		return errors.Internal("Failed to adjust coin balance", err)
	}
	return nil
}

func (r *firestoreUserRepository) AddToSet(ctx context.Context, userID, field, value string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayUnion(value)},
	})
	if err != nil {
		return errors.Internal("Failed to update "+field, err)
	}
	return nil
}

func (r *firestoreUserRepository) RemoveFromSet(ctx context.Context, userID, field, value string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayRemove(value)},
	})
	if err != nil {
		return errors.Internal("Failed to update "+field, err)
	}
	return nil
}

func (r *firestoreUserRepository) SetPushToken(ctx context.Context, userID, token string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "pushToken", Value: token},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to set push token", err)
	}
	return nil
}

func (r *firestoreUserRepository) SoftDelete(ctx context.Context, userID string) error {
	// PII is overwritten in place; messages, chats and gallery posts are
	// not cascaded and the auth identity remains.
	_, err := r.client.Collection("users").Doc(userID).Set(ctx, map[string]interface{}{
		"email":     "deleted-" + userID + "@deleted.local",
		"username":  "Deleted User",
		"phone":     "",
		"bio":       "",
		"avatarURL": "",
		"pushToken": "",
		"deleted":   true,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to delete account", err)
	}
	return nil
}

func (r *firestoreUserRepository) CreateReport(ctx context.Context, report *entity.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.CreatedAt = time.Now()

	_, err := r.client.Collection("reports").Doc(report.ID).Set(ctx, report)
	if err != nil {
		return errors.Internal("Failed to create report", err)
	}
	return nil
}
