package usecase

import (
	"context"
	"io"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/internal/domain/service"
	"chatapp/internal/infrastructure/ratelimit"
	"chatapp/pkg/errors"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	fileService service.FileUploadService
	rateLimiter *ratelimit.RateLimiter
}

func NewUserUseCase(userRepo repository.UserRepository, fileService service.FileUploadService, rateLimiter *ratelimit.RateLimiter) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		fileService: fileService,
		rateLimiter: rateLimiter,
	}
}

type UpdateProfileInput struct {
	Username string
	Phone    string
	Bio      string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

// UpdateProfile merges the non-empty input fields into the profile.
// Empty fields keep their stored value; there is no way to clear a field
// through this operation.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UploadAvatar(ctx context.Context, userID string, file io.Reader, contentType string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uc.fileService.UploadFile(ctx, file, contentType, "avatars/"+userID)
	if err != nil {
		return nil, errors.Internal("Failed to upload avatar", err)
	}

	// Old avatar is replaced, not kept around
	if user.AvatarURL != "" {
		_ = uc.fileService.DeleteFile(ctx, user.AvatarURL)
	}

	user.AvatarURL = url
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user, err = uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) SearchUsers(ctx context.Context, prefix string, limit int) ([]*entity.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return uc.userRepo.SearchByUsername(ctx, prefix, limit)
}

// Follow writes the symmetric pair in a fixed order: the follower's
// `following` array first, then the target's `followers` array. The two
// writes are not atomic; array-union makes a retry idempotent.
func (uc *UserUseCase) Follow(ctx context.Context, followerID, targetID string) error {
	if allowed, wait := uc.rateLimiter.Allow(followerID, "follow"); !allowed {
		return errors.TooManyRequests("Follow rate limit exceeded", wait)
	}
	if followerID == targetID {
		return errors.BadRequest("Cannot follow yourself", nil)
	}

	target, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	for _, blocked := range target.BlockedUsers {
		if blocked == followerID {
			return errors.Forbidden("Cannot follow this user", nil)
		}
	}

	if err := uc.userRepo.AddToSet(ctx, followerID, "following", targetID); err != nil {
		return err
	}
	return uc.userRepo.AddToSet(ctx, targetID, "followers", followerID)
}

func (uc *UserUseCase) Unfollow(ctx context.Context, followerID, targetID string) error {
	if err := uc.userRepo.RemoveFromSet(ctx, followerID, "following", targetID); err != nil {
		return err
	}
	return uc.userRepo.RemoveFromSet(ctx, targetID, "followers", followerID)
}

func (uc *UserUseCase) Block(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return errors.BadRequest("Cannot block yourself", nil)
	}
	return uc.userRepo.AddToSet(ctx, userID, "blockedUsers", targetID)
}

func (uc *UserUseCase) Unblock(ctx context.Context, userID, targetID string) error {
	return uc.userRepo.RemoveFromSet(ctx, userID, "blockedUsers", targetID)
}

func (uc *UserUseCase) Mute(ctx context.Context, userID, targetID string) error {
	return uc.userRepo.AddToSet(ctx, userID, "mutedUsers", targetID)
}

func (uc *UserUseCase) Unmute(ctx context.Context, userID, targetID string) error {
	return uc.userRepo.RemoveFromSet(ctx, userID, "mutedUsers", targetID)
}

func (uc *UserUseCase) ReportUser(ctx context.Context, reporterID, reportedID, reason string) error {
	if reporterID == reportedID {
		return errors.BadRequest("Cannot report yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, reportedID); err != nil {
		return err
	}

	return uc.userRepo.CreateReport(ctx, &entity.Report{
		ReporterID: reporterID,
		ReportedID: reportedID,
		Reason:     reason,
	})
}

// DeleteAccount soft-deletes: PII fields are overwritten and the document
// is flagged. Messages, chats and gallery posts are left in place.
func (uc *UserUseCase) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return uc.userRepo.SoftDelete(ctx, userID)
}
