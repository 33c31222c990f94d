package usecase

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatapp/internal/domain/entity"
	"chatapp/internal/infrastructure/ratelimit"
	"chatapp/pkg/errors"
)

type fakeFileService struct {
	uploaded []string
	deleted  []string
}

func (s *fakeFileService) UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error) {
	s.uploaded = append(s.uploaded, folder)
	return "https://storage.example.com/" + folder, nil
}

func (s *fakeFileService) DeleteFile(ctx context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func (s *fakeFileService) Close() error { return nil }

func newUserFixture(t *testing.T) (*UserUseCase, *memUserRepo, *fakeFileService) {
	t.Helper()

	userRepo := newMemUserRepo()
	files := &fakeFileService{}
	uc := NewUserUseCase(userRepo, files, ratelimit.NewRateLimiter())

	require.NoError(t, userRepo.Create(context.Background(), &entity.User{ID: "alice", Username: "Alice", Email: "alice@example.com"}))
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{ID: "bob", Username: "Bob", Email: "bob@example.com"}))

	return uc, userRepo, files
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := uc.UpdateProfile(ctx, "alice", UpdateProfileInput{Bio: "hello there"})
	require.NoError(t, err)

	user, err := uc.UpdateProfile(ctx, "alice", UpdateProfileInput{Username: "Alicia"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", user.Username)
	assert.Equal(t, "hello there", user.Bio)

	stored, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hello there", stored.Bio)
}

func TestFollowWritesBothSides(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Follow(ctx, "alice", "bob"))

	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, alice.Following)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, bob.Followers)
}

func TestFollowIsIdempotent(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Follow(ctx, "alice", "bob"))
	require.NoError(t, uc.Follow(ctx, "alice", "bob"))

	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice.Following, 1)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob.Followers, 1)
}

func TestFollowSelfRejected(t *testing.T) {
	uc, _, _ := newUserFixture(t)

	err := uc.Follow(context.Background(), "alice", "alice")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestFollowBlockedByTarget(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Block(ctx, "bob", "alice"))

	err := uc.Follow(ctx, "alice", "bob")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.Following)
}

func TestUnfollowAbsentIsNoOp(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Unfollow(ctx, "alice", "bob"))

	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.Following)
}

func TestBlockAndUnblock(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Block(ctx, "alice", "bob"))
	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, alice.BlockedUsers)

	require.NoError(t, uc.Unblock(ctx, "alice", "bob"))
	alice, err = userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.BlockedUsers)
}

func TestMuteAndUnmute(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.Mute(ctx, "alice", "bob"))
	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, alice.MutedUsers)

	require.NoError(t, uc.Unmute(ctx, "alice", "bob"))
	alice, err = userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.MutedUsers)
}

func TestDeleteAccountScrubsProfile(t *testing.T) {
	uc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, uc.DeleteAccount(ctx, "alice"))

	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, alice.Deleted)
	assert.Equal(t, "deleted-alice@deleted.local", alice.Email)
	assert.Equal(t, "Deleted User", alice.Username)

	_, err = uc.GetProfile(ctx, "alice")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestReportSelfRejected(t *testing.T) {
	uc, _, _ := newUserFixture(t)

	err := uc.ReportUser(context.Background(), "alice", "alice", "spam")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
