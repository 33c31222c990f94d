package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatapp/internal/domain/entity"
	"chatapp/internal/infrastructure/ratelimit"
	"chatapp/internal/infrastructure/websocket"
	"chatapp/pkg/errors"
)

func newCallFixture(t *testing.T) (*CallUseCase, *memCallRepo, *memUserRepo, *fakeNotifier) {
	t.Helper()

	userRepo := newMemUserRepo()
	callRepo := newMemCallRepo()
	notifier := &fakeNotifier{}

	uc := NewCallUseCase(callRepo, userRepo, websocket.NewManager(), ratelimit.NewRateLimiter(), notifier, 30*time.Second)

	require.NoError(t, userRepo.Create(context.Background(), &entity.User{ID: "caller", Username: "Caller"}))
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{ID: "receiver", Username: "Receiver"}))

	return uc, callRepo, userRepo, notifier
}

func TestCallLifecycleEndToEnd(t *testing.T) {
	uc, _, _, _ := newCallFixture(t)
	ctx := context.Background()

	call, err := uc.Initiate(ctx, "caller", InitiateCallInput{
		ReceiverID: "receiver",
		CallType:   entity.CallTypeVideo,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusRinging, call.Status)
	assert.Equal(t, entity.CallTypeVideo, call.CallType)

	call, err = uc.Answer(ctx, "receiver", call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusActive, call.Status)
	assert.False(t, call.StartTime.IsZero())

	call, err = uc.End(ctx, "caller", call.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusEnded, call.Status)
	assert.Equal(t, int64(42), call.Duration)
	assert.False(t, call.EndTime.IsZero())

	// Terminal state rejects any further transition.
	_, err = uc.Answer(ctx, "receiver", call.ID)
	assert.True(t, errors.Is(err, "INVALID_TRANSITION"))

	_, err = uc.Decline(ctx, "receiver", call.ID)
	assert.True(t, errors.Is(err, "INVALID_TRANSITION"))
}

func TestMarkAsMissedAfterAnswerIsNoOp(t *testing.T) {
	uc, callRepo, _, _ := newCallFixture(t)
	ctx := context.Background()

	call, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	require.NoError(t, err)

	_, err = uc.Answer(ctx, "receiver", call.ID)
	require.NoError(t, err)

	// The late missed write loses against the answered call and degrades
	// to a no-op.
	require.NoError(t, uc.MarkAsMissed(ctx, "receiver", call.ID))

	stored, err := callRepo.GetByID(ctx, call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusActive, stored.Status)
}

func TestMarkAsMissedWhileRinging(t *testing.T) {
	uc, callRepo, _, notifier := newCallFixture(t)
	ctx := context.Background()

	call, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	require.NoError(t, err)
	initial := notifier.count()

	require.NoError(t, uc.MarkAsMissed(ctx, "receiver", call.ID))

	stored, err := callRepo.GetByID(ctx, call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusMissed, stored.Status)
	assert.Equal(t, initial+1, notifier.count())
}

func TestOnlyParticipantCanMarkMissed(t *testing.T) {
	uc, callRepo, userRepo, _ := newCallFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "stranger", Username: "Stranger"}))

	call, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	require.NoError(t, err)

	err = uc.MarkAsMissed(ctx, "stranger", call.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	stored, err := callRepo.GetByID(ctx, call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusRinging, stored.Status)
}

func TestDeclineCall(t *testing.T) {
	uc, _, _, _ := newCallFixture(t)
	ctx := context.Background()

	call, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	require.NoError(t, err)

	call, err = uc.Decline(ctx, "receiver", call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusDeclined, call.Status)

	// Records are history; the declined call stays retrievable.
	stored, err := uc.GetCall(ctx, "caller", call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusDeclined, stored.Status)
}

func TestOnlyReceiverCanAnswer(t *testing.T) {
	uc, _, _, _ := newCallFixture(t)
	ctx := context.Background()

	call, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	require.NoError(t, err)

	_, err = uc.Answer(ctx, "caller", call.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestCallToBlockedCallerRejected(t *testing.T) {
	uc, _, userRepo, _ := newCallFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.AddToSet(ctx, "receiver", "blockedUsers", "caller"))

	_, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestGroupCallJoinLeaveAutoEnd(t *testing.T) {
	uc, _, userRepo, _ := newCallFixture(t)
	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "third", Username: "Third"}))

	call, err := uc.InitiateGroupCall(ctx, "caller", InitiateGroupCallInput{
		ParticipantIDs: []string{"receiver", "third"},
	})
	require.NoError(t, err)
	assert.True(t, call.IsGroupCall)
	assert.Len(t, call.Participants, 3)

	call, err = uc.JoinGroupCall(ctx, "receiver", call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusActive, call.Status)

	// Caller leaves, receiver still active: call continues.
	call, err = uc.LeaveGroupCall(ctx, "caller", call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusActive, call.Status)

	// Last active participant leaves: the call ends.
	call, err = uc.LeaveGroupCall(ctx, "receiver", call.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusEnded, call.Status)
}

func TestGroupCallRingTimeoutMissesEntriesNotCall(t *testing.T) {
	userRepo := newMemUserRepo()
	callRepo := newMemCallRepo()
	notifier := &fakeNotifier{}
	ctx := context.Background()

	uc := NewCallUseCase(callRepo, userRepo, websocket.NewManager(), ratelimit.NewRateLimiter(), notifier, 40*time.Millisecond)

	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "caller", Username: "Caller"}))
	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "receiver", Username: "Receiver"}))
	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "third", Username: "Third"}))

	call, err := uc.InitiateGroupCall(ctx, "caller", InitiateGroupCallInput{
		ParticipantIDs: []string{"receiver", "third"},
	})
	require.NoError(t, err)

	// Nobody joins; the ring deadline fires.
	assert.Eventually(t, func() bool {
		stored, err := callRepo.GetByID(ctx, call.ID)
		return err == nil && stored.Status.Terminal()
	}, time.Second, 10*time.Millisecond)

	stored, err := callRepo.GetByID(ctx, call.ID)
	require.NoError(t, err)

	// The whole-call status never becomes missed for group calls; the
	// invited entries do.
	assert.Equal(t, entity.CallStatusEnded, stored.Status)
	for _, p := range stored.Participants {
		switch p.UserID {
		case "caller":
			assert.Equal(t, entity.CallStatusActive, p.Status)
		default:
			assert.Equal(t, entity.CallStatusMissed, p.Status)
		}
	}

	// Missed notifications target the invited users, never an empty id.
	for _, d := range notifier.recorded() {
		assert.NotEmpty(t, d.UserID)
	}
}

func TestCallHistoryRetained(t *testing.T) {
	uc, _, _, _ := newCallFixture(t)
	ctx := context.Background()

	first, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	require.NoError(t, err)
	_, err = uc.Decline(ctx, "receiver", first.ID)
	require.NoError(t, err)

	second, err := uc.Initiate(ctx, "caller", InitiateCallInput{ReceiverID: "receiver"})
	require.NoError(t, err)
	_, err = uc.Answer(ctx, "receiver", second.ID)
	require.NoError(t, err)
	_, err = uc.End(ctx, "caller", second.ID, 7)
	require.NoError(t, err)

	calls, total, err := uc.ListCallHistory(ctx, "receiver", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, calls, 2)
}
