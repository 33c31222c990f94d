package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/internal/infrastructure/ratelimit"
	"chatapp/internal/infrastructure/websocket"
	"chatapp/pkg/errors"
	"chatapp/pkg/logger"
)

type CallUseCase struct {
	callRepo    repository.CallRepository
	userRepo    repository.UserRepository
	wsManager   *websocket.Manager
	rateLimiter *ratelimit.RateLimiter
	notifier    NotificationDispatcher
	ringTimeout time.Duration

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func NewCallUseCase(
	callRepo repository.CallRepository,
	userRepo repository.UserRepository,
	wsManager *websocket.Manager,
	rateLimiter *ratelimit.RateLimiter,
	notifier NotificationDispatcher,
	ringTimeout time.Duration,
) *CallUseCase {
	return &CallUseCase{
		callRepo:    callRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
		notifier:    notifier,
		ringTimeout: ringTimeout,
		timers:      make(map[string]*time.Timer),
	}
}

type InitiateCallInput struct {
	ReceiverID string
	CallType   entity.CallType
}

// Initiate creates the ringing record, notifies the receiver and arms
// the missed-call deadline. The deadline stays client-authoritative: the
// timer runs here in the initiating process, and its late write loses to
// any transition the clients already made.
func (uc *CallUseCase) Initiate(ctx context.Context, callerID string, input InitiateCallInput) (*entity.Call, error) {
	if allowed, wait := uc.rateLimiter.Allow(callerID, "initiate_call"); !allowed {
		return nil, errors.TooManyRequests("Call rate limit exceeded", wait)
	}
	if input.ReceiverID == callerID {
		return nil, errors.BadRequest("Cannot call yourself", nil)
	}

	receiver, err := uc.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, err
	}
	for _, blocked := range receiver.BlockedUsers {
		if blocked == callerID {
			return nil, errors.Forbidden("Cannot call this user", nil)
		}
	}

	callType := input.CallType
	if callType == "" {
		callType = entity.CallTypeVideo
	}

	call := &entity.Call{
		ID:             uuid.New().String(),
		CallerID:       callerID,
		ReceiverID:     input.ReceiverID,
		ParticipantIDs: []string{callerID, input.ReceiverID},
		CallType:       callType,
		Status:         entity.CallStatusRinging,
	}

	if err := uc.callRepo.Create(ctx, call); err != nil {
		return nil, err
	}

	uc.armMissedTimer(call.ID)

	caller, err := uc.userRepo.GetByID(ctx, callerID)
	callerName := callerID
	if err == nil {
		callerName = caller.Username
	}

	uc.wsManager.SendToUser(input.ReceiverID, marshalEvent("incoming_call", call))
	if !containsID(receiver.MutedUsers, callerID) {
		uc.notifier.Dispatch(ctx, input.ReceiverID, "call", "Incoming call", callerName+" is calling you", map[string]string{
			"callId":   call.ID,
			"callerId": callerID,
			"callType": string(callType),
		})
	}

	return call, nil
}

// armMissedTimer schedules the ringing deadline. Firing is best-effort:
// if the call was answered or otherwise resolved in the meantime, the
// guarded transition rejects the write and the result is a no-op.
func (uc *CallUseCase) armMissedTimer(callID string) {
	uc.timersMu.Lock()
	defer uc.timersMu.Unlock()

	if t, ok := uc.timers[callID]; ok {
		t.Stop()
	}
	uc.timers[callID] = time.AfterFunc(uc.ringTimeout, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		call, err := uc.callRepo.GetByID(ctx, callID)
		if err != nil {
			logger.Debug("Missed-call timer for %s could not load the call: %v", callID, err)
			return
		}
		if err := uc.markMissed(ctx, call); err != nil {
			logger.Debug("Missed-call timer for %s resolved as no-op: %v", callID, err)
		}
	})
}

func (uc *CallUseCase) clearMissedTimer(callID string) {
	uc.timersMu.Lock()
	defer uc.timersMu.Unlock()

	if t, ok := uc.timers[callID]; ok {
		t.Stop()
		delete(uc.timers, callID)
	}
}

func (uc *CallUseCase) Answer(ctx context.Context, userID, callID string) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call.ReceiverID != userID {
		return nil, errors.Forbidden("Only the receiver can answer", nil)
	}

	if err := uc.callRepo.UpdateStatus(ctx, callID, repository.CallStatusUpdate{
		Status: entity.CallStatusActive,
	}); err != nil {
		return nil, err
	}
	uc.clearMissedTimer(callID)

	call, err = uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}

	uc.wsManager.SendToUser(call.CallerID, marshalEvent("call_answered", call))
	return call, nil
}

func (uc *CallUseCase) Decline(ctx context.Context, userID, callID string) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call.ReceiverID != userID {
		return nil, errors.Forbidden("Only the receiver can decline", nil)
	}

	if err := uc.callRepo.UpdateStatus(ctx, callID, repository.CallStatusUpdate{
		Status:  entity.CallStatusDeclined,
		EndTime: time.Now(),
	}); err != nil {
		return nil, err
	}
	uc.clearMissedTimer(callID)

	call, err = uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}

	uc.wsManager.SendToUser(call.CallerID, marshalEvent("call_declined", call))
	return call, nil
}

// End terminates the call. The duration comes from the ending client and
// is stored as reported.
func (uc *CallUseCase) End(ctx context.Context, userID, callID string, duration int64) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !containsID(call.ParticipantIDs, userID) {
		return nil, errors.Forbidden("Not a participant of this call", nil)
	}

	if err := uc.callRepo.UpdateStatus(ctx, callID, repository.CallStatusUpdate{
		Status:   entity.CallStatusEnded,
		EndTime:  time.Now(),
		Duration: duration,
	}); err != nil {
		return nil, err
	}
	uc.clearMissedTimer(callID)

	call, err = uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}

	event := marshalEvent("call_ended", call)
	for _, pid := range call.ParticipantIDs {
		if pid != userID {
			uc.wsManager.SendToUser(pid, event)
		}
	}
	return call, nil
}

// MarkAsMissed resolves a still-ringing call as missed on behalf of a
// participant. When the call was answered in the meantime the guarded
// transition rejects the write and the whole operation degrades to a
// no-op.
func (uc *CallUseCase) MarkAsMissed(ctx context.Context, userID, callID string) error {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return err
	}
	if !containsID(call.ParticipantIDs, userID) {
		return errors.Forbidden("Not a participant of this call", nil)
	}
	return uc.markMissed(ctx, call)
}

func (uc *CallUseCase) markMissed(ctx context.Context, call *entity.Call) error {
	if call.IsGroupCall {
		return uc.markGroupMissed(ctx, call)
	}

	err := uc.callRepo.UpdateStatus(ctx, call.ID, repository.CallStatusUpdate{
		Status:  entity.CallStatusMissed,
		EndTime: time.Now(),
	})
	if err != nil {
		if errors.Is(err, "INVALID_TRANSITION") {
			return nil
		}
		return err
	}
	uc.clearMissedTimer(call.ID)

	call, err = uc.callRepo.GetByID(ctx, call.ID)
	if err != nil {
		return err
	}

	uc.wsManager.SendToUser(call.CallerID, marshalEvent("call_missed", call))

	caller, err := uc.userRepo.GetByID(ctx, call.CallerID)
	callerName := call.CallerID
	if err == nil {
		callerName = caller.Username
	}
	uc.notifier.Dispatch(ctx, call.ReceiverID, "call", "Missed call", "You missed a call from "+callerName, map[string]string{
		"callId":   call.ID,
		"callerId": call.CallerID,
	})

	return nil
}

// markGroupMissed resolves an unanswered group call. The whole-call
// status never becomes missed; entries that were still ringing are
// marked missed individually and the call itself ends.
func (uc *CallUseCase) markGroupMissed(ctx context.Context, call *entity.Call) error {
	if call.Status != entity.CallStatusRinging {
		return nil
	}

	var missed []string
	for _, p := range call.Participants {
		if p.Status != entity.CallStatusRinging {
			continue
		}
		updated, err := uc.callRepo.UpdateParticipant(ctx, call.ID, entity.CallParticipant{
			UserID: p.UserID,
			Status: entity.CallStatusMissed,
		})
		if err != nil {
			return err
		}
		call = updated
		missed = append(missed, p.UserID)
	}

	if err := uc.callRepo.UpdateStatus(ctx, call.ID, repository.CallStatusUpdate{
		Status:  entity.CallStatusEnded,
		EndTime: time.Now(),
	}); err != nil && !errors.Is(err, "INVALID_TRANSITION") {
		return err
	}
	uc.clearMissedTimer(call.ID)

	final, err := uc.callRepo.GetByID(ctx, call.ID)
	if err != nil {
		return err
	}

	event := marshalEvent("call_missed", final)
	for _, pid := range missed {
		uc.wsManager.SendToUser(pid, event)
		uc.notifier.Dispatch(ctx, pid, "call", "Missed group call", "You missed a group call", map[string]string{
			"callId":   final.ID,
			"callerId": final.CallerID,
		})
	}

	return nil
}

type InitiateGroupCallInput struct {
	ParticipantIDs []string
	CallType       entity.CallType
}

func (uc *CallUseCase) InitiateGroupCall(ctx context.Context, callerID string, input InitiateGroupCallInput) (*entity.Call, error) {
	if allowed, wait := uc.rateLimiter.Allow(callerID, "initiate_call"); !allowed {
		return nil, errors.TooManyRequests("Call rate limit exceeded", wait)
	}
	if len(input.ParticipantIDs) == 0 {
		return nil, errors.BadRequest("A group call needs at least one other participant", nil)
	}

	callType := input.CallType
	if callType == "" {
		callType = entity.CallTypeVideo
	}

	now := time.Now()
	participantIDs := []string{callerID}
	participants := []entity.CallParticipant{
		{UserID: callerID, Status: entity.CallStatusActive, JoinedAt: now},
	}
	for _, pid := range input.ParticipantIDs {
		if pid == callerID || containsID(participantIDs, pid) {
			continue
		}
		participantIDs = append(participantIDs, pid)
		participants = append(participants, entity.CallParticipant{
			UserID: pid,
			Status: entity.CallStatusRinging,
		})
	}

	call := &entity.Call{
		ID:             uuid.New().String(),
		CallerID:       callerID,
		Participants:   participants,
		ParticipantIDs: participantIDs,
		CallType:       callType,
		Status:         entity.CallStatusRinging,
		IsGroupCall:    true,
	}

	if err := uc.callRepo.Create(ctx, call); err != nil {
		return nil, err
	}

	uc.armMissedTimer(call.ID)

	event := marshalEvent("incoming_group_call", call)
	for _, pid := range participantIDs[1:] {
		uc.wsManager.SendToUser(pid, event)
		uc.notifier.Dispatch(ctx, pid, "call", "Incoming group call", "You are invited to a group call", map[string]string{
			"callId":   call.ID,
			"callerId": callerID,
		})
	}

	return call, nil
}

func (uc *CallUseCase) JoinGroupCall(ctx context.Context, userID, callID string) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !call.IsGroupCall {
		return nil, errors.BadRequest("Not a group call", nil)
	}
	if call.Status.Terminal() {
		return nil, errors.InvalidTransition(string(call.Status), string(entity.CallStatusActive))
	}

	if call.Status == entity.CallStatusRinging {
		if err := uc.callRepo.UpdateStatus(ctx, callID, repository.CallStatusUpdate{
			Status: entity.CallStatusActive,
		}); err != nil && !errors.Is(err, "INVALID_TRANSITION") {
			return nil, err
		}
		uc.clearMissedTimer(callID)
	}

	call, err = uc.callRepo.UpdateParticipant(ctx, callID, entity.CallParticipant{
		UserID:   userID,
		Status:   entity.CallStatusActive,
		JoinedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	event := marshalEvent("participant_joined", map[string]string{
		"callId": callID,
		"userId": userID,
	})
	for _, pid := range call.ParticipantIDs {
		if pid != userID {
			uc.wsManager.SendToUser(pid, event)
		}
	}

	return call, nil
}

// LeaveGroupCall marks the caller's entry ended and ends the whole call
// once no active participant remains.
func (uc *CallUseCase) LeaveGroupCall(ctx context.Context, userID, callID string) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !call.IsGroupCall {
		return nil, errors.BadRequest("Not a group call", nil)
	}

	call, err = uc.callRepo.UpdateParticipant(ctx, callID, entity.CallParticipant{
		UserID: userID,
		Status: entity.CallStatusEnded,
	})
	if err != nil {
		return nil, err
	}

	active := 0
	for _, p := range call.Participants {
		if p.Status == entity.CallStatusActive {
			active++
		}
	}
	if active == 0 && !call.Status.Terminal() {
		duration := int64(0)
		if !call.StartTime.IsZero() {
			duration = int64(time.Since(call.StartTime).Seconds())
		}
		if err := uc.callRepo.UpdateStatus(ctx, callID, repository.CallStatusUpdate{
			Status:   entity.CallStatusEnded,
			EndTime:  time.Now(),
			Duration: duration,
		}); err != nil && !errors.Is(err, "INVALID_TRANSITION") {
			return nil, err
		}
		uc.clearMissedTimer(callID)
		call, err = uc.callRepo.GetByID(ctx, callID)
		if err != nil {
			return nil, err
		}
	}

	event := marshalEvent("participant_left", map[string]string{
		"callId": callID,
		"userId": userID,
	})
	for _, pid := range call.ParticipantIDs {
		if pid != userID {
			uc.wsManager.SendToUser(pid, event)
		}
	}

	return call, nil
}

func (uc *CallUseCase) GetCall(ctx context.Context, userID, callID string) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !containsID(call.ParticipantIDs, userID) {
		return nil, errors.Forbidden("Not a participant of this call", nil)
	}
	return call, nil
}

func (uc *CallUseCase) ListCallHistory(ctx context.Context, userID string, limit, offset int) ([]*entity.Call, int64, error) {
	return uc.callRepo.ListByUserID(ctx, userID, limit, offset)
}

// ObserveCall subscribes the caller's connection to every remote change
// of the call document. Observing an active or terminal status also
// clears the local ringing deadline.
func (uc *CallUseCase) ObserveCall(ctx context.Context, userID, callID string) (func(), error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !containsID(call.ParticipantIDs, userID) {
		return nil, errors.Forbidden("Not a participant of this call", nil)
	}

	return uc.callRepo.Listen(ctx, callID, func(updated *entity.Call) {
		if updated.Status == entity.CallStatusActive || updated.Status.Terminal() {
			uc.clearMissedTimer(callID)
		}
		uc.wsManager.SendToUser(userID, marshalEvent("call_update", updated))
	})
}
