package repository

import (
	"context"
	"time"

	"chatapp/internal/domain/entity"
)

// CallStatusUpdate carries the fields set alongside a status transition.
type CallStatusUpdate struct {
	Status   entity.CallStatus
	EndTime  time.Time
	Duration int64
}

type CallRepository interface {
	Create(ctx context.Context, call *entity.Call) error
	GetByID(ctx context.Context, id string) (*entity.Call, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Call, int64, error)

	// UpdateStatus performs a guarded transition: the current status is
	// read and checked against the lifecycle graph inside a store
	// transaction, and the write is rejected with INVALID_TRANSITION when
	// the graph forbids it.
	UpdateStatus(ctx context.Context, callID string, update CallStatusUpdate) error

	// UpdateParticipant rewrites one participant entry of a group call
	// and returns the resulting call document.
	UpdateParticipant(ctx context.Context, callID string, participant entity.CallParticipant) (*entity.Call, error)

	// Listen subscribes to a call document. The callback receives the
	// full merged document on every remote change until the returned
	// func is invoked.
	Listen(ctx context.Context, callID string, fn func(*entity.Call)) (func(), error)
}
