package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatapp/internal/domain/entity"
	"chatapp/internal/domain/repository"
	"chatapp/pkg/errors"
	"chatapp/pkg/logger"
)

type firestoreCallRepository struct {
	client *firestore.Client
}

func NewFirestoreCallRepository(client *firestore.Client) repository.CallRepository {
	return &firestoreCallRepository{
		client: client,
	}
}

func (r *firestoreCallRepository) Create(ctx context.Context, call *entity.Call) error {
	now := time.Now()
	call.CreatedAt = now
	call.UpdatedAt = now

	_, err := r.client.Collection("calls").Doc(call.ID).Set(ctx, call)
	if err != nil {
		return errors.Internal("Failed to create call", err)
	}
	return nil
}

func (r *firestoreCallRepository) GetByID(ctx context.Context, id string) (*entity.Call, error) {
	doc, err := r.client.Collection("calls").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Call", err)
		}
		return nil, errors.Internal("Failed to get call", err)
	}

	var call entity.Call
	if err := doc.DataTo(&call); err != nil {
		return nil, errors.Internal("Failed to parse call data", err)
	}
	call.ID = doc.Ref.ID
	return &call, nil
}

func (r *firestoreCallRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Call, int64, error) {
	query := r.client.Collection("calls").
		Where("participantIds", "array-contains", userID)

	// Get total count (this is expensive in Firestore but necessary for
	// pagination)
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count calls", err)
	}
	total := int64(len(countDocs))

	query = query.OrderBy("createdAt", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var calls []*entity.Call

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list calls", err)
		}

		var call entity.Call
		if err := doc.DataTo(&call); err != nil {
			continue
		}
		call.ID = doc.Ref.ID
		calls = append(calls, &call)
	}

	return calls, total, nil
}

// UpdateStatus applies a status change inside a transaction so the
// transition is checked against the current document, not a stale read.
// A transition out of a terminal status is rejected.
func (r *firestoreCallRepository) UpdateStatus(ctx context.Context, callID string, update repository.CallStatusUpdate) error {
	ref := r.client.Collection("calls").Doc(callID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Call", err)
			}
			return errors.Internal("Failed to get call", err)
		}

		var call entity.Call
		if err := doc.DataTo(&call); err != nil {
			return errors.Internal("Failed to parse call data", err)
		}

		if !call.Status.CanTransition(update.Status) {
			return errors.InvalidTransition(string(call.Status), string(update.Status))
		}

		updates := []firestore.Update{
			{Path: "status", Value: update.Status},
			{Path: "updatedAt", Value: time.Now()},
		}
		if update.Status == entity.CallStatusActive {
			updates = append(updates, firestore.Update{Path: "startTime", Value: time.Now()})
		}
		if !update.EndTime.IsZero() {
			updates = append(updates, firestore.Update{Path: "endTime", Value: update.EndTime})
		}
		if update.Duration > 0 {
			updates = append(updates, firestore.Update{Path: "duration", Value: update.Duration})
		}

		return tx.Update(ref, updates)
	})
}

func (r *firestoreCallRepository) UpdateParticipant(ctx context.Context, callID string, participant entity.CallParticipant) (*entity.Call, error) {
	ref := r.client.Collection("calls").Doc(callID)
	var result entity.Call

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Call", err)
			}
			return errors.Internal("Failed to get call", err)
		}

		var call entity.Call
		if err := doc.DataTo(&call); err != nil {
			return errors.Internal("Failed to parse call data", err)
		}

		found := false
		for i := range call.Participants {
			if call.Participants[i].UserID == participant.UserID {
				call.Participants[i] = participant
				found = true
				break
			}
		}
		if !found {
			return errors.NotFound("Call participant", nil)
		}

		call.UpdatedAt = time.Now()
		call.ID = doc.Ref.ID
		result = call

		return tx.Update(ref, []firestore.Update{
			{Path: "participants", Value: call.Participants},
			{Path: "updatedAt", Value: call.UpdatedAt},
		})
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *firestoreCallRepository) Listen(ctx context.Context, callID string, fn func(*entity.Call)) (func(), error) {
	ref := r.client.Collection("calls").Doc(callID)

	listenCtx, cancel := context.WithCancel(ctx)

	go func() {
		snapIter := ref.Snapshots(listenCtx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Call listener stopped for %s: %v", callID, err)
				}
				return
			}
			if !snap.Exists() {
				continue
			}

			var call entity.Call
			if err := snap.DataTo(&call); err != nil {
				continue
			}
			call.ID = snap.Ref.ID
			fn(&call)
		}
	}()

	return cancel, nil
}
