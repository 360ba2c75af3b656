package task

import (
	"context"
	"errors"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status")
)

// Store is the slice of the repository the service needs. It is satisfied by
// *Repository and by in-memory fakes in tests.
type Store interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	List(ctx context.Context, userID int64, f Filter) ([]Task, error)
	Update(ctx context.Context, taskID, userID int64, u Update) (*Task, error)
	Delete(ctx context.Context, taskID, userID int64) (*Task, error)
}

// Service validates task operations and applies defaults before they reach
// the store. Every operation takes the authenticated caller's user id; the
// id scoping in the store is the only authorization mechanism.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the input and persists a new task owned by userID.
// Description defaults to absent and status to pending.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*Task, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.store.Create(ctx, &Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		UserID:      userID,
	})
}

// List returns the caller's tasks matching the filter, newest first. An
// unknown status filter value simply matches nothing.
func (s *Service) List(ctx context.Context, userID int64, f Filter) ([]Task, error) {
	return s.store.List(ctx, userID, f)
}

// Update validates the partial update and applies it to the task scoped to
// userID. Fields not present in the update are left unchanged.
func (s *Service) Update(ctx context.Context, taskID, userID int64, u Update) (*Task, error) {
	if u.Title != nil && *u.Title == "" {
		return nil, ErrTitleRequired
	}
	if u.Status != nil && !u.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.store.Update(ctx, taskID, userID, u)
}

// Delete removes the task scoped to userID and returns its prior state.
func (s *Service) Delete(ctx context.Context, taskID, userID int64) (*Task, error) {
	return s.store.Delete(ctx, taskID, userID)
}

var _ Store = (*Repository)(nil)
