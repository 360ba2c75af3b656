package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"taskhub/internal/database"
)

// ErrNotFound is returned whenever no task matches both the id and the owner.
// A task owned by someone else is indistinguishable from a nonexistent one.
var ErrNotFound = errors.New("task not found")

// Repository performs ownership-scoped task persistence.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task and returns it with the generated id and
// creation timestamp.
func (r *Repository) Create(ctx context.Context, t *Task) (*Task, error) {
	dbTask := &database.Task{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// List returns the user's tasks matching the filter, newest first. The
// created_at ordering is contract; the id tie-break only keeps equal
// timestamps deterministic.
func (r *Repository) List(ctx context.Context, userID int64, f Filter) ([]Task, error) {
	var dbTasks []database.Task

	q := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", userID)

	if f.Search != "" {
		q = q.Where("title ILIKE ?", "%"+f.Search+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	err := q.Order("created_at DESC").Order("id DESC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(dbTasks))
	for i := range dbTasks {
		tasks = append(tasks, *mapDBTaskToModel(&dbTasks[i]))
	}
	return tasks, nil
}

// Update applies the partial update to the task scoped to userID and returns
// the updated row, or ErrNotFound when no owned task matches.
func (r *Repository) Update(ctx context.Context, taskID, userID int64, u Update) (*Task, error) {
	dbTask := new(database.Task)

	q := r.db.NewUpdate().
		Model(dbTask).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Returning("*")

	hasChanges := false
	if u.Title != nil {
		q = q.Set("title = ?", *u.Title)
		hasChanges = true
	}
	if u.SetDescription {
		q = q.Set("description = ?", u.Description)
		hasChanges = true
	}
	if u.Status != nil {
		q = q.Set("status = ?", string(*u.Status))
		hasChanges = true
	}

	// An empty partial update still resolves the task and reports ownership.
	if !hasChanges {
		return r.getByID(ctx, taskID, userID)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// Delete removes the task scoped to userID and returns its prior state, or
// ErrNotFound when no owned task matches.
func (r *Repository) Delete(ctx context.Context, taskID, userID int64) (*Task, error) {
	dbTask := new(database.Task)

	res, err := r.db.NewDelete().
		Model(dbTask).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

func (r *Repository) getByID(ctx context.Context, taskID, userID int64) (*Task, error) {
	dbTask := new(database.Task)
	err := r.db.NewSelect().
		Model(dbTask).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return mapDBTaskToModel(dbTask), nil
}

func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:          dbt.ID,
		Title:       dbt.Title,
		Description: dbt.Description,
		Status:      Status(dbt.Status),
		UserID:      dbt.UserID,
		CreatedAt:   dbt.CreatedAt,
	}
}
