package task

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with the same ownership and filter
// semantics as the Postgres repository.
type memStore struct {
	mu     sync.Mutex
	tasks  map[int64]*Task
	nextID int64
	now    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		tasks: make(map[int64]*Task),
		now:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Create(_ context.Context, t *Task) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.now = m.now.Add(time.Second)
	stored := *t
	stored.ID = m.nextID
	stored.CreatedAt = m.now
	m.tasks[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (m *memStore) List(_ context.Context, userID int64, f Filter) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Task, 0)
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) Update(_ context.Context, taskID, userID int64, u Update) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.SetDescription {
		t.Description = u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	out := *t
	return &out, nil
}

func (m *memStore) Delete(_ context.Context, taskID, userID int64) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	delete(m.tasks, taskID)
	out := *t
	return &out, nil
}

var _ Store = (*memStore)(nil)

func strPtr(s string) *string { return &s }

func TestService_Create_Defaults(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{Title: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, StatusPending, created.Status)
	assert.Nil(t, created.Description)
	assert.Equal(t, int64(1), created.UserID)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateInput{Title: ""})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(ctx, 1, CreateInput{Title: "x", Status: Status("archived")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_List_Filters(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	mustCreate := func(userID int64, title string, status Status) *Task {
		created, err := svc.Create(ctx, userID, CreateInput{Title: title, Status: status})
		require.NoError(t, err)
		return created
	}

	mustCreate(1, "Buy food", StatusPending)
	mustCreate(1, "Write foo report", StatusCompleted)
	mustCreate(1, "Call bank", StatusCompleted)
	mustCreate(2, "foo for someone else", StatusCompleted)

	t.Run("owner scope", func(t *testing.T) {
		tasks, err := svc.List(ctx, 1, Filter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})

	t.Run("newest first", func(t *testing.T) {
		tasks, err := svc.List(ctx, 1, Filter{})
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "Call bank", tasks[0].Title)
		assert.Equal(t, "Write foo report", tasks[1].Title)
		assert.Equal(t, "Buy food", tasks[2].Title)
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		tasks, err := svc.List(ctx, 1, Filter{Search: "FOO"})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "Write foo report", tasks[0].Title)
		assert.Equal(t, "Buy food", tasks[1].Title)
	})

	t.Run("status exact match", func(t *testing.T) {
		tasks, err := svc.List(ctx, 1, Filter{Status: "completed"})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.Equal(t, StatusCompleted, task.Status)
		}
	})

	t.Run("search and status combine with AND", func(t *testing.T) {
		tasks, err := svc.List(ctx, 1, Filter{Search: "foo", Status: "completed"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Write foo report", tasks[0].Title)
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		tasks, err := svc.List(ctx, 1, Filter{Status: "archived"})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestService_Update_PartialSemantics(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{Title: "A", Status: StatusPending})
	require.NoError(t, err)

	// Setting only the description leaves title and status untouched.
	updated, err := svc.Update(ctx, created.ID, 1, Update{
		Description:    strPtr("x"),
		SetDescription: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Title)
	assert.Equal(t, StatusPending, updated.Status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "x", *updated.Description)

	// An absent description leaves the stored value alone.
	updated, err = svc.Update(ctx, created.ID, 1, Update{Status: statusPtr(StatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "x", *updated.Description)

	// A present-but-nil description clears it.
	updated, err = svc.Update(ctx, created.ID, 1, Update{SetDescription: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
}

func TestService_Update_Validation(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{Title: "A"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, 1, Update{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Update(ctx, created.ID, 1, Update{Status: statusPtr(Status("archived"))})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_OwnershipScoping(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{Title: "private"})
	require.NoError(t, err)

	// Another user's id never resolves the task, for update or delete.
	_, err = svc.Update(ctx, created.ID, 2, Update{Title: strPtr("stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(ctx, created.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	// The owner still sees it unchanged.
	tasks, err := svc.List(ctx, 1, Filter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "private", tasks[0].Title)
}

func TestService_Delete_ReturnsPriorState(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateInput{
		Title:       "done soon",
		Description: strPtr("details"),
		Status:      StatusInProgress,
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "done soon", deleted.Title)
	assert.Equal(t, StatusInProgress, deleted.Status)

	_, err = svc.Delete(ctx, created.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func statusPtr(s Status) *Status { return &s }
