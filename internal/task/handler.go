package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskhub/internal/auth"
	"taskhub/internal/httputil"
	"taskhub/internal/logging"
)

// Handler contains HTTP handlers for the task endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest represents the task creation request body
type CreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse represents the create/update/delete response bodies
type TaskResponse struct {
	Message string `json:"message"`
	Task    *Task  `json:"task"`
}

// ListResponse represents the list response body
type ListResponse struct {
	Count int    `json:"count"`
	Tasks []Task `json:"tasks"`
}

// Create handles task creation
// @Summary      Create task
// @Description  Create a task owned by the authenticated user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Task fields"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Missing or invalid authorization token", http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create task request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in := CreateInput{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		in.Status = Status(*req.Status)
	}

	created, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			logger.Warn("create task failed: validation error", "error", err.Error())
			httputil.RespondError(w, msg, http.StatusBadRequest)
			return
		}
		logger.Error("create task failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("task created", "task_id", created.ID, "user_id", userID)

	httputil.RespondJSON(w, TaskResponse{
		Message: "Task created successfully",
		Task:    created,
	}, http.StatusCreated)
}

// List handles task listing with optional search and status filters
// @Summary      List tasks
// @Description  List the authenticated user's tasks, newest first
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Case-insensitive title substring"
// @Param        status query string false "Exact status match"
// @Success      200 {object} ListResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Missing or invalid authorization token", http.StatusUnauthorized)
		return
	}

	filter := Filter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	tasks, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		logger.Error("list tasks failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ListResponse{
		Count: len(tasks),
		Tasks: tasks,
	}, http.StatusOK)
}

// Update handles partial task updates
// @Summary      Update task
// @Description  Update fields of a task owned by the authenticated user. Only fields present in the body change; an explicit null description clears it.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int    true "Task ID"
// @Param        request body CreateRequest true "Fields to change"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error or invalid task ID"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Missing or invalid authorization token", http.StatusUnauthorized)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		httputil.RespondError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	upd, err := decodeUpdate(r)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			httputil.RespondError(w, msg, http.StatusBadRequest)
			return
		}
		logger.Warn("invalid update task request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), taskID, userID, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Task not found", http.StatusNotFound)
			return
		}
		if msg, ok := validationMessage(err); ok {
			logger.Warn("update task failed: validation error", "error", err.Error())
			httputil.RespondError(w, msg, http.StatusBadRequest)
			return
		}
		logger.Error("update task failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("task updated", "task_id", taskID, "user_id", userID)

	httputil.RespondJSON(w, TaskResponse{
		Message: "Task updated successfully",
		Task:    updated,
	}, http.StatusOK)
}

// Delete handles task deletion
// @Summary      Delete task
// @Description  Delete a task owned by the authenticated user and return its prior state
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid task ID"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Missing or invalid authorization token", http.StatusUnauthorized)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		httputil.RespondError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(r.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Task not found", http.StatusNotFound)
			return
		}
		logger.Error("delete task failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("task deleted", "task_id", taskID, "user_id", userID)

	httputil.RespondJSON(w, TaskResponse{
		Message: "Task deleted successfully",
		Task:    deleted,
	}, http.StatusOK)
}

// parseTaskID rejects non-integer path identifiers before they reach the
// store.
func parseTaskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeUpdate builds a partial update from the raw body, preserving the
// distinction between an absent key and one explicitly set to null or empty.
func decodeUpdate(r *http.Request) (Update, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return Update{}, err
	}

	var upd Update

	if v, ok := raw["title"]; ok {
		var title *string
		if err := json.Unmarshal(v, &title); err != nil {
			return Update{}, err
		}
		if title == nil {
			return Update{}, ErrTitleRequired
		}
		upd.Title = title
	}

	if v, ok := raw["description"]; ok {
		var desc *string
		if err := json.Unmarshal(v, &desc); err != nil {
			return Update{}, err
		}
		// Present but null clears the description.
		upd.Description = desc
		upd.SetDescription = true
	}

	if v, ok := raw["status"]; ok {
		var status *string
		if err := json.Unmarshal(v, &status); err != nil {
			return Update{}, err
		}
		if status == nil {
			return Update{}, ErrInvalidStatus
		}
		s := Status(*status)
		upd.Status = &s
	}

	return upd, nil
}

// validationMessage maps validation failures to the client-facing field
// messages the wire contract fixes.
func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrTitleRequired):
		return "Title is required", true
	case errors.Is(err, ErrInvalidStatus):
		return "Invalid status", true
	}
	return "", false
}
