package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/store"
)

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := r.PathValue("projectId")

	owned, err := a.store.ProjectOwnedBy(ctx, claims(r).UserID(), projectID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !owned {
		a.writeError(w, r, errors.NewForbiddenError("project"))
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		a.writeError(w, r, errors.New(errors.ErrCodeTaskInvalid, "task title is required"))
		return
	}

	t, err := a.store.CreateTask(ctx, store.Task{ProjectID: projectID, Title: title, DueDate: req.DueDate})
	if stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, errors.NewProjectNotFoundError(projectID))
		return
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+t.ID)
	a.writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, ok := a.ownedTask(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	t, ok := a.ownedTask(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		a.writeError(w, r, errors.New(errors.ErrCodeTaskInvalid, "task title is required"))
		return
	}

	_, err := a.store.UpdateTask(r.Context(), t.ID, store.TaskUpdate{
		Title:       title,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	})
	if stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, errors.NewTaskNotFoundError(t.ID))
		return
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	t, ok := a.ownedTask(w, r)
	if !ok {
		return
	}

	err := a.store.DeleteTask(r.Context(), t.ID)
	if err != nil && !stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedTask loads the task named by the path and checks that the caller owns
// its project. It writes the error response itself when it returns false.
func (a *API) ownedTask(w http.ResponseWriter, r *http.Request) (store.Task, bool) {
	ctx := r.Context()
	id := r.PathValue("taskId")

	t, err := a.store.GetTask(ctx, id)
	if stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, errors.NewTaskNotFoundError(id))
		return store.Task{}, false
	}
	if err != nil {
		a.writeError(w, r, err)
		return store.Task{}, false
	}

	owner, err := a.store.ProjectOwner(ctx, t.ProjectID)
	if err != nil && !stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, err)
		return store.Task{}, false
	}
	if owner != claims(r).UserID() {
		a.writeError(w, r, errors.NewForbiddenError("task"))
		return store.Task{}, false
	}
	return t, true
}
