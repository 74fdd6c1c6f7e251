package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/store"
)

func (a *API) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.store.ListProjects(r.Context(), claims(r).UserID())
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		a.writeError(w, r, errors.New(errors.ErrCodeProjectInvalid, "project title is required"))
		return
	}
	var description string
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}

	p, err := a.store.CreateProject(r.Context(), store.Project{
		Title:       title,
		Description: description,
		OwnerID:     claims(r).UserID(),
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/projects/"+p.ID)
	a.writeJSON(w, http.StatusCreated, toProjectResponse(store.ProjectSummary{Project: p}))
}

// handleGetProject answers 404 for projects owned by someone else so that
// their existence is not revealed.
func (a *API) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	p, err := a.store.GetProject(ctx, claims(r).UserID(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, errors.NewProjectNotFoundError(id))
		return
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	tasks, err := a.store.ListTasks(ctx, p.ID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	detail := projectDetailResponse{
		projectResponse: toProjectResponse(p),
		Tasks:           make([]taskResponse, 0, len(tasks)),
	}
	for _, t := range tasks {
		detail.Tasks = append(detail.Tasks, toTaskResponse(t))
	}
	a.writeJSON(w, http.StatusOK, detail)
}

func (a *API) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := a.store.DeleteProject(r.Context(), claims(r).UserID(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, errors.NewProjectNotFoundError(id))
		return
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
