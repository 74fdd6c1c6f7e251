package api

import (
	"time"

	"github.com/felixgeelhaar/taskflow/internal/store"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type createProjectRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type projectResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	CreationDate time.Time `json:"creationDate"`
	TaskCount    int       `json:"taskCount"`
}

type projectDetailResponse struct {
	projectResponse
	Tasks []taskResponse `json:"tasks"`
}

type createTaskRequest struct {
	Title   string     `json:"title"`
	DueDate *time.Time `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"dueDate"`
	IsCompleted bool       `json:"isCompleted"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	ProjectID   string     `json:"projectId"`
}

// scheduleResponse always carries recommendedOrder, empty on failure.
type scheduleResponse struct {
	RecommendedOrder []string `json:"recommendedOrder"`
	Error            string   `json:"error,omitempty"`
}

func toProjectResponse(p store.ProjectSummary) projectResponse {
	return projectResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		CreationDate: p.CreatedAt,
		TaskCount:    p.TaskCount,
	}
}

func toTaskResponse(t store.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		DueDate:     t.DueDate,
		IsCompleted: t.IsCompleted,
		ProjectID:   t.ProjectID,
	}
}
