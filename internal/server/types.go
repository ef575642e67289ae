package server

import (
	"github.com/josephgoksu/neurotech/internal/dashboard"
)

// ViewRequest is the payload for PUT /api/view
type ViewRequest struct {
	View string `json:"view"`
}

// ProjectRequest is the payload for POST /api/projects
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// TaskRequest is the payload for POST /api/projects/{id}/tasks
type TaskRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	DueDate  string `json:"dueDate"`
}

// StatusRequest is the payload for PATCH /api/tasks/{id}
type StatusRequest struct {
	Status string `json:"status"`
}

// GenerateRequest is the payload for POST /api/projects/{id}/generate
type GenerateRequest struct {
	Description string `json:"description"`
}

// RoutineRequest is the payload for POST /api/routines
type RoutineRequest struct {
	Title string `json:"title"`
}

// SuggestRequest is the payload for POST /api/routines/suggest
type SuggestRequest struct {
	Goal string `json:"goal"`
}

// MessageRequest is the payload for POST /api/messages
type MessageRequest struct {
	Content string `json:"content"`
}

// DashboardResponse is the overview for GET /api/dashboard
type DashboardResponse struct {
	User     dashboard.User     `json:"user"`
	View     dashboard.View     `json:"view"`
	Projects int                `json:"projects"`
	Summary  dashboard.Summary  `json:"summary"`
	Routines dashboard.Progress `json:"routines"`
}

// RoutinesResponse is the response for GET /api/routines
type RoutinesResponse struct {
	Routines []dashboard.Task   `json:"routines"`
	Progress dashboard.Progress `json:"progress"`
}
