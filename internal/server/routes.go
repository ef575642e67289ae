package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/info", s.handleInfo)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/view", s.handleGetView)
	mux.HandleFunc("PUT /api/view", s.handleSetView)

	// Projects and their boards
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/board", s.handleBoard)
	mux.HandleFunc("POST /api/projects/{id}/tasks", s.handleCreateTask)
	mux.HandleFunc("POST /api/projects/{id}/generate", s.handleGenerateTasks)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	// Routines
	mux.HandleFunc("GET /api/routines", s.handleListRoutines)
	mux.HandleFunc("POST /api/routines", s.handleCreateRoutine)
	mux.HandleFunc("POST /api/routines/suggest", s.handleSuggestRoutines)
	mux.HandleFunc("POST /api/routines/{id}/toggle", s.handleToggleRoutine)
	mux.HandleFunc("DELETE /api/routines/{id}", s.handleDeleteRoutine)

	// Team chat
	mux.HandleFunc("GET /api/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/messages", s.handleSendMessage)

	return s.recoverMiddleware(s.logMiddleware(s.corsMiddleware(mux)))
}
