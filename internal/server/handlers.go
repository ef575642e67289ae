package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/josephgoksu/neurotech/internal/assistant"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/state"
)

// handleInfo
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, map[string]string{
		"name":    "neurotech",
		"version": s.version,
	})
}

// handleState returns the whole state in one document.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, s.store.Snapshot())
}

// handleDashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeAPIJSON(w, http.StatusOK, DashboardResponse{
		User:     dashboard.User{Name: s.store.UserName()},
		View:     snap.View,
		Projects: len(snap.Projects),
		Summary:  dashboard.Summarize(snap.Tasks),
		Routines: dashboard.RoutineProgress(snap.Tasks),
	})
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, ViewRequest{View: string(s.store.Snapshot().View)})
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v := dashboard.View(req.View)
	if !v.Valid() {
		writeAPIError(w, http.StatusBadRequest, "unknown view")
		return
	}
	if err := s.store.SetView(v); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, req)
}

// handleListProjects
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, s.store.Snapshot().Projects)
}

// handleCreateProject
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.store.AddProject(req.Name, req.Description, req.Color)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, p)
}

// handleDeleteProject also removes the project's tasks.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBoard
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := s.store.Snapshot()
	if _, ok := snap.FindProject(id); !ok {
		writeAPIError(w, http.StatusNotFound, "project not found")
		return
	}
	writeAPIJSON(w, http.StatusOK, dashboard.BoardFor(id, snap.Tasks))
}

// handleCreateTask
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var priority dashboard.Priority
	if req.Priority != "" {
		p, err := dashboard.ParsePriority(req.Priority)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		priority = p
	}
	t, err := s.store.AddProjectTask(r.PathValue("id"), req.Title, priority, req.DueDate)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, t)
}

// handleGenerateTasks asks the assistant for subtasks. An unavailable assistant
// is reported through the outcome field, not the status code.
func (s *Server) handleGenerateTasks(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	gen, err := s.store.GenerateProjectTasks(r.Context(), r.PathValue("id"), req.Description)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, gen)
}

// handleUpdateTask changes a task's status.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	status, err := dashboard.ParseStatus(req.Status)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.store.UpdateTaskStatus(r.PathValue("id"), status)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, t)
}

// handleDeleteTask
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListRoutines
func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	tasks := s.store.Snapshot().Tasks
	writeAPIJSON(w, http.StatusOK, RoutinesResponse{
		Routines: dashboard.Routines(tasks),
		Progress: dashboard.RoutineProgress(tasks),
	})
}

// handleCreateRoutine
func (s *Server) handleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	var req RoutineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := s.store.AddRoutine(req.Title)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, t)
}

// handleSuggestRoutines
func (s *Server) handleSuggestRoutines(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	gen, err := s.store.SuggestRoutines(r.Context(), req.Goal)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, gen)
}

// handleToggleRoutine
func (s *Server) handleToggleRoutine(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.ToggleRoutine(r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, t)
}

// handleDeleteRoutine only deletes routines; project tasks go through /api/tasks.
func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if t, ok := s.store.Snapshot().FindTask(id); !ok || !t.IsRoutine() {
		writeAPIError(w, http.StatusNotFound, "routine not found")
		return
	}
	if err := s.store.DeleteTask(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListMessages
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, s.store.Snapshot().Messages)
}

// handleSendMessage posts a message and, when it mentions @AI, the assistant's reply.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ex, err := s.store.SendMessage(r.Context(), req.Content)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, ex)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeStoreError maps store errors onto status codes.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var verr *dashboard.ValidationError
	switch {
	case errors.Is(err, state.ErrNotFound):
		writeAPIError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, state.ErrRequestInFlight):
		writeAPIError(w, http.StatusConflict, err.Error())
	case errors.Is(err, assistant.ErrBlankInput), errors.As(err, &verr):
		writeAPIError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("api request failed", "error", err)
		writeAPIError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	writeAPIJSON(w, status, map[string]string{"error": msg})
}
