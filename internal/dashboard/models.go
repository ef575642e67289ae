// Package dashboard holds the domain records for projects, tasks, routines and chat messages.
package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the kanban column a task sits in.
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusScheduled TaskStatus = "SCHEDULED"
	StatusCompleted TaskStatus = "COMPLETED"
)

// Statuses lists every status in board column order.
var Statuses = []TaskStatus{StatusPending, StatusScheduled, StatusCompleted}

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus accepts any casing of a status name.
func ParseStatus(s string) (TaskStatus, error) {
	st := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (want PENDING, SCHEDULED or COMPLETED)", s)
	}
	return st, nil
}

// Priority represents how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is low, medium or high.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority normalizes case and surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (want low, medium or high)", s)
	}
	return p, nil
}

// View is the section of the dashboard currently on screen.
type View string

const (
	ViewDashboard View = "DASHBOARD"
	ViewProjects  View = "PROJECTS"
	ViewRoutines  View = "ROUTINES"
	ViewChat      View = "CHAT"
)

// Valid reports whether v names a known view.
func (v View) Valid() bool {
	switch v {
	case ViewDashboard, ViewProjects, ViewRoutines, ViewChat:
		return true
	}
	return false
}

// Project groups tasks on the kanban board. Projects are never edited after creation.
type Project struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required,nonblank,max=200"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"required"`
}

// Owner says whether a task belongs to a project or is a free-standing routine.
// The zero value is a routine.
type Owner struct {
	projectID string
}

// ProjectOwner returns the owner for a task on the given project.
func ProjectOwner(projectID string) Owner {
	return Owner{projectID: projectID}
}

// RoutineOwner returns the owner for a routine.
func RoutineOwner() Owner {
	return Owner{}
}

// IsRoutine reports whether the task has no owning project.
func (o Owner) IsRoutine() bool {
	return o.projectID == ""
}

// ProjectID returns the owning project and true, or "" and false for routines.
func (o Owner) ProjectID() (string, bool) {
	return o.projectID, o.projectID != ""
}

// BelongsTo reports whether the task is owned by the given project.
func (o Owner) BelongsTo(projectID string) bool {
	return projectID != "" && o.projectID == projectID
}

// Task is a unit of work on a project board, or a routine when Owner is RoutineOwner.
type Task struct {
	ID          string     `validate:"required"`
	Owner       Owner      `validate:"-"`
	Title       string     `validate:"required,nonblank,max=255"`
	Description string     `validate:"omitempty,max=4000"`
	Status      TaskStatus `validate:"required,oneof=PENDING SCHEDULED COMPLETED"`
	DueDate     string     `validate:"omitempty,datetime=2006-01-02"`
	Priority    Priority   `validate:"required,oneof=low medium high"`
}

// IsRoutine is shorthand for t.Owner.IsRoutine().
func (t Task) IsRoutine() bool {
	return t.Owner.IsRoutine()
}

// taskJSON is the wire form. projectId and isRoutine are both derived from Owner.
type taskJSON struct {
	ID          string     `json:"id"`
	ProjectID   *string    `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     string     `json:"dueDate,omitempty"`
	IsRoutine   bool       `json:"isRoutine"`
	Priority    Priority   `json:"priority"`
}

// MarshalJSON emits projectId (null for routines) and isRoutine.
func (t Task) MarshalJSON() ([]byte, error) {
	w := taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate,
		IsRoutine:   t.Owner.IsRoutine(),
		Priority:    t.Priority,
	}
	if pid, ok := t.Owner.ProjectID(); ok {
		w.ProjectID = &pid
	}
	return json.Marshal(w)
}

// UnmarshalJSON rejects payloads whose projectId and isRoutine disagree.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	hasProject := w.ProjectID != nil && *w.ProjectID != ""
	if w.IsRoutine && hasProject {
		return fmt.Errorf("task %q: routine cannot have projectId %q", w.ID, *w.ProjectID)
	}
	if !w.IsRoutine && !hasProject {
		return fmt.Errorf("task %q: projectId required for non-routine task", w.ID)
	}
	*t = Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Status:      w.Status,
		DueDate:     w.DueDate,
		Priority:    w.Priority,
	}
	if hasProject {
		t.Owner = ProjectOwner(*w.ProjectID)
	}
	return nil
}

// Message is one entry in the team chat log.
type Message struct {
	ID        string    `json:"id" validate:"required"`
	Sender    string    `json:"sender" validate:"required,nonblank"`
	Avatar    string    `json:"avatar,omitempty"`
	Content   string    `json:"content" validate:"required,nonblank"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	IsAI      bool      `json:"isAi"`
}

// User is the person operating the dashboard.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// NewProjectTask builds a pending task for a project with a fresh ID.
func NewProjectTask(projectID, title string, priority Priority, dueDate string) Task {
	return Task{
		ID:       NewID(),
		Owner:    ProjectOwner(projectID),
		Title:    title,
		Status:   StatusPending,
		DueDate:  dueDate,
		Priority: priority,
	}
}

// NewRoutine builds a pending, medium priority routine with a fresh ID.
func NewRoutine(title string) Task {
	return Task{
		ID:       NewID(),
		Owner:    RoutineOwner(),
		Title:    title,
		Status:   StatusPending,
		Priority: PriorityMedium,
	}
}

// NewMessage stamps a chat message with a fresh ID and the current time.
func NewMessage(sender, content string, isAI bool) Message {
	return Message{
		ID:        NewID(),
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
		IsAI:      isAI,
	}
}

// Today returns the current local date in due-date format.
func Today() string {
	return time.Now().Format(time.DateOnly)
}
