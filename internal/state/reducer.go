// Package state owns the dashboard's canonical data and the transitions applied to it.
package state

import (
	"slices"

	"github.com/josephgoksu/neurotech/internal/dashboard"
)

// State is everything the dashboard shows.
type State struct {
	Projects []dashboard.Project `json:"projects"`
	Tasks    []dashboard.Task    `json:"tasks"`
	Messages []dashboard.Message `json:"messages"`
	View     dashboard.View      `json:"view"`
}

// FromSeed builds the initial state on the dashboard view.
func FromSeed(seed dashboard.Seed) State {
	return State{
		Projects: slices.Clone(seed.Projects),
		Tasks:    slices.Clone(seed.Tasks),
		Messages: slices.Clone(seed.Messages),
		View:     dashboard.ViewDashboard,
	}
}

// Clone returns a copy whose slices share nothing with s.
func (s State) Clone() State {
	return State{
		Projects: slices.Clone(s.Projects),
		Tasks:    slices.Clone(s.Tasks),
		Messages: slices.Clone(s.Messages),
		View:     s.View,
	}
}

// FindTask returns the first task with id.
func (s State) FindTask(id string) (dashboard.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return dashboard.Task{}, false
}

// FindProject returns the project with id.
func (s State) FindProject(id string) (dashboard.Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return dashboard.Project{}, false
}

// Action is a state transition.
type Action interface {
	isAction()
}

// AddTask appends a task. IDs are not checked for uniqueness.
type AddTask struct{ Task dashboard.Task }

// UpdateTaskStatus sets the status of every task with ID.
type UpdateTaskStatus struct {
	ID     string
	Status dashboard.TaskStatus
}

// DeleteTask removes every task with ID.
type DeleteTask struct{ ID string }

// AddRoutine appends a pending, medium priority routine.
type AddRoutine struct{ ID, Title string }

// ToggleRoutine flips a task between COMPLETED and PENDING. Any non-completed
// status becomes COMPLETED, so a SCHEDULED task does not survive two toggles.
type ToggleRoutine struct{ ID string }

// AddProject appends a project.
type AddProject struct{ Project dashboard.Project }

// DeleteProject removes a project along with every task it owns.
type DeleteProject struct{ ID string }

// AppendMessage adds a message to the end of the chat log.
type AppendMessage struct{ Message dashboard.Message }

// SetView selects the visible section.
type SetView struct{ View dashboard.View }

func (AddTask) isAction()          {}
func (UpdateTaskStatus) isAction() {}
func (DeleteTask) isAction()       {}
func (AddRoutine) isAction()       {}
func (ToggleRoutine) isAction()    {}
func (AddProject) isAction()       {}
func (DeleteProject) isAction()    {}
func (AppendMessage) isAction()    {}
func (SetView) isAction()          {}

// Reduce applies a to s and returns the new state. s is never modified, and
// actions naming an unknown ID leave the state as it was.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch a := a.(type) {
	case AddTask:
		next.Tasks = append(next.Tasks, a.Task)

	case UpdateTaskStatus:
		for i := range next.Tasks {
			if next.Tasks[i].ID == a.ID {
				next.Tasks[i].Status = a.Status
			}
		}

	case DeleteTask:
		next.Tasks = slices.DeleteFunc(next.Tasks, func(t dashboard.Task) bool {
			return t.ID == a.ID
		})

	case AddRoutine:
		next.Tasks = append(next.Tasks, dashboard.Task{
			ID:       a.ID,
			Owner:    dashboard.RoutineOwner(),
			Title:    a.Title,
			Status:   dashboard.StatusPending,
			Priority: dashboard.PriorityMedium,
		})

	case ToggleRoutine:
		for i := range next.Tasks {
			if next.Tasks[i].ID == a.ID {
				next.Tasks[i].Status = toggled(next.Tasks[i].Status)
			}
		}

	case AddProject:
		next.Projects = append(next.Projects, a.Project)

	case DeleteProject:
		next.Projects = slices.DeleteFunc(next.Projects, func(p dashboard.Project) bool {
			return p.ID == a.ID
		})
		next.Tasks = slices.DeleteFunc(next.Tasks, func(t dashboard.Task) bool {
			return t.Owner.BelongsTo(a.ID)
		})

	case AppendMessage:
		next.Messages = append(next.Messages, a.Message)

	case SetView:
		next.View = a.View
	}

	return next
}

func toggled(s dashboard.TaskStatus) dashboard.TaskStatus {
	if s == dashboard.StatusCompleted {
		return dashboard.StatusPending
	}
	return dashboard.StatusCompleted
}
