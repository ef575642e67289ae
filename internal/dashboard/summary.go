package dashboard

import "math"

// Summary is the overview shown on the dashboard view.
type Summary struct {
	Total             int                `json:"total"`
	ByStatus          map[TaskStatus]int `json:"byStatus"`
	CompletionPercent int                `json:"completionPercent"`
	OpenHighPriority  []Task             `json:"openHighPriority"`
}

// Summarize counts tasks per status and collects high priority work that is not yet done.
func Summarize(tasks []Task) Summary {
	s := Summary{
		ByStatus:         make(map[TaskStatus]int, len(Statuses)),
		OpenHighPriority: []Task{},
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}
	for _, t := range tasks {
		s.Total++
		s.ByStatus[t.Status]++
		if t.Priority == PriorityHigh && t.Status != StatusCompleted {
			s.OpenHighPriority = append(s.OpenHighPriority, t)
		}
	}
	s.CompletionPercent = percent(s.ByStatus[StatusCompleted], s.Total)
	return s
}

// Column is one status lane of a project board.
type Column struct {
	Status TaskStatus `json:"status"`
	Title  string     `json:"title"`
	Tasks  []Task     `json:"tasks"`
}

// Board is a project's tasks split into Pending, Scheduled and Completed lanes.
type Board struct {
	ProjectID string   `json:"projectId"`
	Columns   []Column `json:"columns"`
}

var columnTitles = map[TaskStatus]string{
	StatusPending:   "Pending",
	StatusScheduled: "Scheduled",
	StatusCompleted: "Completed",
}

// BoardFor groups the tasks owned by projectID into status columns, keeping input order.
func BoardFor(projectID string, tasks []Task) Board {
	b := Board{ProjectID: projectID, Columns: make([]Column, len(Statuses))}
	index := make(map[TaskStatus]int, len(Statuses))
	for i, st := range Statuses {
		b.Columns[i] = Column{Status: st, Title: columnTitles[st], Tasks: []Task{}}
		index[st] = i
	}
	for _, t := range tasks {
		if !t.Owner.BelongsTo(projectID) {
			continue
		}
		i, ok := index[t.Status]
		if !ok {
			continue
		}
		b.Columns[i].Tasks = append(b.Columns[i].Tasks, t)
	}
	return b
}

// Column returns the lane for a status, or nil.
func (b Board) Column(status TaskStatus) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			return &b.Columns[i]
		}
	}
	return nil
}

// Progress is the routine tracker's completion meter.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// RoutineProgress reports how many routines are completed. Project tasks are ignored.
func RoutineProgress(tasks []Task) Progress {
	var p Progress
	for _, t := range tasks {
		if !t.IsRoutine() {
			continue
		}
		p.Total++
		if t.Status == StatusCompleted {
			p.Completed++
		}
	}
	p.Percent = percent(p.Completed, p.Total)
	return p
}

// Routines filters tasks down to routines.
func Routines(tasks []Task) []Task {
	out := []Task{}
	for _, t := range tasks {
		if t.IsRoutine() {
			out = append(out, t)
		}
	}
	return out
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}
