package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/josephgoksu/neurotech/internal/assistant"
	"github.com/josephgoksu/neurotech/internal/chat"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/utils"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrNotFound is returned when a command names a project, task or routine that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRequestInFlight is returned when an AI request of the same scope is still running.
	ErrRequestInFlight = errors.New("request already in flight")
)

// AI is the subset of the assistant the store calls.
type AI interface {
	GenerateSubtasksResult(ctx context.Context, description string) assistant.Result[[]assistant.Subtask]
	SuggestRoutineResult(ctx context.Context, goal string) assistant.Result[[]assistant.RoutineSuggestion]
	ChatResponseResult(ctx context.Context, transcript []chat.Turn, message string) assistant.Result[string]
}

// Store holds the canonical State. All changes go through Dispatch, one at a time.
type Store struct {
	mu    sync.RWMutex
	state State

	ai       AI
	userName string
	logger   *slog.Logger

	guardMu sync.Mutex
	guards  map[string]*semaphore.Weighted

	listeners []func(Action, State)
}

// Option configures a Store.
type Option func(*Store)

// WithUserName sets the sender name used for the operator's chat messages.
func WithUserName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.userName = name
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnChange registers fn to run after every dispatched action.
func OnChange(fn func(Action, State)) Option {
	return func(s *Store) {
		s.listeners = append(s.listeners, fn)
	}
}

// NewStore creates a store seeded with initial data.
func NewStore(seed dashboard.Seed, ai AI, opts ...Option) *Store {
	s := &Store{
		state:    FromSeed(seed),
		ai:       ai,
		userName: dashboard.DefaultUserName,
		logger:   slog.Default(),
		guards:   make(map[string]*semaphore.Weighted),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserName is the sender name of the operator.
func (s *Store) UserName() string {
	return s.userName
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies actions in order as one atomic update and returns the resulting state.
func (s *Store) Dispatch(actions ...Action) State {
	snap, _ := s.dispatchIf(nil, actions...)
	return snap
}

// dispatchIf runs check against the current state and applies actions only if
// it passes, all under one lock. Nothing is applied when check fails.
func (s *Store) dispatchIf(check func(State) error, actions ...Action) (State, error) {
	s.mu.Lock()
	if check != nil {
		if err := check(s.state); err != nil {
			s.mu.Unlock()
			return State{}, err
		}
	}
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	snap := s.state.Clone()
	s.mu.Unlock()

	for _, a := range actions {
		for _, fn := range s.listeners {
			fn(a, snap)
		}
	}
	return snap, nil
}

func projectExists(id string) func(State) error {
	return func(st State) error {
		if _, ok := st.FindProject(id); !ok {
			return fmt.Errorf("project %q: %w", id, ErrNotFound)
		}
		return nil
	}
}

func taskExists(id string) func(State) error {
	return func(st State) error {
		if _, ok := st.FindTask(id); !ok {
			return fmt.Errorf("task %q: %w", id, ErrNotFound)
		}
		return nil
	}
}

// AddProject creates a project, picking the next color from the palette when none is given.
func (s *Store) AddProject(name, description, color string) (dashboard.Project, error) {
	if color == "" {
		n := len(s.Snapshot().Projects)
		color = dashboard.ProjectColors[n%len(dashboard.ProjectColors)]
	}
	p := dashboard.Project{ID: dashboard.NewID(), Name: name, Description: description, Color: color}
	if err := p.Validate(); err != nil {
		return dashboard.Project{}, err
	}
	s.Dispatch(AddProject{Project: p})
	return p, nil
}

// DeleteProject removes a project and its tasks.
func (s *Store) DeleteProject(id string) error {
	_, err := s.dispatchIf(projectExists(id), DeleteProject{ID: id})
	return err
}

// AddProjectTask adds a pending task to a project. Priority defaults to medium.
func (s *Store) AddProjectTask(projectID, title string, priority dashboard.Priority, dueDate string) (dashboard.Task, error) {
	if priority == "" {
		priority = dashboard.PriorityMedium
	}
	t := dashboard.NewProjectTask(projectID, title, priority, dueDate)
	if err := t.Validate(); err != nil {
		return dashboard.Task{}, err
	}
	if _, err := s.dispatchIf(projectExists(projectID), AddTask{Task: t}); err != nil {
		return dashboard.Task{}, err
	}
	return t, nil
}

// UpdateTaskStatus moves a task to another column.
func (s *Store) UpdateTaskStatus(id string, status dashboard.TaskStatus) (dashboard.Task, error) {
	if !status.Valid() {
		return dashboard.Task{}, fmt.Errorf("invalid status %q", status)
	}
	next, err := s.dispatchIf(taskExists(id), UpdateTaskStatus{ID: id, Status: status})
	if err != nil {
		return dashboard.Task{}, err
	}
	t, _ := next.FindTask(id)
	return t, nil
}

// DeleteTask removes a task or routine.
func (s *Store) DeleteTask(id string) error {
	_, err := s.dispatchIf(taskExists(id), DeleteTask{ID: id})
	return err
}

// AddRoutine adds a pending routine.
func (s *Store) AddRoutine(title string) (dashboard.Task, error) {
	t := dashboard.NewRoutine(title)
	if err := t.Validate(); err != nil {
		return dashboard.Task{}, err
	}
	next := s.Dispatch(AddRoutine{ID: t.ID, Title: title})
	added, _ := next.FindTask(t.ID)
	return added, nil
}

// ToggleRoutine flips a routine between completed and pending.
func (s *Store) ToggleRoutine(id string) (dashboard.Task, error) {
	isRoutine := func(st State) error {
		if t, ok := st.FindTask(id); !ok || !t.IsRoutine() {
			return fmt.Errorf("routine %q: %w", id, ErrNotFound)
		}
		return nil
	}
	next, err := s.dispatchIf(isRoutine, ToggleRoutine{ID: id})
	if err != nil {
		return dashboard.Task{}, err
	}
	t, _ := next.FindTask(id)
	return t, nil
}

// SetView changes the visible section.
func (s *Store) SetView(v dashboard.View) error {
	if !v.Valid() {
		return fmt.Errorf("invalid view %q", v)
	}
	s.Dispatch(SetView{View: v})
	return nil
}

// Generation reports what an AI-backed command added.
type Generation struct {
	Added   []dashboard.Task  `json:"added"`
	Outcome assistant.Outcome `json:"outcome"`
}

// GenerateProjectTasks asks the assistant for subtasks and adds each as a pending
// task on the project, due today. Nothing is added when the assistant fails.
func (s *Store) GenerateProjectTasks(ctx context.Context, projectID, description string) (Generation, error) {
	if err := projectExists(projectID)(s.Snapshot()); err != nil {
		return Generation{}, err
	}
	release, err := s.acquire("subtasks:" + projectID)
	if err != nil {
		return Generation{}, err
	}
	defer release()

	res := s.ai.GenerateSubtasksResult(ctx, description)
	gen := Generation{Added: []dashboard.Task{}, Outcome: res.Outcome}
	if !res.OK() {
		s.logger.Debug("subtask generation returned nothing", "project", projectID, "outcome", res.Outcome, "error", res.Err)
		return gen, nil
	}

	today := dashboard.Today()
	actions := make([]Action, 0, len(res.Value))
	for _, st := range res.Value {
		t := dashboard.NewProjectTask(projectID, st.Title, st.Priority, today)
		gen.Added = append(gen.Added, t)
		actions = append(actions, AddTask{Task: t})
	}

	// The project may have been deleted while the call was running.
	if _, err := s.dispatchIf(projectExists(projectID), actions...); err != nil {
		return Generation{Added: []dashboard.Task{}, Outcome: res.Outcome}, err
	}
	return gen, nil
}

// SuggestRoutines asks the assistant for habits and adds each as a routine.
func (s *Store) SuggestRoutines(ctx context.Context, goal string) (Generation, error) {
	release, err := s.acquire("routines")
	if err != nil {
		return Generation{}, err
	}
	defer release()

	res := s.ai.SuggestRoutineResult(ctx, goal)
	gen := Generation{Added: []dashboard.Task{}, Outcome: res.Outcome}
	if !res.OK() {
		s.logger.Debug("routine suggestion returned nothing", "outcome", res.Outcome, "error", res.Err)
		return gen, nil
	}

	actions := make([]Action, 0, len(res.Value))
	for _, rs := range res.Value {
		t := dashboard.NewRoutine(rs.Title)
		gen.Added = append(gen.Added, t)
		actions = append(actions, AddRoutine{ID: t.ID, Title: t.Title})
	}
	s.Dispatch(actions...)
	return gen, nil
}

// Exchange is the result of sending a chat message.
type Exchange struct {
	Sent    dashboard.Message  `json:"sent"`
	Reply   *dashboard.Message `json:"reply,omitempty"`
	Outcome assistant.Outcome  `json:"outcome,omitempty"`
}

// SendMessage posts the operator's message. When it mentions @AI, the assistant
// is asked to reply using the log as it stood before this message, and the reply
// is appended as a message from the assistant.
func (s *Store) SendMessage(ctx context.Context, content string) (Exchange, error) {
	if utils.IsBlank(content) {
		return Exchange{}, assistant.ErrBlankInput
	}
	if !chat.MentionsAI(content) {
		msg := dashboard.NewMessage(s.userName, content, false)
		s.Dispatch(AppendMessage{Message: msg})
		return Exchange{Sent: msg}, nil
	}

	release, err := s.acquire("chat")
	if err != nil {
		return Exchange{}, err
	}
	defer release()

	msg := dashboard.NewMessage(s.userName, content, false)
	log := s.Dispatch(AppendMessage{Message: msg}).Messages
	prior := log
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].ID == msg.ID {
			prior = log[:i]
			break
		}
	}

	transcript := chat.BuildTranscript(prior, s.userName, content)
	res := s.ai.ChatResponseResult(ctx, transcript, content)

	reply := dashboard.NewMessage(dashboard.AssistantName, res.Value, true)
	s.Dispatch(AppendMessage{Message: reply})
	return Exchange{Sent: msg, Reply: &reply, Outcome: res.Outcome}, nil
}

// acquire claims the single slot for scope or fails with ErrRequestInFlight.
func (s *Store) acquire(scope string) (func(), error) {
	s.guardMu.Lock()
	sem, ok := s.guards[scope]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.guards[scope] = sem
	}
	s.guardMu.Unlock()

	if !sem.TryAcquire(1) {
		return nil, fmt.Errorf("%s: %w", scope, ErrRequestInFlight)
	}
	return func() { sem.Release(1) }, nil
}
