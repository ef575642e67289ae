package state

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/josephgoksu/neurotech/internal/assistant"
	"github.com/josephgoksu/neurotech/internal/chat"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	mu         sync.Mutex
	subtasks   assistant.Result[[]assistant.Subtask]
	routines   assistant.Result[[]assistant.RoutineSuggestion]
	reply      assistant.Result[string]
	block      chan struct{}
	started    chan struct{}
	transcript []chat.Turn
	message    string
	calls      int
}

func (f *fakeAI) wait() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeAI) GenerateSubtasksResult(context.Context, string) assistant.Result[[]assistant.Subtask] {
	f.wait()
	return f.subtasks
}

func (f *fakeAI) SuggestRoutineResult(context.Context, string) assistant.Result[[]assistant.RoutineSuggestion] {
	f.wait()
	return f.routines
}

func (f *fakeAI) ChatResponseResult(_ context.Context, transcript []chat.Turn, message string) assistant.Result[string] {
	f.wait()
	f.transcript, f.message = transcript, message
	return f.reply
}

func newTestStore(ai AI) *Store {
	return NewStore(dashboard.DefaultSeed(), ai, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
}

func TestStoreAddProjectTask(t *testing.T) {
	s := newTestStore(&fakeAI{})

	task, err := s.AddProjectTask("1", "Write tests", dashboard.PriorityHigh, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, dashboard.StatusPending, task.Status)

	board := dashboard.BoardFor("1", s.Snapshot().Tasks)
	assert.Len(t, board.Column(dashboard.StatusPending).Tasks, 2)

	defaulted, err := s.AddProjectTask("2", "Beta", "", "")
	require.NoError(t, err)
	assert.Equal(t, dashboard.PriorityMedium, defaulted.Priority)

	_, err = s.AddProjectTask("missing", "x", dashboard.PriorityLow, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddProjectTask("1", "  ", dashboard.PriorityLow, "")
	var verr *dashboard.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestStoreNotFoundLeavesStateUnchanged(t *testing.T) {
	s := newTestStore(&fakeAI{})
	before := s.Snapshot()

	_, err := s.UpdateTaskStatus("nope", dashboard.StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteTask("nope"), ErrNotFound)
	assert.ErrorIs(t, s.DeleteProject("nope"), ErrNotFound)
	_, err = s.ToggleRoutine("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ToggleRoutine("101")
	assert.ErrorIs(t, err, ErrNotFound, "project tasks are not routines")

	assert.Equal(t, before, s.Snapshot())
}

func TestStoreRoutines(t *testing.T) {
	s := newTestStore(&fakeAI{})

	r, err := s.AddRoutine("Meditate")
	require.NoError(t, err)
	assert.True(t, r.IsRoutine())

	toggled, err := s.ToggleRoutine(r.ID)
	require.NoError(t, err)
	assert.Equal(t, dashboard.StatusCompleted, toggled.Status)

	p := dashboard.RoutineProgress(s.Snapshot().Tasks)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 4, p.Total)

	_, err = s.AddRoutine("")
	assert.Error(t, err)
}

func TestStoreProjects(t *testing.T) {
	s := newTestStore(&fakeAI{})

	p, err := s.AddProject("Research", "", "")
	require.NoError(t, err)
	assert.Equal(t, dashboard.ProjectColors[3], p.Color)

	require.NoError(t, s.DeleteProject("1"))
	snap := s.Snapshot()
	assert.Len(t, snap.Projects, 3)
	for _, tk := range snap.Tasks {
		assert.False(t, tk.Owner.BelongsTo("1"))
	}

	_, err = s.AddProject("", "", "")
	assert.Error(t, err)
}

func TestStoreSetView(t *testing.T) {
	s := newTestStore(&fakeAI{})
	require.NoError(t, s.SetView(dashboard.ViewChat))
	assert.Equal(t, dashboard.ViewChat, s.Snapshot().View)
	assert.Error(t, s.SetView("SETTINGS"))
}

func TestGenerateProjectTasksAddsEverySuggestion(t *testing.T) {
	ai := &fakeAI{subtasks: assistant.Result[[]assistant.Subtask]{
		Outcome: assistant.OutcomeSuccess,
		Value: []assistant.Subtask{
			{Title: "Wireframes", Priority: dashboard.PriorityHigh},
			{Title: "Copy", Priority: dashboard.PriorityLow},
			{Title: "QA", Priority: dashboard.PriorityMedium},
		},
	}}
	s := newTestStore(ai)

	gen, err := s.GenerateProjectTasks(context.Background(), "3", "Launch the campaign")
	require.NoError(t, err)
	assert.Equal(t, assistant.OutcomeSuccess, gen.Outcome)
	require.Len(t, gen.Added, 3)

	pending := dashboard.BoardFor("3", s.Snapshot().Tasks).Column(dashboard.StatusPending).Tasks
	require.Len(t, pending, 3)
	for i, tk := range pending {
		assert.Equal(t, ai.subtasks.Value[i].Title, tk.Title)
		assert.Equal(t, ai.subtasks.Value[i].Priority, tk.Priority)
		assert.Equal(t, dashboard.Today(), tk.DueDate)
	}
}

func TestGenerateProjectTasksFailureAddsNothing(t *testing.T) {
	ai := &fakeAI{subtasks: assistant.Result[[]assistant.Subtask]{
		Value:   []assistant.Subtask{},
		Outcome: assistant.OutcomeTransportFailure,
		Err:     errors.New("down"),
	}}
	s := newTestStore(ai)
	before := s.Snapshot()

	gen, err := s.GenerateProjectTasks(context.Background(), "1", "anything")
	require.NoError(t, err)
	assert.Equal(t, assistant.OutcomeTransportFailure, gen.Outcome)
	assert.Empty(t, gen.Added)
	assert.Equal(t, before, s.Snapshot())

	_, err = s.GenerateProjectTasks(context.Background(), "missing", "anything")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSuggestRoutines(t *testing.T) {
	ai := &fakeAI{routines: assistant.Result[[]assistant.RoutineSuggestion]{
		Outcome: assistant.OutcomeSuccess,
		Value:   []assistant.RoutineSuggestion{{Title: "Walk"}, {Title: "Read"}, {Title: "Journal"}},
	}}
	s := newTestStore(ai)

	gen, err := s.SuggestRoutines(context.Background(), "be calmer")
	require.NoError(t, err)
	require.Len(t, gen.Added, 3)

	routines := dashboard.Routines(s.Snapshot().Tasks)
	require.Len(t, routines, 6)
	assert.Equal(t, "Journal", routines[5].Title)
	assert.Equal(t, dashboard.PriorityMedium, routines[5].Priority)
}

func TestInFlightGuardRejectsSecondCall(t *testing.T) {
	ai := &fakeAI{
		block:    make(chan struct{}),
		started:  make(chan struct{}, 1),
		routines: assistant.Result[[]assistant.RoutineSuggestion]{Outcome: assistant.OutcomeSuccess, Value: []assistant.RoutineSuggestion{{Title: "Walk"}}},
		subtasks: assistant.Result[[]assistant.Subtask]{Outcome: assistant.OutcomeSuccess, Value: []assistant.Subtask{}},
	}
	s := newTestStore(ai)

	done := make(chan error, 1)
	go func() {
		_, err := s.SuggestRoutines(context.Background(), "focus")
		done <- err
	}()
	<-ai.started

	_, err := s.SuggestRoutines(context.Background(), "focus again")
	assert.ErrorIs(t, err, ErrRequestInFlight)

	// Other scopes are independent.
	ai.started = make(chan struct{}, 1)
	go func() { <-ai.started }()
	close(ai.block)
	_, err = s.GenerateProjectTasks(context.Background(), "1", "x")
	assert.NoError(t, err)

	require.NoError(t, <-done)
	assert.Len(t, dashboard.Routines(s.Snapshot().Tasks), 4)

	_, err = s.SuggestRoutines(context.Background(), "after release")
	assert.NoError(t, err)
}

func TestSendMessageWithoutMention(t *testing.T) {
	ai := &fakeAI{}
	s := newTestStore(ai)

	ex, err := s.SendMessage(context.Background(), "lunch at noon?")
	require.NoError(t, err)
	assert.Nil(t, ex.Reply)
	assert.Equal(t, dashboard.DefaultUserName, ex.Sent.Sender)
	assert.Zero(t, ai.calls)
	assert.Len(t, s.Snapshot().Messages, 3)

	_, err = s.SendMessage(context.Background(), "  ")
	assert.Error(t, err)
}

func TestSendMessageWithMention(t *testing.T) {
	ai := &fakeAI{reply: assistant.Result[string]{Value: "On it!", Outcome: assistant.OutcomeSuccess}}
	s := NewStore(dashboard.DefaultSeed(), ai, WithUserName("Bob"))

	ex, err := s.SendMessage(context.Background(), "@AI what is next?")
	require.NoError(t, err)
	require.NotNil(t, ex.Reply)
	assert.Equal(t, dashboard.AssistantName, ex.Reply.Sender)
	assert.True(t, ex.Reply.IsAI)
	assert.Equal(t, "On it!", ex.Reply.Content)

	assert.Equal(t, "@AI what is next?", ai.message)
	assert.Equal(t, []chat.Turn{
		{Role: chat.RoleModel, Text: "Neurotech AI: Hello team! I am here to assist with project coordination. Mention @AI to ask me anything."},
		{Role: chat.RoleUser, Text: "Sarah Designer: Hey everyone, just uploaded the new mockups to the project drive."},
		{Role: chat.RoleUser, Text: "Bob: @AI what is next?"},
	}, ai.transcript)

	msgs := s.Snapshot().Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, "Bob", msgs[2].Sender)
	assert.Equal(t, "On it!", msgs[3].Content)
}

func TestSendMessageFallbackReplyStillAppended(t *testing.T) {
	ai := &fakeAI{reply: assistant.Result[string]{Value: assistant.ChatErrorReply, Outcome: assistant.OutcomeTransportFailure}}
	s := newTestStore(ai)

	ex, err := s.SendMessage(context.Background(), "hey @ai")
	require.NoError(t, err)
	assert.Equal(t, assistant.OutcomeTransportFailure, ex.Outcome)
	assert.Equal(t, assistant.ChatErrorReply, s.Snapshot().Messages[3].Content)
}

func TestOnChangeListener(t *testing.T) {
	var seen []Action
	s := NewStore(dashboard.DefaultSeed(), &fakeAI{}, OnChange(func(a Action, _ State) { seen = append(seen, a) }))
	_, _ = s.AddRoutine("Stretch")
	require.NoError(t, s.SetView(dashboard.ViewRoutines))
	require.Len(t, seen, 2)
	assert.IsType(t, AddRoutine{}, seen[0])
	assert.IsType(t, SetView{}, seen[1])
}

func TestDispatchIfFailedCheckAppliesNothing(t *testing.T) {
	var seen int
	s := NewStore(dashboard.DefaultSeed(), &fakeAI{}, OnChange(func(Action, State) { seen++ }))
	before := s.Snapshot()

	_, err := s.dispatchIf(projectExists("missing"), AddTask{Task: dashboard.NewProjectTask("missing", "Orphan", dashboard.PriorityLow, "")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, seen)

	next, err := s.dispatchIf(projectExists("1"), AddTask{Task: dashboard.NewProjectTask("1", "Kept", dashboard.PriorityLow, "")})
	require.NoError(t, err)
	assert.Len(t, next.Tasks, len(before.Tasks)+1)
	assert.Equal(t, 1, seen)
}

func TestGenerateProjectTasksProjectDeletedDuringCall(t *testing.T) {
	ai := &fakeAI{
		block:    make(chan struct{}),
		started:  make(chan struct{}, 1),
		subtasks: assistant.Result[[]assistant.Subtask]{Outcome: assistant.OutcomeSuccess, Value: []assistant.Subtask{{Title: "Late", Priority: dashboard.PriorityHigh}}},
	}
	s := newTestStore(ai)

	done := make(chan error, 1)
	go func() {
		_, err := s.GenerateProjectTasks(context.Background(), "2", "ship it")
		done <- err
	}()
	<-ai.started
	require.NoError(t, s.DeleteProject("2"))
	close(ai.block)

	assert.ErrorIs(t, <-done, ErrNotFound)
	for _, tk := range s.Snapshot().Tasks {
		assert.False(t, tk.Owner.BelongsTo("2"), tk.Title)
	}
}

func TestConcurrentAddAndDeleteLeavesNoOrphans(t *testing.T) {
	for range 200 {
		s := newTestStore(&fakeAI{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.AddProjectTask("3", "Racing task", dashboard.PriorityLow, "")
		}()
		go func() {
			defer wg.Done()
			_ = s.DeleteProject("3")
		}()
		wg.Wait()

		snap := s.Snapshot()
		for _, tk := range snap.Tasks {
			if pid, ok := tk.Owner.ProjectID(); ok {
				_, exists := snap.FindProject(pid)
				require.True(t, exists, "task %q owned by deleted project %q", tk.Title, pid)
			}
		}
	}
}
