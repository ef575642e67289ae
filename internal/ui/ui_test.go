package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/neurotech/internal/assistant"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/state"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestRenderBoard(t *testing.T) {
	seed := dashboard.DefaultSeed()
	board := dashboard.BoardFor("1", seed.Tasks)

	out := RenderBoard(seed.Projects[0], board)
	assert.Contains(t, out, "Website Redesign")
	assert.Contains(t, out, "Pending (1)")
	assert.Contains(t, out, "Scheduled (0)")
	assert.Contains(t, out, "Completed (1)")
	assert.Contains(t, out, "Design Homepage Mockup")
	assert.Contains(t, out, "[High]")
	assert.Contains(t, out, "No tasks")
}

func TestRenderDashboard(t *testing.T) {
	seed := dashboard.DefaultSeed()
	out := RenderDashboard("Alex Developer", seed.Projects,
		dashboard.Summarize(seed.Tasks), dashboard.RoutineProgress(seed.Tasks))

	assert.Contains(t, out, "Welcome back, Alex Developer")
	assert.Contains(t, out, "33%")
	assert.Contains(t, out, "Implement React Components")
	assert.Contains(t, out, "(Website Redesign)")
	assert.Contains(t, out, "Review PRs")
	assert.Contains(t, out, "(routine)")
	assert.Contains(t, out, "1 of 3 done")
}

func TestRenderRoutines(t *testing.T) {
	tasks := dashboard.DefaultSeed().Tasks
	out := RenderRoutines(dashboard.Routines(tasks), dashboard.RoutineProgress(tasks))

	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "Morning Standup")
	assert.Contains(t, out, "Scheduled")
	assert.Contains(t, out, "33%")
}

func TestRenderTasksEmpty(t *testing.T) {
	assert.Contains(t, RenderTasks("Subtasks", nil), "AI unavailable")
	out := RenderTasks("Subtasks", []dashboard.Task{dashboard.NewProjectTask("1", "Wireframes", dashboard.PriorityLow, "")})
	assert.Contains(t, out, "Wireframes")
	assert.Contains(t, out, "[Low]")
}

func TestProgressBarClamps(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 10)+" 100%", ProgressBar(150, 10))
	assert.Equal(t, strings.Repeat("░", 10)+" 0%", ProgressBar(-5, 10))
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5)+" 50%", ProgressBar(50, 10))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending", StatusLabel(dashboard.StatusPending))
	assert.Equal(t, "Completed", StatusLabel(dashboard.StatusCompleted))
}

func enter(m tea.Model, text string) (ChatModel, tea.Cmd) {
	cm := m.(ChatModel)
	cm.input.SetValue(text)
	next, cmd := cm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(ChatModel), cmd
}

func TestChatModelIgnoresEnterWhilePending(t *testing.T) {
	calls := 0
	send := func(ctx context.Context, content string) (state.Exchange, error) {
		calls++
		reply := dashboard.NewMessage(dashboard.AssistantName, "Sure thing.", true)
		return state.Exchange{Reply: &reply, Outcome: assistant.OutcomeSuccess}, nil
	}
	m := NewChatModel(context.Background(), "Alex", dashboard.DefaultSeed().Messages, send)

	m, cmd := enter(m, "@AI what next?")
	require.NotNil(t, cmd)
	assert.True(t, m.Pending())
	assert.Len(t, m.Messages(), 3)

	blocked, cmd := enter(m, "second try")
	assert.Nil(t, cmd)
	assert.True(t, blocked.Pending())
	assert.Equal(t, "second try", blocked.input.Value())
	assert.Len(t, blocked.Messages(), 3)

	ex, err := send(context.Background(), "@AI what next?")
	next, _ := m.Update(exchangeMsg{exchange: ex, err: err})
	m = next.(ChatModel)
	assert.False(t, m.Pending())
	require.Len(t, m.Messages(), 4)
	assert.True(t, m.Messages()[3].IsAI)
	assert.Contains(t, m.View(), "Sure thing.")
}

func TestChatModelPlainMessageNotPending(t *testing.T) {
	m := NewChatModel(context.Background(), "Alex", nil, func(context.Context, string) (state.Exchange, error) {
		return state.Exchange{}, nil
	})

	m, cmd := enter(m, "lunch at noon?")
	require.NotNil(t, cmd)
	assert.False(t, m.Pending())
	assert.IsType(t, exchangeMsg{}, cmd())

	_, cmd = enter(m, "   ")
	assert.Nil(t, cmd)
}

func TestChatModelShowsError(t *testing.T) {
	m := NewChatModel(context.Background(), "Alex", nil, nil)
	m.pending = true

	next, _ := m.Update(exchangeMsg{err: errors.New("request already in flight")})
	view := next.(ChatModel).View()
	assert.Contains(t, view, "request already in flight")
}

func TestSpinnerStops(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Thinking...")
	s.Start()
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()
	s.Stop()
	assert.Contains(t, buf.String(), "Thinking...")
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}
