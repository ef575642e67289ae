package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/josephgoksu/neurotech/internal/assistant"
	"github.com/josephgoksu/neurotech/internal/chat"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/logger"
	"github.com/josephgoksu/neurotech/internal/state"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	subtasks assistant.Result[[]assistant.Subtask]
	routines assistant.Result[[]assistant.RoutineSuggestion]
	reply    assistant.Result[string]
	started  chan struct{}
	block    chan struct{}
}

func (f *fakeAI) wait() {
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

func (f *fakeAI) ChatResponseResult(context.Context, []chat.Turn, string) assistant.Result[string] {
	f.wait()
	return f.reply
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, ai *fakeAI) (*Server, *state.Store) {
	t.Helper()
	store := state.NewStore(dashboard.DefaultSeed(), ai, state.WithLogger(quietLogger()))
	srv := New(store, Config{
		Port:           0,
		AllowedOrigins: []string{"http://localhost:5173"},
		Version:        "test",
		Logger:         quietLogger(),
	})
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandleDashboard(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAI{})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[DashboardResponse](t, rec)
	assert.Equal(t, dashboard.DefaultUserName, resp.User.Name)
	assert.Equal(t, dashboard.ViewDashboard, resp.View)
	assert.Equal(t, 3, resp.Projects)
	assert.Equal(t, 6, resp.Summary.Total)
	assert.Equal(t, 33, resp.Summary.CompletionPercent)
	assert.Equal(t, 3, resp.Routines.Total)
}

func TestTaskLifecycleOnBoard(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAI{})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/projects/1/tasks", `{"title":"Write tests","priority":"high","dueDate":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[dashboard.Task](t, rec)
	assert.Equal(t, dashboard.StatusPending, created.Status)

	countIn := func(status dashboard.TaskStatus) int {
		board := decode[dashboard.Board](t, do(t, h, http.MethodGet, "/api/projects/1/board", ""))
		n := 0
		for _, task := range board.Column(status).Tasks {
			if task.ID == created.ID {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, countIn(dashboard.StatusPending))
	assert.Equal(t, 0, countIn(dashboard.StatusCompleted))

	rec = do(t, h, http.MethodPatch, "/api/tasks/"+created.ID, `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, countIn(dashboard.StatusPending))
	assert.Equal(t, 1, countIn(dashboard.StatusCompleted))

	rec = do(t, h, http.MethodDelete, "/api/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, countIn(dashboard.StatusCompleted))
}

func TestErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed body", http.MethodPost, "/api/projects", `{`, http.StatusBadRequest},
		{"blank project name", http.MethodPost, "/api/projects", `{"name":"  "}`, http.StatusBadRequest},
		{"unknown project delete", http.MethodDelete, "/api/projects/nope", "", http.StatusNotFound},
		{"unknown project board", http.MethodGet, "/api/projects/nope/board", "", http.StatusNotFound},
		{"task on unknown project", http.MethodPost, "/api/projects/nope/tasks", `{"title":"x"}`, http.StatusNotFound},
		{"bad priority", http.MethodPost, "/api/projects/1/tasks", `{"title":"x","priority":"urgent"}`, http.StatusBadRequest},
		{"bad status", http.MethodPatch, "/api/tasks/101", `{"status":"DONE"}`, http.StatusBadRequest},
		{"unknown task", http.MethodPatch, "/api/tasks/nope", `{"status":"PENDING"}`, http.StatusNotFound},
		{"unknown task delete", http.MethodDelete, "/api/tasks/nope", "", http.StatusNotFound},
		{"toggle project task", http.MethodPost, "/api/routines/101/toggle", "", http.StatusNotFound},
		{"delete project task as routine", http.MethodDelete, "/api/routines/101", "", http.StatusNotFound},
		{"blank routine", http.MethodPost, "/api/routines", `{"title":""}`, http.StatusBadRequest},
		{"blank message", http.MethodPost, "/api/messages", `{"content":"   "}`, http.StatusBadRequest},
		{"bad view", http.MethodPut, "/api/view", `{"view":"SETTINGS"}`, http.StatusBadRequest},
	}
	srv, _ := newTestServer(t, &fakeAI{})
	h := srv.Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestProjectCreateAndCascadeDelete(t *testing.T) {
	srv, store := newTestServer(t, &fakeAI{})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/projects", `{"name":"Research","description":"Q4"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decode[dashboard.Project](t, rec)
	assert.NotEmpty(t, p.Color)

	rec = do(t, h, http.MethodDelete, "/api/projects/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	for _, task := range store.Snapshot().Tasks {
		assert.False(t, task.Owner.BelongsTo("1"))
	}
}

func TestGenerateTasks(t *testing.T) {
	ai := &fakeAI{subtasks: assistant.Result[[]assistant.Subtask]{
		Outcome: assistant.OutcomeSuccess,
		Value: []assistant.Subtask{
			{Title: "Draft outline", Priority: dashboard.PriorityHigh},
			{Title: "Collect assets", Priority: dashboard.PriorityLow},
		},
	}}
	srv, _ := newTestServer(t, ai)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/projects/3/generate", `{"description":"Launch video"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	gen := decode[state.Generation](t, rec)
	assert.Equal(t, assistant.OutcomeSuccess, gen.Outcome)
	require.Len(t, gen.Added, 2)
	assert.Equal(t, dashboard.Today(), gen.Added[0].DueDate)
}

func TestGenerateTasksAIUnavailable(t *testing.T) {
	ai := &fakeAI{subtasks: assistant.Result[[]assistant.Subtask]{
		Outcome: assistant.OutcomeTransportFailure,
		Value:   []assistant.Subtask{},
	}}
	srv, store := newTestServer(t, ai)
	before := len(store.Snapshot().Tasks)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/projects/1/generate", `{"description":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	gen := decode[state.Generation](t, rec)
	assert.Equal(t, assistant.OutcomeTransportFailure, gen.Outcome)
	assert.Empty(t, gen.Added)
	assert.Len(t, store.Snapshot().Tasks, before)
}

func TestSuggestRoutinesInFlightConflict(t *testing.T) {
	ai := &fakeAI{
		routines: assistant.Result[[]assistant.RoutineSuggestion]{
			Outcome: assistant.OutcomeSuccess,
			Value:   []assistant.RoutineSuggestion{{Title: "Stretch"}},
		},
		started: make(chan struct{}, 1),
		block:   make(chan struct{}),
	}
	srv, _ := newTestServer(t, ai)
	h := srv.Handler()

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = do(t, h, http.MethodPost, "/api/routines/suggest", `{"goal":"health"}`)
	}()
	<-ai.started

	second := do(t, h, http.MethodPost, "/api/routines/suggest", `{"goal":"health"}`)
	assert.Equal(t, http.StatusConflict, second.Code)

	close(ai.block)
	wg.Wait()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Len(t, decode[state.Generation](t, first).Added, 1)
}

func TestRoutineToggleAndList(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAI{})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/routines/201/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dashboard.StatusPending, decode[dashboard.Task](t, rec).Status)

	rec = do(t, h, http.MethodPost, "/api/routines", `{"title":"Read 20 pages"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	routine := decode[dashboard.Task](t, rec)
	assert.True(t, routine.IsRoutine())

	list := decode[RoutinesResponse](t, do(t, h, http.MethodGet, "/api/routines", ""))
	assert.Len(t, list.Routines, 4)
	assert.Equal(t, dashboard.Progress{Completed: 0, Total: 4, Percent: 0}, list.Progress)

	rec = do(t, h, http.MethodDelete, "/api/routines/"+routine.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSendMessage(t *testing.T) {
	ai := &fakeAI{reply: assistant.Result[string]{Value: "On it.", Outcome: assistant.OutcomeSuccess}}
	srv, store := newTestServer(t, ai)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/messages", `{"content":"morning all"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, decode[state.Exchange](t, rec).Reply)

	rec = do(t, h, http.MethodPost, "/api/messages", `{"content":"@AI plan my day"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	ex := decode[state.Exchange](t, rec)
	require.NotNil(t, ex.Reply)
	assert.Equal(t, "On it.", ex.Reply.Content)
	assert.True(t, ex.Reply.IsAI)
	assert.Equal(t, dashboard.AssistantName, ex.Reply.Sender)

	msgs := decode[[]dashboard.Message](t, do(t, h, http.MethodGet, "/api/messages", ""))
	assert.Len(t, msgs, len(store.Snapshot().Messages))
	assert.Len(t, msgs, 5)
}

func TestViewRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAI{})
	h := srv.Handler()

	rec := do(t, h, http.MethodPut, "/api/view", `{"view":"ROUTINES"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ViewRequest](t, do(t, h, http.MethodGet, "/api/view", ""))
	assert.Equal(t, "ROUTINES", got.View)

	st := decode[state.State](t, do(t, h, http.MethodGet, "/api/state", ""))
	assert.Equal(t, dashboard.ViewRoutines, st.View)
	assert.Len(t, st.Projects, 3)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAI{})
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverMiddlewareWritesCrashLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger.SetFs(fs)
	logger.SetBasePath("/data")
	t.Cleanup(func() {
		logger.SetFs(afero.NewOsFs())
		logger.SetBasePath(".neurotech")
	})

	var logs bytes.Buffer
	srv := &Server{logger: slog.New(slog.NewTextHandler(&logs, nil))}
	h := srv.recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	}))

	rec := do(t, h, http.MethodGet, "/api/state", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "handler exploded")

	files, err := logger.ListCrashLogs()
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
