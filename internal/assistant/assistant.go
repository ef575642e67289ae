// Package assistant turns free-text requests into task suggestions, routine
// suggestions and chat replies. Its operations never fail: every error becomes
// a benign default, and the ...Result forms say which kind of failure happened.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/josephgoksu/neurotech/internal/chat"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/llm"
	"github.com/josephgoksu/neurotech/internal/utils"
)

// Fallback replies for the chat operation.
const (
	ChatErrorReply = "Sorry, I couldn't process that request."
	ChatEmptyReply = "I'm having trouble thinking right now."
)

// SystemInstruction frames every chat call.
const SystemInstruction = "You are a helpful project management assistant named Neurotech AI. " +
	"You help teams organize tasks, suggest workflows, and keep morale high. Keep responses concise."

// Operation names reported to observers.
const (
	OpSubtasks = "generate_subtasks"
	OpRoutine  = "suggest_routine"
	OpChat     = "chat"
)

// Outcome classifies how a call ended.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeInvalidInput     Outcome = "invalid_input"
	OutcomeTransportFailure Outcome = "transport_failure"
	OutcomeSchemaFailure    Outcome = "schema_failure"
	OutcomeEmptyResponse    Outcome = "empty_response"
)

// ErrBlankInput is reported when the request text is empty or whitespace.
var ErrBlankInput = errors.New("input is blank")

// Result is a call's value together with how the call ended.
// Value always holds the fail-soft default when Outcome is not success.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Subtask is one suggested project task.
type Subtask struct {
	Title    string             `json:"title" validate:"required,nonblank,max=255"`
	Priority dashboard.Priority `json:"priority" validate:"required,oneof=low medium high"`
}

// RoutineSuggestion is one suggested daily habit.
type RoutineSuggestion struct {
	Title string `json:"title" validate:"required,nonblank,max=255"`
}

var (
	subtaskShape = ArrayShape{Fields: []Field{
		{Name: "title", Description: "A concise title for the task", Required: true},
		{Name: "priority", Description: "Suggested priority", Enum: []string{"low", "medium", "high"}, Required: true},
	}}
	routineShape = ArrayShape{Fields: []Field{
		{Name: "title", Required: true},
	}}
)

// Assistant adapts a Backend to the dashboard's three AI features.
type Assistant struct {
	backend  Backend
	provider string
	timeout  time.Duration
	observer llm.Observer
	logger   *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithTimeout bounds each call. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithObserver receives a CallEvent after every call.
func WithObserver(o llm.Observer) Option {
	return func(a *Assistant) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithProvider records the provider name on emitted events.
func WithProvider(p string) Option {
	return func(a *Assistant) { a.provider = p }
}

// New creates an Assistant on top of backend.
func New(backend Backend, opts ...Option) *Assistant {
	a := &Assistant{
		backend:  backend,
		timeout:  llm.DefaultTimeoutSeconds * time.Second,
		observer: llm.NoopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GenerateSubtasks breaks a project description into suggested tasks.
// Returns an empty slice on any failure.
func (a *Assistant) GenerateSubtasks(ctx context.Context, description string) []Subtask {
	return a.GenerateSubtasksResult(ctx, description).Value
}

// GenerateSubtasksResult is GenerateSubtasks with the outcome exposed.
func (a *Assistant) GenerateSubtasksResult(ctx context.Context, description string) Result[[]Subtask] {
	prompt := fmt.Sprintf("Break down the following project description into 3-5 actionable tasks. Return a JSON array.\n    Project: %s", description)
	return generateList(ctx, a, OpSubtasks, description, prompt, subtaskShape, normalizeSubtask)
}

// SuggestRoutine proposes daily habits for a goal. Returns an empty slice on any failure.
func (a *Assistant) SuggestRoutine(ctx context.Context, goal string) []RoutineSuggestion {
	return a.SuggestRoutineResult(ctx, goal).Value
}

// SuggestRoutineResult is SuggestRoutine with the outcome exposed.
func (a *Assistant) SuggestRoutineResult(ctx context.Context, goal string) Result[[]RoutineSuggestion] {
	prompt := fmt.Sprintf("Suggest 3 daily routine habits for someone who wants to: %s. Return JSON.", goal)
	return generateList(ctx, a, OpRoutine, goal, prompt, routineShape, normalizeRoutine)
}

// ChatResponse answers message given the prior transcript. Failures yield a canned reply.
func (a *Assistant) ChatResponse(ctx context.Context, transcript []chat.Turn, message string) string {
	return a.ChatResponseResult(ctx, transcript, message).Value
}

// ChatResponseResult is ChatResponse with the outcome exposed.
func (a *Assistant) ChatResponseResult(ctx context.Context, transcript []chat.Turn, message string) Result[string] {
	if utils.IsBlank(message) {
		return Result[string]{Value: ChatErrorReply, Outcome: OutcomeInvalidInput, Err: ErrBlankInput}
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.backend.Chat(ctx, SystemInstruction, transcript, message)
	var res Result[string]
	switch {
	case err != nil:
		res = Result[string]{Value: ChatErrorReply, Outcome: OutcomeTransportFailure, Err: llm.WrapCallError(err)}
		a.logger.Warn("Chat error", "error", err)
	case strings.TrimSpace(text) == "":
		res = Result[string]{Value: ChatEmptyReply, Outcome: OutcomeEmptyResponse, Err: llm.ErrEmptyResponse}
	default:
		res = Result[string]{Value: text, Outcome: OutcomeSuccess}
	}
	a.emit(OpChat, start, res.Outcome, res.Err)
	return res
}

// generateList runs a structured JSON call and validates every item.
// A single invalid item discards the whole response.
func generateList[T any](ctx context.Context, a *Assistant, op, input, prompt string, shape ArrayShape, normalize func(*T)) Result[[]T] {
	empty := []T{}
	if utils.IsBlank(input) {
		return Result[[]T]{Value: empty, Outcome: OutcomeInvalidInput, Err: ErrBlankInput}
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res := func() Result[[]T] {
		raw, err := a.backend.GenerateJSON(ctx, JSONRequest{Operation: op, Prompt: prompt, Shape: shape})
		if err != nil {
			a.logger.Warn("Failed to generate suggestions", "operation", op, "error", err)
			return Result[[]T]{Value: empty, Outcome: OutcomeTransportFailure, Err: llm.WrapCallError(err)}
		}
		if strings.TrimSpace(raw) == "" {
			return Result[[]T]{Value: empty, Outcome: OutcomeEmptyResponse, Err: llm.ErrEmptyResponse}
		}

		items, err := utils.ExtractAndValidate(raw, func(items []T) error {
			for i := range items {
				normalize(&items[i])
				if err := dashboard.ValidateStruct(items[i]); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
			}
			return nil
		})
		if err != nil {
			a.logger.Warn("Discarding malformed suggestions", "operation", op, "error", err)
			return Result[[]T]{Value: empty, Outcome: OutcomeSchemaFailure, Err: fmt.Errorf("%w: %v", llm.ErrInvalidOutput, err)}
		}
		if items == nil {
			items = empty
		}
		return Result[[]T]{Value: items, Outcome: OutcomeSuccess}
	}()

	a.emit(op, start, res.Outcome, res.Err)
	return res
}

func normalizeSubtask(s *Subtask) {
	s.Title = strings.TrimSpace(s.Title)
	s.Priority = dashboard.Priority(strings.ToLower(strings.TrimSpace(string(s.Priority))))
}

func normalizeRoutine(r *RoutineSuggestion) {
	r.Title = strings.TrimSpace(r.Title)
}

func (a *Assistant) emit(op string, start time.Time, outcome Outcome, err error) {
	a.observer.OnCallComplete(llm.CallEvent{
		Operation: op,
		Provider:  a.provider,
		Model:     a.backend.Model(),
		Latency:   time.Since(start),
		Outcome:   string(outcome),
		Err:       err,
	})
}
