package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/neurotech/internal/chat"
)

// Backend is the model transport the assistant talks to.
type Backend interface {
	// GenerateJSON asks for a JSON document matching req.Shape and returns the raw text.
	GenerateJSON(ctx context.Context, req JSONRequest) (string, error)
	// Chat continues a conversation under a system instruction and returns the reply text.
	Chat(ctx context.Context, system string, history []chat.Turn, message string) (string, error)
	// Model names the model used, for diagnostics.
	Model() string
}

// JSONRequest is a structured generation call.
type JSONRequest struct {
	Operation string
	Prompt    string
	Shape     ArrayShape
}

// Field is one string property of a suggested item.
type Field struct {
	Name        string
	Description string
	Enum        []string
	Required    bool
}

// ArrayShape describes a JSON array of flat objects with string fields.
type ArrayShape struct {
	Fields []Field
}

// Describe renders the shape as an instruction for models without native schema support.
func (s ArrayShape) Describe() string {
	var b strings.Builder
	b.WriteString("Respond with a JSON array only, no prose. Each element is an object with:\n")
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "- %q (string", f.Name)
		if f.Required {
			b.WriteString(", required")
		}
		if len(f.Enum) > 0 {
			fmt.Fprintf(&b, ", one of: %s", strings.Join(f.Enum, ", "))
		}
		b.WriteString(")")
		if f.Description != "" {
			b.WriteString(": " + f.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// UnavailableBackend fails every call with err. It stands in when the
// configured provider could not be set up, e.g. no API key, so the assistant
// degrades to its fallbacks instead of the process refusing to start.
type UnavailableBackend struct {
	model string
	err   error
}

// NewUnavailableBackend returns a backend whose calls all fail with err.
func NewUnavailableBackend(model string, err error) *UnavailableBackend {
	return &UnavailableBackend{model: model, err: err}
}

func (b *UnavailableBackend) Model() string { return b.model }

// Err is the setup failure every call reports.
func (b *UnavailableBackend) Err() error { return b.err }

func (b *UnavailableBackend) GenerateJSON(context.Context, JSONRequest) (string, error) {
	return "", b.err
}

func (b *UnavailableBackend) Chat(context.Context, string, []chat.Turn, string) (string, error) {
	return "", b.err
}
