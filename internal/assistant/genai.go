package assistant

import (
	"context"

	"github.com/josephgoksu/neurotech/internal/chat"
	"google.golang.org/genai"
)

// GenAIBackend calls Gemini through the native client, using response schemas for JSON calls.
type GenAIBackend struct {
	client *genai.Client
	model  string
}

// NewGenAIBackend wraps an existing Gemini client.
func NewGenAIBackend(client *genai.Client, model string) *GenAIBackend {
	return &GenAIBackend{client: client, model: model}
}

func (b *GenAIBackend) Model() string { return b.model }

func (b *GenAIBackend) GenerateJSON(ctx context.Context, req JSONRequest) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(req.Shape),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (b *GenAIBackend) Chat(ctx context.Context, system string, history []chat.Turn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == chat.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	session, err := b.client.Chats.Create(ctx, b.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}, contents)
	if err != nil {
		return "", err
	}
	resp, err := session.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// responseSchema converts an ArrayShape into a Gemini response schema.
func responseSchema(shape ArrayShape) *genai.Schema {
	item := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(shape.Fields)),
	}
	for _, f := range shape.Fields {
		item.Properties[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
			Enum:        f.Enum,
		}
		if f.Required {
			item.Required = append(item.Required, f.Name)
		}
	}
	return &genai.Schema{Type: genai.TypeArray, Items: item}
}
