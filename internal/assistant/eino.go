package assistant

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/josephgoksu/neurotech/internal/chat"
)

// EinoBackend drives any Eino chat model. JSON shape is stated in a system message.
type EinoBackend struct {
	chatModel model.BaseChatModel
	modelName string
}

// NewEinoBackend wraps a chat model created by llm.NewChatModel.
func NewEinoBackend(chatModel model.BaseChatModel, modelName string) *EinoBackend {
	return &EinoBackend{chatModel: chatModel, modelName: modelName}
}

func (b *EinoBackend) Model() string { return b.modelName }

func (b *EinoBackend) GenerateJSON(ctx context.Context, req JSONRequest) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(req.Shape.Describe()),
		schema.UserMessage(req.Prompt),
	}
	resp, err := b.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}

func (b *EinoBackend) Chat(ctx context.Context, system string, history []chat.Turn, message string) (string, error) {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(system))
	for _, turn := range history {
		if turn.Role == chat.RoleModel {
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
			continue
		}
		messages = append(messages, schema.UserMessage(turn.Text))
	}
	messages = append(messages, schema.UserMessage(message))

	resp, err := b.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}
