// Package chat turns the team chat log into the role-tagged transcript sent to the assistant.
package chat

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/neurotech/internal/dashboard"
)

// Role tags who produced a transcript turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry of conversational history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// mentionTag is the trigger that asks the assistant to reply.
const mentionTag = "@ai"

// MentionsAI reports whether text contains "@ai" in any casing.
func MentionsAI(text string) bool {
	return strings.Contains(strings.ToLower(text), mentionTag)
}

// BuildTranscript maps every prior message to a turn, AI messages as model turns and
// everything else as user turns, each rendered "<sender>: <content>". The outgoing
// message is appended last as a user turn. The result is rebuilt from scratch each call.
func BuildTranscript(log []dashboard.Message, sender, text string) []Turn {
	turns := make([]Turn, 0, len(log)+1)
	for _, m := range log {
		role := RoleUser
		if m.IsAI {
			role = RoleModel
		}
		turns = append(turns, Turn{Role: role, Text: label(m.Sender, m.Content)})
	}
	return append(turns, Turn{Role: RoleUser, Text: label(sender, text)})
}

func label(sender, content string) string {
	return fmt.Sprintf("%s: %s", sender, content)
}
