package model

import (
	"encoding/json"

	"github.com/cloudwego/eino/schema"
)

// Persisted message type tags. These match the wire format of the stored
// conversation documents and must not change without a data migration.
const (
	MessageTypeHuman = "human"
	MessageTypeAI    = "ai"
	MessageTypeTool  = "tool"
)

// PersistedMessage is the stored form of a conversation message.
type PersistedMessage struct {
	Type       string `json:"type"`
	Content    string `json:"content"`
	ToolName   string `json:"tool_name,omitempty"`
	ToolArgs   string `json:"tool_args,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// Messages is an append-only, conversationally ordered message sequence.
// It serializes to the persisted {"type","content"} tagging instead of the
// raw eino schema shape.
type Messages []*schema.Message

func (ms Messages) MarshalJSON() ([]byte, error) {
	out := make([]PersistedMessage, 0, len(ms))
	for _, m := range ms {
		if m == nil {
			continue
		}
		out = append(out, encodeMessage(m))
	}
	return json.Marshal(out)
}

func (ms *Messages) UnmarshalJSON(b []byte) error {
	var raw []PersistedMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	decoded := make(Messages, 0, len(raw))
	for _, pm := range raw {
		decoded = append(decoded, decodeMessage(pm))
	}
	*ms = decoded
	return nil
}

func encodeMessage(m *schema.Message) PersistedMessage {
	pm := PersistedMessage{Content: m.Content}
	switch m.Role {
	case schema.Assistant:
		pm.Type = MessageTypeAI
	case schema.Tool:
		pm.Type = MessageTypeTool
		pm.ToolCallID = m.ToolCallID
	default:
		pm.Type = MessageTypeHuman
	}
	if len(m.ToolCalls) > 0 {
		pm.ToolName = m.ToolCalls[0].Function.Name
		pm.ToolArgs = m.ToolCalls[0].Function.Arguments
		pm.ToolCallID = m.ToolCalls[0].ID
	}
	return pm
}

func decodeMessage(pm PersistedMessage) *schema.Message {
	switch pm.Type {
	case MessageTypeAI:
		var calls []schema.ToolCall
		if pm.ToolName != "" {
			calls = []schema.ToolCall{{
				ID:   pm.ToolCallID,
				Type: "function",
				Function: schema.FunctionCall{
					Name:      pm.ToolName,
					Arguments: pm.ToolArgs,
				},
			}}
		}
		return schema.AssistantMessage(pm.Content, calls)
	case MessageTypeTool:
		return schema.ToolMessage(pm.Content, pm.ToolCallID)
	default:
		// Unknown tags degrade to human, mirroring the stored-format fallback.
		return schema.UserMessage(pm.Content)
	}
}
