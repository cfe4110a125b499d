package nodes

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow/server/internal/agent/graph/prompts"
	"github.com/tripflow/server/internal/agent/model"
)

// Chat handles anything that isn't trip planning or a tool request.
func (n *Nodes) Chat(ctx context.Context, s *model.DialogueState) (model.Route, error) {
	msgs := []*schema.Message{schema.SystemMessage(prompts.ChatSystem())}
	if s.LastUserMessage != "" {
		msgs = append(msgs, schema.UserMessage(s.LastUserMessage))
	} else {
		msgs = append(msgs, schema.UserMessage("Say hello and offer to help plan a trip."))
	}

	out, err := n.completer.Respond(ctx, msgs)
	if err != nil || out == nil {
		return model.RouteEnd, err
	}

	s.AppendAssistant(out.Content)
	return model.RouteEnd, nil
}
