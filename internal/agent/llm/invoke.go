package llm

import (
	"context"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	logx "github.com/tripflow/server/pkg/logger"
)

// Classify runs the cheap classifier model.
func (cm *ChatModels) Classify(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	return generate(ctx, cm.Classifier, cm.ClassifierName, cm.ClassifierTimeout, msgs)
}

// Respond runs the generator model.
func (cm *ChatModels) Respond(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	return generate(ctx, cm.Generator, cm.GeneratorName, cm.GeneratorTimeout, msgs)
}

// generate issues one completion call with a per-call timeout and logs token
// usage cost. There is no built-in cancellation in the turn loop, so a hung
// provider call must not block a turn indefinitely.
func generate(ctx context.Context, cm einomodel.BaseChatModel, modelName string, timeout time.Duration, msgs []*schema.Message) (*schema.Message, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	out, err := cm.Generate(ctx, msgs)
	if err != nil {
		logx.Error().Err(err).Str("model", modelName).Dur("elapsed", time.Since(started)).Msg("completion call failed")
		return nil, err
	}

	if CostEnabled() && out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		pricing := ResolvePricing(modelName)
		inC, outC, totalC := ComputeCost(out.ResponseMeta.Usage, pricing)
		logx.Debug().
			Str("model", modelName).
			Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
			Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
			Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
			Float64("input_cost_usd", inC).
			Float64("output_cost_usd", outC).
			Float64("total_cost_usd", totalC).
			Dur("elapsed", time.Since(started)).
			Msg("LLM usage")
	}

	return out, nil
}
