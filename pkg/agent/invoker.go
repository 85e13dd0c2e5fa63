package agent

import (
	"context"

	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/pkg/llm"
)

// Invoker runs one instruction against a model and decodes the response
// into out. Implementations wrap every failure in an InvocationError so
// callers can treat any delegated call uniformly.
type Invoker interface {
	Invoke(ctx context.Context, agentName, instruction string, out interface{}) error
}

// LLMInvoker delegates instructions to an injected llm.LLMProvider.
type LLMInvoker struct {
	provider llm.LLMProvider
	log      logger.ILogger
	opts     []llm.Option
}

func NewLLMInvoker(provider llm.LLMProvider, log logger.ILogger, opts ...llm.Option) *LLMInvoker {
	if len(opts) == 0 {
		opts = []llm.Option{llm.WithTemperature(0.1)}
	}
	return &LLMInvoker{provider: provider, log: log, opts: opts}
}

func (i *LLMInvoker) Invoke(ctx context.Context, agentName, instruction string, out interface{}) error {
	raw, err := i.provider.Generate(ctx, instruction, i.opts...)
	if err != nil {
		return &InvocationError{Agent: agentName, Err: err}
	}

	if err := Decode(raw, out); err != nil {
		i.log.Warn("agent", "undecodable model output", map[string]interface{}{
			"agent": agentName,
			"error": err.Error(),
		})
		return &InvocationError{Agent: agentName, Err: err}
	}
	return nil
}
