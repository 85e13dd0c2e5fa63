package agent

import (
	"context"
	"strings"

	"ai-docflow-be/internal/pkg/logger"
)

// AnalysisAgent classifies and cross references a merged batch of
// documents as one unit.
type AnalysisAgent struct {
	invoker Invoker
	log     logger.ILogger
}

var _ DocumentAnalyzer = &AnalysisAgent{}

func NewAnalysisAgent(invoker Invoker, log logger.ILogger) *AnalysisAgent {
	return &AnalysisAgent{invoker: invoker, log: log}
}

func (a *AnalysisAgent) Analyze(ctx context.Context, mergedContent string) (*DocumentAnalysis, error) {
	if strings.TrimSpace(mergedContent) == "" {
		return nil, &InvocationError{Agent: "analysis", Err: ErrUnrecognizedShape}
	}

	var analysis DocumentAnalysis
	if err := a.invoker.Invoke(ctx, "analysis", analysisInstruction(mergedContent), &analysis); err != nil {
		return nil, err
	}

	a.log.Info("agent", "document analysis complete", map[string]interface{}{
		"classification": analysis.Classification,
		"entities":       len(analysis.KeyEntities),
	})
	return &analysis, nil
}
