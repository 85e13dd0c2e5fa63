package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/pkg/llm"
	"ai-docflow-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	records []JobRecord
	err     error
}

func (f *fakeFetcher) FetchJobStatus(ctx context.Context, sessionId string) ([]JobRecord, error) {
	return f.records, f.err
}

// fakeInvoker decodes a canned raw response into out, capturing the
// instruction it was given.
type fakeInvoker struct {
	raw         string
	err         error
	instruction string
}

func (f *fakeInvoker) Invoke(ctx context.Context, agentName, instruction string, out interface{}) error {
	f.instruction = instruction
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.raw), out)
}

type fakeSearcher struct {
	vectorindex.Gateway
	matches []vectorindex.Match
	err     error
	query   string
}

func (f *fakeSearcher) Search(ctx context.Context, tenantId, query string, limit int) ([]vectorindex.Match, error) {
	f.query = query
	return f.matches, f.err
}

func TestStatusAgentNoRecords(t *testing.T) {
	a := NewStatusAgent(&fakeFetcher{}, &fakeInvoker{}, logger.NewNopLogger())

	summary, err := a.CheckStatus(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Equal(t, NoSessionFoundMessage, summary.JobStatusSummary)
}

func TestStatusAgentFetcherFailure(t *testing.T) {
	a := NewStatusAgent(&fakeFetcher{err: errors.New("db down")}, &fakeInvoker{}, logger.NewNopLogger())

	_, err := a.CheckStatus(context.Background(), "s1")
	assert.True(t, IsInvocationError(err))
}

func TestStatusAgentInstructionCarriesRecords(t *testing.T) {
	invoker := &fakeInvoker{raw: `{"job_status_summary": "completed 5 minutes ago"}`}
	fetcher := &fakeFetcher{records: []JobRecord{{
		SessionId:  "s1",
		Status:     "completed",
		ChunkCount: 3,
		UpdatedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}}}
	a := NewStatusAgent(fetcher, invoker, logger.NewNopLogger())

	summary, err := a.CheckStatus(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, "completed 5 minutes ago", summary.JobStatusSummary)
	assert.Contains(t, invoker.instruction, "s1")
	assert.Contains(t, invoker.instruction, "status: completed")
	assert.Contains(t, invoker.instruction, "chunk_count: 3")
}

func TestQueryAgentNoMatches(t *testing.T) {
	a := NewQueryAgent(&fakeSearcher{}, &fakeInvoker{}, nil, logger.NewNopLogger())

	answer, err := a.AnswerQuery(context.Background(), "t1", "anything?")
	assert.NoError(t, err)
	assert.Equal(t, NothingRelevantMessage, answer.FinalMessage)
}

func TestQueryAgentGroundsInstructionInMatches(t *testing.T) {
	invoker := &fakeInvoker{raw: `{"final_message": "the fee is 5%"}`}
	searcher := &fakeSearcher{matches: []vectorindex.Match{
		{Text: "The service fee is five percent.", FileName: "terms.pdf"},
	}}
	a := NewQueryAgent(searcher, invoker, nil, logger.NewNopLogger())

	answer, err := a.AnswerQuery(context.Background(), "t1", "what is the fee?")
	assert.NoError(t, err)
	assert.Equal(t, "the fee is 5%", answer.FinalMessage)
	assert.Equal(t, "what is the fee?", searcher.query)
	assert.Contains(t, invoker.instruction, "terms.pdf")
	assert.Contains(t, invoker.instruction, "five percent")
}

func TestQueryAgentSearchFailure(t *testing.T) {
	a := NewQueryAgent(&fakeSearcher{err: errors.New("index down")}, &fakeInvoker{}, nil, logger.NewNopLogger())

	_, err := a.AnswerQuery(context.Background(), "t1", "anything?")
	assert.True(t, IsInvocationError(err))
}

func TestAnalysisAgentRejectsEmptyContent(t *testing.T) {
	a := NewAnalysisAgent(&fakeInvoker{}, logger.NewNopLogger())

	_, err := a.Analyze(context.Background(), "   \n ")
	assert.True(t, IsInvocationError(err))
}

func TestAnalysisAgentDecodesStructuredOutput(t *testing.T) {
	invoker := &fakeInvoker{raw: `{
		"classification": "Privacy Policy",
		"key_entities": ["Acme Corp", "GDPR"],
		"critical_clauses": ["data retention"],
		"cross_doc_relationships": "none",
		"summary": "covers data handling"
	}`}
	a := NewAnalysisAgent(invoker, logger.NewNopLogger())

	analysis, err := a.Analyze(context.Background(), "### policy.txt\n\nsome policy text")
	assert.NoError(t, err)
	assert.Equal(t, "Privacy Policy", analysis.Classification)
	assert.Equal(t, []string{"Acme Corp", "GDPR"}, analysis.KeyEntities)
	assert.Contains(t, invoker.instruction, "policy.txt")
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestLLMInvokerWrapsProviderFailure(t *testing.T) {
	invoker := NewLLMInvoker(&stubLLM{err: errors.New("connection refused")}, logger.NewNopLogger())

	var out QueryAnswer
	err := invoker.Invoke(context.Background(), "query", "do something", &out)
	assert.True(t, IsInvocationError(err))
}

func TestLLMInvokerWrapsUndecodableOutput(t *testing.T) {
	invoker := NewLLMInvoker(&stubLLM{response: "sorry, no JSON here"}, logger.NewNopLogger())

	var out QueryAnswer
	err := invoker.Invoke(context.Background(), "query", "do something", &out)
	assert.True(t, IsInvocationError(err))
	assert.True(t, errors.Is(err, ErrUnrecognizedShape))
}

func TestLLMInvokerDecodesFencedOutput(t *testing.T) {
	invoker := NewLLMInvoker(&stubLLM{response: "```json\n{\"final_message\": \"ok\"}\n```"}, logger.NewNopLogger())

	var out QueryAnswer
	err := invoker.Invoke(context.Background(), "query", "do something", &out)
	assert.NoError(t, err)
	assert.Equal(t, "ok", out.FinalMessage)
}
