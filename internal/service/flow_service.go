package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ai-docflow-be/internal/dto"
	"ai-docflow-be/internal/entity"
	"ai-docflow-be/internal/flow"
	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/internal/repository/contract"
	"ai-docflow-be/internal/repository/unitofwork"
	"ai-docflow-be/pkg/agent"
	"ai-docflow-be/pkg/ingestion"
	"ai-docflow-be/pkg/vectorindex"
)

const chunkSource = "document_upload"

type IFlowService interface {
	Execute(ctx context.Context, req *dto.TaskRequest) (*dto.TaskResponse, error)
}

// flowService runs one validated task end to end. The flow state is
// owned by the active handler for the duration of the run; nothing else
// writes to it.
type flowService struct {
	router        *flow.Router
	uowFactory    unitofwork.RepositoryFactory
	pipeline      *ingestion.Pipeline
	index         vectorindex.Gateway
	statusAgent   agent.StatusChecker
	queryAgent    agent.QueryAnswerer
	analysisAgent agent.DocumentAnalyzer
	publisher     IPublisherService
	log           logger.ILogger
	docsDir       string
}

func NewFlowService(
	router *flow.Router,
	uowFactory unitofwork.RepositoryFactory,
	pipeline *ingestion.Pipeline,
	index vectorindex.Gateway,
	statusAgent agent.StatusChecker,
	queryAgent agent.QueryAnswerer,
	analysisAgent agent.DocumentAnalyzer,
	publisher IPublisherService,
	log logger.ILogger,
	docsDir string,
) IFlowService {
	return &flowService{
		router:        router,
		uowFactory:    uowFactory,
		pipeline:      pipeline,
		index:         index,
		statusAgent:   statusAgent,
		queryAgent:    queryAgent,
		analysisAgent: analysisAgent,
		publisher:     publisher,
		log:           log,
		docsDir:       docsDir,
	}
}

func (s *flowService) Execute(ctx context.Context, req *dto.TaskRequest) (*dto.TaskResponse, error) {
	task, state, err := s.router.Route(flow.State{
		UserId:      req.UserId,
		TenantId:    req.TenantId,
		SessionId:   req.SessionId,
		TaskType:    req.TaskType,
		UserQuery:   req.UserQuery,
		TaskPayload: req.TaskPayload,
		UserInfo:    req.UserInfo,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("flow", "task routed", map[string]interface{}{
		"run_id":     state.RunId,
		"session_id": state.SessionId,
		"task_type":  task,
	})

	switch task {
	case flow.TaskInject:
		state, err = s.handleInject(ctx, state)
	case flow.TaskAnalyze:
		state, err = s.handleAnalyze(ctx, state)
	case flow.TaskQuery:
		state, err = s.handleQuery(ctx, state)
	case flow.TaskStatus:
		state, err = s.handleStatus(ctx, state)
	}
	if err != nil {
		return nil, err
	}

	return &dto.TaskResponse{
		SessionId:        state.SessionId,
		TaskType:         state.TaskType,
		ChunkCount:       state.ChunkCount,
		StatusSummary:    state.StatusSummary,
		QueryAnswer:      state.QueryAnswer,
		DocumentAnalysis: state.DocumentAnalysis,
	}, nil
}

// handleInject ingests every discoverable file into the tenant's index.
// Any failure after the durability checkpoint marks the session failed
// before the error propagates.
func (s *flowService) handleInject(ctx context.Context, state flow.State) (flow.State, error) {
	if err := s.index.EnsureSchema(ctx, state.TenantId); err != nil {
		return state, s.failSession(ctx, state, err)
	}

	paths, err := s.discoverFiles()
	if err != nil {
		return state, s.failSession(ctx, state, err)
	}
	if len(paths) == 0 {
		s.log.Info("flow", "no input files discovered, nothing to ingest", map[string]interface{}{
			"session_id": state.SessionId,
			"dir":        s.docsDir,
		})
		zero := 0
		state.ChunkCount = &zero
		return state, nil
	}

	// Durability checkpoint: the session exists before any heavy work so
	// status checks are meaningful mid-run.
	filePath := strings.Join(fileNames(paths), ";")
	status := entity.SessionStatusInProgress
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.DocumentSessionRepository().Upsert(ctx, &contract.SessionPatch{
		SessionId: state.SessionId,
		TenantId:  state.TenantId,
		UserId:    state.UserId,
		FilePath:  &filePath,
		Status:    &status,
	}); err != nil {
		return state, s.failSession(ctx, state, err)
	}
	s.publishLifecycle(ctx, state, entity.SessionStatusInProgress, 0, "")

	chunks, err := s.pipeline.ProcessBatch(ctx, paths, ingestion.Meta{
		TenantId:  state.TenantId,
		SessionId: state.SessionId,
	}, ingestion.FailAbort)
	if err != nil {
		return state, s.failSession(ctx, state, err)
	}
	if len(chunks) == 0 {
		s.log.Info("flow", "no chunks produced across batch", map[string]interface{}{
			"session_id": state.SessionId,
			"files":      len(paths),
		})
		zero := 0
		state.ChunkCount = &zero
		return state, nil
	}

	if _, err := s.index.RegisterTenant(ctx, state.TenantId); err != nil {
		return state, s.failSession(ctx, state, err)
	}

	result, err := s.index.UpsertBatch(ctx, state.TenantId, toIndexChunks(chunks))
	if err != nil {
		return state, s.failSession(ctx, state, err)
	}

	count := result.Succeeded
	completed := entity.SessionStatusCompleted
	if _, err := uow.DocumentSessionRepository().Upsert(ctx, &contract.SessionPatch{
		SessionId:  state.SessionId,
		TenantId:   state.TenantId,
		UserId:     state.UserId,
		Status:     &completed,
		ChunkCount: &count,
	}); err != nil {
		return state, s.failSession(ctx, state, err)
	}
	s.publishLifecycle(ctx, state, entity.SessionStatusCompleted, count, "")

	s.log.Info("flow", "ingestion completed", map[string]interface{}{
		"session_id":  state.SessionId,
		"tenant_id":   state.TenantId,
		"chunk_count": count,
	})
	state.ChunkCount = &count
	return state, nil
}

func (s *flowService) handleStatus(ctx context.Context, state flow.State) (flow.State, error) {
	summary, err := s.statusAgent.CheckStatus(ctx, state.SessionId)
	if err != nil {
		s.log.Error("flow", "status check failed", map[string]interface{}{
			"session_id": state.SessionId,
			"error":      err.Error(),
		})
		return state, err
	}
	state.StatusSummary = summary
	return state, nil
}

func (s *flowService) handleQuery(ctx context.Context, state flow.State) (flow.State, error) {
	answer, err := s.queryAgent.AnswerQuery(ctx, state.TenantId, state.UserQuery)
	if err != nil {
		s.log.Error("flow", "query answering failed", map[string]interface{}{
			"session_id": state.SessionId,
			"tenant_id":  state.TenantId,
			"error":      err.Error(),
		})
		return state, err
	}
	state.QueryAnswer = answer
	return state, nil
}

// handleAnalyze tolerates unreadable files but treats a failure of the
// delegated analysis call itself as fatal.
func (s *flowService) handleAnalyze(ctx context.Context, state flow.State) (flow.State, error) {
	paths, err := s.discoverFiles()
	if err != nil {
		return state, err
	}

	files, err := s.pipeline.LoadBatch(ctx, paths, ingestion.FailSkipAndWarn)
	if err != nil {
		return state, err
	}
	if len(files) == 0 {
		s.log.Error("flow", "no readable documents for analysis", map[string]interface{}{
			"session_id": state.SessionId,
			"dir":        s.docsDir,
		})
		state.DocumentAnalysis = &agent.DocumentAnalysis{}
		return state, nil
	}

	blocks := make([]string, 0, len(files))
	for _, f := range files {
		blocks = append(blocks, "### "+f.FileName+"\n\n"+f.Text)
	}

	analysis, err := s.analysisAgent.Analyze(ctx, strings.Join(blocks, "\n\n"))
	if err != nil {
		s.log.Error("flow", "document analysis failed", map[string]interface{}{
			"session_id": state.SessionId,
			"error":      err.Error(),
		})
		return state, err
	}
	state.DocumentAnalysis = analysis
	return state, nil
}

// failSession marks the session failed with the error message, publishes
// the transition and hands the original error back for propagation. The
// secondary write is best effort.
func (s *flowService) failSession(ctx context.Context, state flow.State, cause error) error {
	s.log.Error("flow", "inject handler failed", map[string]interface{}{
		"session_id": state.SessionId,
		"tenant_id":  state.TenantId,
		"error":      cause.Error(),
	})

	failed := entity.SessionStatusFailed
	errMsg := cause.Error()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.DocumentSessionRepository().Upsert(ctx, &contract.SessionPatch{
		SessionId:    state.SessionId,
		TenantId:     state.TenantId,
		UserId:       state.UserId,
		Status:       &failed,
		ErrorMessage: &errMsg,
	}); err != nil {
		s.log.Warn("flow", "could not mark session failed", map[string]interface{}{
			"session_id": state.SessionId,
			"error":      err.Error(),
		})
	}
	s.publishLifecycle(ctx, state, entity.SessionStatusFailed, 0, errMsg)
	return cause
}

func (s *flowService) publishLifecycle(ctx context.Context, state flow.State, status string, chunkCount int, errMsg string) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.SessionLifecycleMessage{
		SessionId:    state.SessionId,
		TenantId:     state.TenantId,
		UserId:       state.UserId,
		Status:       status,
		ChunkCount:   chunkCount,
		ErrorMessage: errMsg,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.log.Warn("flow", "failed to publish lifecycle message", map[string]interface{}{
			"session_id": state.SessionId,
			"error":      err.Error(),
		})
	}
}

// discoverFiles lists regular files in the ingest directory, creating it
// when missing. Results are sorted for deterministic chunk ordering.
func (s *flowService) discoverFiles() ([]string, error) {
	if err := os.MkdirAll(s.docsDir, 0o755); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(s.docsDir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func fileNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func toIndexChunks(chunks []ingestion.Chunk) []vectorindex.Chunk {
	out := make([]vectorindex.Chunk, len(chunks))
	for i, c := range chunks {
		source := c.Source
		if source == "" {
			source = chunkSource
		}
		out[i] = vectorindex.Chunk{
			TenantId:  c.TenantId,
			SessionId: c.SessionId,
			ChunkId:   c.ChunkId,
			Text:      c.Text,
			CharCount: c.CharCount,
			FileName:  c.FileName,
			FileType:  c.FileType,
			Source:    source,
			CreatedAt: c.CreatedAt,
		}
	}
	return out
}
