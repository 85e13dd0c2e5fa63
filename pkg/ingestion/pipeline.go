package ingestion

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/pkg/loader"
	"ai-docflow-be/pkg/splitter"
)

// Chunk is one tagged text window ready for indexing. ChunkId is
// assigned by the consumer (1-based, global across the whole batch) so
// ordering stays deterministic across files.
type Chunk struct {
	Text      string
	CharCount int
	ChunkId   int
	FileName  string
	FileType  string
	TenantId  string
	SessionId string
	Source    string
	CreatedAt time.Time
}

// Meta is the tenancy context stamped onto every chunk.
type Meta struct {
	TenantId  string
	SessionId string
}

// FailurePolicy controls what a batch routine does when one file fails.
type FailurePolicy int

const (
	// FailAbort stops the batch on the first failed file.
	FailAbort FailurePolicy = iota
	// FailSkipAndWarn logs a warning and continues with the rest.
	FailSkipAndWarn
)

// Pipeline turns source files into tagged, sized chunks.
type Pipeline struct {
	registry *loader.Registry
	splitter *splitter.RecursiveSplitter
	log      logger.ILogger
}

func NewPipeline(registry *loader.Registry, split *splitter.RecursiveSplitter, log logger.ILogger) *Pipeline {
	if split == nil {
		split = splitter.NewRecursiveSplitter(splitter.DefaultChunkSize, splitter.DefaultChunkOverlap)
	}
	return &Pipeline{
		registry: registry,
		splitter: split,
		log:      log,
	}
}

// Process loads one file and returns a lazy, single-use sequence of
// tagged chunks. Fails with UnsupportedFormatError, LoadError or
// ErrEmptyDocument.
func (p *Pipeline) Process(ctx context.Context, filePath string, meta Meta) (*ChunkSequence, error) {
	docLoader, err := p.registry.Resolve(filePath)
	if err != nil {
		return nil, err
	}

	segments, err := docLoader.Load(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrEmptyDocument
	}

	p.log.Debug("ingestion", "document loaded", map[string]interface{}{
		"file":     filePath,
		"segments": len(segments),
	})

	return &ChunkSequence{
		splitter: p.splitter,
		segments: segments,
		fileName: filepath.Base(filePath),
		fileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
		meta:     meta,
	}, nil
}

// ProcessBatch runs Process over each path sequentially and collects the
// chunks, assigning 1-based chunk ids across the whole batch. The
// failure policy decides whether one bad file aborts everything or is
// skipped with a warning.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, meta Meta, policy FailurePolicy) ([]Chunk, error) {
	var all []Chunk
	for _, path := range paths {
		seq, err := p.Process(ctx, path, meta)
		if err != nil {
			if policy == FailSkipAndWarn {
				p.log.Warn("ingestion", "skipping file after failure", map[string]interface{}{
					"file":  path,
					"error": err.Error(),
				})
				continue
			}
			return nil, err
		}

		for {
			chunk, ok, err := seq.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			chunk.ChunkId = len(all) + 1
			all = append(all, chunk)
		}
	}
	return all, nil
}

// FileText is one file's full content, windows discarded. Used by the
// analysis path which wants whole documents, not index-sized chunks.
type FileText struct {
	FileName string
	Text     string
}

// LoadBatch loads each file's raw text without splitting. Policy
// semantics match ProcessBatch.
func (p *Pipeline) LoadBatch(ctx context.Context, paths []string, policy FailurePolicy) ([]FileText, error) {
	var out []FileText
	for _, path := range paths {
		docLoader, err := p.registry.Resolve(path)
		var segments []loader.Segment
		if err == nil {
			segments, err = docLoader.Load(ctx, path)
			if err == nil && len(segments) == 0 {
				err = ErrEmptyDocument
			}
		}
		if err != nil {
			if policy == FailSkipAndWarn {
				p.log.Warn("ingestion", "skipping file after failure", map[string]interface{}{
					"file":  path,
					"error": err.Error(),
				})
				continue
			}
			return nil, err
		}

		var sb strings.Builder
		for _, seg := range segments {
			sb.WriteString(strings.TrimSpace(seg.Text))
			sb.WriteString("\n")
		}
		out = append(out, FileText{
			FileName: filepath.Base(path),
			Text:     strings.TrimSpace(sb.String()),
		})
	}
	return out, nil
}

// ChunkSequence is a lazy, finite, non-restartable chunk stream. Chunks
// come out fully tagged; a sequence can only be consumed once.
type ChunkSequence struct {
	splitter *splitter.RecursiveSplitter
	segments []loader.Segment
	fileName string
	fileType string
	meta     Meta

	segIdx  int
	pending []string
	source  string
	done    bool
}

// Next returns the next chunk, or ok=false once the sequence is
// exhausted. Calling Next after exhaustion is an error.
func (s *ChunkSequence) Next() (Chunk, bool, error) {
	if s.done {
		return Chunk{}, false, ErrSequenceConsumed
	}

	for len(s.pending) == 0 {
		if s.segIdx >= len(s.segments) {
			s.done = true
			return Chunk{}, false, nil
		}
		seg := s.segments[s.segIdx]
		s.segIdx++
		s.pending = s.splitter.Split(seg.Text)
		s.source = seg.Source
	}

	text := s.pending[0]
	s.pending = s.pending[1:]

	return Chunk{
		Text:      text,
		CharCount: len(text),
		FileName:  s.fileName,
		FileType:  s.fileType,
		TenantId:  s.meta.TenantId,
		SessionId: s.meta.SessionId,
		Source:    s.source,
		CreatedAt: time.Now().UTC(),
	}, true, nil
}
