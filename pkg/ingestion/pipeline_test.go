package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/pkg/loader"
	"ai-docflow-be/pkg/splitter"

	"github.com/stretchr/testify/assert"
)

func newTestPipeline() *Pipeline {
	registry := loader.NewRegistry("http://localhost:9998")
	split := splitter.NewRecursiveSplitter(splitter.DefaultChunkSize, splitter.DefaultChunkOverlap)
	return NewPipeline(registry, split, logger.NewNopLogger())
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessTagsChunks(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "contract.txt", "some contract text")
	p := newTestPipeline()

	seq, err := p.Process(context.Background(), path, Meta{TenantId: "t1", SessionId: "s1"})
	assert.NoError(t, err)

	chunk, ok, err := seq.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "some contract text", chunk.Text)
	assert.Equal(t, len(chunk.Text), chunk.CharCount)
	assert.Equal(t, "contract.txt", chunk.FileName)
	assert.Equal(t, "txt", chunk.FileType)
	assert.Equal(t, "t1", chunk.TenantId)
	assert.Equal(t, "s1", chunk.SessionId)
	assert.False(t, chunk.CreatedAt.IsZero())

	_, ok, err = seq.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "empty.txt", "")
	p := newTestPipeline()

	_, err := p.Process(context.Background(), path, Meta{TenantId: "t1", SessionId: "s1"})
	assert.True(t, errors.Is(err, ErrEmptyDocument))
}

func TestProcessUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "image.png", "not really an image")
	p := newTestPipeline()

	_, err := p.Process(context.Background(), path, Meta{TenantId: "t1", SessionId: "s1"})
	assert.True(t, loader.IsUnsupportedFormat(err))
}

func TestSequenceIsSingleUse(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.txt", "short")
	p := newTestPipeline()

	seq, err := p.Process(context.Background(), path, Meta{TenantId: "t1", SessionId: "s1"})
	assert.NoError(t, err)

	for {
		_, ok, err := seq.Next()
		assert.NoError(t, err)
		if !ok {
			break
		}
	}

	_, _, err = seq.Next()
	assert.True(t, errors.Is(err, ErrSequenceConsumed))
}

func TestProcessBatchAssignsGlobalChunkIds(t *testing.T) {
	dir := t.TempDir()
	// 2500 chars of line-broken text splits into 3 chunks.
	line := strings.Repeat("a", 99) + "\n"
	writeDoc(t, dir, "big.txt", strings.Repeat(line, 25))
	writeDoc(t, dir, "small.txt", "tiny document")
	p := newTestPipeline()

	paths := []string{filepath.Join(dir, "big.txt"), filepath.Join(dir, "small.txt")}
	chunks, err := p.ProcessBatch(context.Background(), paths, Meta{TenantId: "t1", SessionId: "s1"}, FailAbort)
	assert.NoError(t, err)
	assert.Len(t, chunks, 4)

	for i, c := range chunks {
		assert.Equal(t, i+1, c.ChunkId)
	}
	assert.Equal(t, "big.txt", chunks[0].FileName)
	assert.Equal(t, "small.txt", chunks[3].FileName)
}

func TestProcessBatchAbortPolicy(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.txt", "fine")
	writeDoc(t, dir, "bad.png", "unsupported")
	p := newTestPipeline()

	paths := []string{filepath.Join(dir, "good.txt"), filepath.Join(dir, "bad.png")}
	_, err := p.ProcessBatch(context.Background(), paths, Meta{TenantId: "t1", SessionId: "s1"}, FailAbort)
	assert.Error(t, err)
}

func TestProcessBatchSkipAndWarnPolicy(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.txt", "fine")
	writeDoc(t, dir, "bad.png", "unsupported")
	p := newTestPipeline()

	paths := []string{filepath.Join(dir, "bad.png"), filepath.Join(dir, "good.txt")}
	chunks, err := p.ProcessBatch(context.Background(), paths, Meta{TenantId: "t1", SessionId: "s1"}, FailSkipAndWarn)
	assert.NoError(t, err)
	assert.Len(t, chunks, 1)
	assert.Equal(t, "good.txt", chunks[0].FileName)
}

func TestLoadBatchMergesSegments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "rows.csv", "name,amount\nwidget,10\ngadget,25\n")
	p := newTestPipeline()

	files, err := p.LoadBatch(context.Background(), []string{filepath.Join(dir, "rows.csv")}, FailAbort)
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "rows.csv", files[0].FileName)
	assert.Contains(t, files[0].Text, "name: widget")
	assert.Contains(t, files[0].Text, "name: gadget")
}

func TestLoadBatchSkipsFailedFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "one.txt", "readable")
	writeDoc(t, dir, "two.bin", "opaque")
	writeDoc(t, dir, "three.txt", "") // empty counts as a failed load
	p := newTestPipeline()

	paths := []string{
		filepath.Join(dir, "one.txt"),
		filepath.Join(dir, "two.bin"),
		filepath.Join(dir, "three.txt"),
	}
	files, err := p.LoadBatch(context.Background(), paths, FailSkipAndWarn)
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "one.txt", files[0].FileName)
}
