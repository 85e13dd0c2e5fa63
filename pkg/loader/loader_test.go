package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegistryResolveKnownExtensions(t *testing.T) {
	r := NewRegistry("http://localhost:9998")

	for _, name := range []string{"a.txt", "b.csv", "c.pdf", "d.docx", "e.xlsx", "f.xls"} {
		l, err := r.Resolve(name)
		assert.NoError(t, err, name)
		assert.NotNil(t, l, name)
	}
}

func TestRegistryResolveIsCaseInsensitive(t *testing.T) {
	r := NewRegistry("http://localhost:9998")

	l, err := r.Resolve("REPORT.TXT")
	assert.NoError(t, err)
	assert.NotNil(t, l)
}

func TestRegistryResolveUnsupported(t *testing.T) {
	r := NewRegistry("http://localhost:9998")

	_, err := r.Resolve("image.png")
	assert.True(t, IsUnsupportedFormat(err))

	var ufe *UnsupportedFormatError
	assert.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".png", ufe.Extension)
}

func TestTextLoader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "plain content")

	segments, err := NewTextLoader().Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Len(t, segments, 1)
	assert.Equal(t, "plain content", segments[0].Text)
	assert.Equal(t, "text_file", segments[0].Source)
}

func TestTextLoaderEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "")

	segments, err := NewTextLoader().Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Empty(t, segments)
}

func TestTextLoaderMissingFile(t *testing.T) {
	_, err := NewTextLoader().Load(context.Background(), "/nonexistent/doc.txt")

	var le *LoadError
	assert.True(t, errors.As(err, &le))
}

func TestCSVLoaderRowsBecomeSegments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "name,amount\nwidget,10\ngadget,25\n")

	segments, err := NewCSVLoader().Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Len(t, segments, 2)
	assert.Equal(t, "name: widget\namount: 10\n", segments[0].Text)
	assert.Equal(t, "name: gadget\namount: 25\n", segments[1].Text)
	assert.Equal(t, "csv_file", segments[0].Source)
}

func TestCSVLoaderRaggedRowFallsBackToColumnNames(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ragged.csv", "name\nwidget,extra\n")

	segments, err := NewCSVLoader().Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Len(t, segments, 1)
	assert.Equal(t, "name: widget\ncolumn_2: extra\n", segments[0].Text)
}

type stubLoader struct {
	segments []Segment
	err      error
	calls    int
}

func (s *stubLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	s.calls++
	return s.segments, s.err
}

func TestFallbackLoaderPrimaryWins(t *testing.T) {
	primary := &stubLoader{segments: []Segment{{Text: "ok", Source: "pdf_extractor"}}}
	fallback := &stubLoader{}
	l := NewFallbackLoader(primary, fallback)

	segments, err := l.Load(context.Background(), "x.pdf")
	assert.NoError(t, err)
	assert.Equal(t, "ok", segments[0].Text)
	assert.Equal(t, 0, fallback.calls)
}

func TestFallbackLoaderUsesFallbackOnPrimaryFailure(t *testing.T) {
	primary := &stubLoader{err: errors.New("corrupt")}
	fallback := &stubLoader{segments: []Segment{{Text: "ocr text", Source: "ocr_extractor"}}}
	l := NewFallbackLoader(primary, fallback)

	segments, err := l.Load(context.Background(), "x.pdf")
	assert.NoError(t, err)
	assert.Equal(t, "ocr text", segments[0].Text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestFallbackLoaderBothFail(t *testing.T) {
	primary := &stubLoader{err: errors.New("corrupt")}
	fallback := &stubLoader{err: errors.New("ocr failed")}
	l := NewFallbackLoader(primary, fallback)

	_, err := l.Load(context.Background(), "x.pdf")

	var le *LoadError
	assert.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "x.pdf")
}
