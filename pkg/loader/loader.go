package loader

import (
	"context"
	"path/filepath"
	"strings"
)

// Segment is one unit of raw text produced by a loader, before any
// splitting happens. Source identifies the loader that produced it.
type Segment struct {
	Text   string
	Source string
}

// DocumentLoader loads a file into ordered raw text segments.
type DocumentLoader interface {
	Load(ctx context.Context, path string) ([]Segment, error)
}

// Registry resolves a loader per file extension. Only pdf gets a
// fallback (OCR extraction); every other extension has a single fixed
// loader.
type Registry struct {
	loaders map[string]DocumentLoader
}

func NewRegistry(extractorBaseURL string) *Registry {
	extractor := NewExtractorClient(extractorBaseURL)

	return &Registry{
		loaders: map[string]DocumentLoader{
			".txt": NewTextLoader(),
			".csv": NewCSVLoader(),
			".pdf": NewFallbackLoader(
				NewExtractorLoader(extractor, "pdf_extractor", false),
				NewExtractorLoader(extractor, "ocr_extractor", true),
			),
			".docx": NewExtractorLoader(extractor, "docx_extractor", false),
			".xlsx": NewExtractorLoader(extractor, "excel_extractor", false),
			".xls":  NewExtractorLoader(extractor, "excel_extractor", false),
		},
	}
}

// Resolve returns the loader for the file's extension, or
// ErrUnsupportedFormat.
func (r *Registry) Resolve(path string) (DocumentLoader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.loaders[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Extension: ext}
	}
	return l, nil
}

// FallbackLoader tries the primary loader first and falls back to the
// secondary when it fails. This is the only retry policy in the loading
// layer.
type FallbackLoader struct {
	primary  DocumentLoader
	fallback DocumentLoader
}

func NewFallbackLoader(primary, fallback DocumentLoader) *FallbackLoader {
	return &FallbackLoader{primary: primary, fallback: fallback}
}

func (l *FallbackLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	segments, primaryErr := l.primary.Load(ctx, path)
	if primaryErr == nil {
		return segments, nil
	}
	segments, fallbackErr := l.fallback.Load(ctx, path)
	if fallbackErr == nil {
		return segments, nil
	}
	return nil, &LoadError{Path: path, Err: joinErrs(primaryErr, fallbackErr)}
}
