package loader

import (
	"context"
	"os"
)

// TextLoader reads plain text files straight from disk.
type TextLoader struct{}

func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

func (l *TextLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(content) == 0 {
		return nil, nil
	}
	return []Segment{{Text: string(content), Source: "text_file"}}, nil
}
