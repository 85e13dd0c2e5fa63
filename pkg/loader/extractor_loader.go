package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ExtractorClient talks to a Tika-compatible text extraction service.
// Binary formats (pdf, docx, xlsx) are delegated there instead of being
// parsed in-process.
type ExtractorClient struct {
	BaseURL string
	Client  *http.Client
}

func NewExtractorClient(baseURL string) *ExtractorClient {
	return &ExtractorClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (c *ExtractorClient) Extract(ctx context.Context, path string, ocr bool) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	url := c.BaseURL + "/tika"
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if ocr {
		req.Header.Set("X-Tika-PDFOcrStrategy", "ocr_only")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extractor request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extractor error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	return string(bodyBytes), nil
}

// ExtractorLoader loads a document through the extraction service. The
// source tag identifies which extraction path produced the text.
type ExtractorLoader struct {
	client *ExtractorClient
	source string
	ocr    bool
}

func NewExtractorLoader(client *ExtractorClient, source string, ocr bool) *ExtractorLoader {
	return &ExtractorLoader{client: client, source: source, ocr: ocr}
}

func (l *ExtractorLoader) Load(ctx context.Context, path string) ([]Segment, error) {
	text, err := l.client.Extract(ctx, path, l.ocr)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []Segment{{Text: text, Source: l.source}}, nil
}
