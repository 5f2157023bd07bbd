package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// FetchOptions configures transcript fetching behavior
type FetchOptions struct {
	Timeout   time.Duration
	UserAgent string
	MaxSize   int64 // Maximum transcript size in bytes
}

// DefaultFetchOptions returns default fetch options
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		Timeout:   30 * time.Second,
		UserAgent: "paperreel/1.0",
		MaxSize:   10 * 1024 * 1024, // 10MB max for transcripts
	}
}

// Fetcher handles reading caption files from URLs or local paths
type Fetcher struct {
	client  *http.Client
	options FetchOptions
}

// NewFetcher creates a new transcript fetcher
func NewFetcher(options FetchOptions) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        5,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
	}
}

// TranscriptResult contains the fetched transcript and metadata
type TranscriptResult struct {
	Content     string
	Format      TranscriptFormat
	ContentType string
	Size        int64
}

// Fetch downloads a caption file over HTTP.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*TranscriptResult, error) {
	if url == "" {
		return nil, fmt.Errorf("empty transcript URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.options.UserAgent)
	req.Header.Set("Accept", "text/vtt,application/x-subrip,application/json,*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if err := f.checkSize(resp.ContentLength); err != nil {
		return nil, err
	}

	return f.result(url, resp.Header.Get("Content-Type"), resp.Body)
}

// Load reads a caption file from a local path or an http(s) URL and
// parses it.
func (f *Fetcher) Load(ctx context.Context, source string) (*Transcript, error) {
	var (
		result *TranscriptResult
		err    error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		result, err = f.Fetch(ctx, source)
	} else {
		result, err = f.readFile(source)
	}
	if err != nil {
		return nil, err
	}

	if result.Format == "" {
		return nil, fmt.Errorf("unable to detect transcript format of %s", source)
	}
	return NewParser().Parse(result.Content, result.Format)
}

func (f *Fetcher) readFile(path string) (*TranscriptResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	if err := f.checkSize(info.Size()); err != nil {
		return nil, err
	}
	return f.result(path, "", file)
}

func (f *Fetcher) checkSize(size int64) error {
	if size > f.options.MaxSize {
		return fmt.Errorf("transcript too large: %d bytes (max: %d)", size, f.options.MaxSize)
	}
	return nil
}

// result reads at most MaxSize bytes of r and detects their format.
func (f *Fetcher) result(name, contentType string, r io.Reader) (*TranscriptResult, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.options.MaxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	content := string(body)
	return &TranscriptResult{
		Content:     content,
		Format:      DetectFormat(name, contentType, content),
		ContentType: contentType,
		Size:        int64(len(body)),
	}, nil
}

// DetectFormat determines the transcript format from the name, content type
// and content. It returns "" when nothing matches.
func DetectFormat(name, contentType, content string) TranscriptFormat {
	nameLower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(nameLower, ".vtt"):
		return FormatVTT
	case strings.HasSuffix(nameLower, ".srt"):
		return FormatSRT
	case strings.HasSuffix(nameLower, ".json"):
		return FormatJSON
	}

	contentTypeLower := strings.ToLower(contentType)
	switch {
	case strings.Contains(contentTypeLower, "vtt"):
		return FormatVTT
	case strings.Contains(contentTypeLower, "subrip"), strings.Contains(contentTypeLower, "srt"):
		return FormatSRT
	case strings.Contains(contentTypeLower, "json"):
		return FormatJSON
	}

	// Fall back to format markers near the top.
	trimmed := strings.TrimSpace(content)
	head := trimmed[:min(1000, len(trimmed))]
	switch {
	case strings.HasPrefix(head, "WEBVTT"):
		return FormatVTT
	case strings.Contains(head, "-->"):
		return FormatSRT
	case strings.HasPrefix(head, "{"), strings.HasPrefix(head, "["):
		return FormatJSON
	}
	return ""
}
