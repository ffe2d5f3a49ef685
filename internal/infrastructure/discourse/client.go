// Package discourse implements the wire-level client to the external discourse engine:
// the embedding/LLM analysis service named as an opaque collaborator. It satisfies
// domain/discourse.Client so application code never depends on this HTTP transport.
package discourse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	domaindiscourse "github.com/agoraforge/agora/internal/domain/discourse"
)

const (
	embedTimeout     = 30 * time.Second
	batchPollTimeout = 10 * time.Second
)

// Config holds the discourse engine HTTP client's connection settings.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client is a plain net/http JSON client for the discourse engine's wire contract.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ domaindiscourse.Client = (*Client)(nil)

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build discourse engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call discourse engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discourse engine returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode discourse engine response: %w", err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("discourse engine unhealthy: status=%q", out.Status)
	}
	return nil
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	req := struct {
		Texts []string `json:"texts"`
	}{Texts: texts}

	var out struct {
		Embeddings1536 [][]float32 `json:"embeddings_1536"`
	}
	if err := c.do(ctx, http.MethodPost, "/embed", req, &out); err != nil {
		return nil, err
	}
	return out.Embeddings1536, nil
}

func (c *Client) Analyze(ctx context.Context, text string, sourceType, sourceID string) (*domaindiscourse.AnalysisGraph, error) {
	req := struct {
		Text       string `json:"text"`
		SourceType string `json:"source_type"`
		SourceID   string `json:"source_id"`
	}{Text: text, SourceType: sourceType, SourceID: sourceID}

	out := &domaindiscourse.AnalysisGraph{}
	if err := c.do(ctx, http.MethodPost, "/analyze", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BatchSubmit(ctx context.Context, texts []string) (*domaindiscourse.BatchJobHandle, error) {
	req := struct {
		Texts []string `json:"texts"`
	}{Texts: texts}

	out := &domaindiscourse.BatchJobHandle{}
	if err := c.do(ctx, http.MethodPost, "/batch/submit", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BatchPoll(ctx context.Context, jobName string) (*domaindiscourse.BatchStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, batchPollTimeout)
	defer cancel()

	out := &domaindiscourse.BatchStatus{}
	path := "/batch/poll?job=" + url.QueryEscape(jobName)
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
