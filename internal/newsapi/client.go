// Package newsapi is the HTTP client for the news assistant backend. All
// endpoints are JSON request/response pairs under a single base path.
package newsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajoubert/newsdesk/internal/article"
	"github.com/ajoubert/newsdesk/internal/category"
)

// Payload failures are reported distinctly from transport failures so the
// caller can surface them as different conditions.
var (
	ErrEmptyPayload = errors.New("empty response payload")
	ErrNotAList     = errors.New("response payload is not an article list")
)

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.Code)
}

// UpstreamError is an application-level error the chat endpoint reports in
// an otherwise successful response body.
type UpstreamError struct {
	Name    string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("assistant error: %s", e.Message)
	}
	return fmt.Sprintf("assistant error: %s", e.Name)
}

type Client struct {
	base string
	http *http.Client
}

func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Classify asks the backend to map a free-text query onto a category
// label. One attempt, no retries; callers treat any failure as non-fatal
// and fall back to the raw query text.
func (c *Client) Classify(ctx context.Context, query string) (category.Category, error) {
	body, _ := json.Marshal(map[string]string{"query": query})

	resp, err := c.post(ctx, "/classify", body)
	if err != nil {
		return category.Other, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return category.Other, &StatusError{Endpoint: "/classify", Code: resp.StatusCode}
	}

	var out struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return category.Other, fmt.Errorf("decoding classification: %w", err)
	}

	cat, err := category.Parse(out.Category)
	if err != nil {
		// Unknown label from a newer backend: not confident, not fatal.
		return category.Other, nil
	}
	return cat, nil
}

// FetchNews requests the article list, optionally filtered by topic. A
// fresh nonce goes on every request so repeated identical queries are never
// served stale. The error taxonomy is deliberate: transport/HTTP failures,
// an empty payload, and a non-array payload are distinct conditions; an
// empty array is a valid no-results outcome, not an error.
func (c *Client) FetchNews(ctx context.Context, topic string) ([]article.Article, error) {
	params := url.Values{}
	if topic != "" {
		params.Set("topic", topic)
	}
	params.Set("logged", "1")
	params.Set("nonce", uuid.NewString())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/news?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: "/news", Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading news payload: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyPayload
	}
	if trimmed[0] != '[' {
		return nil, ErrNotAList
	}

	var articles []article.Article
	if err := json.Unmarshal(trimmed, &articles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAList, err)
	}
	return articles, nil
}

// chatArticle is the article context sent alongside each chat message.
type chatArticle struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// Chat sends one message about one article and returns the assistant's
// reply. Exactly one reply (or one error) per call.
func (c *Client) Chat(ctx context.Context, message string, a article.Article) (string, error) {
	body, _ := json.Marshal(struct {
		Message string      `json:"message"`
		Article chatArticle `json:"article"`
	}{
		Message: message,
		Article: chatArticle{
			Title:   a.Title,
			Summary: a.DisplaySummary(),
			URL:     a.DisplayLink(),
		},
	})

	resp, err := c.post(ctx, "/chat", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Endpoint: "/chat", Code: resp.StatusCode}
	}

	var out struct {
		Reply   string `json:"reply"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding chat reply: %w", err)
	}
	if out.Err != "" {
		return "", &UpstreamError{Name: out.Err, Message: out.Message}
	}
	if out.Reply == "" {
		return "", errors.New("chat response carried no reply")
	}
	return out.Reply, nil
}

// BotToken fetches the token the retired embedded-widget front end used.
// Kept for backend compatibility; doctor uses it as a liveness probe.
func (c *Client) BotToken(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.getJSON(ctx, "/bot-token", &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("bot-token response carried no token")
	}
	return out.Token, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/health", &out)
}

// Sources lists the news sources the backend aggregates.
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	var out struct {
		Sources []string `json:"sources"`
	}
	if err := c.getJSON(ctx, "/sources", &out); err != nil {
		return nil, err
	}
	return out.Sources, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}
