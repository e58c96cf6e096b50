package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adwate/lessonloop/internal/plan"
)

// HTTPClient talks to the lesson service over its JSON API.
type HTTPClient struct {
	base string
	hc   *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTP creates a client for the service at baseURL.
func NewHTTP(baseURL string) *HTTPClient {
	return &HTTPClient{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) url(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return c.base + fmt.Sprintf(format, escaped...)
}

func (c *HTTPClient) do(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, u, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", method, u, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", u, err)
	}
	return nil
}

func (c *HTTPClient) Supertopics(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, c.base+"/api/supertopics", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Topics(ctx context.Context, supertopic string) ([]Topic, error) {
	u := c.base + "/api/topics?supertopic=" + url.QueryEscape(supertopic)
	var out []Topic
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) FetchLessonPlan(ctx context.Context, learner, topicID string) (*plan.LessonPlan, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/lesson/%s/%s", topicID, learner), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch lesson plan: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("lesson plan for %s: %w", topicID, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch lesson plan: status %d", resp.StatusCode)
	}

	// Raw bytes go through plan.Parse so a served plan passes the same
	// schema gate as an imported one.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read lesson plan: %w", err)
	}
	return plan.Parse(raw)
}

func (c *HTTPClient) StartSession(ctx context.Context, learner, topicID string) (string, error) {
	body := map[string]string{"user_id": learner, "topic_id": topicID}
	var sessionID string
	if err := c.do(ctx, http.MethodPost, c.base+"/api/session", body, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (c *HTTPClient) FetchResumeSnapshot(ctx context.Context, learner, topicID string) (*Snapshot, error) {
	var out Snapshot
	if err := c.do(ctx, http.MethodGet, c.url("/api/resume/%s/%s", learner, topicID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	return c.do(ctx, http.MethodPost, c.base+"/api/answer", rec, nil)
}

func (c *HTTPClient) SaveSnapshot(ctx context.Context, learner, topicID string, snap Snapshot) error {
	body := struct {
		UserID  string `json:"user_id"`
		TopicID string `json:"topic_id"`
		Snapshot
	}{UserID: learner, TopicID: topicID, Snapshot: snap}
	return c.do(ctx, http.MethodPost, c.base+"/api/session/snapshot", body, nil)
}

func (c *HTTPClient) FinishSession(ctx context.Context, learner, topicID, sessionID string) error {
	body := map[string]string{"user_id": learner, "topic_id": topicID, "session_id": sessionID}
	return c.do(ctx, http.MethodPost, c.base+"/api/session/finish", body, nil)
}

func (c *HTTPClient) LockStatus(ctx context.Context, learner string) (bool, error) {
	var out struct {
		Locked bool `json:"locked"`
	}
	if err := c.do(ctx, http.MethodGet, c.url("/api/lock-status/%s", learner), nil, &out); err != nil {
		return false, err
	}
	return out.Locked, nil
}

func (c *HTTPClient) UnfinishedSessions(ctx context.Context, learner string) ([]Unfinished, error) {
	var out struct {
		Unfinished []Unfinished `json:"unfinished"`
	}
	if err := c.do(ctx, http.MethodGet, c.url("/api/resume-status/%s", learner), nil, &out); err != nil {
		return nil, err
	}
	return out.Unfinished, nil
}

func (c *HTTPClient) TerminateSession(ctx context.Context, learner, topicID string) error {
	return c.do(ctx, http.MethodDelete, c.url("/api/resume/%s/%s", learner, topicID), nil, nil)
}

func (c *HTTPClient) Dashboard(ctx context.Context, learner string) ([]SessionSummary, error) {
	var out struct {
		Sessions []SessionSummary `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, c.url("/api/dashboard/%s", learner), nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}
