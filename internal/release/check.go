// Package release checks GitHub for a newer published version.
package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

var ErrDevBuild = errors.New("cannot check a development build")

const defaultAPIBaseURL = "https://api.github.com"

// Checker queries the repository's latest release.
type Checker struct {
	client  *http.Client
	owner   string
	repo    string
	baseURL string
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		c.client.Timeout = d
	}
}

// WithBaseURL overrides the GitHub API base URL, for tests.
func WithBaseURL(url string) Option {
	return func(c *Checker) {
		c.baseURL = url
	}
}

// NewChecker creates a release checker for the project repository.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:  &http.Client{Timeout: 30 * time.Second},
		owner:   "adwate",
		repo:    "lessonloop",
		baseURL: defaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of one check.
type Result struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

// Check compares the running version against the latest published release.
func (c *Checker) Check(ctx context.Context, current string) (*Result, error) {
	if current == "(devel)" {
		return nil, ErrDevBuild
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.baseURL, "/"), c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var body struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if body.TagName == "" {
		return nil, errors.New("release has no tag name")
	}

	return &Result{
		CurrentVersion:  current,
		LatestVersion:   body.TagName,
		UpdateAvailable: semver.Compare(canonical(body.TagName), canonical(current)) > 0,
	}, nil
}

// canonical normalizes a tag to the "vMAJOR.MINOR.PATCH" form semver
// comparison expects.
func canonical(tag string) string {
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	return tag
}
