package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/adwate/lessonloop/releases/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name": "` + tag + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck_UpdateAvailable(t *testing.T) {
	srv := newTestServer(t, "v1.2.0")
	c := NewChecker(WithBaseURL(srv.URL))

	res, err := c.Check(context.Background(), "v1.1.0")
	require.NoError(t, err)
	assert.True(t, res.UpdateAvailable)
	assert.Equal(t, "v1.2.0", res.LatestVersion)
}

func TestCheck_AlreadyLatest(t *testing.T) {
	srv := newTestServer(t, "v1.2.0")
	c := NewChecker(WithBaseURL(srv.URL))

	res, err := c.Check(context.Background(), "v1.2.0")
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable)
}

func TestCheck_BareTagNormalized(t *testing.T) {
	srv := newTestServer(t, "1.3.0")
	c := NewChecker(WithBaseURL(srv.URL))

	res, err := c.Check(context.Background(), "v1.2.9")
	require.NoError(t, err)
	assert.True(t, res.UpdateAvailable)
}

func TestCheck_DevBuild(t *testing.T) {
	c := NewChecker()
	_, err := c.Check(context.Background(), "(devel)")
	assert.ErrorIs(t, err, ErrDevBuild)
}

func TestCheck_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	c := NewChecker(WithBaseURL(srv.URL))

	_, err := c.Check(context.Background(), "v1.0.0")
	assert.Error(t, err)
}
