package probe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testplatform/probe/internal/config"
)

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "localhost:8180", "://bad"} {
		_, err := NewClient(config.APIConfig{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestClientURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:8180", "/api/auth/login", "http://localhost:8180/api/auth/login"},
		{"http://localhost:8180/", "api/test-suites", "http://localhost:8180/api/test-suites"},
		{"http://gateway/platform", "/api/test-suites", "http://gateway/platform/api/test-suites"},
	}
	for _, tt := range tests {
		c, err := NewClient(config.APIConfig{BaseURL: tt.base})
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.URL(tt.path))
	}
}

func TestClientDo(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string
	var gotHeader http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"b": 2, "a": 1}`))
	}))
	t.Cleanup(ts.Close)
	c := newTestClient(t, ts.URL)

	header := http.Header{}
	header.Set("Authorization", "Bearer abc")
	resp, err := c.Do(context.Background(), http.MethodPost, "/echo", map[string]string{"name": "x"}, header)
	require.NoError(t, err, "non-2xx statuses are not transport errors")

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.Equal(t, map[string]string{"name": "x"}, gotBody)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "Bearer abc", gotHeader.Get("Authorization"))
	_, err = uuid.Parse(gotHeader.Get(RequestIDHeader))
	assert.NoError(t, err)

	body, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1}`, body, "key order is preserved")
}

func TestClientDoTransportError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := newTestClient(t, url)
	_, err := c.Do(context.Background(), http.MethodGet, "/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET")
}

func TestResponseDecodeInvalidJSON(t *testing.T) {
	t.Parallel()

	r := &Response{StatusCode: http.StatusOK, Body: []byte("<html>oops</html>")}

	var v map[string]any
	assert.ErrorIs(t, r.Decode(&v), ErrInvalidJSON)
	_, err := r.JSON()
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Equal(t, "<html>oops</html>", r.Text())
}
