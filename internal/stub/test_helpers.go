package stub

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/testplatform/probe/internal/config"
)

// TestSecret is the signing secret used by TestConfig.
const TestSecret = "stub-test-secret-that-is-long-enough-for-hs256"

// TestConfig returns a StubConfig with the default admin/password account.
func TestConfig() config.StubConfig {
	return config.StubConfig{
		Addr:          "127.0.0.1:0",
		JWTSecret:     TestSecret,
		TokenLifetime: time.Hour,
		Username:      "admin",
		Password:      "password",
		Role:          "ADMIN",
	}
}

// NewTestServer starts the stub behind an httptest server that is closed when
// the test ends.
func NewTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()

	s, err := New(TestConfig(), opts...)
	if err != nil {
		t.Fatalf("failed to create stub server: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}
