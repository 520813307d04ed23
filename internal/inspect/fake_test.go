package inspect

import (
	"context"
	"errors"
	"sync"

	"github.com/testplatform/probe/internal/platform/postgres"
)

// fakeSession serves canned rows and existence answers.
type fakeSession struct {
	rows     [][]any
	rowsErr  error
	existing map[string]bool
	closed   bool
}

func (s *fakeSession) Rows(_ context.Context, _ string, fn func([]string, []any) error) error {
	for _, r := range s.rows {
		if err := fn(nil, r); err != nil {
			return err
		}
	}
	return s.rowsErr
}

func (s *fakeSession) Exists(_ context.Context, _ string, args ...any) (bool, error) {
	key := ""
	for n, a := range args {
		if n > 0 {
			key += "."
		}
		key += a.(string)
	}
	return s.existing[key], nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

// fakeDialer hands out one scripted outcome per call and records the credentials used.
type fakeDialer struct {
	mu       sync.Mutex
	outcomes []dialOutcome
	calls    []postgres.Credentials
}

type dialOutcome struct {
	session *fakeSession
	err     error
}

func (d *fakeDialer) dial(_ context.Context, creds postgres.Credentials) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(d.calls)
	d.calls = append(d.calls, creds)
	if n >= len(d.outcomes) {
		return nil, errors.New("unexpected dial")
	}
	out := d.outcomes[n]
	if out.err != nil {
		return nil, out.err
	}
	return out.session, nil
}
