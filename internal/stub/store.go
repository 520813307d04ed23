package stub

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds users, suites and target-system configs in memory.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	users   map[string]User
	suites  []TestSuite
	configs []TargetSystemConfig
	now     func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]User),
		now:   time.Now,
	}
}

// AddUser seeds u, replacing any user with the same username.
func (s *Store) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
}

// UserByName returns the user called username.
func (s *Store) UserByName(username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// CreateSuite stores a new suite. Identical requests create distinct suites.
func (s *Store) CreateSuite(req CreateTestSuiteRequest) TestSuite {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	suite := TestSuite{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		TestCases:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.suites = append(s.suites, suite)
	return suite
}

// Suites returns all suites in creation order.
func (s *Store) Suites() []TestSuite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestSuite, len(s.suites))
	copy(out, s.suites)
	return out
}

// Suite returns the suite with the given id.
func (s *Store) Suite(id uuid.UUID) (TestSuite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, suite := range s.suites {
		if suite.ID == id {
			return suite, nil
		}
	}
	return TestSuite{}, ErrSuiteNotFound
}

// AddConfig seeds a target-system config.
func (s *Store) AddConfig(c TargetSystemConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = append(s.configs, c)
}

// Configs returns all target-system configs.
func (s *Store) Configs() []TargetSystemConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TargetSystemConfig, len(s.configs))
	copy(out, s.configs)
	return out
}
