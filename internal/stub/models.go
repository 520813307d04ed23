package stub

import (
	"time"

	"github.com/google/uuid"
)

// User is a seeded account the login endpoint authenticates against.
type User struct {
	Username     string
	PasswordHash string
	Role         string
	FullName     string
}

// TestSuite is a stored test suite.
type TestSuite struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	TestCases   []string  `json:"testCases"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TargetSystemConfig describes a system under test.
type TargetSystemConfig struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	APIURL      string    `json:"apiUrl"`
	UIURL       string    `json:"uiUrl,omitempty"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LoginRequest is the login endpoint body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	FullName     string `json:"fullName,omitempty"`
}

// CreateTestSuiteRequest is the body accepted when creating a suite.
type CreateTestSuiteRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type"        validate:"required,oneof=API UI BUSINESS"`
}
