package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/testplatform/probe/internal/config"
	"github.com/testplatform/probe/internal/platform/logger"
	"github.com/testplatform/probe/internal/token"
)

// MissingTokenPlaceholder is sent as the bearer credential when
// AllowMissingToken is set and the login body has no token.
const MissingTokenPlaceholder = "None"

// LoginRequest is the login endpoint payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult holds every exchange of one auth-flow run. Protected is nil
// when the login was rejected.
type AuthResult struct {
	Login     *Response
	Token     string
	Claims    *token.Claims
	Protected *Response
}

// LoggedIn reports whether the login request returned 200.
func (r *AuthResult) LoggedIn() bool {
	return r.Login != nil && r.Login.StatusCode == http.StatusOK
}

// AuthFlow logs in and then calls a protected endpoint with the issued token.
type AuthFlow struct {
	client *Client
	cfg    config.AuthConfig
}

// NewAuthFlow creates an AuthFlow.
func NewAuthFlow(client *Client, cfg config.AuthConfig) *AuthFlow {
	return &AuthFlow{client: client, cfg: cfg}
}

// Run performs the login and, only if it returned 200, the protected request.
// A rejected login is reported in the output and the result, not as an error.
func (f *AuthFlow) Run(ctx context.Context, w io.Writer) (*AuthResult, error) {
	log := logger.FromContext(ctx).With("probe", "auth")

	fmt.Fprintln(w, "Testing login...")
	login, err := f.client.Do(ctx, http.MethodPost, f.cfg.LoginPath,
		LoginRequest{Username: f.cfg.Username, Password: f.cfg.Password}, nil)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	result := &AuthResult{Login: login}

	fmt.Fprintf(w, "Status Code: %d\n", login.StatusCode)
	fmt.Fprintf(w, "Response: %s\n", login.Text())

	if !result.LoggedIn() {
		fmt.Fprintln(w, "Login failed!")
		log.Info("login rejected", "status_code", login.StatusCode, "username", f.cfg.Username)
		return result, nil
	}

	tok, placeholder, err := f.extractToken(login)
	if err != nil {
		return result, err
	}
	if placeholder {
		log.Warn("login response has no token, sending placeholder",
			"token_field", f.cfg.TokenField,
			"placeholder", MissingTokenPlaceholder)
	}
	result.Token = tok
	fmt.Fprintf(w, "Token: %s\n", tok)

	if claims, err := token.Inspect(tok); err == nil {
		result.Claims = claims
		fmt.Fprintf(w, "Token subject: %s\n", claims.Subject)
		if !claims.ExpiresAt.IsZero() {
			fmt.Fprintf(w, "Token expires: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
		}
	} else {
		log.Debug("token is not a JWT, skipping claim display")
	}

	fmt.Fprintln(w, "\nTesting access to protected resource...")
	header := http.Header{}
	header.Set("Authorization", "Bearer "+tok)
	protected, err := f.client.Do(ctx, http.MethodGet, f.cfg.ProtectedPath, nil, header)
	if err != nil {
		return result, fmt.Errorf("protected request failed: %w", err)
	}
	result.Protected = protected

	fmt.Fprintf(w, "Protected Resource Status Code: %d\n", protected.StatusCode)
	fmt.Fprintf(w, "Protected Resource Response: %s\n", protected.Text())

	return result, nil
}

// extractToken returns the token field of the login body. Only a non-empty
// string is accepted unless AllowMissingToken is set; then an absent or null
// field yields MissingTokenPlaceholder and any other value its text form.
func (f *AuthFlow) extractToken(login *Response) (tok string, placeholder bool, err error) {
	var body map[string]any
	if err := login.Decode(&body); err != nil {
		return "", false, err
	}

	raw, present := body[f.cfg.TokenField]
	if f.cfg.AllowMissingToken {
		if !present || raw == nil {
			return MissingTokenPlaceholder, true, nil
		}
		if s, ok := raw.(string); ok {
			return s, false, nil
		}
		return fmt.Sprint(raw), false, nil
	}

	tok, ok := raw.(string)
	if !ok || tok == "" {
		return "", false, fmt.Errorf("%w: field %q", ErrMissingToken, f.cfg.TokenField)
	}
	return tok, false, nil
}
