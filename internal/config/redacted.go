package config

import "github.com/testplatform/probe/internal/redact"

// Redacted returns a copy of the configuration with every secret replaced by
// a placeholder, suitable for printing or logging.
func (c Config) Redacted() Config {
	out := c
	out.Database.Password = mask(c.Database.Password)
	out.Database.Fallbacks = make([]CredentialConfig, len(c.Database.Fallbacks))
	for i, fb := range c.Database.Fallbacks {
		fb.Password = mask(fb.Password)
		out.Database.Fallbacks[i] = fb
	}
	out.Auth.Password = mask(c.Auth.Password)
	out.Password.Plaintext = mask(c.Password.Plaintext)
	out.Stub.Password = mask(c.Stub.Password)
	out.Stub.JWTSecret = mask(c.Stub.JWTSecret)
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return redact.RedactionPlaceholder
}
