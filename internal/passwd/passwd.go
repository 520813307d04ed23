// Package passwd checks plaintext passwords against stored bcrypt hashes, the
// way the platform's login endpoint does, to tell a wrong password apart from a
// broken hash when a login probe fails.
package passwd

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
)

// Check reports whether password matches hash. A mismatch is not an error;
// a malformed hash is.
func Check(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("invalid bcrypt hash: %w", err)
	}
}

// Hash returns a new bcrypt hash of password at the default cost.
func Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// Run checks password against hash, then hashes it afresh and checks the new
// hash too, printing each result to w.
func Run(w io.Writer, hash, password string) error {
	matches, err := Check(hash, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Password matches: %t\n", matches)

	fresh, err := Hash(password)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "New hash: %s\n", fresh)

	freshMatches, err := Check(fresh, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "New hash matches: %t\n", freshMatches)
	return nil
}
