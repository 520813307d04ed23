package passwd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/testplatform/probe/internal/passwd"
)

func hashOf(t *testing.T, pw string) string {
	t.Helper()

	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestCheck(t *testing.T) {
	hash := hashOf(t, "password")

	ok, err := passwd.Check(hash, "password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = passwd.Check(hash, "Password")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = passwd.Check("not-a-hash", "password")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	var out bytes.Buffer

	err := passwd.Run(&out, hashOf(t, "secret"), "wrong")

	require.NoError(t, err)
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, got, 3)
	assert.Equal(t, "Password matches: false", got[0])
	assert.True(t, strings.HasPrefix(got[1], "New hash: $2a$10$"), got[1])
	assert.Equal(t, "New hash matches: true", got[2])
}

func TestRunMalformedHash(t *testing.T) {
	var out bytes.Buffer

	err := passwd.Run(&out, "$2a$10$short", "password")

	assert.Error(t, err)
	assert.Empty(t, out.String())
}
