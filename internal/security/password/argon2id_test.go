package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewArgon2id(Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32})

	phc, err := h.Hash("s3cret!pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$"))

	assert.True(t, h.Verify("s3cret!pass", phc))
	assert.False(t, h.Verify("otra-cosa", phc))
}

func TestHashIsSalted(t *testing.T) {
	h := NewArgon2id(Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32})

	a, err := h.Hash("mismo-password1!")
	require.NoError(t, err)
	b, err := h.Hash("mismo-password1!")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("mismo-password1!", a))
	assert.True(t, h.Verify("mismo-password1!", b))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	h := NewArgon2id(Params{})

	assert.False(t, h.Verify("x", ""))
	assert.False(t, h.Verify("x", "no-es-un-phc"))
	assert.False(t, h.Verify("x", "$argon2id$v=19$m=8192,t=1,p=1$salt"))
}

func TestEmptyPassword(t *testing.T) {
	h := NewArgon2id(Params{})
	_, err := h.Hash("")
	require.Error(t, err)
}
