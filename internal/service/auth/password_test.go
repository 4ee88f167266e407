package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier_Compare(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier()

	assert.NoError(t, v.Compare(string(hash), "correct-horse"))
	assert.ErrorIs(t, v.Compare(string(hash), "battery-staple"), ErrInvalidCredentials)
	assert.ErrorIs(t, v.Compare("", "correct-horse"), ErrInvalidCredentials)

	err = v.Compare("not-a-bcrypt-hash", "correct-horse")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
