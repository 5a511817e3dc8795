package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bryanwahyu/safe-space/internal/domain/users"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	j := NewJWTIssuer("s3cret", time.Hour)

	tok, err := j.Issue(&users.User{ID: "u1", Role: users.RoleParent})
	require.NoError(t, err)

	c, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, users.RoleParent, c.Role)
}

func TestJWTIssuer_Expired(t *testing.T) {
	j := NewJWTIssuer("s3cret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	j.now = func() time.Time { return issued }

	tok, err := j.Issue(&users.User{ID: "u1", Role: users.RoleTeen})
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	tok, err := NewJWTIssuer("one", time.Hour).Issue(&users.User{ID: "u1"})
	require.NoError(t, err)

	_, err = NewJWTIssuer("two", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTIssuer("one", time.Hour).Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuer_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTIssuer("one", time.Hour).Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, h.Compare(hash, "hunter22"))
	assert.False(t, h.Compare(hash, "hunter23"))

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
}
