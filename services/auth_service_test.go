package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newAuthForTest(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	t.Setenv("ADMIN_EMAIL", "doctor@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	t.Setenv("JWT_SECRET", "test-secret")

	svc, err := NewAuthService()
	assert.NoError(t, err)
	return svc
}

func TestNewAuthService_RequiresConfiguration(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("JWT_SECRET", "")

	_, err := NewAuthService()
	assert.Error(t, err)
}

func TestVerifyCredentials(t *testing.T) {
	svc := newAuthForTest(t)

	identity, err := svc.VerifyCredentials("doctor@example.com", "correct-horse")
	assert.NoError(t, err)
	assert.Equal(t, "doctor@example.com", identity.Email)
	assert.Equal(t, "admin", identity.Role)

	// email сравнивается без учета регистра
	_, err = svc.VerifyCredentials("Doctor@Example.com", "correct-horse")
	assert.NoError(t, err)

	_, err = svc.VerifyCredentials("doctor@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.VerifyCredentials("someone@else.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newAuthForTest(t)

	identity, err := svc.VerifyCredentials("doctor@example.com", "correct-horse")
	assert.NoError(t, err)

	token, err := svc.IssueToken(identity)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := svc.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, identity.Email, parsed.Email)
	assert.Equal(t, "admin", parsed.Role)
}

func TestVerifyToken_RejectsGarbageAndForeignTokens(t *testing.T) {
	svc := newAuthForTest(t)

	_, err := svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// токен, подписанный другим секретом
	other := *svc
	other.secret = []byte("different-secret")
	identity, _ := svc.VerifyCredentials("doctor@example.com", "correct-horse")
	foreign, err := other.IssueToken(identity)
	assert.NoError(t, err)

	_, err = svc.VerifyToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
