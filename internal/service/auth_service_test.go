package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"gamerhub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type fakeVerifier struct {
	identity *GoogleIdentity
	err      error
}

func (f fakeVerifier) Verify(context.Context, string) (*GoogleIdentity, error) {
	return f.identity, f.err
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	users := newMemUserRepo()
	svc := NewAuthService(users, testSecret, nil)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, models.SignupRequest{Email: " Ana@Example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.Email)
	assert.Equal(t, "Ana", resp.Name)
	require.NotNil(t, resp.User)
	assert.NotEqual(t, "secret1", resp.User.Password, "password is hashed")

	uid, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, uid)

	_, err = svc.Signup(ctx, models.SignupRequest{Email: "ana@example.com", Password: "secret1"})
	assert.True(t, models.HasCode(err, models.CodeConflict))

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assertUnauthorized(t, err)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assertUnauthorized(t, err)
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), testSecret, nil)
	ctx := context.Background()

	for name, req := range map[string]models.SignupRequest{
		"missing email":  {Password: "secret1"},
		"bad email":      {Email: "not-an-email", Password: "secret1"},
		"short password": {Email: "a@example.com", Password: "123"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Signup(ctx, req)
			assertValidationError(t, err)
		})
	}

	resp, err := svc.Signup(ctx, models.SignupRequest{Email: "nameless@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "nameless", resp.Name, "name defaults to the email local part")
}

func TestAuthService_GoogleLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		svc := NewAuthService(newMemUserRepo(), testSecret, nil)
		_, err := svc.GoogleLogin(ctx, models.GoogleLoginRequest{Credential: "x"})
		assert.ErrorIs(t, err, ErrGoogleLoginDisabled)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc := NewAuthService(newMemUserRepo(), testSecret, fakeVerifier{err: errors.New("bad")})
		_, err := svc.GoogleLogin(ctx, models.GoogleLoginRequest{Credential: "x"})
		assertUnauthorized(t, err)
	})

	t.Run("creates then reuses account", func(t *testing.T) {
		users := newMemUserRepo()
		id := &GoogleIdentity{Subject: "g-1", Email: "gg@example.com", Name: "GG", Picture: "http://p/gg.png"}
		svc := NewAuthService(users, testSecret, fakeVerifier{identity: id})

		first, err := svc.GoogleLogin(ctx, models.GoogleLoginRequest{Credential: "cred"})
		require.NoError(t, err)
		assert.Equal(t, "http://p/gg.png", first.PictureURL)

		second, err := svc.GoogleLogin(ctx, models.GoogleLoginRequest{Credential: "cred"})
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, second.User.ID)

		all, _ := users.List(ctx)
		assert.Len(t, all, 1)
	})

	t.Run("links existing email account", func(t *testing.T) {
		users := newMemUserRepo()
		require.NoError(t, users.Create(ctx, &models.User{Name: "Old", Email: "gg@example.com"}))
		svc := NewAuthService(users, testSecret, fakeVerifier{identity: &GoogleIdentity{Subject: "g-2", Email: "gg@example.com"}})

		resp, err := svc.GoogleLogin(ctx, models.GoogleLoginRequest{Credential: "cred"})
		require.NoError(t, err)
		assert.Equal(t, "Old", resp.Name)
		linked, err := users.GetByGoogleID(ctx, "g-2")
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, linked.ID)
	})
}

func TestAuthService_ParseToken(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), testSecret, nil)

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": strconv.Itoa(42),
			"iss": tokenIssuer,
			"aud": tokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	uid, err := svc.ParseToken(sign(valid(), testSecret))
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)

	tests := map[string]string{
		"wrong secret": sign(valid(), "other-secret"),
		"garbage":      "not.a.jwt",
	}
	expired := valid()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	tests["expired"] = sign(expired, testSecret)
	wrongIss := valid()
	wrongIss["iss"] = "someone-else"
	tests["wrong issuer"] = sign(wrongIss, testSecret)
	wrongAud := valid()
	wrongAud["aud"] = "someone-else"
	tests["wrong audience"] = sign(wrongAud, testSecret)
	badSub := valid()
	badSub["sub"] = "abc"
	tests["non-numeric subject"] = sign(badSub, testSecret)

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(token)
			assertUnauthorized(t, err)
		})
	}
}
