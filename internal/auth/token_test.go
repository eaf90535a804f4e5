package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freshharvest-be/internal/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	t.Run("Cookie Preferred", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie_token"})
		// Add header as well to ensure cookie takes precedence
		req.Header.Set("Authorization", "Bearer header_token")

		token := ExtractAccessToken(req)
		assert.Equal(t, "cookie_token", token)
	})

	t.Run("Header Fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header_token")

		token := ExtractAccessToken(req)
		assert.Equal(t, "header_token", token)
	})

	t.Run("Empty Cookie Falls Back to Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: ""})
		req.Header.Set("Authorization", "Bearer header_token")

		token := ExtractAccessToken(req)
		assert.Equal(t, "header_token", token)
	})

	t.Run("No Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		token := ExtractAccessToken(req)
		assert.Empty(t, token)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic user:pass")

		token := ExtractAccessToken(req)
		assert.Empty(t, token)
	})
}

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	return Claims{
		UserID: 7,
		Email:  "buyer@example.com",
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestParseToken(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		token := signed(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

		claims, err := ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "buyer@example.com", claims.Email)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token := signed(t, jwt.SigningMethodHS256, []byte("other"), validClaims())

		_, err := ParseToken(testSecret, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	})

	t.Run("Expired", func(t *testing.T) {
		c := validClaims()
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token := signed(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := ParseToken(testSecret, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Other HMAC algorithm", func(t *testing.T) {
		token := signed(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())

		_, err := ParseToken(testSecret, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing user id", func(t *testing.T) {
		c := validClaims()
		c.UserID = 0
		token := signed(t, jwt.SigningMethodHS256, []byte(testSecret), c)

		_, err := ParseToken(testSecret, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseToken(testSecret, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("No secret configured", func(t *testing.T) {
		_, err := ParseToken("", "whatever")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}
