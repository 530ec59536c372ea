package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", 0)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, err := svc.Issue("admin")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, fixed.Add(240*time.Hour).Equal(claims.ExpiresAt.Time), "tokens live ten days")
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	start := time.Now()
	svc.now = func() time.Time { return start }
	token, err := svc.Issue("admin")
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsForeignSecretAndAlgorithm(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	other, err := NewTokenService("other", time.Hour).Issue("admin")
	require.NoError(t, err)
	_, err = svc.Verify(other)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = svc.Verify("")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestRequireToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue("admin")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/guarded", RequireToken(svc), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.Username)
	})

	cases := []struct {
		name   string
		setup  func(*http.Request)
		target string
		status int
	}{
		{name: "bearer header", target: "/guarded", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, status: http.StatusOK},
		{name: "code query", target: "/guarded?Code=" + token, setup: func(*http.Request) {}, status: http.StatusOK},
		{name: "missing", target: "/guarded", setup: func(*http.Request) {}, status: http.StatusUnauthorized},
		{name: "garbage", target: "/guarded?Code=abc", setup: func(*http.Request) {}, status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
