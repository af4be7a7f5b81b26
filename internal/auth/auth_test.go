package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	token, expires, err := ti.Generate(42, "user@example.com", "Ada", "candidate")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := ti.Validate(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "42", claims.OwnerID())
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "candidate", claims.Role)
}

func TestTokenIssuer_RejectsWrongSecretAndExpired(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	token, _, err := ti.Generate(1, "a@b", "", "candidate")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Validate(token)
	require.Error(t, err)

	expired := NewTokenIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Generate(1, "a@b", "", "candidate")
	require.NoError(t, err)
	_, err = ti.Validate(old)
	require.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)
	require.True(t, CheckPassword("secret", hash))
	require.False(t, CheckPassword("Secret", hash))
}

func TestOwnerID_NilClaims(t *testing.T) {
	var c *Claims
	require.Empty(t, c.OwnerID())
}

func newAuthEngine(ti *TokenIssuer, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		fromGin := CurrentUser(c)
		fromCtx := UserFromContext(c.Request.Context())
		if fromGin != fromCtx {
			c.String(http.StatusInternalServerError, "mismatch")
			return
		}
		c.String(http.StatusOK, fromGin.OwnerID())
	})
	return r
}

func TestMiddleware(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	token, _, err := ti.Generate(7, "user@example.com", "", "candidate")
	require.NoError(t, err)

	tests := []struct {
		name     string
		required bool
		header   string
		code     int
		body     string
	}{
		{"required without token", true, "", http.StatusUnauthorized, ""},
		{"required with token", true, "Bearer " + token, http.StatusOK, "7"},
		{"required with garbage", true, "Bearer nope", http.StatusUnauthorized, ""},
		{"required with basic auth", true, "Basic Zm9vOmJhcg==", http.StatusUnauthorized, ""},
		{"optional without token", false, "", http.StatusOK, ""},
		{"optional with token", false, "Bearer " + token, http.StatusOK, "7"},
		{"optional with garbage", false, "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := Optional(ti)
			if tt.required {
				mw = Required(ti)
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthEngine(ti, mw).ServeHTTP(w, req)
			require.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				require.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestGmailToken_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, saveToken(path, &oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err := tokenFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "abc", tok.AccessToken)
}

func TestGmailClient_MissingCredentials(t *testing.T) {
	_, err := GmailClient(t.Context(), filepath.Join(t.TempDir(), "nope.json"), "token.json")
	require.Error(t, err)
}
