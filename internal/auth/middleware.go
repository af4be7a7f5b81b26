package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type contextKey string

const userContextKey contextKey = "user"

// ginUserKey is where the claims are stored on the gin context.
const ginUserKey = "auth.user"

// Required rejects requests without a valid bearer token.
func Required(ti *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, ti)
		if !ok {
			return
		}
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// Optional attaches the claims when a bearer token is present and rejects
// only tokens that are present but invalid.
func Optional(ti *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, ti); !ok {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, ti *TokenIssuer) (*Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, true
	}
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	claims, err := ti.Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return nil, false
	}
	c.Set(ginUserKey, claims)
	c.Request = c.Request.WithContext(WithUser(c.Request.Context(), claims))
	return claims, true
}

// WithUser returns a copy of ctx carrying claims.
func WithUser(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// UserFromContext returns the signed-in user, or nil.
func UserFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(userContextKey).(*Claims)
	return claims
}

// CurrentUser returns the claims attached by the middleware, or nil.
func CurrentUser(c *gin.Context) *Claims {
	v, ok := c.Get(ginUserKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
