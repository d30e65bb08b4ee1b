package middleware

import (
	"context"
	"net/http"
	"strings"

	"agency_estimate/pkg"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID  = "firebase_uid"
	CtxUserID       = "user_id"
	CtxEmail        = "email"
	DevUserIDHeader = "X-User-Id"
	DevFallbackUser = "demo-user"
	bearerPrefix    = "Bearer "
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var (
	errMissingToken = pkg.NewDomainErrorSimple("UNAUTHORIZED", "missing authorization token", http.StatusUnauthorized)
	errInvalidToken = pkg.NewDomainErrorSimple("UNAUTHORIZED", "invalid token", http.StatusUnauthorized)
)

// FirebaseAuth validates Firebase ID tokens and stores the uid in the context.
func FirebaseAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(errMissingToken.HTTPStatus, errMissingToken.ToHTTPError())
			return
		}

		decoded, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(errInvalidToken.HTTPStatus, errInvalidToken.ToHTTPError())
			return
		}

		c.Set(CtxFirebaseUID, decoded.UID)
		if email, ok := decoded.Claims["email"].(string); ok {
			c.Set(CtxEmail, email)
		}
		c.Next()
	}
}

// OptionalUser sets a user id without enforcing auth. Use only when Firebase
// is not configured (local development).
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(DevUserIDHeader))
		if uid == "" {
			uid = DevFallbackUser
		}
		c.Set(CtxUserID, uid)
		c.Next()
	}
}

// VerifiedUserID returns the uid proven by a Firebase ID token, or "".
func VerifiedUserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// UserID returns the verified Firebase uid, or the development user id.
func UserID(c *gin.Context) string {
	if uid := strings.TrimSpace(c.GetString(CtxFirebaseUID)); uid != "" {
		return uid
	}
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func extractToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > len(bearerPrefix) && strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(h[len(bearerPrefix):])
	}
	return ""
}
