package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	uid string
	err error
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.Token{UID: f.uid, Claims: map[string]interface{}{"email": "kim@example.com"}}, nil
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "email": c.GetString(CtxEmail)})
	})
	return r
}

func TestFirebaseAuth(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		r := newRouter(FirebaseAuth(fakeVerifier{uid: "u-1"}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		r := newRouter(FirebaseAuth(fakeVerifier{err: errors.New("expired")}))
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid token")
	})

	t.Run("valid token", func(t *testing.T) {
		r := newRouter(FirebaseAuth(fakeVerifier{uid: "u-1"}))
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":"u-1","email":"kim@example.com"}`, w.Body.String())
	})
}

func TestOptionalUser(t *testing.T) {
	r := newRouter(OptionalUser())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.JSONEq(t, `{"uid":"demo-user","email":""}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(DevUserIDHeader, " u-9 ")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"uid":"u-9","email":""}`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit(NewIPRateLimiter(2)))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per client ip")
}

func TestNewIPRateLimiter_Disabled(t *testing.T) {
	l := NewIPRateLimiter(0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("ip"))
	}
}

func TestIPRateLimiter_SweepsIdleBuckets(t *testing.T) {
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(fmt.Sprintf("10.0.1.%d", i)))
	}
	require.False(t, l.Allow("10.0.1.7"))
	assert.Equal(t, 100, l.Len())

	clock = clock.Add(30 * time.Second)
	require.False(t, l.Allow("10.0.1.7"), "no sweep before the interval")
	assert.Equal(t, 100, l.Len())

	clock = clock.Add(31 * time.Second)
	require.True(t, l.Allow("10.0.2.1"))
	assert.Equal(t, 2, l.Len(), "only the recently seen bucket and the new one remain")
}

func TestVerifiedUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verified := func(mw gin.HandlerFunc, header string) string {
		r := gin.New()
		r.Use(mw)
		r.GET("/v", func(c *gin.Context) { c.String(http.StatusOK, VerifiedUserID(c)) })
		req := httptest.NewRequest(http.MethodGet, "/v", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		req.Header.Set(DevUserIDHeader, "u-dev")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "", verified(OptionalUser(), ""), "dev header is never a verified identity")
	assert.Equal(t, "u-1", verified(FirebaseAuth(fakeVerifier{uid: "u-1"}), "Bearer abc"))
}
