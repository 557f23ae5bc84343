package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yatube/internal/pkg"
	"yatube/internal/repository/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubAuth map[string]pkg.Viewer

func (s stubAuth) Authenticate(_ context.Context, token string) (pkg.Viewer, error) {
	if token == "broken" {
		return pkg.Viewer{}, errors.New("redis unavailable")
	}
	v, ok := s[token]
	if !ok {
		return pkg.Viewer{}, pkg.ErrUnauthenticated
	}
	return v, nil
}

func newAuthEngine() *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(stubAuth{"good": {ID: 7, Username: "artem"}}, discard))
	r.GET("/whoami", func(c *gin.Context) {
		v, _ := pkg.ViewerFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "name": Username(c), "ctx": v.Username})
	})
	r.GET("/private/", LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	r := newAuthEngine()

	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"anonymous", func(*http.Request) {}, `{"ctx":"","id":0,"name":""}`},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, `{"ctx":"artem","id":7,"name":"artem"}`},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good"}) }, `{"ctx":"artem","id":7,"name":"artem"}`},
		{"bad scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }, `{"ctx":"","id":0,"name":""}`},
		{"invalid token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, `{"ctx":"","id":0,"name":""}`},
		{"store error", func(r *http.Request) { r.Header.Set("Authorization", "Bearer broken") }, `{"ctx":"","id":0,"name":""}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
}

func TestLoginRequired(t *testing.T) {
	r := newAuthEngine()

	req := httptest.NewRequest(http.MethodGet, "/private/?page=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fprivate%2F%3Fpage%3D2", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/private/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", w.Body.String())
}

type cacheClock struct{ t time.Time }

func (c *cacheClock) now() time.Time { return c.t }

func TestCachePage_StaleWithinWindow(t *testing.T) {
	clock := &cacheClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := memory.NewPageCache(clock.now)
	calls := 0

	r := gin.New()
	r.GET("/", CachePage(store, 20*time.Second, "home", discard), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls, "page": c.Query("page")})
	})
	get := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	first := get("/")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":1,"page":""}`, first.Body.String())

	clock.t = clock.t.Add(19 * time.Second)
	second := get("/")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))

	other := get("/?page=2")
	assert.JSONEq(t, `{"calls":2,"page":"2"}`, other.Body.String())

	clock.t = clock.t.Add(time.Second)
	third := get("/")
	assert.JSONEq(t, `{"calls":3,"page":""}`, third.Body.String())

	require.NoError(t, store.Clear(context.Background()))
	fourth := get("/")
	assert.JSONEq(t, `{"calls":4,"page":""}`, fourth.Body.String())
}

func TestCachePage_SkipsErrors(t *testing.T) {
	store := memory.NewPageCache(nil)
	fail := true
	r := gin.New()
	r.GET("/", CachePage(store, time.Minute, "home", discard), func(c *gin.Context) {
		if fail {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "boom"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	fail = false
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(discard))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
