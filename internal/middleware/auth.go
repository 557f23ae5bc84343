package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	AccessTokenCookie  = "access_token"
	LoginPath          = "/auth/login/"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (pkg.Viewer, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// Authenticate 可选登录态：token 有效就注入 user_id，否则按匿名继续
func Authenticate(auth Authenticator, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		viewer, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, pkg.ErrUnauthenticated) {
				log.Warn("authenticate", slog.String("path", c.Request.URL.Path), pkg.Err(err))
			}
			c.Next()
			return
		}

		// 注入 user_id
		c.Set(ContextUserIDKey, viewer.ID)
		c.Set(ContextUsernameKey, viewer.Username)
		c.Request = c.Request.WithContext(pkg.WithViewer(c.Request.Context(), viewer))
		c.Next()
	}
}

// LoginRequired 匿名用户跳转登录页，带上原地址
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == 0 {
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID 匿名返回 0
func UserID(c *gin.Context) uint64 {
	return c.GetUint64(ContextUserIDKey)
}

func Username(c *gin.Context) string {
	return c.GetString(ContextUsernameKey)
}
