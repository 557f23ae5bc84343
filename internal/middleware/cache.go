package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"yatube/internal/pkg"

	"github.com/gin-gonic/gin"
)

// PageStore 整页缓存后端（redis / memory）
type PageStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func CacheKey(surface string, c *gin.Context) string {
	return surface + "?" + c.Request.URL.RawQuery
}

// CachePage 命中直接返回缓存内容；未命中执行 handler，只缓存 200
// 窗口内不因写操作失效
func CachePage(store PageStore, ttl time.Duration, surface string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ttl <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key := CacheKey(surface, c)
		ctx := c.Request.Context()

		payload, ok, err := store.Get(ctx, key)
		if err != nil {
			log.Warn("page cache get", slog.String("key", key), pkg.Err(err))
		}
		if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header("X-Cache", "MISS")
		c.Next()

		if rec.Status() != http.StatusOK || rec.buf.Len() == 0 {
			return
		}
		if err := store.Set(ctx, key, rec.buf.Bytes(), ttl); err != nil {
			log.Warn("page cache set", slog.String("key", key), pkg.Err(err))
		}
	}
}
