package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"yatube/internal/pkg"

	"github.com/google/uuid"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// PageCache 进程内整页缓存，过期条目在读取时丢弃
type PageCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]entry
}

func NewPageCache(now func() time.Time) *PageCache {
	if now == nil {
		now = time.Now
	}
	return &PageCache{now: now, entries: make(map[string]entry)}
}

func (c *PageCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return bytes.Clone(e.payload), true, nil
}

func (c *PageCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: bytes.Clone(payload), expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *PageCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

type session struct {
	token     string
	expiresAt time.Time
}

// SessionStore 和 redis 版一样：一个用户一个 token，带过期
type SessionStore struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[uint64]session
}

func NewSessionStore(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{now: now, sessions: make(map[uint64]session)}
}

func (s *SessionStore) Save(_ context.Context, userID uint64, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session{token: token, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) live(userID uint64) (session, bool) {
	sess, ok := s.sessions[userID]
	if !ok {
		return session{}, false
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, userID)
		return session{}, false
	}
	return sess, true
}

func (s *SessionStore) Get(_ context.Context, userID uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live(userID)
	if !ok {
		return "", pkg.ErrNotFound
	}
	return sess.token, nil
}

func (s *SessionStore) Extend(_ context.Context, userID uint64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live(userID)
	if !ok {
		return pkg.ErrNotFound
	}
	sess.expiresAt = s.now().Add(ttl)
	s.sessions[userID] = sess
	return nil
}

func (s *SessionStore) Delete(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// ImageStore 上传内容放内存，key 规则同 minio
type ImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewImageStore() *ImageStore {
	return &ImageStore{objects: make(map[string][]byte)}
}

func (s *ImageStore) Put(_ context.Context, prefix, filename, _ string, _ int64, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	key := path.Join(prefix, uuid.New().String()+strings.ToLower(filepath.Ext(filename)))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return key, nil
}

func (s *ImageStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	return b, ok
}
