// Package memory holds process-local implementations of every repository.
// It backs STORAGE_BACKEND=memory / CACHE_BACKEND=memory and the service tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"yatube/internal/model"
)

type followKey struct {
	follower uint64
	author   uint64
}

// Store 单个互斥锁保护全部表，每次操作原子
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq      uint64
	users    map[uint64]model.User
	groups   map[uint64]model.Group
	posts    map[uint64]model.Post
	comments []model.Comment
	follows  map[followKey]model.Follow
	outbox   []model.SocialOutbox
}

type Option func(*Store)

// WithClock 测试里固定时间
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:     time.Now,
		users:   make(map[uint64]model.User),
		groups:  make(map[uint64]model.Group),
		posts:   make(map[uint64]model.Post),
		follows: make(map[followKey]model.Follow),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) nextID() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Groups() *GroupRepository { return &GroupRepository{s: s} }
func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }
func (s *Store) Follows() *FollowRepository { return &FollowRepository{s: s} }
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s: s} }

// hydrate 填充 Author/Group，调用方持有读锁
func (s *Store) hydrate(p model.Post) model.Post {
	p.Author = s.users[p.AuthorID]
	p.Group = nil
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			g := g
			p.Group = &g
		}
	}
	return p
}

func sortPosts(list []model.Post) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func window[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
