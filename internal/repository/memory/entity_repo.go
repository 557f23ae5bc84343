package memory

import (
	"context"
	"sort"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return pkg.ErrAlreadyExists
		}
	}
	u.ID = r.s.nextID()
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, pkg.ErrNotFound
}

type GroupRepository struct{ s *Store }

func (r *GroupRepository) Create(_ context.Context, g *model.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.groups {
		if existing.Slug == g.Slug {
			return pkg.ErrAlreadyExists
		}
	}
	g.ID = r.s.nextID()
	r.s.groups[g.ID] = *g
	return nil
}

func (r *GroupRepository) FindByID(_ context.Context, id uint64) (*model.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return &g, nil
}

func (r *GroupRepository) FindBySlug(_ context.Context, slug string) (*model.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, g := range r.s.groups {
		if g.Slug == slug {
			g := g
			return &g, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *GroupRepository) List(_ context.Context) ([]model.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]model.Group, 0, len(r.s.groups))
	for _, g := range r.s.groups {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Title != list[j].Title {
			return list[i].Title < list[j].Title
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(_ context.Context, c *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[c.PostID]; !ok {
		return pkg.ErrNotFound
	}
	c.ID = r.s.nextID()
	c.CreatedAt = r.s.now()
	stored := *c
	stored.Author = model.User{}
	r.s.comments = append(r.s.comments, stored)
	return nil
}

func (r *CommentRepository) ListByPost(_ context.Context, postID uint64) ([]model.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := []model.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			c.Author = r.s.users[c.AuthorID]
			list = append(list, c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
