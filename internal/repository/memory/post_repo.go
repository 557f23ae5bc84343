package memory

import (
	"context"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

type PostRepository struct{ s *Store }

func (r *PostRepository) insert(p *model.Post) {
	p.ID = r.s.nextID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	stored := *p
	stored.Author = model.User{}
	stored.Group = nil
	r.s.posts[p.ID] = stored
}

func (r *PostRepository) Create(_ context.Context, p *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insert(p)
	return nil
}

// BulkCreate 同一时刻写入，顺序靠 id
func (r *PostRepository) BulkCreate(_ context.Context, posts []*model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for _, p := range posts {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		r.insert(p)
	}
	return nil
}

func (r *PostRepository) Update(_ context.Context, p *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.posts[p.ID]
	if !ok {
		return pkg.ErrNotFound
	}
	stored.Text = p.Text
	stored.GroupID = p.GroupID
	stored.Image = p.Image
	r.s.posts[p.ID] = stored
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.posts, id)
	kept := r.s.comments[:0]
	for _, c := range r.s.comments {
		if c.PostID != id {
			kept = append(kept, c)
		}
	}
	r.s.comments = kept
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id uint64) (*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	p = r.s.hydrate(p)
	return &p, nil
}

func (r *PostRepository) filter(keep func(model.Post) bool) []model.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]model.Post, 0)
	for _, p := range r.s.posts {
		if keep(p) {
			list = append(list, r.s.hydrate(p))
		}
	}
	sortPosts(list)
	return list
}

func anyPost(model.Post) bool { return true }

func inGroup(groupID uint64) func(model.Post) bool {
	return func(p model.Post) bool { return p.GroupID != nil && *p.GroupID == groupID }
}

func byAuthors(ids []uint64) func(model.Post) bool {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(p model.Post) bool {
		_, ok := set[p.AuthorID]
		return ok
	}
}

func (r *PostRepository) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.filter(anyPost))), nil
}

func (r *PostRepository) ListAll(_ context.Context, offset, limit int) ([]model.Post, error) {
	return window(r.filter(anyPost), offset, limit), nil
}

func (r *PostRepository) CountByGroup(_ context.Context, groupID uint64) (int64, error) {
	return int64(len(r.filter(inGroup(groupID)))), nil
}

func (r *PostRepository) ListByGroup(_ context.Context, groupID uint64, offset, limit int) ([]model.Post, error) {
	return window(r.filter(inGroup(groupID)), offset, limit), nil
}

func (r *PostRepository) CountByAuthor(_ context.Context, authorID uint64) (int64, error) {
	return int64(len(r.filter(byAuthors([]uint64{authorID})))), nil
}

func (r *PostRepository) ListByAuthor(_ context.Context, authorID uint64, offset, limit int) ([]model.Post, error) {
	return window(r.filter(byAuthors([]uint64{authorID})), offset, limit), nil
}

func (r *PostRepository) CountByAuthors(_ context.Context, authorIDs []uint64) (int64, error) {
	return int64(len(r.filter(byAuthors(authorIDs)))), nil
}

func (r *PostRepository) ListByAuthors(_ context.Context, authorIDs []uint64, offset, limit int) ([]model.Post, error) {
	return window(r.filter(byAuthors(authorIDs)), offset, limit), nil
}
