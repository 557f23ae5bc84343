package memory

import (
	"context"
	"encoding/json"
	"sort"

	"yatube/internal/model"
)

type FollowRepository struct{ s *Store }

func (r *FollowRepository) Follow(_ context.Context, followerID, authorID uint64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := followKey{followerID, authorID}
	if _, ok := r.s.follows[key]; ok {
		return false, nil
	}
	r.s.follows[key] = model.Follow{
		ID:         r.s.nextID(),
		FollowerID: followerID,
		AuthorID:   authorID,
		CreatedAt:  r.s.now(),
	}
	r.s.appendOutbox(model.EventFollow, followerID, authorID)
	return true, nil
}

func (r *FollowRepository) Unfollow(_ context.Context, followerID, authorID uint64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := followKey{followerID, authorID}
	if _, ok := r.s.follows[key]; !ok {
		return false, nil
	}
	delete(r.s.follows, key)
	r.s.appendOutbox(model.EventUnfollow, followerID, authorID)
	return true, nil
}

func (r *FollowRepository) IsFollowing(_ context.Context, followerID, authorID uint64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.follows[followKey{followerID, authorID}]
	return ok, nil
}

func (r *FollowRepository) ListFollowedAuthorIDs(_ context.Context, followerID uint64) ([]uint64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := []uint64{}
	for k := range r.s.follows {
		if k.follower == followerID {
			ids = append(ids, k.author)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// appendOutbox 调用方持有写锁
func (s *Store) appendOutbox(event string, follower, followee uint64) {
	now := s.now()
	payload, _ := json.Marshal(map[string]any{
		"event":      event,
		"event_time": now.UTC(),
		"follower":   follower,
		"followee":   followee,
	})
	s.outbox = append(s.outbox, model.SocialOutbox{
		ID:        s.nextID(),
		EventType: event,
		Follower:  follower,
		Followee:  followee,
		Payload:   string(payload),
		Status:    model.OutboxPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

type OutboxRepository struct{ s *Store }

func (r *OutboxRepository) ListPending(_ context.Context, batchSize, maxRetry int) ([]model.SocialOutbox, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := []model.SocialOutbox{}
	for _, ob := range r.s.outbox {
		if len(list) >= batchSize {
			break
		}
		if ob.Status == model.OutboxPending || (ob.Status == model.OutboxFailed && ob.Retry < maxRetry) {
			list = append(list, ob)
		}
	}
	return list, nil
}

func (r *OutboxRepository) update(id uint64, fn func(*model.SocialOutbox)) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			fn(&r.s.outbox[i])
			r.s.outbox[i].UpdatedAt = r.s.now()
			return
		}
	}
}

func (r *OutboxRepository) MarkSent(_ context.Context, id uint64) error {
	r.update(id, func(ob *model.SocialOutbox) { ob.Status = model.OutboxSent })
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, id uint64) error {
	r.update(id, func(ob *model.SocialOutbox) {
		ob.Status = model.OutboxFailed
		ob.Retry++
	})
	return nil
}
