package service

import (
	"context"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

type PostPage = pkg.Page[model.Post]

// FeedService 首页、分组页、个人页、关注流的分页组装
type FeedService struct {
	posts    PostRepository
	groups   GroupRepository
	users    UserRepository
	follows  FollowRepository
	pageSize int
}

func NewFeedService(posts PostRepository, groups GroupRepository, users UserRepository, follows FollowRepository, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = pkg.DefaultPageSize
	}
	return &FeedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		follows:  follows,
		pageSize: pageSize,
	}
}

type GroupFeed struct {
	Group *model.Group
	Page  PostPage
}

type ProfileFeed struct {
	Author    *model.User
	Following bool
	Page      PostPage
}

// 先 count 定位页码，再按 offset/limit 取这一页
func (s *FeedService) paginate(
	ctx context.Context,
	rawPage string,
	count func(context.Context) (int64, error),
	list func(ctx context.Context, offset, limit int) ([]model.Post, error),
) (PostPage, error) {
	n, err := count(ctx)
	if err != nil {
		return PostPage{}, err
	}
	w := pkg.NewWindow(n, s.pageSize, rawPage)
	if n == 0 {
		return pkg.NewPage[model.Post](w, nil), nil
	}
	items, err := list(ctx, w.Offset, w.Limit)
	if err != nil {
		return PostPage{}, err
	}
	return pkg.NewPage(w, items), nil
}

func (s *FeedService) Home(ctx context.Context, rawPage string) (PostPage, error) {
	return s.paginate(ctx, rawPage, s.posts.CountAll, s.posts.ListAll)
}

func (s *FeedService) Group(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	page, err := s.paginate(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.posts.CountByGroup(ctx, group.ID) },
		func(ctx context.Context, offset, limit int) ([]model.Post, error) {
			return s.posts.ListByGroup(ctx, group.ID, offset, limit)
		},
	)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: page}, nil
}

// Profile viewerID 为 0 表示匿名，following 恒为 false
func (s *FeedService) Profile(ctx context.Context, username string, viewerID uint64, rawPage string) (*ProfileFeed, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	page, err := s.paginate(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.posts.CountByAuthor(ctx, author.ID) },
		func(ctx context.Context, offset, limit int) ([]model.Post, error) {
			return s.posts.ListByAuthor(ctx, author.ID, offset, limit)
		},
	)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 {
		following, err = s.follows.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}
	return &ProfileFeed{Author: author, Following: following, Page: page}, nil
}

// Follow 关注流：先取关注作者 id 集合，再按集合查帖子
func (s *FeedService) Follow(ctx context.Context, viewerID uint64, rawPage string) (PostPage, error) {
	if viewerID == 0 {
		return PostPage{}, pkg.ErrUnauthenticated
	}
	authorIDs, err := s.follows.ListFollowedAuthorIDs(ctx, viewerID)
	if err != nil {
		return PostPage{}, err
	}
	if len(authorIDs) == 0 {
		return pkg.NewPage[model.Post](pkg.NewWindow(0, s.pageSize, rawPage), nil), nil
	}
	return s.paginate(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.posts.CountByAuthors(ctx, authorIDs) },
		func(ctx context.Context, offset, limit int) ([]model.Post, error) {
			return s.posts.ListByAuthors(ctx, authorIDs, offset, limit)
		},
	)
}
