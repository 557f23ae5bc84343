package graphql

import (
	"strconv"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/service"

	"github.com/graphql-go/graphql"
)

func idString(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func userMap(u model.User) map[string]any {
	return map[string]any{"id": idString(u.ID), "username": u.Username}
}

// groupMap 没有分组时返回无类型 nil，graphql 输出 null
func groupMap(g *model.Group) any {
	if g == nil {
		return nil
	}
	return map[string]any{
		"id":          idString(g.ID),
		"title":       g.Title,
		"slug":        g.Slug,
		"description": g.Description,
	}
}

func postMap(p model.Post) map[string]any {
	return map[string]any{
		"id":      idString(p.ID),
		"text":    p.Text,
		"created": p.CreatedAt,
		"image":   p.Image,
		"author":  userMap(p.Author),
		"group":   groupMap(p.Group),
	}
}

func pageMap(page service.PostPage) map[string]any {
	items := make([]map[string]any, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, postMap(p))
	}
	return map[string]any{
		"items":       items,
		"number":      page.Number,
		"numPages":    page.NumPages,
		"count":       int(page.Count),
		"hasPrevious": page.HasPrevious,
		"hasNext":     page.HasNext,
	}
}

func pageArg() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""}
}

func viewerID(p graphql.ResolveParams) uint64 {
	v, _ := pkg.ViewerFromContext(p.Context)
	return v.ID
}

func getHomeQuery(gh *gqlHandler, pageType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: pageType,
		Args: graphql.FieldConfigArgument{"page": pageArg()},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			page, err := gh.feed.Home(p.Context, p.Args["page"].(string))
			if err != nil {
				return nil, err
			}
			return pageMap(page), nil
		},
	}
}

func getGroupQuery(gh *gqlHandler, feedType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: feedType,
		Args: graphql.FieldConfigArgument{
			"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"page": pageArg(),
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			feed, err := gh.feed.Group(p.Context, p.Args["slug"].(string), p.Args["page"].(string))
			if err != nil {
				return nil, err
			}
			return map[string]any{"group": groupMap(feed.Group), "page": pageMap(feed.Page)}, nil
		},
	}
}

func getProfileQuery(gh *gqlHandler, profileType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: profileType,
		Args: graphql.FieldConfigArgument{
			"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"page":     pageArg(),
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			feed, err := gh.feed.Profile(p.Context, p.Args["username"].(string), viewerID(p), p.Args["page"].(string))
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"author":    userMap(*feed.Author),
				"following": feed.Following,
				"page":      pageMap(feed.Page),
			}, nil
		},
	}
}

// 关注流需要登录态
func getFollowQuery(gh *gqlHandler, pageType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: pageType,
		Args: graphql.FieldConfigArgument{"page": pageArg()},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			page, err := gh.feed.Follow(p.Context, viewerID(p), p.Args["page"].(string))
			if err != nil {
				return nil, err
			}
			return pageMap(page), nil
		},
	}
}

func getPostQuery(gh *gqlHandler, detailType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: detailType,
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := strconv.ParseUint(p.Args["id"].(string), 10, 64)
			if err != nil {
				return nil, pkg.ErrNotFound
			}
			detail, err := gh.posts.Detail(p.Context, id)
			if err != nil {
				return nil, err
			}
			comments := make([]map[string]any, 0, len(detail.Comments))
			for _, c := range detail.Comments {
				comments = append(comments, map[string]any{
					"id":      idString(c.ID),
					"text":    c.Text,
					"created": c.CreatedAt,
					"author":  userMap(c.Author),
				})
			}
			return map[string]any{"post": postMap(*detail.Post), "comments": comments}, nil
		},
	}
}

func getGroupsQuery(gh *gqlHandler, groupType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewList(groupType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			groups, err := gh.groups.List(p.Context)
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, len(groups))
			for i := range groups {
				out = append(out, groupMap(&groups[i]))
			}
			return out, nil
		},
	}
}
