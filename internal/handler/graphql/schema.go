package graphql

import (
	"time"

	"github.com/graphql-go/graphql"
)

var DateTime = graphql.NewScalar(
	graphql.ScalarConfig{
		Name:        "DateTime",
		Description: "DateTime scalar type",
		Serialize: func(value interface{}) interface{} {
			switch v := value.(type) {
			case time.Time:
				return v.Format(time.RFC3339)
			case *time.Time:
				if v == nil {
					return nil
				}
				return v.Format(time.RFC3339)
			default:
				return nil
			}
		},
	},
)

func (gh *gqlHandler) initSchema() error {
	userType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "User",
			Fields: graphql.Fields{
				"id":       &graphql.Field{Type: graphql.ID},
				"username": &graphql.Field{Type: graphql.String},
			},
		},
	)

	groupType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Group",
			Fields: graphql.Fields{
				"id":          &graphql.Field{Type: graphql.ID},
				"title":       &graphql.Field{Type: graphql.String},
				"slug":        &graphql.Field{Type: graphql.String},
				"description": &graphql.Field{Type: graphql.String},
			},
		},
	)

	postType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Post",
			Fields: graphql.Fields{
				"id":      &graphql.Field{Type: graphql.ID},
				"text":    &graphql.Field{Type: graphql.String},
				"created": &graphql.Field{Type: DateTime},
				"image":   &graphql.Field{Type: graphql.String},
				"author":  &graphql.Field{Type: userType},
				"group":   &graphql.Field{Type: groupType},
			},
		},
	)

	commentType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Comment",
			Fields: graphql.Fields{
				"id":      &graphql.Field{Type: graphql.ID},
				"text":    &graphql.Field{Type: graphql.String},
				"created": &graphql.Field{Type: DateTime},
				"author":  &graphql.Field{Type: userType},
			},
		},
	)

	pageType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "PostPage",
			Fields: graphql.Fields{
				"items":       &graphql.Field{Type: graphql.NewList(postType)},
				"number":      &graphql.Field{Type: graphql.Int},
				"numPages":    &graphql.Field{Type: graphql.Int},
				"count":       &graphql.Field{Type: graphql.Int},
				"hasPrevious": &graphql.Field{Type: graphql.Boolean},
				"hasNext":     &graphql.Field{Type: graphql.Boolean},
			},
		},
	)

	groupFeedType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "GroupFeed",
			Fields: graphql.Fields{
				"group": &graphql.Field{Type: groupType},
				"page":  &graphql.Field{Type: pageType},
			},
		},
	)

	profileType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Profile",
			Fields: graphql.Fields{
				"author":    &graphql.Field{Type: userType},
				"following": &graphql.Field{Type: graphql.Boolean},
				"page":      &graphql.Field{Type: pageType},
			},
		},
	)

	detailType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "PostDetail",
			Fields: graphql.Fields{
				"post":     &graphql.Field{Type: postType},
				"comments": &graphql.Field{Type: graphql.NewList(commentType)},
			},
		},
	)

	queryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"home":    getHomeQuery(gh, pageType),
				"group":   getGroupQuery(gh, groupFeedType),
				"profile": getProfileQuery(gh, profileType),
				"follow":  getFollowQuery(gh, pageType),
				"post":    getPostQuery(gh, detailType),
				"groups":  getGroupsQuery(gh, groupType),
			},
		},
	)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return err
	}
	gh.schema = schema

	return nil
}
