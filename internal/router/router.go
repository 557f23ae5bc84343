package router

import (
	"log/slog"
	"net/http"
	"time"

	"yatube/internal/handler"
	gql "yatube/internal/handler/graphql"
	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps 组装路由需要的全部依赖
type Deps struct {
	Feed     *service.FeedService
	Posts    *service.PostService
	Comments *service.CommentService
	Follows  *service.FollowService
	Groups   *service.GroupService
	Auth     *service.AuthService

	PageStore    middleware.PageStore
	HomeCacheTTL time.Duration
	AccessTTL    time.Duration
	CORSOrigins  []string
	Log          *slog.Logger
}

func InitRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))
	r.Use(middleware.Authenticate(d.Auth, d.Log))

	feed := handler.NewFeedHandler(d.Feed)
	post := handler.NewPostHandler(d.Posts, d.Comments, d.Groups)
	follow := handler.NewFollowHandler(d.Follows)
	auth := handler.NewAuthHandler(d.Auth, d.AccessTTL)
	login := middleware.LoginRequired()

	// 公开页面，首页带 20 秒整页缓存
	r.GET("/", middleware.CachePage(d.PageStore, d.HomeCacheTTL, "index", d.Log), feed.Index)
	r.GET("/group/:slug/", feed.GroupPosts)
	r.GET("/profile/:username/", feed.Profile)
	r.GET("/posts/:post_id/", post.Detail)

	// 帖子相关接口
	r.GET("/create/", login, post.CreateForm)
	r.POST("/create/", login, post.Create)
	r.GET("/posts/:post_id/edit/", login, post.EditForm)
	r.POST("/posts/:post_id/edit/", login, post.Edit)
	r.POST("/posts/:post_id/comment/", login, post.AddComment)

	// 用户关注相关接口
	r.GET("/follow/", login, feed.FollowIndex)
	for _, m := range []string{http.MethodGet, http.MethodPost} {
		r.Handle(m, "/profile/:username/follow/", login, follow.Follow)
		r.Handle(m, "/profile/:username/unfollow/", login, follow.Unfollow)
	}

	// 登录态接口
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login/", auth.LoginForm)
		authGroup.POST("/login/", auth.Login)
		authGroup.POST("/logout/", login, auth.Logout)
		authGroup.POST("/token/refresh/", auth.TokenRefresh)
	}

	gqlHandler, err := gql.New(d.Feed, d.Posts, d.Groups, d.Log)
	if err != nil {
		return nil, err
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	apiGroup := r.Group("")
	{
		apiGroup.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"POST", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300 * time.Second,
		}))
		apiGroup.Any("/graphql", gin.WrapH(gqlHandler))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	})

	return r, nil
}
