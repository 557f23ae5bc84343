package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	svc *service.FeedService
}

func NewFeedHandler(svc *service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// Index 首页，全部帖子
func (h *FeedHandler) Index(c *gin.Context) {
	page, err := h.svc.Home(c.Request.Context(), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page_obj": page})
}

func (h *FeedHandler) GroupPosts(c *gin.Context) {
	feed, err := h.svc.Group(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": feed.Group, "page_obj": feed.Page})
}

func (h *FeedHandler) Profile(c *gin.Context) {
	feed, err := h.svc.Profile(c.Request.Context(), c.Param("username"), middleware.UserID(c), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"author":    feed.Author,
		"following": feed.Following,
		"page_obj":  feed.Page,
	})
}

// FollowIndex 关注作者的帖子
func (h *FeedHandler) FollowIndex(c *gin.Context) {
	page, err := h.svc.Follow(c.Request.Context(), middleware.UserID(c), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page_obj": page})
}
