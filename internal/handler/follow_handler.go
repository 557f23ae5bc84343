package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(svc *service.FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// Follow 关注接口，结果都跳到关注流
func (h *FollowHandler) Follow(c *gin.Context) {
	if _, err := h.svc.Follow(c.Request.Context(), middleware.UserID(c), c.Param("username")); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, followURL)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	if _, err := h.svc.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("username")); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, followURL)
}
