package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/pkg"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc       *service.AuthService
	cookieTTL time.Duration
}

func NewAuthHandler(svc *service.AuthService, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, cookieTTL: cookieTTL}
}

type LoginReq struct {
	Username string `form:"username" json:"username" binding:"required,max=150"`
	Password string `form:"password" json:"password" binding:"required"`
}

type RefreshReq struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token" binding:"required"`
}

// safeNext 只允许站内相对路径
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func (h *AuthHandler) setCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, maxAge, "/", "", false, true)
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"msg":  "login required",
		"next": safeNext(c.Query("next")),
		"form": gin.H{"username": "", "password": ""},
	})
}

// Login 登录接口，带 next 时登录后跳回去
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params", "errors": bindErrors(err)})
		return
	}

	token, _, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	h.setCookie(c, token.AccessToken, int(h.cookieTTL.Seconds()))
	if next := safeNext(c.Query("next")); next != "" {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token.AccessToken, "refresh_token": token.RefreshToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// TokenRefresh 利用refresh来更新access
func (h *AuthHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params", "errors": bindErrors(err)})
		return
	}

	token, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, pkg.ErrRefreshInvalid) || errors.Is(err, pkg.ErrRefreshExpired) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	h.setCookie(c, token.AccessToken, int(h.cookieTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"access_token": token.AccessToken, "refresh_token": token.RefreshToken})
}
