package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// fail 统一错误出口
func fail(c *gin.Context, err error) {
	var verr *pkg.ValidationError
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params", "errors": verr.Fields})
	case errors.Is(err, pkg.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
	case errors.Is(err, pkg.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
	case errors.Is(err, pkg.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"msg": "already exists"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
	}
}

// bindErrors validator 的错误转成 字段 -> 提示
func bindErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["__all__"] = "malformed request"
		return out
	}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "This field is required."
		case "max":
			out[field] = "Ensure this value has at most " + fe.Param() + " characters."
		default:
			out[field] = "Enter a valid value."
		}
	}
	return out
}

func formErrors(err error) (map[string]string, bool) {
	var verr *pkg.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// pathID 路径里的数字 id，非法按不存在处理
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, pkg.ErrNotFound)
		return 0, false
	}
	return id, true
}

func postURL(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

const followURL = "/follow/"
