package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc      *service.PostService
	comments *service.CommentService
	groups   *service.GroupService
}

func NewPostHandler(svc *service.PostService, comments *service.CommentService, groups *service.GroupService) *PostHandler {
	return &PostHandler{svc: svc, comments: comments, groups: groups}
}

// PostReq 表单或 JSON 都可以，图片只能走 multipart
type PostReq struct {
	Text  string `form:"text" json:"text" binding:"required"`
	Group string `form:"group" json:"group"`
}

type CommentReq struct {
	Text string `form:"text" json:"text" binding:"required"`
}

func formOf(p *model.Post) gin.H {
	form := gin.H{"text": "", "group": ""}
	if p != nil {
		form["text"] = p.Text
		if p.GroupID != nil {
			form["group"] = strconv.FormatUint(*p.GroupID, 10)
		}
	}
	return form
}

func (h *PostHandler) renderForm(c *gin.Context, status int, form gin.H, isEdit bool, errs map[string]string) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	body := gin.H{"form": form, "groups": groups, "is_edit": isEdit}
	if errs != nil {
		body["msg"] = "invalid params"
		body["errors"] = errs
	}
	c.JSON(status, body)
}

// bindPostForm 解析请求，返回给 service 的表单和回显用的 form
func bindPostForm(c *gin.Context) (service.PostForm, gin.H, map[string]string) {
	var req PostReq
	bindErr := c.ShouldBind(&req)
	echo := gin.H{"text": req.Text, "group": req.Group}

	errs := map[string]string{}
	if bindErr != nil {
		errs = bindErrors(bindErr)
	}

	form := service.PostForm{Text: req.Text}
	if g := strings.TrimSpace(req.Group); g != "" {
		id, err := strconv.ParseUint(g, 10, 64)
		if err != nil {
			errs["group"] = "Select a valid choice. That choice is not one of the available choices."
		} else {
			form.GroupID = &id
		}
	}

	if fh, err := c.FormFile("image"); err == nil {
		upload, err := openUpload(fh)
		if err != nil {
			errs["image"] = "The submitted file is empty."
		} else {
			form.Image = upload
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		errs["image"] = "No file was submitted."
	}

	if len(errs) == 0 {
		errs = nil
	}
	return form, echo, errs
}

func openUpload(fh *multipart.FileHeader) (*service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, nil
}

func closeUpload(form service.PostForm) {
	if form.Image == nil {
		return
	}
	if closer, ok := form.Image.Body.(multipart.File); ok {
		_ = closer.Close()
	}
}

// Detail 帖子详情 + 评论
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "post_id")
	if !ok {
		return
	}
	detail, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     detail.Post,
		"comments": detail.Comments,
		"form":     gin.H{"text": ""},
	})
}

func (h *PostHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formOf(nil), false, nil)
}

// Create 创建帖子接口，成功后跳到自己的主页
func (h *PostHandler) Create(c *gin.Context) {
	form, echo, errs := bindPostForm(c)
	defer closeUpload(form)
	if errs != nil {
		h.renderForm(c, http.StatusBadRequest, echo, false, errs)
		return
	}

	_, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), form)
	if fields, ok := formErrors(err); ok {
		h.renderForm(c, http.StatusBadRequest, echo, false, fields)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(middleware.Username(c)))
}

// EditForm 非作者静默跳回详情页
func (h *PostHandler) EditForm(c *gin.Context) {
	id, ok := pathID(c, "post_id")
	if !ok {
		return
	}
	post, err := h.svc.EditForm(c.Request.Context(), middleware.UserID(c), id)
	if errors.Is(err, pkg.ErrForbidden) {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, formOf(post), true, nil)
}

func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := pathID(c, "post_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	viewerID := middleware.UserID(c)

	// 先判断权限，非作者不看表单内容
	if _, err := h.svc.EditForm(ctx, viewerID, id); err != nil {
		if errors.Is(err, pkg.ErrForbidden) {
			c.Redirect(http.StatusFound, postURL(id))
			return
		}
		fail(c, err)
		return
	}

	form, echo, errs := bindPostForm(c)
	defer closeUpload(form)
	if errs != nil {
		h.renderForm(c, http.StatusBadRequest, echo, true, errs)
		return
	}

	_, err := h.svc.Edit(ctx, viewerID, id, form)
	switch {
	case errors.Is(err, pkg.ErrForbidden):
		c.Redirect(http.StatusFound, postURL(id))
		return
	case err != nil:
		if fields, ok := formErrors(err); ok {
			h.renderForm(c, http.StatusBadRequest, echo, true, fields)
			return
		}
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// AddComment 无效评论也跳回详情页，只是不保存
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "post_id")
	if !ok {
		return
	}
	var req CommentReq
	_ = c.ShouldBind(&req)

	_, err := h.comments.Add(c.Request.Context(), middleware.UserID(c), id, req.Text)
	if err != nil {
		if _, invalid := formErrors(err); !invalid {
			fail(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, postURL(id))
}
