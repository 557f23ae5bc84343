package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

const (
	ImagePrefix  = "posts"
	MaxImageSize = 5 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Upload 一张待保存的图片
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PostForm 新建/编辑共用；GroupID 为 nil 表示不属于任何分组
type PostForm struct {
	Text    string
	GroupID *uint64
	Image   *Upload
}

type PostDetail struct {
	Post     *model.Post
	Comments []model.Comment
}

type PostService struct {
	posts    PostRepository
	groups   GroupRepository
	comments CommentRepository
	images   ImageStore
}

func NewPostService(posts PostRepository, groups GroupRepository, comments CommentRepository, images ImageStore) *PostService {
	return &PostService{posts: posts, groups: groups, comments: comments, images: images}
}

func (s *PostService) Detail(ctx context.Context, id uint64) (*PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// validate 校验表单，图片类型以内容为准
func (s *PostService) validate(ctx context.Context, form *PostForm) error {
	verr := &pkg.ValidationError{}

	form.Text = strings.TrimSpace(form.Text)
	if form.Text == "" {
		verr.Add("text", "This field is required.")
	}

	if form.GroupID != nil {
		if _, err := s.groups.FindByID(ctx, *form.GroupID); err != nil {
			if !errors.Is(err, pkg.ErrNotFound) {
				return err
			}
			verr.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		}
	}

	if img := form.Image; img != nil {
		switch {
		case img.Size > MaxImageSize:
			verr.Add("image", "Image is too large.")
		default:
			ct, body := sniff(img)
			img.ContentType, img.Body = ct, body
			if !allowedImageTypes[ct] {
				verr.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
			}
		}
	}

	return verr.OrNil()
}

// sniff 按文件头判断类型，客户端声明的 Content-Type 不可信
func sniff(img *Upload) (string, io.Reader) {
	br := bufio.NewReaderSize(img.Body, 512)
	head, _ := br.Peek(512)
	return http.DetectContentType(head), br
}

func (s *PostService) storeImage(ctx context.Context, img *Upload) (string, error) {
	if img == nil {
		return "", nil
	}
	return s.images.Put(ctx, ImagePrefix, img.Filename, img.ContentType, img.Size, img.Body)
}

// Create 返回新建的帖子；校验失败时返回 *pkg.ValidationError，不写库
func (s *PostService) Create(ctx context.Context, authorID uint64, form PostForm) (*model.Post, error) {
	if authorID == 0 {
		return nil, pkg.ErrUnauthenticated
	}
	if err := s.validate(ctx, &form); err != nil {
		return nil, err
	}
	image, err := s.storeImage(ctx, form.Image)
	if err != nil {
		return nil, err
	}
	post := &model.Post{
		Text:     form.Text,
		GroupID:  form.GroupID,
		AuthorID: authorID,
		Image:    image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// EditForm 编辑页数据；非作者返回 ErrForbidden
func (s *PostService) EditForm(ctx context.Context, viewerID, id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerID == 0 || post.AuthorID != viewerID {
		return nil, pkg.ErrForbidden
	}
	return post, nil
}

// Edit 作者原地修改正文和分组，只有上传了新图才替换图片
func (s *PostService) Edit(ctx context.Context, viewerID, id uint64, form PostForm) (*model.Post, error) {
	post, err := s.EditForm(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &form); err != nil {
		return nil, err
	}
	if form.Image != nil {
		image, err := s.storeImage(ctx, form.Image)
		if err != nil {
			return nil, err
		}
		post.Image = image
	}
	post.Text = form.Text
	post.GroupID = form.GroupID
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, id)
}

// BulkCreate 批量写入（管理命令、测试数据）
func (s *PostService) BulkCreate(ctx context.Context, posts []*model.Post) error {
	return s.posts.BulkCreate(ctx, posts)
}

func (s *PostService) Delete(ctx context.Context, id uint64) error {
	return s.posts.Delete(ctx, id)
}
