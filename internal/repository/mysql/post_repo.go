package mysql

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const postOrder = "created_at DESC, id DESC"

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// BulkCreate 批量插入，created_at 可能相同，靠 id 打破并列
func (r *PostRepository) BulkCreate(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).CreateInBatches(posts, 100).Error
}

// Update 只改正文、分组、图片；group_id 为 nil 时清空
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Model(post).
		Select("text", "group_id", "image").
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// Delete 硬删除，连带评论
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (r *PostRepository) count(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Scopes(scope).Count(&n).Error
	return n, err
}

func (r *PostRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Scopes(scope).
		Preload("Author").
		Preload("Group").
		Order(postOrder).
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func all(db *gorm.DB) *gorm.DB { return db }

func byGroup(groupID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("group_id = ?", groupID) }
}

func byAuthor(authorID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("author_id = ?", authorID) }
}

func byAuthors(authorIDs []uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("author_id IN ?", authorIDs) }
}

func (r *PostRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, all)
}

func (r *PostRepository) ListAll(ctx context.Context, offset, limit int) ([]model.Post, error) {
	return r.list(ctx, all, offset, limit)
}

func (r *PostRepository) CountByGroup(ctx context.Context, groupID uint64) (int64, error) {
	return r.count(ctx, byGroup(groupID))
}

// ListByGroup 索引 (group_id) + (created_at DESC, id DESC)
func (r *PostRepository) ListByGroup(ctx context.Context, groupID uint64, offset, limit int) ([]model.Post, error) {
	return r.list(ctx, byGroup(groupID), offset, limit)
}

func (r *PostRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	return r.count(ctx, byAuthor(authorID))
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]model.Post, error) {
	return r.list(ctx, byAuthor(authorID), offset, limit)
}

func (r *PostRepository) CountByAuthors(ctx context.Context, authorIDs []uint64) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	return r.count(ctx, byAuthors(authorIDs))
}

func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []uint64, offset, limit int) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return []model.Post{}, nil
	}
	return r.list(ctx, byAuthors(authorIDs), offset, limit)
}
