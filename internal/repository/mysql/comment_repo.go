package mysql

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
