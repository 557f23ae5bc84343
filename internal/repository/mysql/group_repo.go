package mysql

import (
	"context"
	"errors"

	"yatube/internal/model"
	"yatube/internal/pkg"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	err := r.DB.WithContext(ctx).Create(g).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkg.ErrAlreadyExists
	}
	return err
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint64) (*model.Group, error) {
	var group model.Group
	if err := r.DB.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}

func (r *GroupRepository) FindBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var group model.Group
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]model.Group, error) {
	var list []model.Group
	err := r.DB.WithContext(ctx).Order("title ASC, id ASC").Find(&list).Error
	return list, err
}
