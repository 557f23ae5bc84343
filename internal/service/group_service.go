package service

import (
	"context"
	"regexp"
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService struct {
	groups GroupRepository
}

func NewGroupService(groups GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title, slug = strings.TrimSpace(title), strings.TrimSpace(slug)
	verr := &pkg.ValidationError{}
	if title == "" {
		verr.Add("title", "This field is required.")
	}
	switch {
	case slug == "":
		verr.Add("slug", "This field is required.")
	case !slugRe.MatchString(slug):
		verr.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	g := &model.Group{Title: title, Slug: slug, Description: description}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	return s.groups.List(ctx)
}
