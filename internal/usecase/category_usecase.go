package usecase

import (
	"context"
	"errors"
	"strings"

	"acms/internal/domain/skill"
	"acms/internal/infrastructure/cache"
	"acms/internal/repository"
)

type CategoryUsecase interface {
	ListCategories(ctx context.Context) ([]skill.Category, error)
	GetCategory(ctx context.Context, slug string) (skill.Category, error)
	CreateCategory(ctx context.Context, name string) (skill.Category, error)
	UpdateCategory(ctx context.Context, slug, name string) (skill.Category, error)
	DeleteCategory(ctx context.Context, slug string) error
}

type Category struct {
	repo  repository.CategoryRepository
	cache Cache
}

func NewCategoryUsecase(repo repository.CategoryRepository, c Cache) *Category {
	return &Category{repo: repo, cache: c}
}

func (u *Category) ListCategories(ctx context.Context) ([]skill.Category, error) {
	var cached []skill.Category
	if u.cache != nil {
		if hit, err := u.cache.GetJSON(ctx, cache.KeyCategoryList, &cached); err == nil && hit {
			return nonNil(cached), nil
		}
	}

	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	items = nonNil(items)
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cache.KeyCategoryList, items, 0)
	}
	return items, nil
}

func (u *Category) GetCategory(ctx context.Context, slug string) (skill.Category, error) {
	c, err := u.repo.GetBySlug(ctx, slug)
	if err != nil {
		return skill.Category{}, categoryError(err)
	}
	return c, nil
}

func (u *Category) CreateCategory(ctx context.Context, name string) (skill.Category, error) {
	name, slug, err := catalogName(name)
	if err != nil {
		return skill.Category{}, err
	}
	created, err := u.repo.Create(ctx, skill.Category{Slug: slug, Name: name})
	if err != nil {
		return skill.Category{}, categoryError(err)
	}
	u.invalidate(ctx)
	return created, nil
}

// UpdateCategory renames a category. Its slug is the stable identifier and
// does not follow the new name.
func (u *Category) UpdateCategory(ctx context.Context, slug, name string) (skill.Category, error) {
	name, _, err := catalogName(name)
	if err != nil {
		return skill.Category{}, err
	}
	updated, err := u.repo.Rename(ctx, slug, name)
	if err != nil {
		return skill.Category{}, categoryError(err)
	}
	u.invalidate(ctx)
	return updated, nil
}

func (u *Category) DeleteCategory(ctx context.Context, slug string) error {
	if err := u.repo.Delete(ctx, slug); err != nil {
		return categoryError(err)
	}
	u.invalidate(ctx)
	return nil
}

func (u *Category) invalidate(ctx context.Context) {
	if u.cache != nil {
		_ = u.cache.InvalidateCatalog(ctx)
	}
}

// catalogName validates a category or skill name and derives its slug.
func catalogName(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", invalid("name", "This field is required")
	}
	if len([]rune(name)) > skill.MaxNameLength {
		return "", "", invalid("name", "Ensure this field has no more than 20 characters")
	}
	slug := skill.SlugFor(name)
	if slug == "" {
		return "", "", invalid("name", "Name must contain letters or digits")
	}
	return name, slug, nil
}

func categoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repository.ErrCategoryExists):
		return ErrCategoryExists
	default:
		return ErrInternal
	}
}
