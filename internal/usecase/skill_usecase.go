package usecase

import (
	"context"
	"errors"
	"strings"

	"acms/internal/database"
	"acms/internal/domain/skill"
	"acms/internal/infrastructure/cache"
	"acms/internal/repository"
	"acms/internal/search"
)

type CreateSkillInput struct {
	Name     string
	Category string
}

type UpdateSkillInput struct {
	Name     *string
	Category *string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]skill.Skill, error)
	SearchSkills(ctx context.Context, query string) ([]skill.Skill, error)
	GetSkill(ctx context.Context, slug string) (skill.Skill, error)
	CreateSkills(ctx context.Context, in []CreateSkillInput) ([]skill.Skill, error)
	UpdateSkill(ctx context.Context, slug string, in UpdateSkillInput) (skill.Skill, error)
	DeleteSkill(ctx context.Context, slug string) error
	DeleteAllSkills(ctx context.Context) (int64, error)
}

type Skill struct {
	repo  repository.SkillRepository
	tx    database.Transactor
	cache Cache
}

func NewSkillUsecase(repo repository.SkillRepository, tx database.Transactor, c Cache) *Skill {
	return &Skill{repo: repo, tx: tx, cache: c}
}

func (u *Skill) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	var cached []skill.Skill
	if u.cache != nil {
		if hit, err := u.cache.GetJSON(ctx, cache.KeySkillList, &cached); err == nil && hit {
			return nonNil(cached), nil
		}
	}

	items, err := u.repo.GetAllSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	items = nonNil(items)
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cache.KeySkillList, items, 0)
	}
	return items, nil
}

// SearchSkills filters the catalog by name, best matches first. Aliases such
// as "golang" or "k8s" resolve to the catalog names.
func (u *Skill) SearchSkills(ctx context.Context, query string) ([]skill.Skill, error) {
	items, err := u.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	return search.Rank(items, func(s skill.Skill) string { return s.Name }, search.Parse(query)), nil
}

func (u *Skill) GetSkill(ctx context.Context, slug string) (skill.Skill, error) {
	s, err := u.repo.GetBySlug(ctx, slug)
	if err != nil {
		return skill.Skill{}, skillError(err)
	}
	return s, nil
}

// CreateSkills stores a batch of skills. Either every skill is created or
// none is.
func (u *Skill) CreateSkills(ctx context.Context, in []CreateSkillInput) ([]skill.Skill, error) {
	if len(in) == 0 {
		return nil, invalid("skills", "At least one skill is required")
	}

	pending := make([]skill.Skill, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, it := range in {
		name, slug, err := catalogName(it.Name)
		if err != nil {
			return nil, err
		}
		category := strings.TrimSpace(it.Category)
		if category == "" {
			return nil, invalid("category", "This field is required")
		}
		if seen[slug] {
			return nil, ErrSkillExists
		}
		seen[slug] = true
		pending = append(pending, skill.Skill{Slug: slug, Name: name, CategorySlug: category})
	}

	created := make([]skill.Skill, 0, len(pending))
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, s := range pending {
			c, err := u.repo.CreateSkill(ctx, s)
			if err != nil {
				if errors.Is(err, repository.ErrCategoryNotFound) {
					return invalid("category", "Category \""+s.CategorySlug+"\" does not exist")
				}
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, skillError(err)
	}

	u.invalidate(ctx)
	return created, nil
}

func (u *Skill) UpdateSkill(ctx context.Context, slug string, in UpdateSkillInput) (skill.Skill, error) {
	current, err := u.repo.GetBySlug(ctx, slug)
	if err != nil {
		return skill.Skill{}, skillError(err)
	}

	name, category := current.Name, current.CategorySlug
	if in.Name != nil {
		if name, _, err = catalogName(*in.Name); err != nil {
			return skill.Skill{}, err
		}
	}
	if in.Category != nil {
		category = strings.TrimSpace(*in.Category)
		if category == "" {
			return skill.Skill{}, invalid("category", "This field is required")
		}
	}

	updated, err := u.repo.UpdateSkill(ctx, slug, name, category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return skill.Skill{}, invalid("category", "Category \""+category+"\" does not exist")
		}
		return skill.Skill{}, skillError(err)
	}
	u.invalidate(ctx)
	return updated, nil
}

func (u *Skill) DeleteSkill(ctx context.Context, slug string) error {
	if err := u.repo.DeleteSkill(ctx, slug); err != nil {
		return skillError(err)
	}
	u.invalidate(ctx)
	return nil
}

func (u *Skill) DeleteAllSkills(ctx context.Context) (int64, error) {
	n, err := u.repo.DeleteAll(ctx)
	if err != nil {
		return 0, ErrInternal
	}
	u.invalidate(ctx)
	return n, nil
}

func (u *Skill) invalidate(ctx context.Context) {
	if u.cache != nil {
		_ = u.cache.InvalidateCatalog(ctx)
	}
}

func skillError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSkillNotFound):
		return ErrSkillNotFound
	case errors.Is(err, repository.ErrSkillExists):
		return ErrSkillExists
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	default:
		return ErrInternal
	}
}
