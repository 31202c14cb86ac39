package usecase

import (
	"context"
	"errors"
	"strings"

	"acms/internal/domain/skill"
	"acms/internal/repository"

	"github.com/google/uuid"
)

type RateSkillInput struct {
	Skill   string
	Rating  float64
	Comment string
}

type SkillRatingUsecase interface {
	ListRatings(ctx context.Context, userID uuid.UUID) ([]skill.Rating, error)
	RateSkill(ctx context.Context, userID uuid.UUID, in RateSkillInput) (skill.Rating, error)
}

type SkillRating struct {
	profiles repository.DeveloperProfileRepository
	ratings  repository.SkillRatingRepository
}

func NewSkillRatingUsecase(profiles repository.DeveloperProfileRepository, ratings repository.SkillRatingRepository) *SkillRating {
	return &SkillRating{profiles: profiles, ratings: ratings}
}

func (u *SkillRating) ListRatings(ctx context.Context, userID uuid.UUID) ([]skill.Rating, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, profileError(err)
	}
	items, err := u.ratings.ListByProfile(ctx, p.ID)
	if err != nil {
		return nil, ErrInternal
	}
	return nonNil(items), nil
}

// RateSkill records the developer's rating of a skill, replacing an earlier
// rating of the same skill.
func (u *SkillRating) RateSkill(ctx context.Context, userID uuid.UUID, in RateSkillInput) (skill.Rating, error) {
	slug := strings.TrimSpace(in.Skill)
	if slug == "" {
		return skill.Rating{}, invalid("skill", "This field is required")
	}
	if !skill.ValidRating(in.Rating) {
		return skill.Rating{}, invalid("rating", "Rating must be between 0.0 and 10.0 with at most one decimal place")
	}
	comment := strings.TrimSpace(in.Comment)
	if len([]rune(comment)) > skill.MaxCommentLength {
		return skill.Rating{}, invalid("comment", "Ensure this field has no more than 255 characters")
	}

	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return skill.Rating{}, profileError(err)
	}

	rt, err := u.ratings.Upsert(ctx, skill.Rating{
		DeveloperProfileID: p.ID,
		SkillSlug:          slug,
		Rating:             in.Rating,
		Comment:            comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.Rating{}, invalid("skill", "Skill \""+slug+"\" does not exist")
		}
		return skill.Rating{}, ErrInternal
	}
	return rt, nil
}
