package dto

import (
	"time"

	"acms/internal/domain/skill"

	"github.com/google/uuid"
)

type CategoryResponse struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type SkillResponse struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type SkillRatingResponse struct {
	ID        uuid.UUID     `json:"id"`
	Skill     SkillResponse `json:"skill"`
	Rating    float64       `json:"rating"`
	Comment   *string       `json:"comment"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewCategoryResponse(c skill.Category) CategoryResponse {
	return CategoryResponse{Slug: c.Slug, Name: c.Name, CreatedAt: c.CreatedAt}
}

func NewCategoryListResponse(items []skill.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{Slug: s.Slug, Name: s.Name, Category: s.CategorySlug}
}

func NewSkillListResponse(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewSkillResponse(s))
	}
	return out
}

func NewSkillRatingResponse(r skill.Rating) SkillRatingResponse {
	s := r.Skill
	if s.Slug == "" {
		s.Slug = r.SkillSlug
	}
	return SkillRatingResponse{
		ID:        r.ID,
		Skill:     NewSkillResponse(s),
		Rating:    r.Rating,
		Comment:   optional(r.Comment),
		UpdatedAt: r.UpdatedAt,
	}
}

func NewSkillRatingListResponse(items []skill.Rating) []SkillRatingResponse {
	out := make([]SkillRatingResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewSkillRatingResponse(r))
	}
	return out
}
