package dto

import (
	"time"

	"acms/internal/domain/project"
	"acms/internal/usecase"

	"github.com/google/uuid"
)

type ProjectResponse struct {
	Slug           string      `json:"slug"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	RequiredSkills []string    `json:"required_skills"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	CreatedBy      *uuid.UUID  `json:"created_by"`
	Members        []uuid.UUID `json:"members"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// SuggestedDeveloperResponse is one entry of a project's suggestion list.
type SuggestedDeveloperResponse struct {
	DeveloperProfile DeveloperProfileResponse `json:"developer_profile"`
	Skills           []string                 `json:"skills"`
	MatchPercentage  float64                  `json:"match_percentage"`
}

func NewProjectResponse(p project.Project) ProjectResponse {
	skills := p.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	members := p.Members
	if members == nil {
		members = []uuid.UUID{}
	}
	return ProjectResponse{
		Slug:           p.Slug,
		Name:           p.Name,
		Description:    p.Description,
		RequiredSkills: skills,
		StartDate:      p.StartDate.Format(dateLayout),
		EndDate:        p.EndDate.Format(dateLayout),
		CreatedBy:      p.CreatedBy,
		Members:        members,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func NewProjectListResponse(items []project.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewProjectResponse(p))
	}
	return out
}

func NewSuggestedDeveloperListResponse(items []usecase.SuggestedDeveloper) []SuggestedDeveloperResponse {
	out := make([]SuggestedDeveloperResponse, 0, len(items))
	for _, s := range items {
		skills := s.Skills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, SuggestedDeveloperResponse{
			DeveloperProfile: NewDeveloperProfileResponse(s.Profile),
			Skills:           skills,
			MatchPercentage:  s.MatchPercentage,
		})
	}
	return out
}
