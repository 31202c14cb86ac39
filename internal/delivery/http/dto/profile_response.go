package dto

import (
	"time"

	"acms/internal/domain/profile"
	"acms/internal/domain/project"
	"acms/internal/usecase"

	"github.com/google/uuid"
)

const dateLayout = project.DateLayout

type DeveloperProfileResponse struct {
	ID                      uuid.UUID `json:"id"`
	UserID                  uuid.UUID `json:"user_id"`
	Email                   string    `json:"email"`
	FirstName               string    `json:"first_name"`
	LastName                string    `json:"last_name"`
	Availability            bool      `json:"availability"`
	CurrentProject          *string   `json:"current_project"`
	CurrentProjectStartDate *string   `json:"current_project_start_date"`
	CurrentProjectEndDate   *string   `json:"current_project_end_date"`
	EmploymentStatus        string    `json:"employment_status"`
	JobInformation          string    `json:"job_information"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type ProfileDetailResponse struct {
	DeveloperProfileResponse
	SkillRatings   []SkillRatingResponse    `json:"skill_ratings"`
	WorkExperience []WorkExperienceResponse `json:"work_experience"`
	Education      []EducationResponse      `json:"education"`
}

type WorkExperienceResponse struct {
	ID          uuid.UUID `json:"id"`
	JobTitle    string    `json:"job_title"`
	CompanyName string    `json:"company_name"`
	SkillsUsed  []string  `json:"skills_used"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
}

type EducationResponse struct {
	ID         uuid.UUID `json:"id"`
	SchoolName string    `json:"school_name"`
	Program    string    `json:"program"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
}

func NewDeveloperProfileResponse(p profile.DeveloperProfile) DeveloperProfileResponse {
	return DeveloperProfileResponse{
		ID:                      p.ID,
		UserID:                  p.UserID,
		Email:                   p.Email,
		FirstName:               p.FirstName,
		LastName:                p.LastName,
		Availability:            p.Availability,
		CurrentProject:          optional(p.CurrentProject),
		CurrentProjectStartDate: optionalDate(p.CurrentProjectStartDate),
		CurrentProjectEndDate:   optionalDate(p.CurrentProjectEndDate),
		EmploymentStatus:        string(p.EmploymentStatus),
		JobInformation:          string(p.JobInformation),
		UpdatedAt:               p.UpdatedAt,
	}
}

func NewDeveloperProfileListResponse(items []profile.DeveloperProfile) []DeveloperProfileResponse {
	out := make([]DeveloperProfileResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewDeveloperProfileResponse(p))
	}
	return out
}

func NewProfileDetailResponse(d usecase.ProfileDetail) ProfileDetailResponse {
	resp := ProfileDetailResponse{
		DeveloperProfileResponse: NewDeveloperProfileResponse(d.Profile),
		SkillRatings:             NewSkillRatingListResponse(d.Ratings),
		WorkExperience:           make([]WorkExperienceResponse, 0, len(d.WorkExperience)),
		Education:                make([]EducationResponse, 0, len(d.Education)),
	}
	for _, w := range d.WorkExperience {
		resp.WorkExperience = append(resp.WorkExperience, NewWorkExperienceResponse(w))
	}
	for _, e := range d.Education {
		resp.Education = append(resp.Education, NewEducationResponse(e))
	}
	return resp
}

func NewWorkExperienceResponse(w profile.WorkExperience) WorkExperienceResponse {
	skills := w.SkillsUsed
	if skills == nil {
		skills = []string{}
	}
	return WorkExperienceResponse{
		ID:          w.ID,
		JobTitle:    w.JobTitle,
		CompanyName: w.CompanyName,
		SkillsUsed:  skills,
		StartDate:   w.StartDate.Format(dateLayout),
		EndDate:     w.EndDate.Format(dateLayout),
	}
}

func NewEducationResponse(e profile.Education) EducationResponse {
	return EducationResponse{
		ID:         e.ID,
		SchoolName: e.SchoolName,
		Program:    e.Program,
		StartDate:  e.StartDate.Format(dateLayout),
		EndDate:    e.EndDate.Format(dateLayout),
	}
}
