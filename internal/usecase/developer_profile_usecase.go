package usecase

import (
	"context"
	"errors"
	"strings"

	"acms/internal/database"
	"acms/internal/domain/profile"
	"acms/internal/domain/skill"
	"acms/internal/repository"

	"github.com/google/uuid"
)

const (
	maxJobTitleLength    = 255
	maxCompanyNameLength = 50
	maxSchoolNameLength  = 255
	maxProgramLength     = 255
)

type ProfileDetail struct {
	Profile        profile.DeveloperProfile
	Ratings        []skill.Rating
	WorkExperience []profile.WorkExperience
	Education      []profile.Education
}

type WorkExperienceInput struct {
	JobTitle    string
	CompanyName string
	SkillsUsed  []string
	StartDate   string
	EndDate     string
}

type EducationInput struct {
	SchoolName string
	Program    string
	StartDate  string
	EndDate    string
}

type UpdateProfileInput struct {
	EmploymentStatus *string
	JobInformation   *string
	WorkExperience   []WorkExperienceInput
	Education        []EducationInput
}

type DeveloperProfileUsecase interface {
	ListProfiles(ctx context.Context, availability *bool) ([]profile.DeveloperProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (ProfileDetail, error)
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (ProfileDetail, error)
	UpdateOwnProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileDetail, error)

	GetWorkExperience(ctx context.Context, userID, id uuid.UUID) (profile.WorkExperience, error)
	UpdateWorkExperience(ctx context.Context, userID, id uuid.UUID, in WorkExperienceInput) (profile.WorkExperience, error)
	DeleteWorkExperience(ctx context.Context, userID, id uuid.UUID) error

	GetEducation(ctx context.Context, userID, id uuid.UUID) (profile.Education, error)
	UpdateEducation(ctx context.Context, userID, id uuid.UUID, in EducationInput) (profile.Education, error)
	DeleteEducation(ctx context.Context, userID, id uuid.UUID) error
}

type DeveloperProfile struct {
	profiles repository.DeveloperProfileRepository
	history  repository.ProfileHistoryRepository
	ratings  repository.SkillRatingRepository
	tx       database.Transactor
}

func NewDeveloperProfileUsecase(
	profiles repository.DeveloperProfileRepository,
	history repository.ProfileHistoryRepository,
	ratings repository.SkillRatingRepository,
	tx database.Transactor,
) *DeveloperProfile {
	return &DeveloperProfile{profiles: profiles, history: history, ratings: ratings, tx: tx}
}

func (u *DeveloperProfile) ListProfiles(ctx context.Context, availability *bool) ([]profile.DeveloperProfile, error) {
	items, err := u.profiles.List(ctx, availability)
	if err != nil {
		return nil, ErrInternal
	}
	if items == nil {
		items = []profile.DeveloperProfile{}
	}
	return items, nil
}

func (u *DeveloperProfile) GetProfile(ctx context.Context, id uuid.UUID) (ProfileDetail, error) {
	p, err := u.profiles.GetByID(ctx, id)
	if err != nil {
		return ProfileDetail{}, profileError(err)
	}
	return u.detail(ctx, p)
}

func (u *DeveloperProfile) GetOwnProfile(ctx context.Context, userID uuid.UUID) (ProfileDetail, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return ProfileDetail{}, profileError(err)
	}
	return u.detail(ctx, p)
}

// UpdateOwnProfile appends the given history entries and applies the
// employment fields in one transaction.
func (u *DeveloperProfile) UpdateOwnProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (ProfileDetail, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return ProfileDetail{}, profileError(err)
	}

	status, info := p.EmploymentStatus, p.JobInformation
	if in.EmploymentStatus != nil {
		status, err = profile.ParseEmploymentStatus(*in.EmploymentStatus)
		if err != nil {
			return ProfileDetail{}, invalid("employment_status", "Must be one of INTERN, EMPLOYEE or NATIONAL SERVICE PERSONS")
		}
	}
	if in.JobInformation != nil {
		info, err = profile.ParseJobInformation(*in.JobInformation)
		if err != nil {
			return ProfileDetail{}, invalid("job_information", "Must be one of Associate, Junior Associate, Senior Associate or Expert")
		}
	}

	works := make([]profile.WorkExperience, 0, len(in.WorkExperience))
	for _, w := range in.WorkExperience {
		item, err := buildWorkExperience(w)
		if err != nil {
			return ProfileDetail{}, err
		}
		item.ID = uuid.New()
		item.DeveloperProfileID = p.ID
		works = append(works, item)
	}
	educations := make([]profile.Education, 0, len(in.Education))
	for _, e := range in.Education {
		item, err := buildEducation(e)
		if err != nil {
			return ProfileDetail{}, err
		}
		item.ID = uuid.New()
		item.DeveloperProfileID = p.ID
		educations = append(educations, item)
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if status != p.EmploymentStatus || info != p.JobInformation {
			if err := u.profiles.UpdateEmployment(ctx, p.ID, status, info); err != nil {
				return err
			}
		}
		for _, w := range works {
			if err := u.history.CreateWorkExperience(ctx, w); err != nil {
				return err
			}
		}
		for _, e := range educations {
			if err := u.history.CreateEducation(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ProfileDetail{}, ErrInternal
	}

	return u.GetOwnProfile(ctx, userID)
}

func (u *DeveloperProfile) GetWorkExperience(ctx context.Context, userID, id uuid.UUID) (profile.WorkExperience, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return profile.WorkExperience{}, profileError(err)
	}
	w, err := u.history.GetWorkExperience(ctx, id, p.ID)
	if err != nil {
		return profile.WorkExperience{}, historyError(err)
	}
	return w, nil
}

func (u *DeveloperProfile) UpdateWorkExperience(ctx context.Context, userID, id uuid.UUID, in WorkExperienceInput) (profile.WorkExperience, error) {
	current, err := u.GetWorkExperience(ctx, userID, id)
	if err != nil {
		return profile.WorkExperience{}, err
	}
	next, err := buildWorkExperience(in)
	if err != nil {
		return profile.WorkExperience{}, err
	}
	next.ID = current.ID
	next.DeveloperProfileID = current.DeveloperProfileID
	if err := u.history.UpdateWorkExperience(ctx, next); err != nil {
		return profile.WorkExperience{}, historyError(err)
	}
	updated, err := u.history.GetWorkExperience(ctx, current.ID, current.DeveloperProfileID)
	return updated, historyError(err)
}

func (u *DeveloperProfile) DeleteWorkExperience(ctx context.Context, userID, id uuid.UUID) error {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return profileError(err)
	}
	return historyError(u.history.DeleteWorkExperience(ctx, id, p.ID))
}

func (u *DeveloperProfile) GetEducation(ctx context.Context, userID, id uuid.UUID) (profile.Education, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Education{}, profileError(err)
	}
	e, err := u.history.GetEducation(ctx, id, p.ID)
	if err != nil {
		return profile.Education{}, historyError(err)
	}
	return e, nil
}

func (u *DeveloperProfile) UpdateEducation(ctx context.Context, userID, id uuid.UUID, in EducationInput) (profile.Education, error) {
	current, err := u.GetEducation(ctx, userID, id)
	if err != nil {
		return profile.Education{}, err
	}
	next, err := buildEducation(in)
	if err != nil {
		return profile.Education{}, err
	}
	next.ID = current.ID
	next.DeveloperProfileID = current.DeveloperProfileID
	if err := u.history.UpdateEducation(ctx, next); err != nil {
		return profile.Education{}, historyError(err)
	}
	updated, err := u.history.GetEducation(ctx, current.ID, current.DeveloperProfileID)
	return updated, historyError(err)
}

func (u *DeveloperProfile) DeleteEducation(ctx context.Context, userID, id uuid.UUID) error {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return profileError(err)
	}
	return historyError(u.history.DeleteEducation(ctx, id, p.ID))
}

func (u *DeveloperProfile) detail(ctx context.Context, p profile.DeveloperProfile) (ProfileDetail, error) {
	ratings, err := u.ratings.ListByProfile(ctx, p.ID)
	if err != nil {
		return ProfileDetail{}, ErrInternal
	}
	works, err := u.history.ListWorkExperience(ctx, p.ID)
	if err != nil {
		return ProfileDetail{}, ErrInternal
	}
	educations, err := u.history.ListEducation(ctx, p.ID)
	if err != nil {
		return ProfileDetail{}, ErrInternal
	}
	return ProfileDetail{
		Profile:        p,
		Ratings:        nonNil(ratings),
		WorkExperience: nonNil(works),
		Education:      nonNil(educations),
	}, nil
}

func buildWorkExperience(in WorkExperienceInput) (profile.WorkExperience, error) {
	title := strings.TrimSpace(in.JobTitle)
	company := strings.TrimSpace(in.CompanyName)
	if title == "" || len([]rune(title)) > maxJobTitleLength {
		return profile.WorkExperience{}, invalid("job_title", "Job title is required and must be at most 255 characters")
	}
	if company == "" || len([]rune(company)) > maxCompanyNameLength {
		return profile.WorkExperience{}, invalid("company_name", "Company name is required and must be at most 50 characters")
	}
	start, end, err := parsePeriod(in.StartDate, in.EndDate)
	if err != nil {
		return profile.WorkExperience{}, err
	}
	skills := make([]string, 0, len(in.SkillsUsed))
	for _, s := range in.SkillsUsed {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return profile.WorkExperience{
		JobTitle:    title,
		CompanyName: company,
		SkillsUsed:  skills,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func buildEducation(in EducationInput) (profile.Education, error) {
	school := strings.TrimSpace(in.SchoolName)
	program := strings.TrimSpace(in.Program)
	if school == "" || len([]rune(school)) > maxSchoolNameLength {
		return profile.Education{}, invalid("school_name", "School name is required and must be at most 255 characters")
	}
	if program == "" || len([]rune(program)) > maxProgramLength {
		return profile.Education{}, invalid("program", "Program is required and must be at most 255 characters")
	}
	start, end, err := parsePeriod(in.StartDate, in.EndDate)
	if err != nil {
		return profile.Education{}, err
	}
	return profile.Education{SchoolName: school, Program: program, StartDate: start, EndDate: end}, nil
}

func profileError(err error) error {
	if errors.Is(err, repository.ErrDeveloperProfileNotFound) {
		return ErrProfileNotFound
	}
	return ErrInternal
}

func historyError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrWorkExperienceNotFound):
		return ErrWorkExperienceNotFound
	case errors.Is(err, repository.ErrEducationNotFound):
		return ErrEducationNotFound
	default:
		return ErrInternal
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
