package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"acms/internal/database"
	"acms/internal/domain/policy"
	"acms/internal/domain/project"
	"acms/internal/domain/user"
	"acms/internal/repository"

	"github.com/google/uuid"
)

type ProjectInput struct {
	Name           string
	Description    string
	RequiredSkills []string
	StartDate      string
	EndDate        string
}

type UpdateProjectInput struct {
	Name           *string
	Description    *string
	RequiredSkills []string
	StartDate      *string
	EndDate        *string
}

// AssignmentNotifier is told about new project members once they are stored.
type AssignmentNotifier interface {
	ProjectAssigned(ctx context.Context, a project.Assignment)
}

type ProjectUsecase interface {
	ListProjects(ctx context.Context) ([]project.Project, error)
	GetProject(ctx context.Context, slug string) (project.Project, error)
	CreateProject(ctx context.Context, actor user.Actor, in ProjectInput) (project.Project, error)
	UpdateProject(ctx context.Context, slug string, in UpdateProjectInput) (project.Project, error)
	DeleteProject(ctx context.Context, slug string) error
	AssignDevelopers(ctx context.Context, actor user.Actor, slug string, profileIDs []uuid.UUID) (project.Project, error)
	DeveloperProjects(ctx context.Context, actor user.Actor, userID uuid.UUID) ([]project.Project, error)
}

type Project struct {
	projects repository.ProjectRepository
	profiles repository.DeveloperProfileRepository
	skills   repository.SkillRepository
	tx       database.Transactor
	notifier AssignmentNotifier
	now      func() time.Time
}

func NewProjectUsecase(
	projects repository.ProjectRepository,
	profiles repository.DeveloperProfileRepository,
	skills repository.SkillRepository,
	tx database.Transactor,
	notifier AssignmentNotifier,
) *Project {
	return &Project{projects: projects, profiles: profiles, skills: skills, tx: tx, notifier: notifier, now: time.Now}
}

func (u *Project) ListProjects(ctx context.Context) ([]project.Project, error) {
	items, err := u.projects.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return nonNil(items), nil
}

func (u *Project) GetProject(ctx context.Context, slug string) (project.Project, error) {
	p, err := u.projects.GetBySlug(ctx, slug)
	if err != nil {
		return project.Project{}, projectError(err)
	}
	return p, nil
}

func (u *Project) CreateProject(ctx context.Context, actor user.Actor, in ProjectInput) (project.Project, error) {
	name, err := projectName(in.Name)
	if err != nil {
		return project.Project{}, err
	}
	description, err := projectDescription(in.Description)
	if err != nil {
		return project.Project{}, err
	}
	start, end, err := parsePeriod(in.StartDate, in.EndDate)
	if err != nil {
		return project.Project{}, err
	}
	slug := project.SlugFor(name)
	if slug == "" {
		return project.Project{}, invalid("name", "Name must contain letters or digits")
	}

	p := project.Project{
		Slug:        slug,
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
	}
	if actor.Authenticated {
		createdBy := actor.ID
		p.CreatedBy = &createdBy
	}

	var created project.Project
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		skills, err := u.requiredSkills(ctx, in.RequiredSkills)
		if err != nil {
			return err
		}
		p.RequiredSkills = skills
		created, err = u.projects.Create(ctx, p)
		return err
	})
	if err != nil {
		return project.Project{}, projectError(err)
	}
	return created, nil
}

// UpdateProject applies a partial update. The slug is kept when the name
// changes so existing links stay valid.
func (u *Project) UpdateProject(ctx context.Context, slug string, in UpdateProjectInput) (project.Project, error) {
	var updated project.Project
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := u.projects.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}

		if in.Name != nil {
			if p.Name, err = projectName(*in.Name); err != nil {
				return err
			}
		}
		if in.Description != nil {
			if p.Description, err = projectDescription(*in.Description); err != nil {
				return err
			}
		}
		if in.StartDate != nil {
			if p.StartDate, err = parseDate("start_date", *in.StartDate); err != nil {
				return err
			}
		}
		if in.EndDate != nil {
			if p.EndDate, err = parseDate("end_date", *in.EndDate); err != nil {
				return err
			}
		}
		if p.EndDate.Before(p.StartDate) {
			return invalid("end_date", "End date must not be before the start date")
		}

		p.RequiredSkills = nil
		if in.RequiredSkills != nil {
			if p.RequiredSkills, err = u.requiredSkills(ctx, in.RequiredSkills); err != nil {
				return err
			}
		}

		updated, err = u.projects.Update(ctx, p)
		return err
	})
	if err != nil {
		return project.Project{}, projectError(err)
	}
	return updated, nil
}

func (u *Project) DeleteProject(ctx context.Context, slug string) error {
	if err := u.projects.Delete(ctx, slug); err != nil {
		return projectError(err)
	}
	return nil
}

// AssignDevelopers adds the profiles to the project and marks them as
// unavailable until the project ends. Notifications go out after commit.
func (u *Project) AssignDevelopers(ctx context.Context, actor user.Actor, slug string, profileIDs []uuid.UUID) (project.Project, error) {
	ids := make([]uuid.UUID, 0, len(profileIDs))
	for _, id := range profileIDs {
		if id == uuid.Nil {
			return project.Project{}, ErrInvalidMembers
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return project.Project{}, invalid("members", "At least one developer profile is required")
	}

	var (
		assigned project.Project
		members  []project.Recipient
	)
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := u.projects.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		profiles, err := u.profiles.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(profiles) != len(ids) {
			return ErrInvalidMembers
		}

		if err := u.projects.AddMembers(ctx, p.Slug, ids); err != nil {
			return err
		}
		if _, err := u.profiles.MarkAssigned(ctx, ids, p.Name, p.StartDate, p.EndDate); err != nil {
			return err
		}

		members = make([]project.Recipient, 0, len(profiles))
		for _, dp := range profiles {
			members = append(members, project.Recipient{
				DeveloperProfileID: dp.ID,
				UserID:             dp.UserID,
				Email:              dp.Email,
				FirstName:          dp.FirstName,
			})
		}
		assigned, err = u.projects.GetBySlug(ctx, p.Slug)
		return err
	})
	if err != nil {
		return project.Project{}, projectError(err)
	}

	if u.notifier != nil {
		u.notifier.ProjectAssigned(ctx, project.Assignment{
			ProjectSlug:         assigned.Slug,
			ProjectName:         assigned.Name,
			StartDate:           assigned.StartDate,
			EndDate:             assigned.EndDate,
			DeveloperProfileIDs: ids,
			Recipients:          members,
			AssignedBy:          actor.ID,
			AssignedAt:          u.now().UTC(),
		})
	}
	return assigned, nil
}

// DeveloperProjects lists the projects of a developer, newest first.
// Developers may only list their own.
func (u *Project) DeveloperProjects(ctx context.Context, actor user.Actor, userID uuid.UUID) ([]project.Project, error) {
	if policy.IsDeveloper(actor) && actor.ID != userID {
		return nil, ErrForbidden
	}
	dp, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, profileError(err)
	}
	items, err := u.projects.ListByMember(ctx, dp.ID)
	if err != nil {
		return nil, ErrInternal
	}
	return nonNil(items), nil
}

func (u *Project) requiredSkills(ctx context.Context, raw []string) ([]string, error) {
	skills := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(skills, s) {
			skills = append(skills, s)
		}
	}
	if len(skills) == 0 {
		return nil, invalid("required_skills", "At least one required skill is needed")
	}

	existing, err := u.skills.ExistingSlugs(ctx, skills)
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, s := range skills {
		if !slices.Contains(existing, s) {
			unknown = append(unknown, s)
		}
	}
	if len(unknown) > 0 {
		return nil, invalid("required_skills", "Unknown skills: "+strings.Join(unknown, ", "))
	}
	return skills, nil
}

func projectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "This field is required")
	}
	if len([]rune(name)) > project.MaxNameLength {
		return "", invalid("name", "Ensure this field has no more than 100 characters")
	}
	return name, nil
}

func projectDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len([]rune(description)) > project.MaxDescriptionLength {
		return "", invalid("description", "Ensure this field has no more than 150 characters")
	}
	return description, nil
}

func projectError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve
	case errors.Is(err, ErrInvalidMembers):
		return ErrInvalidMembers
	case errors.Is(err, repository.ErrProjectNotFound):
		return ErrProjectNotFound
	case errors.Is(err, repository.ErrProjectExists):
		return ErrProjectExists
	case errors.Is(err, repository.ErrDeveloperProfileNotFound):
		return ErrInvalidMembers
	case errors.Is(err, repository.ErrSkillNotFound):
		return invalid("required_skills", "One or more required skills do not exist")
	default:
		return ErrInternal
	}
}
