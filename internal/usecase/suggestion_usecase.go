package usecase

import (
	"context"
	"errors"

	"acms/internal/database"
	"acms/internal/domain/matching"
	"acms/internal/domain/profile"
	"acms/internal/repository"

	"github.com/google/uuid"
)

type SuggestedDeveloper struct {
	Profile         profile.DeveloperProfile
	Skills          []string
	MatchPercentage float64
}

type SuggestionUsecase interface {
	SuggestDevelopers(ctx context.Context, projectSlug string) ([]SuggestedDeveloper, error)
}

type Suggestion struct {
	projects repository.ProjectRepository
	profiles repository.DeveloperProfileRepository
	tx       database.Transactor
}

func NewSuggestionUsecase(projects repository.ProjectRepository, profiles repository.DeveloperProfileRepository, tx database.Transactor) *Suggestion {
	return &Suggestion{projects: projects, profiles: profiles, tx: tx}
}

// SuggestDevelopers returns every eligible developer with their match
// percentage, in the order the profiles were read. The project, profiles and
// skills are read from one snapshot.
func (u *Suggestion) SuggestDevelopers(ctx context.Context, projectSlug string) ([]SuggestedDeveloper, error) {
	var (
		p        matching.Project
		profiles []profile.DeveloperProfile
		skills   map[uuid.UUID][]string
	)
	err := u.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		stored, err := u.projects.GetBySlug(ctx, projectSlug)
		if err != nil {
			return err
		}
		p = matching.Project{
			Slug:           stored.Slug,
			RequiredSkills: stored.RequiredSkills,
			StartDate:      stored.StartDate,
			EndDate:        stored.EndDate,
		}

		profiles, err = u.profiles.List(ctx, nil)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(profiles))
		for _, dp := range profiles {
			ids = append(ids, dp.ID)
		}
		skills, err = u.profiles.SkillSlugs(ctx, ids)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, ErrInternal
	}

	byID := make(map[uuid.UUID]profile.DeveloperProfile, len(profiles))
	pool := make([]matching.Profile, 0, len(profiles))
	for _, dp := range profiles {
		byID[dp.ID] = dp
		pool = append(pool, matching.Profile{
			ID:                    dp.ID,
			Availability:          dp.Availability,
			CurrentProjectEndDate: dp.CurrentProjectEndDate,
			Skills:                skills[dp.ID],
		})
	}

	suggestions := matching.Suggest(p, matching.Candidates(p, pool))
	if len(suggestions) == 0 {
		return nil, ErrNoMatchingDevelopers
	}

	out := make([]SuggestedDeveloper, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, SuggestedDeveloper{
			Profile:         byID[s.Profile.ID],
			Skills:          nonNil(s.Profile.Skills),
			MatchPercentage: s.MatchPercentage,
		})
	}
	return out, nil
}
