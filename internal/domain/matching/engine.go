// Package matching scores developer profiles against a project's required
// skills.
package matching

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Slug           string
	RequiredSkills []string
	StartDate      time.Time
	EndDate        time.Time
}

type Profile struct {
	ID                    uuid.UUID
	Availability          bool
	CurrentProjectEndDate *time.Time
	Skills                []string
}

type Suggestion struct {
	Profile         Profile
	MatchPercentage float64
}

// MatchPercentage is the share of required skills covered by skills,
// rounded half away from zero to one decimal. ok is false when nothing is
// required.
func MatchPercentage(required, skills []string) (pct float64, ok bool) {
	req := toSet(required)
	if len(req) == 0 {
		return 0, false
	}
	have := toSet(skills)

	matching := 0
	for s := range req {
		if _, hit := have[s]; hit {
			matching++
		}
	}
	return round1(100 * float64(matching) / float64(len(req))), true
}

// Suggest scores every candidate in input order. A project without required
// skills yields no suggestions.
func Suggest(project Project, candidates []Profile) []Suggestion {
	out := make([]Suggestion, 0, len(candidates))
	if len(toSet(project.RequiredSkills)) == 0 {
		return out
	}
	for _, p := range candidates {
		pct, _ := MatchPercentage(project.RequiredSkills, p.Skills)
		out = append(out, Suggestion{Profile: p, MatchPercentage: pct})
	}
	return out
}

// IsCandidate reports whether a profile shares at least one required skill
// and is free for the project: either available, or finishing its current
// project the day before the project starts or earlier.
func IsCandidate(profile Profile, project Project) bool {
	if !overlaps(project.RequiredSkills, profile.Skills) {
		return false
	}
	if profile.Availability {
		return true
	}
	if profile.CurrentProjectEndDate == nil {
		return false
	}
	return dateOf(*profile.CurrentProjectEndDate).Before(dateOf(project.StartDate))
}

// Candidates keeps the profiles for which IsCandidate holds, preserving order.
func Candidates(project Project, profiles []Profile) []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if IsCandidate(p, project) {
			out = append(out, p)
		}
	}
	return out
}

func overlaps(required, skills []string) bool {
	req := toSet(required)
	for _, s := range skills {
		if _, ok := req[s]; ok {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		out[it] = struct{}{}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
