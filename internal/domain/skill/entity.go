package skill

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	MaxNameLength    = 20
	MaxCommentLength = 255
	MinRating        = 0.0
	MaxRating        = 10.0
)

type Category struct {
	Slug      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Skill struct {
	Slug         string
	Name         string
	CategorySlug string
	CategoryName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Rating is a developer's self-assessment of one skill.
type Rating struct {
	ID                 uuid.UUID
	DeveloperProfileID uuid.UUID
	SkillSlug          string
	Skill              Skill
	Rating             float64
	Comment            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SlugFor derives the primary key of a category or skill from its name.
func SlugFor(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// ValidRating accepts values in [MinRating, MaxRating] with at most one
// decimal place.
func ValidRating(r float64) bool {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return false
	}
	return math.Abs(r*10-math.Round(r*10)) < 1e-9
}
