package project

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	DateLayout           = "2006-01-02"
	MaxNameLength        = 100
	MaxDescriptionLength = 150
)

type Project struct {
	Slug           string
	Name           string
	Description    string
	RequiredSkills []string
	StartDate      time.Time
	EndDate        time.Time
	CreatedBy      *uuid.UUID
	Members        []uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assignment is published after developers are added to a project.
type Assignment struct {
	ProjectSlug         string
	ProjectName         string
	StartDate           time.Time
	EndDate             time.Time
	DeveloperProfileIDs []uuid.UUID
	Recipients          []Recipient
	AssignedBy          uuid.UUID
	AssignedAt          time.Time
}

type Recipient struct {
	DeveloperProfileID uuid.UUID
	UserID             uuid.UUID
	Email              string
	FirstName          string
}

func SlugFor(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// ParseDate reads a calendar date in DateLayout as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}
