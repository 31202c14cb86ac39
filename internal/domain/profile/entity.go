package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmploymentStatus = errors.New("invalid employment status")
	ErrInvalidJobInformation   = errors.New("invalid job information")
)

type EmploymentStatus string

const (
	Intern                 EmploymentStatus = "INTERN"
	Employee               EmploymentStatus = "EMPLOYEE"
	NationalServicePersons EmploymentStatus = "NATIONAL SERVICE PERSONS"
)

func ParseEmploymentStatus(s string) (EmploymentStatus, error) {
	v := EmploymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case Intern, Employee, NationalServicePersons:
		return v, nil
	}
	return "", ErrInvalidEmploymentStatus
}

type JobInformation string

const (
	Associate       JobInformation = "Associate"
	JuniorAssociate JobInformation = "Junior Associate"
	SeniorAssociate JobInformation = "Senior Associate"
	Expert          JobInformation = "Expert"
)

func ParseJobInformation(s string) (JobInformation, error) {
	s = strings.TrimSpace(s)
	for _, v := range []JobInformation{Associate, JuniorAssociate, SeniorAssociate, Expert} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", ErrInvalidJobInformation
}

type DeveloperProfile struct {
	ID                      uuid.UUID
	UserID                  uuid.UUID
	Availability            bool
	CurrentProject          string
	CurrentProjectStartDate *time.Time
	CurrentProjectEndDate   *time.Time
	EmploymentStatus        EmploymentStatus
	JobInformation          JobInformation
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// Populated by read paths that join the owning user.
	Email     string
	FirstName string
	LastName  string
}

// New returns the profile created alongside a developer account.
func New(userID uuid.UUID) DeveloperProfile {
	return DeveloperProfile{
		ID:               uuid.New(),
		UserID:           userID,
		Availability:     true,
		EmploymentStatus: Intern,
		JobInformation:   Associate,
	}
}

type WorkExperience struct {
	ID                 uuid.UUID
	DeveloperProfileID uuid.UUID
	JobTitle           string
	CompanyName        string
	SkillsUsed         []string
	StartDate          time.Time
	EndDate            time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Education struct {
	ID                 uuid.UUID
	DeveloperProfileID uuid.UUID
	SchoolName         string
	Program            string
	StartDate          time.Time
	EndDate            time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
