package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"acms/internal/domain/profile"
	"acms/internal/domain/project"

	"github.com/google/uuid"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := project.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestSuggestDevelopers(t *testing.T) {
	start := date(t, "2025-03-01")
	p := project.Project{Slug: "apollo", Name: "Apollo", RequiredSkills: []string{"go", "sql", "react"}, StartDate: start, EndDate: date(t, "2025-06-01")}

	available := profile.New(uuid.New())
	freeInTime := profile.New(uuid.New())
	freeInTime.Availability = false
	freeInTime.CurrentProjectEndDate = ptr(date(t, "2025-02-28"))
	busy := profile.New(uuid.New())
	busy.Availability = false
	busy.CurrentProjectEndDate = ptr(date(t, "2025-03-01"))
	noOverlap := profile.New(uuid.New())

	profiles := &fakeProfiles{
		items: []profile.DeveloperProfile{available, freeInTime, busy, noOverlap},
		skills: map[uuid.UUID][]string{
			available.ID:  {"go"},
			freeInTime.ID: {"go", "sql", "react"},
			busy.ID:       {"go", "sql", "react"},
			noOverlap.ID:  {"python"},
		},
	}
	tx := &passthroughTx{}
	uc := NewSuggestionUsecase(&fakeProjects{items: []project.Project{p}}, profiles, tx)

	got, err := uc.SuggestDevelopers(context.Background(), "apollo")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tx.readCalls != 1 || tx.calls != 0 {
		t.Fatalf("expected a single read-only tx, got read=%d write=%d", tx.readCalls, tx.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", got)
	}
	if got[0].Profile.ID != available.ID || got[0].MatchPercentage != 33.3 {
		t.Fatalf("unexpected first suggestion: %+v", got[0])
	}
	if got[1].Profile.ID != freeInTime.ID || got[1].MatchPercentage != 100 {
		t.Fatalf("unexpected second suggestion: %+v", got[1])
	}
}

func TestSuggestDevelopersNoMatch(t *testing.T) {
	p := project.Project{Slug: "apollo", RequiredSkills: []string{"go"}, StartDate: date(t, "2025-03-01")}
	dev := profile.New(uuid.New())
	profiles := &fakeProfiles{items: []profile.DeveloperProfile{dev}, skills: map[uuid.UUID][]string{dev.ID: {"java"}}}
	uc := NewSuggestionUsecase(&fakeProjects{items: []project.Project{p}}, profiles, &passthroughTx{})

	if _, err := uc.SuggestDevelopers(context.Background(), "apollo"); !errors.Is(err, ErrNoMatchingDevelopers) {
		t.Fatalf("expected ErrNoMatchingDevelopers, got %v", err)
	}
	if _, err := uc.SuggestDevelopers(context.Background(), "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
