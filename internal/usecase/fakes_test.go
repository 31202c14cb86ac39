package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"acms/internal/domain/profile"
	"acms/internal/domain/project"
	"acms/internal/domain/skill"
	"acms/internal/domain/user"
	"acms/internal/infrastructure/mailer"
	"acms/internal/repository"

	"github.com/google/uuid"
)

type passthroughTx struct {
	calls     int
	readCalls int
}

func (t *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func (t *passthroughTx) WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.readCalls++
	return fn(ctx)
}

type fakeUsers struct {
	byID      map[uuid.UUID]user.User
	createErr error
	deleted   []uuid.UUID
}

func newFakeUsers(users ...user.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]user.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u user.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) Update(_ context.Context, u user.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return user.ErrNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) ListByRoles(_ context.Context, roles []user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range f.byID {
		if slices.Contains(roles, u.Role) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeProfiles struct {
	items    []profile.DeveloperProfile
	skills   map[uuid.UUID][]string
	assigned []uuid.UUID
}

func (f *fakeProfiles) Create(_ context.Context, p profile.DeveloperProfile) error {
	f.items = append(f.items, p)
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (profile.DeveloperProfile, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return profile.DeveloperProfile{}, repository.ErrDeveloperProfileNotFound
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (profile.DeveloperProfile, error) {
	for _, p := range f.items {
		if p.UserID == userID {
			return p, nil
		}
	}
	return profile.DeveloperProfile{}, repository.ErrDeveloperProfileNotFound
}

func (f *fakeProfiles) List(_ context.Context, availability *bool) ([]profile.DeveloperProfile, error) {
	var out []profile.DeveloperProfile
	for _, p := range f.items {
		if availability == nil || p.Availability == *availability {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) ListByIDs(_ context.Context, ids []uuid.UUID) ([]profile.DeveloperProfile, error) {
	var out []profile.DeveloperProfile
	for _, p := range f.items {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) UpdateEmployment(_ context.Context, id uuid.UUID, status profile.EmploymentStatus, info profile.JobInformation) error {
	for i, p := range f.items {
		if p.ID == id {
			f.items[i].EmploymentStatus = status
			f.items[i].JobInformation = info
			return nil
		}
	}
	return repository.ErrDeveloperProfileNotFound
}

func (f *fakeProfiles) MarkAssigned(_ context.Context, ids []uuid.UUID, projectName string, start, end time.Time) (int64, error) {
	var n int64
	for i, p := range f.items {
		if slices.Contains(ids, p.ID) {
			f.items[i].Availability = false
			f.items[i].CurrentProject = projectName
			f.items[i].CurrentProjectStartDate = &start
			f.items[i].CurrentProjectEndDate = &end
			f.assigned = append(f.assigned, p.ID)
			n++
		}
	}
	return n, nil
}

func (f *fakeProfiles) SkillSlugs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(ids))
	for _, id := range ids {
		out[id] = append([]string{}, f.skills[id]...)
	}
	return out, nil
}

type fakeHistory struct {
	works      []profile.WorkExperience
	educations []profile.Education
}

func (f *fakeHistory) CreateWorkExperience(_ context.Context, w profile.WorkExperience) error {
	f.works = append(f.works, w)
	return nil
}

func (f *fakeHistory) ListWorkExperience(_ context.Context, profileID uuid.UUID) ([]profile.WorkExperience, error) {
	var out []profile.WorkExperience
	for _, w := range f.works {
		if w.DeveloperProfileID == profileID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeHistory) GetWorkExperience(_ context.Context, id, profileID uuid.UUID) (profile.WorkExperience, error) {
	for _, w := range f.works {
		if w.ID == id && w.DeveloperProfileID == profileID {
			return w, nil
		}
	}
	return profile.WorkExperience{}, repository.ErrWorkExperienceNotFound
}

func (f *fakeHistory) UpdateWorkExperience(_ context.Context, w profile.WorkExperience) error {
	for i, it := range f.works {
		if it.ID == w.ID && it.DeveloperProfileID == w.DeveloperProfileID {
			f.works[i] = w
			return nil
		}
	}
	return repository.ErrWorkExperienceNotFound
}

func (f *fakeHistory) DeleteWorkExperience(_ context.Context, id, profileID uuid.UUID) error {
	for i, w := range f.works {
		if w.ID == id && w.DeveloperProfileID == profileID {
			f.works = slices.Delete(f.works, i, i+1)
			return nil
		}
	}
	return repository.ErrWorkExperienceNotFound
}

func (f *fakeHistory) CreateEducation(_ context.Context, e profile.Education) error {
	f.educations = append(f.educations, e)
	return nil
}

func (f *fakeHistory) ListEducation(_ context.Context, profileID uuid.UUID) ([]profile.Education, error) {
	var out []profile.Education
	for _, e := range f.educations {
		if e.DeveloperProfileID == profileID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeHistory) GetEducation(_ context.Context, id, profileID uuid.UUID) (profile.Education, error) {
	for _, e := range f.educations {
		if e.ID == id && e.DeveloperProfileID == profileID {
			return e, nil
		}
	}
	return profile.Education{}, repository.ErrEducationNotFound
}

func (f *fakeHistory) UpdateEducation(_ context.Context, e profile.Education) error {
	for i, it := range f.educations {
		if it.ID == e.ID && it.DeveloperProfileID == e.DeveloperProfileID {
			f.educations[i] = e
			return nil
		}
	}
	return repository.ErrEducationNotFound
}

func (f *fakeHistory) DeleteEducation(_ context.Context, id, profileID uuid.UUID) error {
	for i, e := range f.educations {
		if e.ID == id && e.DeveloperProfileID == profileID {
			f.educations = slices.Delete(f.educations, i, i+1)
			return nil
		}
	}
	return repository.ErrEducationNotFound
}

type fakeRatings struct {
	items  []skill.Rating
	skills []string
}

func (f *fakeRatings) ListByProfile(_ context.Context, profileID uuid.UUID) ([]skill.Rating, error) {
	var out []skill.Rating
	for _, r := range f.items {
		if r.DeveloperProfileID == profileID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatings) Upsert(_ context.Context, rt skill.Rating) (skill.Rating, error) {
	if !slices.Contains(f.skills, rt.SkillSlug) {
		return skill.Rating{}, repository.ErrSkillNotFound
	}
	for i, r := range f.items {
		if r.DeveloperProfileID == rt.DeveloperProfileID && r.SkillSlug == rt.SkillSlug {
			f.items[i].Rating = rt.Rating
			f.items[i].Comment = rt.Comment
			return f.items[i], nil
		}
	}
	rt.ID = uuid.New()
	f.items = append(f.items, rt)
	return rt, nil
}

type fakeCategories struct {
	items []skill.Category
	lists int
}

func (f *fakeCategories) List(context.Context) ([]skill.Category, error) {
	f.lists++
	return append([]skill.Category{}, f.items...), nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (skill.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			return c, nil
		}
	}
	return skill.Category{}, repository.ErrCategoryNotFound
}

func (f *fakeCategories) Create(_ context.Context, c skill.Category) (skill.Category, error) {
	for _, it := range f.items {
		if it.Slug == c.Slug || it.Name == c.Name {
			return skill.Category{}, repository.ErrCategoryExists
		}
	}
	f.items = append(f.items, c)
	return c, nil
}

func (f *fakeCategories) Rename(_ context.Context, slug, name string) (skill.Category, error) {
	for i, c := range f.items {
		if c.Slug == slug {
			f.items[i].Name = name
			return f.items[i], nil
		}
	}
	return skill.Category{}, repository.ErrCategoryNotFound
}

func (f *fakeCategories) Delete(_ context.Context, slug string) error {
	for i, c := range f.items {
		if c.Slug == slug {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

type fakeSkills struct {
	items      []skill.Skill
	categories []string
	lists      int
}

func (f *fakeSkills) GetAllSkills(context.Context) ([]skill.Skill, error) {
	f.lists++
	return append([]skill.Skill{}, f.items...), nil
}

func (f *fakeSkills) GetBySlug(_ context.Context, slug string) (skill.Skill, error) {
	for _, s := range f.items {
		if s.Slug == slug {
			return s, nil
		}
	}
	return skill.Skill{}, repository.ErrSkillNotFound
}

func (f *fakeSkills) ExistingSlugs(_ context.Context, slugs []string) ([]string, error) {
	out := []string{}
	for _, s := range f.items {
		if slices.Contains(slugs, s.Slug) {
			out = append(out, s.Slug)
		}
	}
	return out, nil
}

func (f *fakeSkills) CreateSkill(_ context.Context, s skill.Skill) (skill.Skill, error) {
	if !slices.Contains(f.categories, s.CategorySlug) {
		return skill.Skill{}, repository.ErrCategoryNotFound
	}
	for _, it := range f.items {
		if it.Slug == s.Slug {
			return skill.Skill{}, repository.ErrSkillExists
		}
	}
	f.items = append(f.items, s)
	return s, nil
}

func (f *fakeSkills) UpdateSkill(_ context.Context, slug string, name, categorySlug string) (skill.Skill, error) {
	if !slices.Contains(f.categories, categorySlug) {
		return skill.Skill{}, repository.ErrCategoryNotFound
	}
	for i, s := range f.items {
		if s.Slug == slug {
			f.items[i].Name = name
			f.items[i].CategorySlug = categorySlug
			return f.items[i], nil
		}
	}
	return skill.Skill{}, repository.ErrSkillNotFound
}

func (f *fakeSkills) DeleteSkill(_ context.Context, slug string) error {
	for i, s := range f.items {
		if s.Slug == slug {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return repository.ErrSkillNotFound
}

func (f *fakeSkills) DeleteAll(context.Context) (int64, error) {
	n := int64(len(f.items))
	f.items = nil
	return n, nil
}

type fakeProjects struct {
	items []project.Project
}

func (f *fakeProjects) Create(_ context.Context, p project.Project) (project.Project, error) {
	for _, it := range f.items {
		if it.Slug == p.Slug {
			return project.Project{}, repository.ErrProjectExists
		}
	}
	p.Members = []uuid.UUID{}
	f.items = append(f.items, p)
	return p, nil
}

func (f *fakeProjects) GetBySlug(_ context.Context, slug string) (project.Project, error) {
	for _, p := range f.items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return project.Project{}, repository.ErrProjectNotFound
}

func (f *fakeProjects) List(context.Context) ([]project.Project, error) {
	return append([]project.Project{}, f.items...), nil
}

func (f *fakeProjects) Update(_ context.Context, p project.Project) (project.Project, error) {
	for i, it := range f.items {
		if it.Slug == p.Slug {
			if p.RequiredSkills == nil {
				p.RequiredSkills = it.RequiredSkills
			}
			p.Members = it.Members
			f.items[i] = p
			return p, nil
		}
	}
	return project.Project{}, repository.ErrProjectNotFound
}

func (f *fakeProjects) Delete(_ context.Context, slug string) error {
	for i, p := range f.items {
		if p.Slug == slug {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return repository.ErrProjectNotFound
}

func (f *fakeProjects) AddMembers(_ context.Context, slug string, ids []uuid.UUID) error {
	for i, p := range f.items {
		if p.Slug == slug {
			for _, id := range ids {
				if !slices.Contains(p.Members, id) {
					f.items[i].Members = append(f.items[i].Members, id)
				}
			}
			return nil
		}
	}
	return repository.ErrProjectNotFound
}

func (f *fakeProjects) ListByMember(_ context.Context, profileID uuid.UUID) ([]project.Project, error) {
	var out []project.Project
	for i := len(f.items) - 1; i >= 0; i-- {
		if slices.Contains(f.items[i].Members, profileID) {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	enabled bool
	data    map[string]any
	locks   map[string]bool
	flushes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{enabled: true, data: map[string]any{}, locks: map[string]bool{}}
}

func (c *fakeCache) Enabled() bool { return c.enabled }

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	switch dst := out.(type) {
	case *[]skill.Skill:
		*dst = v.([]skill.Skill)
	case *[]skill.Category:
		*dst = v.([]skill.Category)
	default:
		return false, errors.New("unsupported type")
	}
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	delete(c.locks, key)
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *fakeCache) InvalidateCatalog(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
	c.data = map[string]any{}
	return nil
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeNotifier struct {
	assignments []project.Assignment
}

func (n *fakeNotifier) ProjectAssigned(_ context.Context, a project.Assignment) {
	n.assignments = append(n.assignments, a)
}
