package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"acms/internal/app"
	"acms/internal/config"
	"acms/internal/database"
	dbpostgres "acms/internal/database/postgres"
	"acms/internal/domain/profile"
	"acms/internal/domain/skill"
	"acms/internal/domain/user"
	"acms/internal/repository"
	ucauth "acms/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type suggestion struct {
	DeveloperProfile struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	} `json:"developer_profile"`
	MatchPercentage float64 `json:"match_percentage"`
}

const testPassword = "Integration1"

func TestIntegration_ProjectSuggestionsAndAssignment(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := testConfig(t)
	db := connectTestDB(t, ctx, cfg.Database)
	defer func() { _ = db.Close() }()

	if err := app.Migrate(ctx, db, cfg.Database, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := app.Seed(ctx, db, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	suffix := strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	users := repository.NewPostgresUserRepository(db)
	profiles := repository.NewPostgresDeveloperProfileRepository(db)
	ratings := repository.NewPostgresSkillRatingRepository(db)

	admin := registerUser(t, ctx, users, "admin-"+suffix+"@amalitech.com", user.RoleAdmin)
	matched := registerUser(t, ctx, users, "dev-a-"+suffix+"@amalitech.com", user.RoleDeveloper)
	unmatched := registerUser(t, ctx, users, "dev-b-"+suffix+"@amalitech.com", user.RoleDeveloper)

	matchedProfile := profile.New(matched.ID)
	unmatchedProfile := profile.New(unmatched.ID)
	for _, p := range []profile.DeveloperProfile{matchedProfile, unmatchedProfile} {
		if err := profiles.Create(ctx, p); err != nil {
			t.Fatalf("create profile: %v", err)
		}
	}
	for _, slug := range []string{"go", "postgresql"} {
		if _, err := ratings.Upsert(ctx, skill.Rating{DeveloperProfileID: matchedProfile.ID, SkillSlug: slug, Rating: 8}); err != nil {
			t.Fatalf("rate %s: %v", slug, err)
		}
	}
	if _, err := ratings.Upsert(ctx, skill.Rating{DeveloperProfileID: unmatchedProfile.ID, SkillSlug: "flutter", Rating: 6}); err != nil {
		t.Fatalf("rate flutter: %v", err)
	}

	projectName := "Integration " + suffix
	defer cleanup(t, db, projectName, admin.ID, matched.ID, unmatched.ID)

	c, err := app.Assemble(cfg, db, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c.Pool.Start(ctx)
	defer func() { _ = c.Pool.Close(context.Background()) }()
	srv := app.New(cfg, c).Fiber

	token := login(t, srv, admin.Email)

	var created struct {
		Slug string `json:"slug"`
	}
	sr := call(t, srv, fiber.MethodPost, "/api/v1/projects", token, map[string]any{
		"name":            projectName,
		"required_skills": []string{"go", "postgresql", "docker"},
		"start_date":      "2026-01-01",
		"end_date":        "2026-06-30",
	})
	if sr.Status != fiber.StatusCreated {
		t.Fatalf("create project: %d %s", sr.Status, sr.Message)
	}
	_ = json.Unmarshal(sr.Data, &created)

	sr = call(t, srv, fiber.MethodGet, "/api/v1/projects/"+created.Slug+"/suggested-developers", token, nil)
	if sr.Status != fiber.StatusOK {
		t.Fatalf("suggestions: %d %s", sr.Status, sr.Message)
	}
	var items []suggestion
	if err := json.Unmarshal(sr.Data, &items); err != nil {
		t.Fatalf("suggestions decode: %v", err)
	}
	var found *suggestion
	for i := range items {
		if items[i].DeveloperProfile.ID == unmatchedProfile.ID {
			t.Fatalf("developer without required skills must not be suggested")
		}
		if items[i].DeveloperProfile.ID == matchedProfile.ID {
			found = &items[i]
		}
	}
	if found == nil || found.MatchPercentage != 66.7 {
		t.Fatalf("expected matched developer at 66.7, got %+v", found)
	}

	sr = call(t, srv, fiber.MethodPatch, "/api/v1/projects/"+created.Slug+"/assign", token, map[string]any{
		"members": []string{matchedProfile.ID.String()},
	})
	if sr.Status != fiber.StatusOK {
		t.Fatalf("assign: %d %s", sr.Status, sr.Message)
	}

	got, err := profiles.GetByID(ctx, matchedProfile.ID)
	if err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if got.Availability || got.CurrentProject != projectName {
		t.Fatalf("expected profile to be assigned, got %+v", got)
	}

	sr = call(t, srv, fiber.MethodPatch, "/api/v1/projects/"+created.Slug+"/assign", token, map[string]any{
		"members": []string{uuid.NewString()},
	})
	if sr.Status != fiber.StatusBadRequest || sr.Message != "One or more developer profiles is invalid!" {
		t.Fatalf("unknown member: %d %s", sr.Status, sr.Message)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	host := os.Getenv("ACMS_TEST_DB_HOST")
	name := os.Getenv("ACMS_TEST_DB_NAME")
	usr := os.Getenv("ACMS_TEST_DB_USER")
	if host == "" || name == "" || usr == "" {
		t.Skip("missing test DB env vars: set ACMS_TEST_DB_HOST/PORT/NAME/USER/PASSWORD")
	}

	return config.Config{
		App: config.AppConfig{AppName: "acms", Environment: "test", HTTPPort: "0", FrontendURL: "http://localhost:3000"},
		Database: config.DatabaseConfig{
			DBHost:     host,
			DBPort:     stringsOrDefault(os.Getenv("ACMS_TEST_DB_PORT"), "5432"),
			DBName:     name,
			DBUser:     usr,
			DBPassword: os.Getenv("ACMS_TEST_DB_PASSWORD"),
			DBSSLMode:  stringsOrDefault(os.Getenv("ACMS_TEST_DB_SSL_MODE"), "disable"),
		},
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			InviteSecret:  "test-invite-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    time.Hour,
			InviteTTL:     time.Hour,
		},
		Storage:       config.StorageConfig{UploadDir: t.TempDir(), PublicPrefix: "/uploads"},
		Accounts:      config.AccountsConfig{AllowedEmailDomains: []string{"amalitech.com"}},
		Notifications: config.NotificationsConfig{Workers: 1, Buffer: 8},
	}
}

func connectTestDB(t *testing.T, ctx context.Context, cfg config.DatabaseConfig) database.DB {
	t.Helper()

	db, err := dbpostgres.Connect(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func registerUser(t *testing.T, ctx context.Context, users user.Repository, email string, role user.Role) user.User {
	t.Helper()

	u, err := ucauth.NewService(users).Register(ctx, ucauth.RegisterInput{
		Email:     email,
		Password:  testPassword,
		FirstName: "Test",
		LastName:  role.String(),
		Role:      role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func cleanup(t *testing.T, db database.DB, projectName string, userIDs ...uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	_, _ = db.Exec(ctx, `DELETE FROM projects WHERE name = $1`, projectName)
	for _, id := range userIDs {
		_, _ = db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	}
}

func login(t *testing.T, srv *fiber.App, email string) string {
	t.Helper()

	sr := call(t, srv, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": testPassword})
	if sr.Status != fiber.StatusOK {
		t.Fatalf("login: %d %s", sr.Status, sr.Message)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(sr.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("login: missing access_token (%v)", err)
	}
	return data.AccessToken
}

func call(t *testing.T, srv *fiber.App, method, path, token string, body any) semanticResponse {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return sr
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
