package seeder

import (
	"context"
	"fmt"

	"acms/internal/database"
	"acms/internal/domain/skill"
)

// DefaultCatalog maps each default category to its skills.
var DefaultCatalog = []CatalogCategory{
	{Name: "Languages", Skills: []string{"Go", "Python", "JavaScript", "TypeScript", "Java", "Kotlin"}},
	{Name: "Frontend", Skills: []string{"React", "Angular", "Vue", "Next.js"}},
	{Name: "Backend", Skills: []string{"Django", "Node.js", "Spring Boot", "NestJS"}},
	{Name: "Databases", Skills: []string{"PostgreSQL", "MySQL", "MongoDB", "Redis"}},
	{Name: "DevOps", Skills: []string{"Docker", "Kubernetes", "Terraform", "GitHub Actions"}},
	{Name: "Cloud", Skills: []string{"AWS", "GCP", "Azure"}},
	{Name: "Mobile", Skills: []string{"Flutter", "React Native", "Swift"}},
}

type CatalogCategory struct {
	Name   string
	Skills []string
}

// CatalogSeeder inserts categories and skills keyed by slug. Existing rows
// are left untouched.
type CatalogSeeder struct {
	Categories []CatalogCategory
}

func (CatalogSeeder) Name() string { return "catalog" }

func (s CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "categories", "slug", "name", "created_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "skills", "slug", "name", "category_slug", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, cat := range s.Categories {
		if err := validName(cat.Name); err != nil {
			return err
		}
		catSlug := skill.SlugFor(cat.Name)
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO categories (slug, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			catSlug,
			cat.Name,
		); err != nil {
			return fmt.Errorf("category %q: %w", cat.Name, err)
		}

		for _, name := range cat.Skills {
			if err := validName(name); err != nil {
				return err
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO skills (slug, name, category_slug) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				skill.SlugFor(name),
				name,
				catSlug,
			); err != nil {
				return fmt.Errorf("skill %q: %w", name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func validName(name string) error {
	if name == "" || len([]rune(name)) > skill.MaxNameLength || skill.SlugFor(name) == "" {
		return fmt.Errorf("invalid catalog name %q", name)
	}
	return nil
}
