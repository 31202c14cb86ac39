package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"acms/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

const columnsQuery = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`

// EnsureTableColumns fails with ErrSchemaMismatch when table lacks any of
// columns, naming every missing one. Seeders call it before writing so a
// stale schema is reported instead of a half-applied seed.
func EnsureTableColumns(ctx context.Context, q database.Querier, table string, columns ...string) error {
	if q == nil {
		return errors.New("nil db")
	}
	if strings.TrimSpace(table) == "" || len(columns) == 0 {
		return errors.New("table and columns are required")
	}

	rows, err := q.Query(ctx, columnsQuery, table)
	if err != nil {
		return fmt.Errorf("read columns of %s: %w", table, err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range columns {
		if !existing[col] {
			missing = append(missing, table+"."+col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
