package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acms/internal/database"

	"go.uber.org/zap"
)

// Seeder inserts reference data. Running a seeder twice must not duplicate
// rows.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner applies seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Log     *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			log.Error("seeder failed", zap.String("seeder", s.Name()), zap.Error(err))
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder applied", zap.String("seeder", s.Name()), zap.Duration("took", time.Since(start)))
	}
	return nil
}
