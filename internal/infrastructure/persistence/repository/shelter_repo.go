package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ShelterRepository implements port.ShelterRepository
type ShelterRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewShelterRepository creates a new animal shelter repository
func NewShelterRepository(db *sql.DB, logger *zap.Logger) port.ShelterRepository {
	return &ShelterRepository{db: db, logger: logger}
}

// Save inserts or updates a shelter
func (r *ShelterRepository) Save(ctx context.Context, s *entity.AnimalShelter) error {
	if err := requireName(s.RecordKind(), s.Name); err != nil {
		return err
	}
	stamp(&s.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("animal_shelters", "shelter_name", "city"),
		args(&s.Meta, s.ShelterName, s.City)...,
	)
	if err != nil {
		r.logger.Error("Failed to save shelter", zap.String("name", s.Name), zap.Error(err))
		return fmt.Errorf("failed to save shelter: %w", err)
	}
	return nil
}

// GetByName retrieves a shelter by name
func (r *ShelterRepository) GetByName(ctx context.Context, name string) (*entity.AnimalShelter, error) {
	var s entity.AnimalShelter
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("animal_shelters", "shelter_name", "city")+" WHERE name = ?", name,
	).Scan(&s.Name, &s.ShelterName, &s.City, &s.Creation, &s.Modified)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get shelter", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get shelter: %w", err)
	}
	return &s, nil
}

var _ port.ShelterRepository = (*ShelterRepository)(nil)
