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

var associationColumns = []string{"association_name", "email", "contact_no", "city"}

// AssociationRepository implements port.AssociationRepository
type AssociationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(db *sql.DB, logger *zap.Logger) port.AssociationRepository {
	return &AssociationRepository{db: db, logger: logger}
}

// Save inserts or updates an association
func (r *AssociationRepository) Save(ctx context.Context, a *entity.Association) error {
	if err := requireName(a.RecordKind(), a.Name); err != nil {
		return err
	}
	stamp(&a.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("associations", associationColumns...),
		args(&a.Meta, a.AssociationName, a.Email, a.ContactNo, a.City)...,
	)
	if err != nil {
		r.logger.Error("Failed to save association", zap.String("name", a.Name), zap.Error(err))
		return fmt.Errorf("failed to save association: %w", err)
	}
	return nil
}

// GetByName retrieves an association by name
func (r *AssociationRepository) GetByName(ctx context.Context, name string) (*entity.Association, error) {
	var a entity.Association
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("associations", associationColumns...)+" WHERE name = ?", name,
	).Scan(&a.Name, &a.AssociationName, &a.Email, &a.ContactNo, &a.City, &a.Creation, &a.Modified)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get association", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get association: %w", err)
	}
	return &a, nil
}

var _ port.AssociationRepository = (*AssociationRepository)(nil)
