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

var contactColumns = []string{"first_name", "last_name", "email"}

// ContactPersonRepository implements port.ContactPersonRepository
type ContactPersonRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewContactPersonRepository creates a new contact person repository
func NewContactPersonRepository(db *sql.DB, logger *zap.Logger) port.ContactPersonRepository {
	return &ContactPersonRepository{db: db, logger: logger}
}

// Save inserts or updates a contact person
func (r *ContactPersonRepository) Save(ctx context.Context, p *entity.ContactPerson) error {
	if err := requireName(p.RecordKind(), p.Name); err != nil {
		return err
	}
	stamp(&p.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("contact_persons", contactColumns...),
		args(&p.Meta, p.FirstName, p.LastName, p.Email)...,
	)
	if err != nil {
		r.logger.Error("Failed to save contact person", zap.String("name", p.Name), zap.Error(err))
		return fmt.Errorf("failed to save contact person: %w", err)
	}
	return nil
}

// GetByName retrieves a contact person by name
func (r *ContactPersonRepository) GetByName(ctx context.Context, name string) (*entity.ContactPerson, error) {
	var p entity.ContactPerson
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("contact_persons", contactColumns...)+" WHERE name = ?", name,
	).Scan(&p.Name, &p.FirstName, &p.LastName, &p.Email, &p.Creation, &p.Modified)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get contact person", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get contact person: %w", err)
	}
	return &p, nil
}

var _ port.ContactPersonRepository = (*ContactPersonRepository)(nil)
