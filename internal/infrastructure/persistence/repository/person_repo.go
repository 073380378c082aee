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

var personColumns = []string{
	"first_name", "last_name", "full_name", "email", "contact_no",
	"person_country", "person_city", "street",
}

// PersonRepository implements port.PersonRepository
type PersonRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPersonRepository creates a new person details repository
func NewPersonRepository(db *sql.DB, logger *zap.Logger) port.PersonRepository {
	return &PersonRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts or updates a person
func (r *PersonRepository) Save(ctx context.Context, p *entity.PersonDetails) error {
	if err := requireName(p.RecordKind(), p.Name); err != nil {
		return err
	}
	stamp(&p.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("person_details", personColumns...),
		args(&p.Meta,
			p.FirstName, p.LastName, p.FullName, p.Email, p.ContactNo,
			p.PersonCountry, p.PersonCity, p.Street,
		)...,
	)
	if err != nil {
		r.logger.Error("Failed to save person", zap.String("name", p.Name), zap.Error(err))
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

// GetByName retrieves a person by name
func (r *PersonRepository) GetByName(ctx context.Context, name string) (*entity.PersonDetails, error) {
	row := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("person_details", personColumns...)+" WHERE name = ?", name)

	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get person", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// ListRecent returns the most recently modified persons
func (r *PersonRepository) ListRecent(ctx context.Context, limit int) ([]*entity.PersonDetails, error) {
	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx,
		selectQuery("person_details", personColumns...)+" ORDER BY modified DESC, name DESC LIMIT ?", limit)
	if err != nil {
		r.logger.Error("Failed to list persons", zap.Error(err))
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*entity.PersonDetails
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func scanPerson(s rowScanner) (*entity.PersonDetails, error) {
	var p entity.PersonDetails
	err := s.Scan(
		&p.Name,
		&p.FirstName, &p.LastName, &p.FullName, &p.Email, &p.ContactNo,
		&p.PersonCountry, &p.PersonCity, &p.Street,
		&p.Creation, &p.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var _ port.PersonRepository = (*PersonRepository)(nil)
