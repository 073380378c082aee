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

var organizationColumns = []string{
	"organization_name", "organization_email", "organization_contact_no",
	"organization_type", "status", "country", "organization_city", "logo",
}

// OrganizationRepository implements port.OrganizationRepository
type OrganizationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *sql.DB, logger *zap.Logger) port.OrganizationRepository {
	return &OrganizationRepository{db: db, logger: logger}
}

// Save inserts or updates an organization
func (r *OrganizationRepository) Save(ctx context.Context, o *entity.Organization) error {
	if err := requireName(o.RecordKind(), o.Name); err != nil {
		return err
	}
	stamp(&o.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("organizations", organizationColumns...),
		args(&o.Meta,
			o.OrganizationName, o.OrganizationEmail, o.OrganizationContactNo,
			o.OrganizationType, o.Status, o.Country, o.OrganizationCity, o.Logo,
		)...,
	)
	if err != nil {
		r.logger.Error("Failed to save organization", zap.String("name", o.Name), zap.Error(err))
		return fmt.Errorf("failed to save organization: %w", err)
	}
	return nil
}

// GetByName retrieves an organization by name
func (r *OrganizationRepository) GetByName(ctx context.Context, name string) (*entity.Organization, error) {
	row := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("organizations", organizationColumns...)+" WHERE name = ?", name)

	o, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get organization", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return o, nil
}

// ListRecent returns the most recently modified organizations
func (r *OrganizationRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Organization, error) {
	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx,
		selectQuery("organizations", organizationColumns...)+" ORDER BY modified DESC, name DESC LIMIT ?", limit)
	if err != nil {
		r.logger.Error("Failed to list organizations", zap.Error(err))
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*entity.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// CountByStatus counts organizations with the given status
func (r *OrganizationRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM organizations WHERE status = ?", status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count organizations: %w", err)
	}
	return n, nil
}

func scanOrganization(s rowScanner) (*entity.Organization, error) {
	var o entity.Organization
	err := s.Scan(
		&o.Name,
		&o.OrganizationName, &o.OrganizationEmail, &o.OrganizationContactNo,
		&o.OrganizationType, &o.Status, &o.Country, &o.OrganizationCity, &o.Logo,
		&o.Creation, &o.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

var _ port.OrganizationRepository = (*OrganizationRepository)(nil)
