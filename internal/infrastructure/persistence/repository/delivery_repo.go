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

var deliveryColumns = []string{
	"deleivery_type", "purchased_by", "organization_detail", "organization_name",
	"deleiver_to", "person_details", "first_name", "last_name",
	"shelter_details", "shelter_name",
	"order_date", "deleivery_date", "display_title",
}

// DeliveryRepository implements port.DeliveryRepository
type DeliveryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *sql.DB, logger *zap.Logger) port.DeliveryRepository {
	return &DeliveryRepository{db: db, logger: logger}
}

// Save inserts or updates a delivery
func (r *DeliveryRepository) Save(ctx context.Context, d *entity.Delivery) error {
	if err := requireName(d.RecordKind(), d.Name); err != nil {
		return err
	}
	stamp(&d.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("deliveries", deliveryColumns...),
		args(&d.Meta,
			d.DeliveryType, d.PurchasedBy, d.OrganizationDetail, d.OrganizationName,
			d.DeliverTo, d.PersonDetails, d.FirstName, d.LastName,
			d.ShelterDetails, d.ShelterName,
			d.OrderDate, d.DeliveryDate, d.DisplayTitle,
		)...,
	)
	if err != nil {
		r.logger.Error("Failed to save delivery", zap.String("name", d.Name), zap.Error(err))
		return fmt.Errorf("failed to save delivery: %w", err)
	}
	return nil
}

// GetByName retrieves a delivery by name
func (r *DeliveryRepository) GetByName(ctx context.Context, name string) (*entity.Delivery, error) {
	row := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("deliveries", deliveryColumns...)+" WHERE name = ?", name)

	d, err := scanDelivery(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get delivery", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	return d, nil
}

// ListByOrganization returns the deliveries funded by an organization, newest delivery date first
func (r *DeliveryRepository) ListByOrganization(ctx context.Context, organization string) ([]*entity.Delivery, error) {
	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx,
		selectQuery("deliveries", deliveryColumns...)+
			" WHERE organization_detail = ? ORDER BY deleivery_date DESC, name DESC", organization)
	if err != nil {
		r.logger.Error("Failed to list deliveries", zap.String("organization", organization), zap.Error(err))
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*entity.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func scanDelivery(s rowScanner) (*entity.Delivery, error) {
	var d entity.Delivery
	err := s.Scan(
		&d.Name,
		&d.DeliveryType, &d.PurchasedBy, &d.OrganizationDetail, &d.OrganizationName,
		&d.DeliverTo, &d.PersonDetails, &d.FirstName, &d.LastName,
		&d.ShelterDetails, &d.ShelterName,
		&d.OrderDate, &d.DeliveryDate, &d.DisplayTitle,
		&d.Creation, &d.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

var _ port.DeliveryRepository = (*DeliveryRepository)(nil)
