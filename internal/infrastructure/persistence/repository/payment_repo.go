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

var paymentColumns = []string{
	"hash", "type", "amount", "info_1", "info_2", "info_3",
	"number", "provider", "payment_at", "donation", "created_from_payload",
}

// PaymentRepository implements port.PaymentRepository
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new donation payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) port.PaymentRepository {
	return &PaymentRepository{db: db, logger: logger}
}

// Save inserts or updates a payment
func (r *PaymentRepository) Save(ctx context.Context, p *entity.DonationPayment) error {
	if err := requireName(p.RecordKind(), p.Name); err != nil {
		return err
	}
	stamp(&p.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("donation_payments", paymentColumns...),
		args(&p.Meta,
			p.Hash, p.Type, p.Amount, p.Info1, p.Info2, p.Info3,
			p.Number, p.Provider, nullTime(p.PaymentAt), p.Donation, p.CreatedFromPayload,
		)...,
	)
	if err != nil {
		r.logger.Error("Failed to save payment", zap.String("name", p.Name), zap.Error(err))
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// GetByName retrieves a payment by name
func (r *PaymentRepository) GetByName(ctx context.Context, name string) (*entity.DonationPayment, error) {
	return r.getOne(ctx, "name", name)
}

// GetByNumber retrieves a payment by its provider number
func (r *PaymentRepository) GetByNumber(ctx context.Context, number string) (*entity.DonationPayment, error) {
	return r.getOne(ctx, "number", number)
}

// GetByHash retrieves a payment by its intake hash
func (r *PaymentRepository) GetByHash(ctx context.Context, hash string) (*entity.DonationPayment, error) {
	return r.getOne(ctx, "hash", hash)
}

func (r *PaymentRepository) getOne(ctx context.Context, column, value string) (*entity.DonationPayment, error) {
	if value == "" {
		return nil, nil
	}

	var p entity.DonationPayment
	var paymentAt sql.NullTime
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("donation_payments", paymentColumns...)+" WHERE "+column+" = ? ORDER BY creation LIMIT 1", value,
	).Scan(
		&p.Name,
		&p.Hash, &p.Type, &p.Amount, &p.Info1, &p.Info2, &p.Info3,
		&p.Number, &p.Provider, &paymentAt, &p.Donation, &p.CreatedFromPayload,
		&p.Creation, &p.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get payment", zap.String(column, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if paymentAt.Valid {
		t := paymentAt.Time
		p.PaymentAt = &t
	}
	return &p, nil
}

var _ port.PaymentRepository = (*PaymentRepository)(nil)
