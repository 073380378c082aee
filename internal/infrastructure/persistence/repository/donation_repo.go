package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

var donationColumns = []string{
	"donated_to", "contact_person", "person_first_name", "person_last_name", "person_email",
	"shelter_details", "shelter_name", "organization", "organization_name",
	"total", "donated_at",
	"hash", "donation_number", "email", "first_name", "last_name", "is_anonymous",
	"currency", "wishlist", "source", "company", "ip_address", "user_agent", "is_subscription",
}

const donationItemSelect = `
	SELECT row_id, parent, idx, product, product_id, product_name, wishlist_item,
		quantity, amount, total
	FROM donation_items`

// DonationRepository implements port.DonationRepository
type DonationRepository struct {
	db     *sql.DB
	tx     *sqlite.DB
	logger *zap.Logger
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *sql.DB, logger *zap.Logger) port.DonationRepository {
	return &DonationRepository{
		db:     db,
		tx:     sqlite.NewDB(db, logger),
		logger: logger,
	}
}

// Save writes the donation header and replaces its item rows in one transaction.
// Rows without a row id get a fresh one; positions are renumbered from 1.
func (r *DonationRepository) Save(ctx context.Context, d *entity.Donation) error {
	if err := requireName(d.RecordKind(), d.Name); err != nil {
		return err
	}
	stamp(&d.Meta, time.Now())
	for i := range d.Items {
		if d.Items[i].RowID == "" {
			d.Items[i].RowID = uuid.NewString()
		}
	}
	d.Renumber()

	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		conn := sqlite.Conn(ctx, r.db)

		_, err := conn.ExecContext(ctx, upsertQuery("donations", donationColumns...),
			args(&d.Meta,
				d.DonatedTo, d.ContactPerson, d.PersonFirstName, d.PersonLastName, d.PersonEmail,
				d.ShelterDetails, d.ShelterName, d.Organization, d.OrganizationName,
				d.Total, nullTime(d.DonatedAt),
				d.Hash, d.DonationNumber, d.Email, d.FirstName, d.LastName, d.IsAnonymous,
				d.Currency, d.Wishlist, d.Source, d.Company, d.IPAddress, d.UserAgent, d.IsSubscription,
			)...,
		)
		if err != nil {
			r.logger.Error("Failed to save donation", zap.String("name", d.Name), zap.Error(err))
			return fmt.Errorf("failed to save donation: %w", err)
		}

		if _, err := conn.ExecContext(ctx, "DELETE FROM donation_items WHERE parent = ?", d.Name); err != nil {
			return fmt.Errorf("failed to clear donation items: %w", err)
		}

		for _, item := range d.Items {
			_, err := conn.ExecContext(ctx, `
				INSERT INTO donation_items (
					row_id, parent, idx, product, product_id, product_name, wishlist_item,
					quantity, amount, total
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				item.RowID, d.Name, item.Idx, item.Product, item.ProductID, item.ProductName,
				item.WishlistItem, item.Quantity, item.Amount, item.Total,
			)
			if err != nil {
				r.logger.Error("Failed to save donation item",
					zap.String("donation", d.Name),
					zap.Int("idx", item.Idx),
					zap.Error(err))
				return fmt.Errorf("failed to save donation item %d: %w", item.Idx, err)
			}
		}
		return nil
	})
}

// GetByName retrieves a donation with its items
func (r *DonationRepository) GetByName(ctx context.Context, name string) (*entity.Donation, error) {
	return r.getOne(ctx, "name", name)
}

// GetByHash retrieves the donation created for an intake hash
func (r *DonationRepository) GetByHash(ctx context.Context, hash string) (*entity.Donation, error) {
	return r.getOne(ctx, "hash", hash)
}

// GetByNumber retrieves the donation created for an external donation number
func (r *DonationRepository) GetByNumber(ctx context.Context, number string) (*entity.Donation, error) {
	return r.getOne(ctx, "donation_number", number)
}

func (r *DonationRepository) getOne(ctx context.Context, column, value string) (*entity.Donation, error) {
	if value == "" {
		return nil, nil
	}

	row := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("donations", donationColumns...)+" WHERE "+column+" = ? ORDER BY creation LIMIT 1", value)

	d, err := scanDonation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get donation", zap.String(column, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	if err := r.attachItems(ctx, []*entity.Donation{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// ListByOrganization returns the donations made by an organization with their items,
// newest donation first
func (r *DonationRepository) ListByOrganization(ctx context.Context, organization string) ([]*entity.Donation, error) {
	donations, err := r.list(ctx,
		" WHERE organization = ? ORDER BY donated_at DESC, creation DESC, name DESC", organization)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// ListRecent returns the latest donations without their items
func (r *DonationRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Donation, error) {
	return r.list(ctx, " ORDER BY donated_at DESC, creation DESC, name DESC LIMIT ?", limit)
}

// Totals returns the donation count and the sum of donation totals
func (r *DonationRepository) Totals(ctx context.Context) (*port.DonationTotals, error) {
	var totals port.DonationTotals
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(total), 0) FROM donations",
	).Scan(&totals.Count, &totals.Amount)
	if err != nil {
		r.logger.Error("Failed to total donations", zap.Error(err))
		return nil, fmt.Errorf("failed to total donations: %w", err)
	}
	totals.Amount = entity.RoundCents(totals.Amount)
	return &totals, nil
}

func (r *DonationRepository) list(ctx context.Context, clause string, params ...interface{}) ([]*entity.Donation, error) {
	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, selectQuery("donations", donationColumns...)+clause, params...)
	if err != nil {
		r.logger.Error("Failed to list donations", zap.Error(err))
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer rows.Close()

	var donations []*entity.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// attachItems loads the item rows of all donations with a single query
func (r *DonationRepository) attachItems(ctx context.Context, donations []*entity.Donation) error {
	if len(donations) == 0 {
		return nil
	}

	byName := make(map[string]*entity.Donation, len(donations))
	params := make([]interface{}, 0, len(donations))
	for _, d := range donations {
		byName[d.Name] = d
		d.Items = []entity.DonationItem{}
		params = append(params, d.Name)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")
	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx,
		donationItemSelect+" WHERE parent IN ("+placeholders+") ORDER BY parent, idx", params...)
	if err != nil {
		r.logger.Error("Failed to load donation items", zap.Error(err))
		return fmt.Errorf("failed to load donation items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.DonationItem
		var parent string
		if err := rows.Scan(
			&item.RowID, &parent, &item.Idx, &item.Product, &item.ProductID, &item.ProductName,
			&item.WishlistItem, &item.Quantity, &item.Amount, &item.Total,
		); err != nil {
			return fmt.Errorf("failed to scan donation item: %w", err)
		}
		if d, ok := byName[parent]; ok {
			d.Items = append(d.Items, item)
		}
	}
	return rows.Err()
}

func scanDonation(s rowScanner) (*entity.Donation, error) {
	var d entity.Donation
	var donatedAt sql.NullTime
	err := s.Scan(
		&d.Name,
		&d.DonatedTo, &d.ContactPerson, &d.PersonFirstName, &d.PersonLastName, &d.PersonEmail,
		&d.ShelterDetails, &d.ShelterName, &d.Organization, &d.OrganizationName,
		&d.Total, &donatedAt,
		&d.Hash, &d.DonationNumber, &d.Email, &d.FirstName, &d.LastName, &d.IsAnonymous,
		&d.Currency, &d.Wishlist, &d.Source, &d.Company, &d.IPAddress, &d.UserAgent, &d.IsSubscription,
		&d.Creation, &d.Modified,
	)
	if err != nil {
		return nil, err
	}
	if donatedAt.Valid {
		t := donatedAt.Time
		d.DonatedAt = &t
	}
	return &d, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ port.DonationRepository = (*DonationRepository)(nil)
