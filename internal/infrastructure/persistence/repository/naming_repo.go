package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// tables maps each record kind to the table that stores it
var tables = map[entity.Kind]string{
	entity.KindPersonDetails:     "person_details",
	entity.KindContactPerson:     "contact_persons",
	entity.KindAnimalShelter:     "animal_shelters",
	entity.KindOrganization:      "organizations",
	entity.KindProduct:           "products",
	entity.KindAssociation:       "associations",
	entity.KindAnimalInformation: "animal_information",
	entity.KindDelivery:          "deliveries",
	entity.KindDonation:          "donations",
	entity.KindDonationPayment:   "donation_payments",
	entity.KindFoodDemand:        "food_demands",
	entity.KindPersonDemand:      "person_demands",
}

type linkColumn struct {
	table  string
	column string
}

// links lists the columns holding a name of the given kind.
// donation_items.parent follows donations through ON UPDATE CASCADE.
var links = map[entity.Kind][]linkColumn{
	entity.KindPersonDetails: {
		{"deliveries", "person_details"},
		{"deliveries", "purchased_by"},
		{"food_demands", "person_details"},
	},
	entity.KindContactPerson: {
		{"donations", "contact_person"},
		{"animal_information", "person_details"},
		{"person_demands", "person_details"},
	},
	entity.KindAnimalShelter: {
		{"donations", "shelter_details"},
		{"deliveries", "shelter_details"},
		{"food_demands", "contacted_animal_shelter"},
	},
	entity.KindOrganization: {
		{"donations", "organization"},
		{"deliveries", "organization_detail"},
	},
	entity.KindProduct: {
		{"donation_items", "product"},
		{"donation_items", "product_id"},
	},
	entity.KindDonation: {
		{"donation_payments", "donation"},
	},
}

var numericName = regexp.MustCompile(`^[0-9]+$`)

// NamingRepository implements port.NamingSeries and port.RecordRenamer
type NamingRepository struct {
	db     *sql.DB
	tx     *sqlite.DB
	logger *zap.Logger
}

// NewNamingRepository creates a new naming series repository
func NewNamingRepository(db *sql.DB, logger *zap.Logger) *NamingRepository {
	return &NamingRepository{
		db:     db,
		tx:     sqlite.NewDB(db, logger),
		logger: logger,
	}
}

// Next increments the counter of prefix and formats the new name
func (r *NamingRepository) Next(ctx context.Context, prefix string, width int) (string, error) {
	var current int64
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO naming_series (prefix, counter) VALUES (?, 1)
		ON CONFLICT(prefix) DO UPDATE SET counter = counter + 1
		RETURNING counter`, prefix,
	).Scan(&current)
	if err != nil {
		r.logger.Error("Failed to advance naming series", zap.String("prefix", prefix), zap.Error(err))
		return "", fmt.Errorf("failed to advance naming series %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, current), nil
}

// Exists reports whether a record of kind already uses name
func (r *NamingRepository) Exists(ctx context.Context, kind entity.Kind, name string) (bool, error) {
	table, ok := tables[kind]
	if !ok {
		return false, fmt.Errorf("unknown record kind %q", kind)
	}

	var n int
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", kind, name, err)
	}
	return n > 0, nil
}

// NumericNames lists names made of digits only, in numeric order
func (r *NamingRepository) NumericNames(ctx context.Context, kind entity.Kind) ([]string, error) {
	table, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx,
		"SELECT name FROM "+table+" WHERE name NOT GLOB '*[^0-9]*' AND name != '' ORDER BY CAST(name AS INTEGER)")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s names: %w", kind, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if numericName.MatchString(name) {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

// Rename moves a record to a new name, rewrites links to it and keeps the
// naming series counter ahead of numeric names taken over by the rename.
func (r *NamingRepository) Rename(ctx context.Context, kind entity.Kind, from, to string) error {
	table, ok := tables[kind]
	if !ok {
		return fmt.Errorf("unknown record kind %q", kind)
	}

	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		conn := sqlite.Conn(ctx, r.db)

		res, err := conn.ExecContext(ctx, "UPDATE "+table+" SET name = ? WHERE name = ?", to, from)
		if err != nil {
			return fmt.Errorf("failed to rename %s %s: %w", kind, from, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%s %s: %w", kind, from, port.ErrRecordNotFound)
		}

		for _, l := range links[kind] {
			if _, err := conn.ExecContext(ctx,
				"UPDATE "+l.table+" SET "+l.column+" = ? WHERE "+l.column+" = ?", to, from); err != nil {
				return fmt.Errorf("failed to update %s.%s: %w", l.table, l.column, err)
			}
		}

		info, ok := kind.Info()
		if !ok {
			return nil
		}
		if n, err := strconv.ParseInt(from, 10, 64); err == nil {
			if _, err := conn.ExecContext(ctx, `
				INSERT INTO naming_series (prefix, counter) VALUES (?, ?)
				ON CONFLICT(prefix) DO UPDATE SET counter = MAX(counter, excluded.counter)`,
				info.Prefix, n); err != nil {
				return fmt.Errorf("failed to bump naming series %s: %w", info.Prefix, err)
			}
		}

		r.logger.Info("Record renamed",
			zap.String("kind", string(kind)),
			zap.String("from", from),
			zap.String("to", to))
		return nil
	})
}

var (
	_ port.NamingSeries  = (*NamingRepository)(nil)
	_ port.RecordRenamer = (*NamingRepository)(nil)
)
