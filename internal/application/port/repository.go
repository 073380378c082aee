package port

import (
	"context"

	"github.com/homieapp/homie/internal/domain/entity"
)

// Repositories return (nil, nil) when a record does not exist.
// Save inserts or updates by name; the name must already be assigned.

// PersonRepository defines persistence operations for PersonDetails
type PersonRepository interface {
	Save(ctx context.Context, p *entity.PersonDetails) error
	GetByName(ctx context.Context, name string) (*entity.PersonDetails, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.PersonDetails, error)
}

// ContactPersonRepository defines persistence operations for ContactPerson
type ContactPersonRepository interface {
	Save(ctx context.Context, p *entity.ContactPerson) error
	GetByName(ctx context.Context, name string) (*entity.ContactPerson, error)
}

// ShelterRepository defines persistence operations for AnimalShelter
type ShelterRepository interface {
	Save(ctx context.Context, s *entity.AnimalShelter) error
	GetByName(ctx context.Context, name string) (*entity.AnimalShelter, error)
}

// OrganizationRepository defines persistence operations for Organization
type OrganizationRepository interface {
	Save(ctx context.Context, o *entity.Organization) error
	GetByName(ctx context.Context, name string) (*entity.Organization, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Organization, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// ProductRepository defines persistence operations for Product
type ProductRepository interface {
	Save(ctx context.Context, p *entity.Product) error
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// AssociationRepository defines persistence operations for Association
type AssociationRepository interface {
	Save(ctx context.Context, a *entity.Association) error
	GetByName(ctx context.Context, name string) (*entity.Association, error)
}

// AnimalInformationRepository defines persistence operations for AnimalInformation
type AnimalInformationRepository interface {
	Save(ctx context.Context, a *entity.AnimalInformation) error
	GetByName(ctx context.Context, name string) (*entity.AnimalInformation, error)
}

// DeliveryRepository defines persistence operations for Delivery
type DeliveryRepository interface {
	Save(ctx context.Context, d *entity.Delivery) error
	GetByName(ctx context.Context, name string) (*entity.Delivery, error)
	// ListByOrganization returns deliveries funded by an organization, newest delivery date first
	ListByOrganization(ctx context.Context, organization string) ([]*entity.Delivery, error)
}

// DonationTotals represents aggregated donation figures
type DonationTotals struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// DonationRepository defines persistence operations for Donation and its items
type DonationRepository interface {
	// Save writes the donation and replaces its item rows
	Save(ctx context.Context, d *entity.Donation) error
	GetByName(ctx context.Context, name string) (*entity.Donation, error)
	GetByHash(ctx context.Context, hash string) (*entity.Donation, error)
	GetByNumber(ctx context.Context, number string) (*entity.Donation, error)
	// ListByOrganization returns donations with items, newest first
	ListByOrganization(ctx context.Context, organization string) ([]*entity.Donation, error)
	// ListRecent returns donations without items, newest first
	ListRecent(ctx context.Context, limit int) ([]*entity.Donation, error)
	Totals(ctx context.Context) (*DonationTotals, error)
}

// PaymentRepository defines persistence operations for DonationPayment
type PaymentRepository interface {
	Save(ctx context.Context, p *entity.DonationPayment) error
	GetByName(ctx context.Context, name string) (*entity.DonationPayment, error)
	GetByNumber(ctx context.Context, number string) (*entity.DonationPayment, error)
	GetByHash(ctx context.Context, hash string) (*entity.DonationPayment, error)
}

// FoodDemandRepository defines persistence operations for FoodDemand
type FoodDemandRepository interface {
	Save(ctx context.Context, d *entity.FoodDemand) error
	GetByName(ctx context.Context, name string) (*entity.FoodDemand, error)
}

// PersonDemandRepository defines persistence operations for PersonDemand
type PersonDemandRepository interface {
	Save(ctx context.Context, d *entity.PersonDemand) error
	GetByName(ctx context.Context, name string) (*entity.PersonDemand, error)
}

// NamingSeries hands out sequential record names
type NamingSeries interface {
	// Next returns PREFIX-<counter> with the counter zero padded to width
	Next(ctx context.Context, prefix string, width int) (string, error)
	// Exists reports whether a record of the kind already uses name
	Exists(ctx context.Context, kind entity.Kind, name string) (bool, error)
}

// TransactionManager runs work inside a database transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RecordRenamer rewrites record names together with the link fields that point at them
type RecordRenamer interface {
	// NumericNames lists the names of a kind that consist of digits only
	NumericNames(ctx context.Context, kind entity.Kind) ([]string, error)
	Rename(ctx context.Context, kind entity.Kind, from, to string) error
}
