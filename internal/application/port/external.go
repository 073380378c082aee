package port

import (
	"context"

	"github.com/homieapp/homie/internal/domain/entity"
)

// LinkReader reads the records that link fields point at.
// Implementations return an error wrapping ErrRecordNotFound for unknown names.
type LinkReader interface {
	Person(ctx context.Context, name string) (*entity.PersonDetails, error)
	ContactPerson(ctx context.Context, name string) (*entity.ContactPerson, error)
	Shelter(ctx context.Context, name string) (*entity.AnimalShelter, error)
	Organization(ctx context.Context, name string) (*entity.Organization, error)
	Product(ctx context.Context, name string) (*entity.Product, error)
}

// RecordWriter validates and persists records
type RecordWriter interface {
	// SaveRecord runs the kind's save hooks, assigns a name when the record
	// has none and stores it. It returns the record name.
	SaveRecord(ctx context.Context, rec entity.Record) (string, error)
}

// RecordLoader loads any stored record by kind and name
type RecordLoader interface {
	LoadRecord(ctx context.Context, kind entity.Kind, name string) (entity.Record, error)
}
