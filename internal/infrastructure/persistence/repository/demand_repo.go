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

var animalColumns = []string{
	"animal_type",
	"adult_dogs", "puppies", "senior_sick_dogs",
	"adult_cats", "kittens", "senior_sick_cats",
	"person_details", "first_name", "last_name",
}

// AnimalInformationRepository implements port.AnimalInformationRepository
type AnimalInformationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAnimalInformationRepository creates a new animal information repository
func NewAnimalInformationRepository(db *sql.DB, logger *zap.Logger) port.AnimalInformationRepository {
	return &AnimalInformationRepository{db: db, logger: logger}
}

// Save inserts or updates an animal information record
func (r *AnimalInformationRepository) Save(ctx context.Context, a *entity.AnimalInformation) error {
	if err := requireName(a.RecordKind(), a.Name); err != nil {
		return err
	}
	stamp(&a.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("animal_information", animalColumns...),
		args(&a.Meta,
			a.AnimalType,
			a.AdultDogs, a.Puppies, a.SeniorSickDogs,
			a.AdultCats, a.Kittens, a.SeniorSickCats,
			a.PersonDetails, a.FirstName, a.LastName,
		)...,
	)
	if err != nil {
		r.logger.Error("Failed to save animal information", zap.String("name", a.Name), zap.Error(err))
		return fmt.Errorf("failed to save animal information: %w", err)
	}
	return nil
}

// GetByName retrieves an animal information record by name
func (r *AnimalInformationRepository) GetByName(ctx context.Context, name string) (*entity.AnimalInformation, error) {
	var a entity.AnimalInformation
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("animal_information", animalColumns...)+" WHERE name = ?", name,
	).Scan(
		&a.Name,
		&a.AnimalType,
		&a.AdultDogs, &a.Puppies, &a.SeniorSickDogs,
		&a.AdultCats, &a.Kittens, &a.SeniorSickCats,
		&a.PersonDetails, &a.FirstName, &a.LastName,
		&a.Creation, &a.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get animal information", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get animal information: %w", err)
	}
	return &a, nil
}

var foodDemandColumns = []string{
	"order_by", "person_details", "first_name", "last_name",
	"contacted_animal_shelter", "shelter_name", "animal_shelter_status", "notes",
}

// FoodDemandRepository implements port.FoodDemandRepository
type FoodDemandRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFoodDemandRepository creates a new food demand repository
func NewFoodDemandRepository(db *sql.DB, logger *zap.Logger) port.FoodDemandRepository {
	return &FoodDemandRepository{db: db, logger: logger}
}

// Save inserts or updates a food demand
func (r *FoodDemandRepository) Save(ctx context.Context, d *entity.FoodDemand) error {
	if err := requireName(d.RecordKind(), d.Name); err != nil {
		return err
	}
	stamp(&d.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("food_demands", foodDemandColumns...),
		args(&d.Meta,
			d.OrderBy, d.PersonDetails, d.FirstName, d.LastName,
			d.ContactedAnimalShelter, d.ShelterName, d.AnimalShelterStatus, d.Notes,
		)...,
	)
	if err != nil {
		r.logger.Error("Failed to save food demand", zap.String("name", d.Name), zap.Error(err))
		return fmt.Errorf("failed to save food demand: %w", err)
	}
	return nil
}

// GetByName retrieves a food demand by name
func (r *FoodDemandRepository) GetByName(ctx context.Context, name string) (*entity.FoodDemand, error) {
	var d entity.FoodDemand
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("food_demands", foodDemandColumns...)+" WHERE name = ?", name,
	).Scan(
		&d.Name,
		&d.OrderBy, &d.PersonDetails, &d.FirstName, &d.LastName,
		&d.ContactedAnimalShelter, &d.ShelterName, &d.AnimalShelterStatus, &d.Notes,
		&d.Creation, &d.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get food demand", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get food demand: %w", err)
	}
	return &d, nil
}

var personDemandColumns = []string{"person_details", "first_name", "last_name", "description"}

// PersonDemandRepository implements port.PersonDemandRepository
type PersonDemandRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPersonDemandRepository creates a new person demand repository
func NewPersonDemandRepository(db *sql.DB, logger *zap.Logger) port.PersonDemandRepository {
	return &PersonDemandRepository{db: db, logger: logger}
}

// Save inserts or updates a person demand
func (r *PersonDemandRepository) Save(ctx context.Context, d *entity.PersonDemand) error {
	if err := requireName(d.RecordKind(), d.Name); err != nil {
		return err
	}
	stamp(&d.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("person_demands", personDemandColumns...),
		args(&d.Meta, d.PersonDetails, d.FirstName, d.LastName, d.Description)...,
	)
	if err != nil {
		r.logger.Error("Failed to save person demand", zap.String("name", d.Name), zap.Error(err))
		return fmt.Errorf("failed to save person demand: %w", err)
	}
	return nil
}

// GetByName retrieves a person demand by name
func (r *PersonDemandRepository) GetByName(ctx context.Context, name string) (*entity.PersonDemand, error) {
	var d entity.PersonDemand
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("person_demands", personDemandColumns...)+" WHERE name = ?", name,
	).Scan(&d.Name, &d.PersonDetails, &d.FirstName, &d.LastName, &d.Description, &d.Creation, &d.Modified)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get person demand", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get person demand: %w", err)
	}
	return &d, nil
}

var (
	_ port.AnimalInformationRepository = (*AnimalInformationRepository)(nil)
	_ port.FoodDemandRepository        = (*FoodDemandRepository)(nil)
	_ port.PersonDemandRepository      = (*PersonDemandRepository)(nil)
)
