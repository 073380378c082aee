package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/pkg/utils"
)

// maxNameAttempts bounds the search for a free name when a series collides
// with names that were assigned outside of it.
const maxNameAttempts = 100

// Repositories groups the stores of every record kind
type Repositories struct {
	Persons       port.PersonRepository
	Contacts      port.ContactPersonRepository
	Shelters      port.ShelterRepository
	Organizations port.OrganizationRepository
	Products      port.ProductRepository
	Associations  port.AssociationRepository
	Animals       port.AnimalInformationRepository
	Deliveries    port.DeliveryRepository
	Donations     port.DonationRepository
	Payments      port.PaymentRepository
	FoodDemands   port.FoodDemandRepository
	PersonDemands port.PersonDemandRepository
}

// RecordService reads linked records and stores records of every kind.
// Saving runs the kind's hooks first: derived fields are recomputed and
// field errors are returned as a *port.ValidationError.
type RecordService interface {
	port.LinkReader
	port.RecordWriter
	port.RecordLoader
}

type recordServiceImpl struct {
	repos     Repositories
	naming    port.NamingSeries
	txManager port.TransactionManager
	logger    Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(
	repos Repositories,
	naming port.NamingSeries,
	txManager port.TransactionManager,
	logger Logger,
) RecordService {
	return &recordServiceImpl{
		repos:     repos,
		naming:    naming,
		txManager: txManager,
		logger:    logger,
	}
}

func notFound(kind entity.Kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, port.ErrRecordNotFound)
}

// Person implements port.LinkReader
func (s *recordServiceImpl) Person(ctx context.Context, name string) (*entity.PersonDetails, error) {
	p, err := s.repos.Persons.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	if p == nil {
		return nil, notFound(entity.KindPersonDetails, name)
	}
	return p, nil
}

// ContactPerson implements port.LinkReader
func (s *recordServiceImpl) ContactPerson(ctx context.Context, name string) (*entity.ContactPerson, error) {
	p, err := s.repos.Contacts.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get contact person: %w", err)
	}
	if p == nil {
		return nil, notFound(entity.KindContactPerson, name)
	}
	return p, nil
}

// Shelter implements port.LinkReader
func (s *recordServiceImpl) Shelter(ctx context.Context, name string) (*entity.AnimalShelter, error) {
	sh, err := s.repos.Shelters.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get shelter: %w", err)
	}
	if sh == nil {
		return nil, notFound(entity.KindAnimalShelter, name)
	}
	return sh, nil
}

// Organization implements port.LinkReader
func (s *recordServiceImpl) Organization(ctx context.Context, name string) (*entity.Organization, error) {
	o, err := s.repos.Organizations.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if o == nil {
		return nil, notFound(entity.KindOrganization, name)
	}
	return o, nil
}

// Product implements port.LinkReader
func (s *recordServiceImpl) Product(ctx context.Context, name string) (*entity.Product, error) {
	p, err := s.repos.Products.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, notFound(entity.KindProduct, name)
	}
	return p, nil
}

// LoadRecord implements port.RecordLoader
func (s *recordServiceImpl) LoadRecord(ctx context.Context, kind entity.Kind, name string) (entity.Record, error) {
	var (
		rec entity.Record
		err error
	)

	// each branch checks for a typed nil so that a missing row is not
	// returned as a non-nil interface
	switch kind {
	case entity.KindPersonDetails:
		rec, err = s.Person(ctx, name)
	case entity.KindContactPerson:
		rec, err = s.ContactPerson(ctx, name)
	case entity.KindAnimalShelter:
		rec, err = s.Shelter(ctx, name)
	case entity.KindOrganization:
		rec, err = s.Organization(ctx, name)
	case entity.KindProduct:
		rec, err = s.Product(ctx, name)
	case entity.KindAssociation:
		a, e := s.repos.Associations.GetByName(ctx, name)
		rec, err = found(a, a == nil, e, kind, name)
	case entity.KindAnimalInformation:
		a, e := s.repos.Animals.GetByName(ctx, name)
		rec, err = found(a, a == nil, e, kind, name)
	case entity.KindDelivery:
		d, e := s.repos.Deliveries.GetByName(ctx, name)
		rec, err = found(d, d == nil, e, kind, name)
	case entity.KindDonation:
		d, e := s.repos.Donations.GetByName(ctx, name)
		rec, err = found(d, d == nil, e, kind, name)
	case entity.KindDonationPayment:
		p, e := s.repos.Payments.GetByName(ctx, name)
		rec, err = found(p, p == nil, e, kind, name)
	case entity.KindFoodDemand:
		d, e := s.repos.FoodDemands.GetByName(ctx, name)
		rec, err = found(d, d == nil, e, kind, name)
	case entity.KindPersonDemand:
		d, e := s.repos.PersonDemands.GetByName(ctx, name)
		rec, err = found(d, d == nil, e, kind, name)
	default:
		return nil, fmt.Errorf("%w: %s", port.ErrUnknownKind, kind)
	}

	if err != nil {
		return nil, err
	}
	return rec, nil
}

func found(rec entity.Record, missing bool, err error, kind entity.Kind, name string) (entity.Record, error) {
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	if missing {
		return nil, notFound(kind, name)
	}
	return rec, nil
}

// SaveRecord implements port.RecordWriter
func (s *recordServiceImpl) SaveRecord(ctx context.Context, rec entity.Record) (string, error) {
	kind := rec.RecordKind()
	info, ok := kind.Info()
	if !ok {
		return "", fmt.Errorf("%w: %s", port.ErrUnknownKind, kind)
	}

	if err := s.beforeSave(ctx, rec); err != nil {
		s.logger.Info("Record rejected", "kind", kind, "name", rec.RecordName(), "error", err)
		return "", err
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if strings.TrimSpace(rec.RecordName()) == "" {
			name, err := s.nextName(ctx, info)
			if err != nil {
				return err
			}
			rec.SetRecordName(name)
		}
		return s.store(ctx, rec)
	})
	if err != nil {
		s.logger.Error("Failed to save record", "kind", kind, "name", rec.RecordName(), "error", err)
		return "", fmt.Errorf("save %s: %w", kind, err)
	}

	s.logger.Info("Record saved", "kind", kind, "name", rec.RecordName())
	return rec.RecordName(), nil
}

func (s *recordServiceImpl) nextName(ctx context.Context, info entity.KindInfo) (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name, err := s.naming.Next(ctx, info.Prefix, info.Width)
		if err != nil {
			return "", fmt.Errorf("next name: %w", err)
		}
		taken, err := s.naming.Exists(ctx, info.Kind, name)
		if err != nil {
			return "", fmt.Errorf("check name: %w", err)
		}
		if !taken {
			return name, nil
		}
	}
	return "", fmt.Errorf("no free name in series %s after %d attempts", info.Prefix, maxNameAttempts)
}

func (s *recordServiceImpl) store(ctx context.Context, rec entity.Record) error {
	switch r := rec.(type) {
	case *entity.PersonDetails:
		return s.repos.Persons.Save(ctx, r)
	case *entity.ContactPerson:
		return s.repos.Contacts.Save(ctx, r)
	case *entity.AnimalShelter:
		return s.repos.Shelters.Save(ctx, r)
	case *entity.Organization:
		return s.repos.Organizations.Save(ctx, r)
	case *entity.Product:
		return s.repos.Products.Save(ctx, r)
	case *entity.Association:
		return s.repos.Associations.Save(ctx, r)
	case *entity.AnimalInformation:
		return s.repos.Animals.Save(ctx, r)
	case *entity.Delivery:
		return s.repos.Deliveries.Save(ctx, r)
	case *entity.Donation:
		return s.repos.Donations.Save(ctx, r)
	case *entity.DonationPayment:
		return s.repos.Payments.Save(ctx, r)
	case *entity.FoodDemand:
		return s.repos.FoodDemands.Save(ctx, r)
	case *entity.PersonDemand:
		return s.repos.PersonDemands.Save(ctx, r)
	}
	return fmt.Errorf("%w: %T", port.ErrUnknownKind, rec)
}

// beforeSave recomputes derived fields and validates the record
func (s *recordServiceImpl) beforeSave(ctx context.Context, rec entity.Record) error {
	verr := port.NewValidationError()

	switch r := rec.(type) {
	case *entity.PersonDetails:
		r.FullName = r.ComposeFullName()
	case *entity.ContactPerson:
		checkEmail(verr, "email", r.Email)
	case *entity.Association:
		checkEmail(verr, "email", r.Email)
	case *entity.Delivery:
		r.DisplayTitle = r.Title()
	case *entity.DonationPayment:
		verr.Merge(r.Problems())
	case *entity.Donation:
		if err := s.priceItems(ctx, r, verr); err != nil {
			return err
		}
	}
	return verr.OrNil()
}

// priceItems refreshes each line's unit amount from its product and
// recomputes line totals and the donation total. A donation without
// lines keeps its total.
func (s *recordServiceImpl) priceItems(ctx context.Context, d *entity.Donation, verr *port.ValidationError) error {
	if len(d.Items) == 0 {
		return nil
	}

	for i := range d.Items {
		item := &d.Items[i]
		if item.Product == "" {
			continue
		}
		p, err := s.Product(ctx, item.Product)
		if errors.Is(err, port.ErrRecordNotFound) {
			verr.Add(fmt.Sprintf("items.%d.product", i+1), "Product %s not found", item.Product)
			continue
		}
		if err != nil {
			return err
		}
		item.Amount = p.ProductPrice
		if item.ProductID == "" {
			item.ProductID = item.Product
		}
		if item.ProductName == "" {
			item.ProductName = p.ProductName
		}
	}

	d.Recalculate()
	return nil
}

func checkEmail(verr *port.ValidationError, field, email string) {
	if email == "" {
		return
	}
	if err := utils.ValidateEmail(email); err != nil {
		verr.Add(field, "Invalid email address: %s", email)
	}
}

var _ RecordService = (*recordServiceImpl)(nil)
