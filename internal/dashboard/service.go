package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

// Logger interface for dashboard logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

const dateTimeLayout = "2006-01-02 15:04:05"

// Repositories are the stores the dashboards aggregate
type Repositories struct {
	Organizations port.OrganizationRepository
	Products      port.ProductRepository
	Persons       port.PersonRepository
	Donations     port.DonationRepository
	Deliveries    port.DeliveryRepository
}

// Service computes dashboard payloads from the record store
type Service struct {
	repos  Repositories
	limit  int
	logger Logger
}

// NewService creates the in-process dashboard source. limit bounds the
// workspace lists.
func NewService(repos Repositories, limit int, logger Logger) *Service {
	if limit <= 0 {
		limit = 10
	}
	return &Service{repos: repos, limit: limit, logger: logger}
}

// Organization aggregates the donations and deliveries of an organization
func (s *Service) Organization(ctx context.Context, name string) (*OrganizationDashboard, error) {
	org, err := s.repos.Organizations.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("%w: %s %s", port.ErrRecordNotFound, entity.KindOrganization, name)
	}

	donations, err := s.repos.Donations.ListByOrganization(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	deliveries, err := s.repos.Deliveries.ListByOrganization(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	out := &OrganizationDashboard{
		Organization: OrganizationRef{Name: org.Name, OrganizationName: org.OrganizationName},
		Donations:    make([]DonationRow, 0, len(donations)),
		Deliveries:   make([]DeliveryRow, 0, len(deliveries)),
	}

	var total float64
	for _, d := range donations {
		total += d.Total
		switch d.DonatedTo {
		case entity.RecipientPerson:
			out.KPIs.DonationToPersonCount++
		case entity.RecipientAnimalShelter:
			out.KPIs.DonationToShelterCount++
		}
		out.Donations = append(out.Donations, toDonationRow(d))
	}
	for _, d := range deliveries {
		out.Deliveries = append(out.Deliveries, toDeliveryRow(d))
	}

	out.KPIs.TotalDonated = entity.RoundCents(total)
	out.KPIs.DonationCount = len(donations)
	out.KPIs.DeliveryCount = len(deliveries)

	s.logger.Info("Organization dashboard computed",
		"organization", name,
		"donations", len(donations),
		"deliveries", len(deliveries))
	return out, nil
}

// WorkspaceKPIs counts products, donations and active organizations
func (s *Service) WorkspaceKPIs(ctx context.Context) (*WorkspaceKPIs, error) {
	products, err := s.repos.Products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	outOfStock, err := s.repos.Products.CountByStatus(ctx, entity.ProductStatusOutOfStock)
	if err != nil {
		return nil, fmt.Errorf("failed to count out of stock products: %w", err)
	}
	totals, err := s.repos.Donations.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total donations: %w", err)
	}
	active, err := s.repos.Organizations.CountByStatus(ctx, entity.OrganizationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active organizations: %w", err)
	}

	return &WorkspaceKPIs{
		TotalProducts:       products,
		TotalDonations:      totals.Count,
		TotalAmount:         totals.Amount,
		OutOfStock:          outOfStock,
		ActiveOrganizations: active,
	}, nil
}

// WorkspaceTable returns the latest records of a workspace section
func (s *Service) WorkspaceTable(ctx context.Context, section string) (*Table, error) {
	switch section {
	case SectionOrganizations:
		orgs, err := s.repos.Organizations.ListRecent(ctx, s.limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list organizations: %w", err)
		}
		t := &Table{Columns: []string{"logo", "organization_name", "organization_email", "organization_contact_no", "status", "country", "organization_city"}}
		for _, o := range orgs {
			t.Rows = append(t.Rows, map[string]interface{}{
				"logo":                    nullString(o.Logo),
				"organization_name":       nullString(o.OrganizationName),
				"organization_email":      nullString(o.OrganizationEmail),
				"organization_contact_no": nullString(o.OrganizationContactNo),
				"status":                  nullString(o.Status),
				"country":                 nullString(o.Country),
				"organization_city":       nullString(o.OrganizationCity),
			})
		}
		return t, nil

	case SectionProducts:
		products, err := s.repos.Products.ListRecent(ctx, s.limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		t := &Table{Columns: []string{"product_image_desktop", "name", "product_name", "product_price", "product_status", "product_category", "type"}}
		for _, p := range products {
			t.Rows = append(t.Rows, map[string]interface{}{
				"product_image_desktop": nullString(p.ProductImageDesktop),
				"name":                  p.Name,
				"product_name":          nullString(p.ProductName),
				"product_price":         p.ProductPrice,
				"product_status":        nullString(p.ProductStatus),
				"product_category":      nullString(p.ProductCategory),
				"type":                  nullString(p.Type),
			})
		}
		return t, nil

	case SectionPersons:
		persons, err := s.repos.Persons.ListRecent(ctx, s.limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list persons: %w", err)
		}
		t := &Table{Columns: []string{"full_name", "email", "contact_no", "person_country", "person_city", "street"}}
		for _, p := range persons {
			t.Rows = append(t.Rows, map[string]interface{}{
				"full_name":      nullString(p.FullName),
				"email":          nullString(p.Email),
				"contact_no":     nullString(p.ContactNo),
				"person_country": nullString(p.PersonCountry),
				"person_city":    nullString(p.PersonCity),
				"street":         nullString(p.Street),
			})
		}
		return t, nil

	case SectionDonations:
		donations, err := s.repos.Donations.ListRecent(ctx, s.limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list donations: %w", err)
		}
		t := &Table{Columns: []string{"name", "donated_at", "total", "donated_to"}}
		for _, d := range donations {
			var donatedAt interface{}
			if d.DonatedAt != nil {
				donatedAt = formatTime(d.DonatedAt)
			}
			t.Rows = append(t.Rows, map[string]interface{}{
				"name":       d.Name,
				"donated_at": donatedAt,
				"total":      d.Total,
				"donated_to": nullString(d.DonatedTo),
			})
		}
		return t, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
}

func toDonationRow(d *entity.Donation) DonationRow {
	row := DonationRow{
		Name:             d.Name,
		DonatedAt:        formatTime(d.DonatedAt),
		Total:            d.Total,
		DonatedTo:        d.DonatedTo,
		ContactPerson:    d.ContactPerson,
		PersonFirstName:  d.PersonFirstName,
		PersonLastName:   d.PersonLastName,
		ShelterDetails:   d.ShelterDetails,
		ShelterName:      d.ShelterName,
		OrganizationName: d.OrganizationName,
		Items:            make([]DonationItemRow, 0, len(d.Items)),
	}
	for _, item := range d.Items {
		row.Items = append(row.Items, DonationItemRow{
			Product:     item.Product,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
			Total:       item.Total,
		})
	}
	return row
}

func toDeliveryRow(d *entity.Delivery) DeliveryRow {
	return DeliveryRow{
		Name:               d.Name,
		DeliveryType:       d.DeliveryType,
		OrganizationDetail: d.OrganizationDetail,
		OrganizationName:   d.OrganizationName,
		DeliverTo:          d.DeliverTo,
		PersonDetails:      d.PersonDetails,
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		ShelterDetails:     d.ShelterDetails,
		ShelterName:        d.ShelterName,
		OrderDate:          d.OrderDate,
		DeliveryDate:       d.DeliveryDate,
		RecipientDisplay:   d.RecipientDisplay(),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// nullString maps an unset column to a missing cell
func nullString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
