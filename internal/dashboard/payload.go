// Package dashboard builds the organization and workspace dashboards:
// the aggregate payloads, the sources they are read from and their
// HTML and spreadsheet renderings.
package dashboard

import (
	"context"
	"errors"
)

// ErrUnknownSection is returned for workspace sections that do not exist
var ErrUnknownSection = errors.New("unknown dashboard section")

// OrganizationRef identifies the organization a dashboard belongs to
type OrganizationRef struct {
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
}

// OrganizationKPIs are the headline figures of an organization
type OrganizationKPIs struct {
	TotalDonated           float64 `json:"total_donated"`
	DonationCount          int     `json:"donation_count"`
	DonationToPersonCount  int     `json:"donation_to_person_count"`
	DonationToShelterCount int     `json:"donation_to_shelter_count"`
	DeliveryCount          int     `json:"delivery_count"`
}

// DonationItemRow is one line of a donation in the payload
type DonationItemRow struct {
	Product     string  `json:"product"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
	Total       float64 `json:"total"`
}

// DonationRow is a donation made by the organization
type DonationRow struct {
	Name             string            `json:"name"`
	DonatedAt        string            `json:"donated_at"`
	Total            float64           `json:"total"`
	DonatedTo        string            `json:"donated_to"`
	ContactPerson    string            `json:"contact_person"`
	PersonFirstName  string            `json:"person_first_name"`
	PersonLastName   string            `json:"person_last_name"`
	ShelterDetails   string            `json:"shelter_details"`
	ShelterName      string            `json:"shelter_name"`
	OrganizationName string            `json:"organization_name"`
	Items            []DonationItemRow `json:"items"`
}

// DeliveryRow is a delivery funded by the organization
type DeliveryRow struct {
	Name               string `json:"name"`
	DeliveryType       string `json:"deleivery_type"`
	OrganizationDetail string `json:"organization_detail"`
	OrganizationName   string `json:"organization_name"`
	DeliverTo          string `json:"deleiver_to"`
	PersonDetails      string `json:"person_details"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	ShelterDetails     string `json:"shelter_details"`
	ShelterName        string `json:"shelter_name"`
	OrderDate          string `json:"order_date"`
	DeliveryDate       string `json:"deleivery_date"`
	RecipientDisplay   string `json:"recipient_display"`
}

// OrganizationDashboard is the aggregate payload of the organization dashboard
type OrganizationDashboard struct {
	Organization OrganizationRef  `json:"organization"`
	KPIs         OrganizationKPIs `json:"kpis"`
	Donations    []DonationRow    `json:"donations"`
	Deliveries   []DeliveryRow    `json:"deliveries"`
}

// WorkspaceKPIs are the headline figures of the whole workspace
type WorkspaceKPIs struct {
	TotalProducts       int     `json:"total_products"`
	TotalDonations      int     `json:"total_donations"`
	TotalAmount         float64 `json:"total_amount"`
	OutOfStock          int     `json:"out_of_stock"`
	ActiveOrganizations int     `json:"active_organizations"`
}

// Table is a list of records with an explicit column order.
// A nil cell is a missing value.
type Table struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// Workspace sections, in page order
const (
	SectionOrganizations = "organizations"
	SectionProducts      = "products"
	SectionPersons       = "persons"
	SectionDonations     = "donations"
)

// Sections lists the workspace table sections in page order
var Sections = []string{SectionOrganizations, SectionProducts, SectionPersons, SectionDonations}

var sectionTitles = map[string]string{
	SectionOrganizations: "Organizations",
	SectionProducts:      "Products",
	SectionPersons:       "Person Details",
	SectionDonations:     "Donations",
}

// Source provides dashboard payloads. A nil payload with a nil error means
// the source had no data.
type Source interface {
	Organization(ctx context.Context, name string) (*OrganizationDashboard, error)
	WorkspaceKPIs(ctx context.Context) (*WorkspaceKPIs, error)
	WorkspaceTable(ctx context.Context, section string) (*Table, error)
}
