package entity

// PersonDetails is a private person that receives deliveries or orders food
type PersonDetails struct {
	Meta
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	ContactNo     string `json:"contact_no"`
	PersonCountry string `json:"person_country"`
	PersonCity    string `json:"person_city"`
	Street        string `json:"street"`
}

func (*PersonDetails) RecordKind() Kind { return KindPersonDetails }

// ComposeFullName joins first and last name, skipping empty parts
func (p *PersonDetails) ComposeFullName() string {
	return joinName(p.FirstName, p.LastName)
}

// ContactPerson is the contact person of an association
type ContactPerson struct {
	Meta
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (*ContactPerson) RecordKind() Kind { return KindContactPerson }

// AnimalShelter is a shelter that can receive deliveries and donations
type AnimalShelter struct {
	Meta
	ShelterName string `json:"shelter_name"`
	City        string `json:"city"`
}

func (*AnimalShelter) RecordKind() Kind { return KindAnimalShelter }

// DisplayName falls back to the identifier when the shelter has no name
func (s *AnimalShelter) DisplayName() string {
	return firstNonEmpty(s.ShelterName, s.Name)
}

// Organization donates goods and funds deliveries
type Organization struct {
	Meta
	OrganizationName      string `json:"organization_name"`
	OrganizationEmail     string `json:"organization_email"`
	OrganizationContactNo string `json:"organization_contact_no"`
	OrganizationType      string `json:"organization_type"`
	Status                string `json:"status"`
	Country               string `json:"country"`
	OrganizationCity      string `json:"organization_city"`
	Logo                  string `json:"logo"`
}

func (*Organization) RecordKind() Kind { return KindOrganization }

// DisplayName falls back to the identifier when the organization has no name
func (o *Organization) DisplayName() string {
	return firstNonEmpty(o.OrganizationName, o.Name)
}

// Product is an item that can be donated
type Product struct {
	Meta
	ProductName         string  `json:"product_name"`
	ProductPrice        float64 `json:"product_price"`
	ProductStatus       string  `json:"product_status"`
	ProductCategory     string  `json:"product_category"`
	Type                string  `json:"type"`
	ProductImageDesktop string  `json:"product_image_desktop"`
}

func (*Product) RecordKind() Kind { return KindProduct }

// Association is a registered animal-welfare association
type Association struct {
	Meta
	AssociationName string `json:"association_name"`
	Email           string `json:"email"`
	ContactNo       string `json:"contact_no"`
	City            string `json:"city"`
}

func (*Association) RecordKind() Kind { return KindAssociation }
