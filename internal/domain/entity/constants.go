package entity

// Kind names a record type in the document store
type Kind string

// Reference record kinds
const (
	KindPersonDetails Kind = "Person Details"
	KindContactPerson Kind = "Association Contact Person info"
	KindAnimalShelter Kind = "Animal Shelters"
	KindOrganization  Kind = "Organization Details"
	KindProduct       Kind = "Product Details"
	KindAssociation   Kind = "Association Information"
)

// Form record kinds
const (
	KindAnimalInformation Kind = "Animal Information"
	KindDelivery          Kind = "Delivery Information"
	KindDonation          Kind = "Donation"
	KindDonationPayment   Kind = "Donation Payment"
	KindFoodDemand        Kind = "Food Demand"
	KindPersonDemand      Kind = "Person Demand"
)

// KindInfo describes how a kind is addressed and named
type KindInfo struct {
	Kind   Kind
	Slug   string // URL segment
	Prefix string // naming series prefix
	Width  int    // zero padding of the series counter
}

var kinds = []KindInfo{
	{KindPersonDetails, "person-details", "PER", 5},
	{KindContactPerson, "contact-person", "ACP", 5},
	{KindAnimalShelter, "animal-shelter", "SHL", 5},
	{KindOrganization, "organization", "ORG", 5},
	{KindProduct, "product", "PRD", 5},
	{KindAssociation, "association", "ASC", 5},
	{KindAnimalInformation, "animal-information", "AND", 5},
	{KindDelivery, "delivery", "DEL", 6},
	{KindDonation, "donation", "DON", 6},
	{KindDonationPayment, "donation-payment", "PAY", 6},
	{KindFoodDemand, "food-demand", "FD", 5},
	{KindPersonDemand, "person-demand", "PD", 5},
}

// Info returns naming and routing details for the kind
func (k Kind) Info() (KindInfo, bool) {
	for _, info := range kinds {
		if info.Kind == k {
			return info, true
		}
	}
	return KindInfo{}, false
}

// KindBySlug resolves a URL segment to a kind
func KindBySlug(slug string) (Kind, bool) {
	for _, info := range kinds {
		if info.Slug == slug {
			return info.Kind, true
		}
	}
	return "", false
}

// Recipient categories, shared by donations, deliveries and food demands
const (
	RecipientPerson        = "Person"
	RecipientAnimalShelter = "Animal Shelter"
)

// Delivery source categories
const (
	SourceOwnPurchase             = "Own Purchase"
	SourceDonatedFromOrganization = "Donated From Organization"
)

// Animal types
const (
	AnimalDog = "Dog"
	AnimalCat = "Cat"
)

// Status values read by the workspace dashboard
const (
	OrganizationStatusActive   = "Active"
	OrganizationStatusInactive = "Inactive"
	ProductStatusInStock       = "In stock"
	ProductStatusOutOfStock    = "Out of stock"
)

// Payment types
const (
	PaymentTypeDeposit  = "deposit"
	PaymentTypeWithdraw = "withdraw"
	PaymentTypeRefund   = "refund"
)

// Payment providers
const (
	ProviderPaypal = "paypal"
	ProviderStripe = "stripe"
	ProviderBank   = "bank"
	ProviderCash   = "cash"
)

// PaymentTypes lists the accepted payment types in display order
var PaymentTypes = []string{PaymentTypeDeposit, PaymentTypeWithdraw, PaymentTypeRefund}

// PaymentProviders lists the accepted providers in display order
var PaymentProviders = []string{ProviderPaypal, ProviderStripe, ProviderBank, ProviderCash}

// Kinds returns every kind in registration order
func Kinds() []KindInfo {
	out := make([]KindInfo, len(kinds))
	copy(out, kinds)
	return out
}
