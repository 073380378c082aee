package entity

import (
	"math"
	"strings"
	"time"
)

// Record is implemented by every stored document
type Record interface {
	RecordKind() Kind
	RecordName() string
	SetRecordName(name string)
}

// Meta holds the columns every document carries
type Meta struct {
	Name     string    `json:"name"`
	Creation time.Time `json:"creation"`
	Modified time.Time `json:"modified"`
}

// RecordName returns the document identifier
func (m *Meta) RecordName() string { return m.Name }

// SetRecordName assigns the document identifier
func (m *Meta) SetRecordName(name string) { m.Name = name }

// RoundCents rounds an amount to two decimals, half away from zero
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// joinName joins the non-empty name parts with a single space
func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// firstNonEmpty returns the first value that is not blank
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// New returns an empty record of the given kind
func New(kind Kind) (Record, bool) {
	switch kind {
	case KindPersonDetails:
		return &PersonDetails{}, true
	case KindContactPerson:
		return &ContactPerson{}, true
	case KindAnimalShelter:
		return &AnimalShelter{}, true
	case KindOrganization:
		return &Organization{}, true
	case KindProduct:
		return &Product{}, true
	case KindAssociation:
		return &Association{}, true
	case KindAnimalInformation:
		return &AnimalInformation{}, true
	case KindDelivery:
		return &Delivery{}, true
	case KindDonation:
		return &Donation{Items: []DonationItem{}}, true
	case KindDonationPayment:
		return &DonationPayment{}, true
	case KindFoodDemand:
		return &FoodDemand{}, true
	case KindPersonDemand:
		return &PersonDemand{}, true
	}
	return nil, false
}
