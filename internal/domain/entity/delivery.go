package entity

import "fmt"

// Delivery records goods handed to a person or a shelter
type Delivery struct {
	Meta

	// Source of the goods
	DeliveryType       string `json:"deleivery_type"`
	PurchasedBy        string `json:"purchased_by"`
	OrganizationDetail string `json:"organization_detail"`
	OrganizationName   string `json:"organization_name"`

	// Recipient
	DeliverTo      string `json:"deleiver_to"`
	PersonDetails  string `json:"person_details"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ShelterDetails string `json:"shelter_details"`
	ShelterName    string `json:"shelter_name"`

	OrderDate    string `json:"order_date"`
	DeliveryDate string `json:"deleivery_date"`
	DisplayTitle string `json:"display_title"`
}

func (*Delivery) RecordKind() Kind { return KindDelivery }

// Title derives the list title from the delivery source
func (d *Delivery) Title() string {
	switch {
	case d.DeliveryType == SourceOwnPurchase && d.PurchasedBy != "":
		return fmt.Sprintf("Purchased by %s", d.PurchasedBy)
	case d.DeliveryType == SourceDonatedFromOrganization && d.OrganizationDetail != "":
		return fmt.Sprintf("Donated by %s", d.OrganizationDetail)
	default:
		return ""
	}
}

// RecipientDisplay is the recipient label stored with dashboard payloads.
// A recipient without a linked record has no label.
func (d *Delivery) RecipientDisplay() string {
	switch {
	case d.DeliverTo == RecipientPerson && d.PersonDetails != "":
		return joinName(d.FirstName, d.LastName)
	case d.DeliverTo == RecipientAnimalShelter && d.ShelterDetails != "":
		return firstNonEmpty(d.ShelterName, d.ShelterDetails)
	default:
		return ""
	}
}
