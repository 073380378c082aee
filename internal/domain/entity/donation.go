package entity

import "time"

// Donation is a gift of products made to a person or a shelter
type Donation struct {
	Meta

	// Recipient
	DonatedTo       string `json:"donated_to"`
	ContactPerson   string `json:"contact_person"`
	PersonFirstName string `json:"person_first_name"`
	PersonLastName  string `json:"person_last_name"`
	PersonEmail     string `json:"person_email"`
	ShelterDetails  string `json:"shelter_details"`
	ShelterName     string `json:"shelter_name"`

	// Donor organization
	Organization     string `json:"organization"`
	OrganizationName string `json:"organization_name"`

	Items     []DonationItem `json:"items"`
	Total     float64        `json:"total"`
	DonatedAt *time.Time     `json:"donated_at,omitempty"`

	// Fields filled by the public intake endpoint
	Hash           string `json:"hash"`
	DonationNumber string `json:"donation_number"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	IsAnonymous    bool   `json:"is_anonymous"`
	Currency       string `json:"currency"`
	Wishlist       string `json:"wishlist"`
	Source         string `json:"source"`
	Company        string `json:"company"`
	IPAddress      string `json:"ip_address"`
	UserAgent      string `json:"user_agent"`
	IsSubscription bool   `json:"is_subscription"`
}

func (*Donation) RecordKind() Kind { return KindDonation }

// DonationItem is one line of a donation
type DonationItem struct {
	RowID        string  `json:"row_id"`
	Idx          int     `json:"idx"`
	Product      string  `json:"product"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	WishlistItem string  `json:"wishlist_item"`
	Quantity     int     `json:"quantity"`
	Amount       float64 `json:"amount"`
	Total        float64 `json:"total"`
}

// Recompute sets the line total from quantity and unit amount
func (i *DonationItem) Recompute() {
	i.Total = RoundCents(float64(i.Quantity) * i.Amount)
}

// RecomputeTotal sets the donation total to the sum of the current line totals
func (d *Donation) RecomputeTotal() {
	var sum float64
	for _, item := range d.Items {
		sum += item.Total
	}
	d.Total = RoundCents(sum)
}

// Recalculate recomputes every line and then the donation total
func (d *Donation) Recalculate() {
	for i := range d.Items {
		d.Items[i].Recompute()
	}
	d.RecomputeTotal()
}

// Item returns the row with the given row id
func (d *Donation) Item(rowID string) *DonationItem {
	for i := range d.Items {
		if d.Items[i].RowID == rowID {
			return &d.Items[i]
		}
	}
	return nil
}

// Renumber assigns 1-based positions to the rows
func (d *Donation) Renumber() {
	for i := range d.Items {
		d.Items[i].Idx = i + 1
	}
}

// PersonName is the trimmed recipient name
func (d *Donation) PersonName() string {
	return joinName(d.PersonFirstName, d.PersonLastName)
}
