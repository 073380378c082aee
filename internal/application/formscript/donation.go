package formscript

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

type donationScript struct{}

func (donationScript) Kind() entity.Kind { return entity.KindDonation }

func (donationScript) New() entity.Record {
	return &entity.Donation{Items: []entity.DonationItem{}}
}

func (donationScript) recipientSwitch(d *entity.Donation) form.Switch {
	return form.Switch{
		Field: "donated_to",
		Groups: []form.Group{
			{
				Name:   entity.RecipientPerson,
				Fields: []string{"contact_person", "person_first_name", "person_last_name", "person_email"},
				Clear: func() {
					d.ContactPerson, d.PersonFirstName, d.PersonLastName, d.PersonEmail = "", "", "", ""
				},
			},
			{
				Name:   entity.RecipientAnimalShelter,
				Fields: []string{"shelter_details", "shelter_name"},
				Clear:  func() { d.ShelterDetails, d.ShelterName = "", "" },
			},
		},
	}
}

func (sc donationScript) Layout() *form.Layout {
	return form.NewLayout(sc.recipientSwitch(&entity.Donation{}).Fields()...)
}

func (sc donationScript) Refresh(s *Session) {
	d := s.Record().(*entity.Donation)
	sc.recipientSwitch(d).Apply(s.Layout(), d.DonatedTo)

	for i := range d.Items {
		if d.Items[i].RowID == "" {
			d.Items[i].RowID = uuid.NewString()
		}
	}
	d.Renumber()
	d.Recalculate()
}

func (sc donationScript) Changed(s *Session, field string) {
	d := s.Record().(*entity.Donation)
	switch field {
	case "donated_to":
		sc.recipientSwitch(d).Apply(s.Layout(), d.DonatedTo)
	case "contact_person":
		followContactPerson(s, field, &d.ContactPerson,
			func() { d.PersonFirstName, d.PersonLastName, d.PersonEmail = "", "", "" },
			func(p *entity.ContactPerson) {
				d.PersonFirstName, d.PersonLastName, d.PersonEmail = p.FirstName, p.LastName, p.Email
			})
	case "organization":
		followOrganization(s, field, &d.Organization,
			func() { d.OrganizationName = "" },
			func(o *entity.Organization) { d.OrganizationName = o.OrganizationName })
	case "shelter_details":
		followShelter(s, field, &d.ShelterDetails,
			func() { d.ShelterName = "" },
			func(sh *entity.AnimalShelter) { d.ShelterName = sh.DisplayName() })
	}
}

func (donationScript) Links() []string {
	return []string{"contact_person", "organization", "shelter_details"}
}

func (donationScript) ReadOnly() []string { return []string{"total"} }

func (donationScript) RowIDs(s *Session) []string {
	d := s.Record().(*entity.Donation)
	ids := make([]string, len(d.Items))
	for i, item := range d.Items {
		ids[i] = item.RowID
	}
	return ids
}

func (donationScript) RowID(s *Session, idx int) (string, bool) {
	d := s.Record().(*entity.Donation)
	if idx < 1 || idx > len(d.Items) {
		return "", false
	}
	return d.Items[idx-1].RowID, true
}

func (donationScript) Row(s *Session, rowID string) interface{} {
	item := s.Record().(*entity.Donation).Item(rowID)
	if item == nil {
		return nil
	}
	return item
}

func (donationScript) AppendRow(s *Session) string {
	d := s.Record().(*entity.Donation)
	rowID := uuid.NewString()
	d.Items = append(d.Items, entity.DonationItem{RowID: rowID, Quantity: 1})
	d.Renumber()
	d.RecomputeTotal()
	return rowID
}

func (donationScript) RemoveRow(s *Session, rowID string) bool {
	d := s.Record().(*entity.Donation)
	kept := d.Items[:0]
	removed := false
	for _, item := range d.Items {
		if item.RowID == rowID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return false
	}
	d.Items = kept
	s.tracker.Invalidate(productKey(rowID))
	d.Renumber()
	d.RecomputeTotal()
	return true
}

func (donationScript) RowChanged(s *Session, rowID, field string) {
	d := s.Record().(*entity.Donation)
	item := d.Item(rowID)
	if item == nil {
		return
	}

	switch field {
	case "product":
		if item.Product == "" {
			return
		}
		item.ProductID = item.Product
		followProduct(s, d, rowID)
	case "quantity", "amount":
		item.Recompute()
		d.RecomputeTotal()
	}
}

func (donationScript) ItemLinks() []string    { return []string{"product"} }
func (donationScript) ItemReadOnly() []string { return []string{"product_id", "total"} }

// Validate rejects negative quantities and amounts on item rows
func (donationScript) Validate(s *Session, verr *port.ValidationError) {
	d := s.Record().(*entity.Donation)
	for _, item := range d.Items {
		if item.Quantity < 0 {
			verr.Add(fmt.Sprintf("items.%d.quantity", item.Idx), "Quantity cannot be negative")
		}
		if item.Amount < 0 {
			verr.Add(fmt.Sprintf("items.%d.amount", item.Idx), "Amount cannot be negative")
		}
	}
}

func productKey(rowID string) string {
	return "items/" + rowID + "/product"
}

// followProduct copies name and price of the row's product. The row is
// looked up again on apply since appends may move it.
func followProduct(s *Session, d *entity.Donation, rowID string) {
	name := d.Item(rowID).Product
	current := func() string {
		if item := d.Item(rowID); item != nil {
			return item.Product
		}
		return ""
	}

	s.Link(productKey(rowID), name, current, nil,
		func(ctx context.Context, r port.LinkReader) (func(), error) {
			p, err := r.Product(ctx, name)
			if err != nil {
				return nil, err
			}
			return func() {
				item := d.Item(rowID)
				if item == nil {
					return
				}
				item.ProductName = p.ProductName
				item.Amount = p.ProductPrice
				item.Recompute()
				d.RecomputeTotal()
			}, nil
		})
}
