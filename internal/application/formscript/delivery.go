package formscript

import (
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

type deliveryScript struct{}

func (deliveryScript) Kind() entity.Kind  { return entity.KindDelivery }
func (deliveryScript) New() entity.Record { return &entity.Delivery{} }

func (deliveryScript) sourceSwitch(d *entity.Delivery) form.Switch {
	return form.Switch{
		Field:       "deleivery_type",
		RequireLead: true,
		Groups: []form.Group{
			{
				Name:   entity.SourceOwnPurchase,
				Fields: []string{"purchased_by"},
				Clear:  func() { d.PurchasedBy = "" },
			},
			{
				Name:   entity.SourceDonatedFromOrganization,
				Fields: []string{"organization_detail", "organization_name"},
				Clear:  func() { d.OrganizationDetail, d.OrganizationName = "", "" },
			},
		},
	}
}

func (deliveryScript) recipientSwitch(d *entity.Delivery) form.Switch {
	return form.Switch{
		Field: "deleiver_to",
		Groups: []form.Group{
			{
				Name:   entity.RecipientPerson,
				Fields: []string{"person_details", "first_name", "last_name"},
				Clear:  func() { d.PersonDetails, d.FirstName, d.LastName = "", "", "" },
			},
			{
				Name:   entity.RecipientAnimalShelter,
				Fields: []string{"shelter_details", "shelter_name"},
				Clear:  func() { d.ShelterDetails, d.ShelterName = "", "" },
			},
		},
	}
}

func (sc deliveryScript) Layout() *form.Layout {
	d := &entity.Delivery{}
	fields := append(sc.sourceSwitch(d).Fields(), sc.recipientSwitch(d).Fields()...)
	return form.NewLayout(append(fields, "display_title")...)
}

func (sc deliveryScript) Refresh(s *Session) {
	d := s.Record().(*entity.Delivery)
	sc.sourceSwitch(d).Apply(s.Layout(), d.DeliveryType)
	sc.recipientSwitch(d).Apply(s.Layout(), d.DeliverTo)
	d.DisplayTitle = d.Title()
}

func (sc deliveryScript) Changed(s *Session, field string) {
	d := s.Record().(*entity.Delivery)
	switch field {
	case "deleivery_type":
		sc.sourceSwitch(d).Apply(s.Layout(), d.DeliveryType)
	case "deleiver_to":
		sc.recipientSwitch(d).Apply(s.Layout(), d.DeliverTo)
	case "person_details":
		followPerson(s, field, &d.PersonDetails,
			func() { d.FirstName, d.LastName = "", "" },
			func(p *entity.PersonDetails) { d.FirstName, d.LastName = p.FirstName, p.LastName })
	case "shelter_details":
		followShelter(s, field, &d.ShelterDetails,
			func() { d.ShelterName = "" },
			func(sh *entity.AnimalShelter) { d.ShelterName = sh.DisplayName() })
	case "organization_detail":
		followOrganization(s, field, &d.OrganizationDetail,
			func() { d.OrganizationName = "" },
			func(o *entity.Organization) { d.OrganizationName = o.DisplayName() })
	}

	switch field {
	case "deleivery_type", "purchased_by", "organization_detail":
		d.DisplayTitle = d.Title()
	}
}

func (deliveryScript) Links() []string {
	return []string{"person_details", "shelter_details", "organization_detail"}
}

func (deliveryScript) ReadOnly() []string { return []string{"display_title"} }
