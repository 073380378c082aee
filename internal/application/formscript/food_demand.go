package formscript

import (
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

type foodDemandScript struct{}

func (foodDemandScript) Kind() entity.Kind  { return entity.KindFoodDemand }
func (foodDemandScript) New() entity.Record { return &entity.FoodDemand{} }

func (foodDemandScript) orderSwitch(d *entity.FoodDemand) form.Switch {
	return form.Switch{
		Field: "order_by",
		Groups: []form.Group{
			{
				Name:   entity.RecipientPerson,
				Fields: []string{"person_details", "first_name", "last_name"},
				Clear:  func() { d.PersonDetails, d.FirstName, d.LastName = "", "", "" },
			},
			{
				Name:   entity.RecipientAnimalShelter,
				Fields: []string{"contacted_animal_shelter", "shelter_name", "animal_shelter_status"},
				Clear:  func() { d.ContactedAnimalShelter, d.ShelterName, d.AnimalShelterStatus = "", "", "" },
			},
		},
	}
}

func (sc foodDemandScript) Layout() *form.Layout {
	return form.NewLayout(sc.orderSwitch(&entity.FoodDemand{}).Fields()...)
}

func (sc foodDemandScript) Refresh(s *Session) {
	d := s.Record().(*entity.FoodDemand)
	sc.orderSwitch(d).Apply(s.Layout(), d.OrderBy)
}

func (sc foodDemandScript) Changed(s *Session, field string) {
	d := s.Record().(*entity.FoodDemand)
	switch field {
	case "order_by":
		sc.orderSwitch(d).Apply(s.Layout(), d.OrderBy)
	case "person_details":
		followPerson(s, field, &d.PersonDetails,
			func() { d.FirstName, d.LastName = "", "" },
			func(p *entity.PersonDetails) { d.FirstName, d.LastName = p.FirstName, p.LastName })
	case "contacted_animal_shelter":
		followShelter(s, field, &d.ContactedAnimalShelter,
			func() { d.ShelterName = "" },
			func(sh *entity.AnimalShelter) { d.ShelterName = sh.DisplayName() })
	}
}

func (foodDemandScript) Links() []string {
	return []string{"person_details", "contacted_animal_shelter"}
}

func (foodDemandScript) ReadOnly() []string { return nil }
