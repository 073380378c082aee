package formscript

import (
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

type animalScript struct{}

func (animalScript) Kind() entity.Kind  { return entity.KindAnimalInformation }
func (animalScript) New() entity.Record { return &entity.AnimalInformation{} }

func (animalScript) typeSwitch(a *entity.AnimalInformation) form.Switch {
	return form.Switch{
		Field: "animal_type",
		Groups: []form.Group{
			{
				Name:   entity.AnimalDog,
				Fields: []string{"adult_dogs", "puppies", "senior_sick_dogs"},
				Clear:  func() { a.AdultDogs, a.Puppies, a.SeniorSickDogs = 0, 0, 0 },
			},
			{
				Name:   entity.AnimalCat,
				Fields: []string{"adult_cats", "kittens", "senior_sick_cats"},
				Clear:  func() { a.AdultCats, a.Kittens, a.SeniorSickCats = 0, 0, 0 },
			},
		},
	}
}

func (sc animalScript) Layout() *form.Layout {
	return form.NewLayout(sc.typeSwitch(&entity.AnimalInformation{}).Fields()...)
}

func (sc animalScript) Refresh(s *Session) {
	a := s.Record().(*entity.AnimalInformation)
	sc.typeSwitch(a).Apply(s.Layout(), a.AnimalType)
}

func (sc animalScript) Changed(s *Session, field string) {
	a := s.Record().(*entity.AnimalInformation)
	switch field {
	case "animal_type":
		sc.typeSwitch(a).Apply(s.Layout(), a.AnimalType)
	case "person_details":
		followContactPerson(s, field, &a.PersonDetails,
			func() { a.FirstName, a.LastName = "", "" },
			func(p *entity.ContactPerson) { a.FirstName, a.LastName = p.FirstName, p.LastName })
	}
}

func (animalScript) Links() []string    { return []string{"person_details"} }
func (animalScript) ReadOnly() []string { return nil }
