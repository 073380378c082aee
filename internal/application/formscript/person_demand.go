package formscript

import (
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

type personDemandScript struct{}

func (personDemandScript) Kind() entity.Kind    { return entity.KindPersonDemand }
func (personDemandScript) New() entity.Record   { return &entity.PersonDemand{} }
func (personDemandScript) Layout() *form.Layout { return form.NewLayout() }
func (personDemandScript) Refresh(*Session)     {}
func (personDemandScript) Links() []string      { return []string{"person_details"} }
func (personDemandScript) ReadOnly() []string   { return nil }

func (personDemandScript) Changed(s *Session, field string) {
	if field != "person_details" {
		return
	}
	d := s.Record().(*entity.PersonDemand)
	followContactPerson(s, field, &d.PersonDetails,
		func() { d.FirstName, d.LastName = "", "" },
		func(p *entity.ContactPerson) { d.FirstName, d.LastName = p.FirstName, p.LastName })
}
