package formscript

import (
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

// personScript keeps full_name in step with the name parts
type personScript struct{}

func (personScript) Kind() entity.Kind    { return entity.KindPersonDetails }
func (personScript) New() entity.Record   { return &entity.PersonDetails{} }
func (personScript) Layout() *form.Layout { return form.NewLayout("full_name") }
func (personScript) Links() []string      { return nil }
func (personScript) ReadOnly() []string   { return []string{"full_name"} }

func (personScript) Refresh(s *Session) {
	p := s.Record().(*entity.PersonDetails)
	p.FullName = p.ComposeFullName()
}

func (personScript) Changed(s *Session, field string) {
	if field != "first_name" && field != "last_name" {
		return
	}
	p := s.Record().(*entity.PersonDetails)
	p.FullName = p.ComposeFullName()
}
