package formscript

import (
	"context"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

// The follow helpers bind a link field of the session record to a reader
// method. link points into the record, which stays at a fixed address for
// the lifetime of the session.

func followPerson(s *Session, key string, link *string, clear func(), set func(p *entity.PersonDetails)) {
	name := *link
	s.Link(key, name, func() string { return *link }, clear,
		func(ctx context.Context, r port.LinkReader) (func(), error) {
			p, err := r.Person(ctx, name)
			if err != nil {
				return nil, err
			}
			return func() { set(p) }, nil
		})
}

func followContactPerson(s *Session, key string, link *string, clear func(), set func(p *entity.ContactPerson)) {
	name := *link
	s.Link(key, name, func() string { return *link }, clear,
		func(ctx context.Context, r port.LinkReader) (func(), error) {
			p, err := r.ContactPerson(ctx, name)
			if err != nil {
				return nil, err
			}
			return func() { set(p) }, nil
		})
}

func followShelter(s *Session, key string, link *string, clear func(), set func(sh *entity.AnimalShelter)) {
	name := *link
	s.Link(key, name, func() string { return *link }, clear,
		func(ctx context.Context, r port.LinkReader) (func(), error) {
			sh, err := r.Shelter(ctx, name)
			if err != nil {
				return nil, err
			}
			return func() { set(sh) }, nil
		})
}

func followOrganization(s *Session, key string, link *string, clear func(), set func(o *entity.Organization)) {
	name := *link
	s.Link(key, name, func() string { return *link }, clear,
		func(ctx context.Context, r port.LinkReader) (func(), error) {
			o, err := r.Organization(ctx, name)
			if err != nil {
				return nil, err
			}
			return func() { set(o) }, nil
		})
}
