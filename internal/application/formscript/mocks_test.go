package formscript

import (
	"context"
	"fmt"
	"sync"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

type mockLogger struct {
	mu    sync.Mutex
	infos []string
	errs  []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, msg)
}

func (m *mockLogger) infoCount(msg string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.infos {
		if s == msg {
			n++
		}
	}
	return n
}

// mockReader serves linked records from maps. A lookup whose name has a
// gate blocks until the gate is closed or the lookup is cancelled.
type mockReader struct {
	mu       sync.Mutex
	people   map[string]*entity.PersonDetails
	contacts map[string]*entity.ContactPerson
	shelters map[string]*entity.AnimalShelter
	orgs     map[string]*entity.Organization
	products map[string]*entity.Product
	gates    map[string]chan struct{}
	calls    []string
}

func newMockReader() *mockReader {
	return &mockReader{
		people:   map[string]*entity.PersonDetails{},
		contacts: map[string]*entity.ContactPerson{},
		shelters: map[string]*entity.AnimalShelter{},
		orgs:     map[string]*entity.Organization{},
		products: map[string]*entity.Product{},
		gates:    map[string]chan struct{}{},
	}
}

func (m *mockReader) gate(name string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.gates[name] = ch
	return ch
}

func (m *mockReader) enter(ctx context.Context, name string) error {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	ch := m.gates[name]
	m.mu.Unlock()

	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func notFound(kind entity.Kind, name string) error {
	return fmt.Errorf("%w: %s %s", port.ErrRecordNotFound, kind, name)
}

func (m *mockReader) Person(ctx context.Context, name string) (*entity.PersonDetails, error) {
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	if p, ok := m.people[name]; ok {
		return p, nil
	}
	return nil, notFound(entity.KindPersonDetails, name)
}

func (m *mockReader) ContactPerson(ctx context.Context, name string) (*entity.ContactPerson, error) {
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	if p, ok := m.contacts[name]; ok {
		return p, nil
	}
	return nil, notFound(entity.KindContactPerson, name)
}

func (m *mockReader) Shelter(ctx context.Context, name string) (*entity.AnimalShelter, error) {
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	if s, ok := m.shelters[name]; ok {
		return s, nil
	}
	return nil, notFound(entity.KindAnimalShelter, name)
}

func (m *mockReader) Organization(ctx context.Context, name string) (*entity.Organization, error) {
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	if o, ok := m.orgs[name]; ok {
		return o, nil
	}
	return nil, notFound(entity.KindOrganization, name)
}

func (m *mockReader) Product(ctx context.Context, name string) (*entity.Product, error) {
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	if p, ok := m.products[name]; ok {
		return p, nil
	}
	return nil, notFound(entity.KindProduct, name)
}

type mockLoader struct {
	loadRecordFunc func(ctx context.Context, kind entity.Kind, name string) (entity.Record, error)
}

func (m *mockLoader) LoadRecord(ctx context.Context, kind entity.Kind, name string) (entity.Record, error) {
	if m.loadRecordFunc != nil {
		return m.loadRecordFunc(ctx, kind, name)
	}
	return nil, notFound(kind, name)
}

type mockWriter struct {
	saveRecordFunc func(ctx context.Context, rec entity.Record) (string, error)
	saved          []entity.Record
}

func (m *mockWriter) SaveRecord(ctx context.Context, rec entity.Record) (string, error) {
	m.saved = append(m.saved, rec)
	if m.saveRecordFunc != nil {
		return m.saveRecordFunc(ctx, rec)
	}
	if rec.RecordName() == "" {
		rec.SetRecordName("NEW-1")
	}
	return rec.RecordName(), nil
}
