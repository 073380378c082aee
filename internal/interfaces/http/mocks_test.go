package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/application/service"
	"github.com/homieapp/homie/internal/dashboard"
	"github.com/homieapp/homie/internal/domain/entity"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockRecords keeps records in memory by kind and name
type mockRecords struct {
	mu      sync.Mutex
	records map[entity.Kind]map[string]entity.Record
	saveErr error
	seq     int
}

func newMockRecords() *mockRecords {
	return &mockRecords{records: map[entity.Kind]map[string]entity.Record{}}
}

func (m *mockRecords) put(rec entity.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kind := rec.RecordKind()
	if m.records[kind] == nil {
		m.records[kind] = map[string]entity.Record{}
	}
	m.records[kind][rec.RecordName()] = rec
}

func (m *mockRecords) get(kind entity.Kind, name string) (entity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[kind][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", port.ErrRecordNotFound, kind, name)
	}
	return rec, nil
}

func (m *mockRecords) Person(ctx context.Context, name string) (*entity.PersonDetails, error) {
	rec, err := m.get(entity.KindPersonDetails, name)
	if err != nil {
		return nil, err
	}
	return rec.(*entity.PersonDetails), nil
}

func (m *mockRecords) ContactPerson(ctx context.Context, name string) (*entity.ContactPerson, error) {
	rec, err := m.get(entity.KindContactPerson, name)
	if err != nil {
		return nil, err
	}
	return rec.(*entity.ContactPerson), nil
}

func (m *mockRecords) Shelter(ctx context.Context, name string) (*entity.AnimalShelter, error) {
	rec, err := m.get(entity.KindAnimalShelter, name)
	if err != nil {
		return nil, err
	}
	return rec.(*entity.AnimalShelter), nil
}

func (m *mockRecords) Organization(ctx context.Context, name string) (*entity.Organization, error) {
	rec, err := m.get(entity.KindOrganization, name)
	if err != nil {
		return nil, err
	}
	return rec.(*entity.Organization), nil
}

func (m *mockRecords) Product(ctx context.Context, name string) (*entity.Product, error) {
	rec, err := m.get(entity.KindProduct, name)
	if err != nil {
		return nil, err
	}
	return rec.(*entity.Product), nil
}

func (m *mockRecords) LoadRecord(ctx context.Context, kind entity.Kind, name string) (entity.Record, error) {
	return m.get(kind, name)
}

func (m *mockRecords) SaveRecord(ctx context.Context, rec entity.Record) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if rec.RecordName() == "" {
		m.mu.Lock()
		m.seq++
		info, _ := rec.RecordKind().Info()
		rec.SetRecordName(fmt.Sprintf("%s-%0*d", info.Prefix, info.Width, m.seq))
		m.mu.Unlock()
	}
	m.put(rec)
	return rec.RecordName(), nil
}

type mockIntake struct {
	createDonationFunc func(ctx context.Context, p service.Payload) (*service.DonationResult, error)
	createPaymentFunc  func(ctx context.Context, p service.Payload) (*service.PaymentResult, error)
	lastPayload        service.Payload
}

func (m *mockIntake) CreateDonation(ctx context.Context, p service.Payload) (*service.DonationResult, error) {
	m.lastPayload = p
	return m.createDonationFunc(ctx, p)
}

func (m *mockIntake) CreatePayment(ctx context.Context, p service.Payload) (*service.PaymentResult, error) {
	m.lastPayload = p
	return m.createPaymentFunc(ctx, p)
}

type mockDashboards struct {
	org    *dashboard.OrganizationDashboard
	orgErr error
	kpis   *dashboard.WorkspaceKPIs
	tables map[string]*dashboard.Table
}

func (m *mockDashboards) Organization(ctx context.Context, name string) (*dashboard.OrganizationDashboard, error) {
	return m.org, m.orgErr
}

func (m *mockDashboards) WorkspaceKPIs(ctx context.Context) (*dashboard.WorkspaceKPIs, error) {
	return m.kpis, nil
}

func (m *mockDashboards) WorkspaceTable(ctx context.Context, section string) (*dashboard.Table, error) {
	t, ok := m.tables[section]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dashboard.ErrUnknownSection, section)
	}
	return t, nil
}
