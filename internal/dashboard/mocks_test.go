package dashboard

import (
	"context"
	"errors"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

var errBoom = errors.New("boom")

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockOrgRepo struct {
	orgs          map[string]*entity.Organization
	recent        []*entity.Organization
	countByStatus map[string]int
	err           error
}

func (m *mockOrgRepo) Save(ctx context.Context, o *entity.Organization) error { return nil }

func (m *mockOrgRepo) GetByName(ctx context.Context, name string) (*entity.Organization, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.orgs[name], nil
}

func (m *mockOrgRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Organization, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recent, nil
}

func (m *mockOrgRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return m.countByStatus[status], nil
}

type mockProductRepo struct {
	recent        []*entity.Product
	count         int
	countByStatus map[string]int
	listErr       error
}

func (m *mockProductRepo) Save(ctx context.Context, p *entity.Product) error { return nil }

func (m *mockProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Product, error) {
	return m.recent, m.listErr
}

func (m *mockProductRepo) Count(ctx context.Context) (int, error) { return m.count, nil }

func (m *mockProductRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return m.countByStatus[status], nil
}

type mockPersonRepo struct {
	recent []*entity.PersonDetails
}

func (m *mockPersonRepo) Save(ctx context.Context, p *entity.PersonDetails) error { return nil }

func (m *mockPersonRepo) GetByName(ctx context.Context, name string) (*entity.PersonDetails, error) {
	return nil, nil
}

func (m *mockPersonRepo) ListRecent(ctx context.Context, limit int) ([]*entity.PersonDetails, error) {
	return m.recent, nil
}

type mockDonationRepo struct {
	byOrg  map[string][]*entity.Donation
	recent []*entity.Donation
	totals *port.DonationTotals
	limit  int
}

func (m *mockDonationRepo) Save(ctx context.Context, d *entity.Donation) error { return nil }

func (m *mockDonationRepo) GetByName(ctx context.Context, name string) (*entity.Donation, error) {
	return nil, nil
}

func (m *mockDonationRepo) GetByHash(ctx context.Context, hash string) (*entity.Donation, error) {
	return nil, nil
}

func (m *mockDonationRepo) GetByNumber(ctx context.Context, number string) (*entity.Donation, error) {
	return nil, nil
}

func (m *mockDonationRepo) ListByOrganization(ctx context.Context, organization string) ([]*entity.Donation, error) {
	return m.byOrg[organization], nil
}

func (m *mockDonationRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Donation, error) {
	m.limit = limit
	return m.recent, nil
}

func (m *mockDonationRepo) Totals(ctx context.Context) (*port.DonationTotals, error) {
	if m.totals == nil {
		return &port.DonationTotals{}, nil
	}
	return m.totals, nil
}

type mockDeliveryRepo struct {
	byOrg map[string][]*entity.Delivery
}

func (m *mockDeliveryRepo) Save(ctx context.Context, d *entity.Delivery) error { return nil }

func (m *mockDeliveryRepo) GetByName(ctx context.Context, name string) (*entity.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepo) ListByOrganization(ctx context.Context, organization string) ([]*entity.Delivery, error) {
	return m.byOrg[organization], nil
}

// stubSource serves fixed payloads
type stubSource struct {
	org        *OrganizationDashboard
	orgErr     error
	kpis       *WorkspaceKPIs
	kpiErr     error
	tables     map[string]*Table
	sectionErr map[string]error
}

func (s *stubSource) Organization(ctx context.Context, name string) (*OrganizationDashboard, error) {
	return s.org, s.orgErr
}

func (s *stubSource) WorkspaceKPIs(ctx context.Context) (*WorkspaceKPIs, error) {
	return s.kpis, s.kpiErr
}

func (s *stubSource) WorkspaceTable(ctx context.Context, section string) (*Table, error) {
	if err := s.sectionErr[section]; err != nil {
		return nil, err
	}
	return s.tables[section], nil
}
