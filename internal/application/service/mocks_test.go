package service

import (
	"context"
	"fmt"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockNaming struct {
	nextFunc   func(ctx context.Context, prefix string, width int) (string, error)
	existsFunc func(ctx context.Context, kind entity.Kind, name string) (bool, error)
	counter    int
}

func (m *mockNaming) Next(ctx context.Context, prefix string, width int) (string, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, prefix, width)
	}
	m.counter++
	return fmtName(prefix, width, m.counter), nil
}

func (m *mockNaming) Exists(ctx context.Context, kind entity.Kind, name string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, kind, name)
	}
	return false, nil
}

type mockPersonRepo struct {
	people map[string]*entity.PersonDetails
	saved  []*entity.PersonDetails
}

func (m *mockPersonRepo) Save(ctx context.Context, p *entity.PersonDetails) error {
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockPersonRepo) GetByName(ctx context.Context, name string) (*entity.PersonDetails, error) {
	return m.people[name], nil
}

func (m *mockPersonRepo) ListRecent(ctx context.Context, limit int) ([]*entity.PersonDetails, error) {
	return nil, nil
}

type mockContactRepo struct {
	saveFunc func(ctx context.Context, p *entity.ContactPerson) error
}

func (m *mockContactRepo) Save(ctx context.Context, p *entity.ContactPerson) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	return nil
}

func (m *mockContactRepo) GetByName(ctx context.Context, name string) (*entity.ContactPerson, error) {
	return nil, nil
}

type mockProductRepo struct {
	products map[string]*entity.Product
	err      error
}

func (m *mockProductRepo) Save(ctx context.Context, p *entity.Product) error { return nil }

func (m *mockProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products[name], nil
}

func (m *mockProductRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Count(ctx context.Context) (int, error) { return len(m.products), nil }

func (m *mockProductRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return 0, nil
}

type mockAnimalRepo struct {
	saved []*entity.AnimalInformation
}

func (m *mockAnimalRepo) Save(ctx context.Context, a *entity.AnimalInformation) error {
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAnimalRepo) GetByName(ctx context.Context, name string) (*entity.AnimalInformation, error) {
	for _, a := range m.saved {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, nil
}

type mockDeliveryRepo struct {
	saved []*entity.Delivery
}

func (m *mockDeliveryRepo) Save(ctx context.Context, d *entity.Delivery) error {
	m.saved = append(m.saved, d)
	return nil
}

func (m *mockDeliveryRepo) GetByName(ctx context.Context, name string) (*entity.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepo) ListByOrganization(ctx context.Context, organization string) ([]*entity.Delivery, error) {
	return nil, nil
}

type mockDonationRepo struct {
	getByHashFunc   func(ctx context.Context, hash string) (*entity.Donation, error)
	getByNumberFunc func(ctx context.Context, number string) (*entity.Donation, error)
	saved           []*entity.Donation
}

func (m *mockDonationRepo) Save(ctx context.Context, d *entity.Donation) error {
	m.saved = append(m.saved, d)
	return nil
}

func (m *mockDonationRepo) GetByName(ctx context.Context, name string) (*entity.Donation, error) {
	return nil, nil
}

func (m *mockDonationRepo) GetByHash(ctx context.Context, hash string) (*entity.Donation, error) {
	if m.getByHashFunc != nil && hash != "" {
		return m.getByHashFunc(ctx, hash)
	}
	return nil, nil
}

func (m *mockDonationRepo) GetByNumber(ctx context.Context, number string) (*entity.Donation, error) {
	if m.getByNumberFunc != nil && number != "" {
		return m.getByNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockDonationRepo) ListByOrganization(ctx context.Context, organization string) ([]*entity.Donation, error) {
	return nil, nil
}

func (m *mockDonationRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Donation, error) {
	return nil, nil
}

func (m *mockDonationRepo) Totals(ctx context.Context) (*port.DonationTotals, error) {
	return &port.DonationTotals{}, nil
}

type mockPaymentRepo struct {
	getByNumberFunc func(ctx context.Context, number string) (*entity.DonationPayment, error)
	getByHashFunc   func(ctx context.Context, hash string) (*entity.DonationPayment, error)
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *entity.DonationPayment) error { return nil }

func (m *mockPaymentRepo) GetByName(ctx context.Context, name string) (*entity.DonationPayment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetByNumber(ctx context.Context, number string) (*entity.DonationPayment, error) {
	if m.getByNumberFunc != nil && number != "" {
		return m.getByNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockPaymentRepo) GetByHash(ctx context.Context, hash string) (*entity.DonationPayment, error) {
	if m.getByHashFunc != nil && hash != "" {
		return m.getByHashFunc(ctx, hash)
	}
	return nil, nil
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
	rec.SetRecordName("NEW-1")
	return "NEW-1", nil
}

func fmtName(prefix string, width, n int) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}
