package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T, raw string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestIntakeService_CreateDonationIdempotent(t *testing.T) {
	stored := &entity.Donation{Hash: "h-1", DonationNumber: "1001"}
	stored.Name = "DON-000007"

	tests := []struct {
		name    string
		body    string
		byHash  bool
		byNum   bool
		wantHit bool
	}{
		{name: "known hash", body: `{"hash":"h-1"}`, byHash: true, wantHit: true},
		{name: "unknown hash, known number", body: `{"hash":"h-2","donation_number":"1001"}`, byNum: true, wantHit: true},
		{name: "numeric donation number", body: `{"donation_number":1001}`, byNum: true, wantHit: true},
		{name: "nothing known", body: `{"hash":"h-3","donation_number":"2002"}`, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			donations := &mockDonationRepo{
				getByHashFunc: func(ctx context.Context, hash string) (*entity.Donation, error) {
					if tt.byHash && hash == "h-1" {
						return stored, nil
					}
					return nil, nil
				},
				getByNumberFunc: func(ctx context.Context, number string) (*entity.Donation, error) {
					if tt.byNum && number == "1001" {
						return stored, nil
					}
					return nil, nil
				},
			}
			writer := &mockWriter{}
			svc := NewIntakeService(donations, &mockPaymentRepo{}, writer, &mockLogger{})

			res, err := svc.CreateDonation(context.Background(), payload(t, tt.body))
			require.NoError(t, err)

			if tt.wantHit {
				assert.Equal(t, IntakeStatusExists, res.Status)
				assert.Same(t, stored, res.Donation)
				assert.Empty(t, writer.saved)
			} else {
				assert.Equal(t, IntakeStatusOK, res.Status)
				assert.Len(t, writer.saved, 1)
			}
		})
	}
}

func TestIntakeService_CreateDonationMapsPayload(t *testing.T) {
	writer := &mockWriter{}
	svc := NewIntakeService(&mockDonationRepo{}, &mockPaymentRepo{}, writer, &mockLogger{})

	res, err := svc.CreateDonation(context.Background(), payload(t, `{
		"hash": "abc",
		"email": "donor@example.org",
		"first_name": "Ada",
		"is_anonymous": "yes",
		"is_subscription": "no",
		"donated_at": "2025-07-20T00:00:00+00:01",
		"total": "12.50",
		"items": [
			{"wishlist_item": "blanket"},
			{"product": "PRD-1", "quantity": 3, "amount": 2},
			"not an object"
		]
	}`))
	require.NoError(t, err)

	d := res.Donation
	assert.Equal(t, "NEW-1", d.Name)
	assert.True(t, d.IsAnonymous)
	assert.False(t, d.IsSubscription)
	require.NotNil(t, d.DonatedAt)
	assert.Equal(t, 12.5, d.Total)
	require.Len(t, d.Items, 2)
	assert.Equal(t, 1, d.Items[0].Quantity)
	assert.Equal(t, "blanket", d.Items[0].WishlistItem)
	assert.Equal(t, 3, d.Items[1].Quantity)
	assert.Equal(t, "PRD-1", d.Items[1].ProductID)
}

func TestIntakeService_CreateDonationRejectsBadValues(t *testing.T) {
	writer := &mockWriter{}
	svc := NewIntakeService(&mockDonationRepo{}, &mockPaymentRepo{}, writer, &mockLogger{})

	_, err := svc.CreateDonation(context.Background(), payload(t, `{
		"donated_at": "last tuesday",
		"items": [{"quantity": 1.5}]
	}`))

	var verr *port.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "donated_at")
	assert.Contains(t, verr.Fields, "items.1.quantity")
	assert.Empty(t, writer.saved)
}

func TestIntakeService_CreatePayment(t *testing.T) {
	linked := &entity.Donation{}
	linked.Name = "DON-000003"

	tests := []struct {
		name         string
		body         string
		wantStatus   string
		wantDonation string
		wantFields   []string
	}{
		{
			name:         "linked by donation hash",
			body:         `{"hash":"p1","type":"Deposit","amount":"25","number":"tx-1","provider":"Stripe","payment_at":"2025-07-20T00:00:00Z","donation_hash":"dh"}`,
			wantStatus:   IntakeStatusOK,
			wantDonation: "DON-000003",
		},
		{
			name:         "donation number ignored when hash given",
			body:         `{"hash":"p2","type":"refund","amount":5,"number":"tx-2","provider":"cash","donation_hash":"unknown","donation_number":"77"}`,
			wantStatus:   IntakeStatusOK,
			wantDonation: "",
		},
		{
			name:         "linked by donation number",
			body:         `{"hash":"p3","type":"withdraw","amount":5,"number":"tx-3","provider":"bank","donation_number":"77"}`,
			wantStatus:   IntakeStatusOK,
			wantDonation: "DON-000003",
		},
		{
			name:       "already recorded",
			body:       `{"number":"known"}`,
			wantStatus: IntakeStatusExists,
		},
		{
			name:       "every field error reported",
			body:       `{"type":"gift","amount":0,"provider":"venmo","payment_at":"soon"}`,
			wantFields: []string{"hash", "type", "amount", "number", "provider", "payment_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			donations := &mockDonationRepo{
				getByHashFunc: func(ctx context.Context, hash string) (*entity.Donation, error) {
					if hash == "dh" {
						return linked, nil
					}
					return nil, nil
				},
				getByNumberFunc: func(ctx context.Context, number string) (*entity.Donation, error) {
					if number == "77" {
						return linked, nil
					}
					return nil, nil
				},
			}
			payments := &mockPaymentRepo{
				getByNumberFunc: func(ctx context.Context, number string) (*entity.DonationPayment, error) {
					if number == "known" {
						return &entity.DonationPayment{Number: number}, nil
					}
					return nil, nil
				},
			}
			writer := &mockWriter{}
			svc := NewIntakeService(donations, payments, writer, &mockLogger{})

			res, err := svc.CreatePayment(context.Background(), payload(t, tt.body))

			if len(tt.wantFields) > 0 {
				var verr *port.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.ElementsMatch(t, tt.wantFields, keys(verr.Fields))
				assert.Empty(t, writer.saved)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			if tt.wantStatus == IntakeStatusOK {
				assert.Equal(t, tt.wantDonation, res.Payment.Donation)
				assert.True(t, res.Payment.CreatedFromPayload)
				require.Len(t, writer.saved, 1)
			}
		})
	}
}

func TestPayload_String(t *testing.T) {
	p := Payload{"n": float64(1001), "s": "  x ", "b": true, "nil": nil}
	assert.Equal(t, "1001", p.String("n"))
	assert.Equal(t, "x", p.String("s"))
	assert.Equal(t, "true", p.String("b"))
	assert.Equal(t, "", p.String("nil"))
	assert.Equal(t, "", p.String("missing"))
}
