package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/pkg/utils"
)

// Intake statuses
const (
	IntakeStatusOK     = "ok"
	IntakeStatusExists = "exists"
)

// Payload is a loosely typed request body merged over the query parameters
type Payload map[string]interface{}

// DonationResult is returned by CreateDonation
type DonationResult struct {
	Status   string           `json:"status"`
	Donation *entity.Donation `json:"donation"`
}

// PaymentResult is returned by CreatePayment
type PaymentResult struct {
	Status  string                  `json:"status"`
	Payment *entity.DonationPayment `json:"payment"`
}

// IntakeService records donations and payments pushed by external shops and
// payment providers. Both operations are idempotent on the external keys.
type IntakeService interface {
	CreateDonation(ctx context.Context, payload Payload) (*DonationResult, error)
	CreatePayment(ctx context.Context, payload Payload) (*PaymentResult, error)
}

type intakeServiceImpl struct {
	donations port.DonationRepository
	payments  port.PaymentRepository
	writer    port.RecordWriter
	logger    Logger
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(
	donations port.DonationRepository,
	payments port.PaymentRepository,
	writer port.RecordWriter,
	logger Logger,
) IntakeService {
	return &intakeServiceImpl{
		donations: donations,
		payments:  payments,
		writer:    writer,
		logger:    logger,
	}
}

// CreateDonation returns the stored donation when the hash or, failing that,
// the donation number is already known. Otherwise it stores a new donation.
func (s *intakeServiceImpl) CreateDonation(ctx context.Context, payload Payload) (*DonationResult, error) {
	hash := payload.String("hash")
	number := payload.String("donation_number")

	existing, err := s.donations.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("lookup donation by hash: %w", err)
	}
	if existing == nil {
		existing, err = s.donations.GetByNumber(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("lookup donation by number: %w", err)
		}
	}
	if existing != nil {
		s.logger.Info("Donation already recorded", "name", existing.Name, "hash", hash, "donation_number", number)
		return &DonationResult{Status: IntakeStatusExists, Donation: existing}, nil
	}

	verr := port.NewValidationError()
	d := &entity.Donation{
		Hash:           hash,
		DonationNumber: number,
		Email:          payload.String("email"),
		FirstName:      payload.String("first_name"),
		LastName:       payload.String("last_name"),
		IsAnonymous:    utils.ParseBool(payload["is_anonymous"]),
		Currency:       payload.String("currency"),
		Wishlist:       payload.String("wishlist"),
		Source:         payload.String("source"),
		Company:        payload.String("company"),
		IPAddress:      payload.String("ip_address"),
		UserAgent:      payload.String("user_agent"),
		IsSubscription: utils.ParseBool(payload["is_subscription"]),
		Organization:   payload.String("organization"),
		Items:          []entity.DonationItem{},
	}
	d.DonatedAt = payload.Time(verr, "donated_at")
	d.Total = entity.RoundCents(payload.Float(verr, "total"))

	for i, raw := range payload.List("items") {
		row := Payload(raw)
		idx := i + 1
		quantity := row.Int(verr, "quantity", fmt.Sprintf("items.%d.quantity", idx))
		if quantity == 0 {
			quantity = 1
		}
		d.Items = append(d.Items, entity.DonationItem{
			Product:      row.String("product"),
			ProductID:    row.String("product"),
			ProductName:  row.String("product_name"),
			WishlistItem: row.String("wishlist_item"),
			Idx:          idx,
			Quantity:     quantity,
			Amount:       row.FloatAs(verr, "amount", fmt.Sprintf("items.%d.amount", idx)),
			Total:        row.FloatAs(verr, "total", fmt.Sprintf("items.%d.total", idx)),
		})
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.writer.SaveRecord(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Donation recorded", "name", d.Name, "hash", hash, "items", len(d.Items), "total", d.Total)
	return &DonationResult{Status: IntakeStatusOK, Donation: d}, nil
}

// CreatePayment returns the stored payment when the transaction number or,
// failing that, the hash is already known. Otherwise it validates and stores
// a new payment linked to the donation named by donation_hash or
// donation_number.
func (s *intakeServiceImpl) CreatePayment(ctx context.Context, payload Payload) (*PaymentResult, error) {
	number := payload.String("number")
	hash := payload.String("hash")

	existing, err := s.payments.GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("lookup payment by number: %w", err)
	}
	if existing == nil {
		existing, err = s.payments.GetByHash(ctx, hash)
		if err != nil {
			return nil, fmt.Errorf("lookup payment by hash: %w", err)
		}
	}
	if existing != nil {
		s.logger.Info("Payment already recorded", "name", existing.Name, "number", number, "hash", hash)
		return &PaymentResult{Status: IntakeStatusExists, Payment: existing}, nil
	}

	donation, err := s.linkedDonation(ctx, payload)
	if err != nil {
		return nil, err
	}

	verr := port.NewValidationError()
	p := &entity.DonationPayment{
		Hash:               hash,
		Type:               payload.String("type"),
		Amount:             payload.Float(verr, "amount"),
		Info1:              payload.String("info_1"),
		Info2:              payload.String("info_2"),
		Info3:              payload.String("info_3"),
		Number:             number,
		Provider:           payload.String("provider"),
		Donation:           donation,
		CreatedFromPayload: true,
	}
	if raw := payload.String("payment_at"); raw != "" {
		t, err := utils.ParseDateTime(raw)
		if err != nil {
			verr.Add("payment_at", "Invalid datetime format. Use ISO8601 (e.g. 2025-07-20T00:00:00+00:01)")
		} else {
			p.PaymentAt = &t
		}
	}
	verr.Merge(p.Problems())
	if err := verr.OrNil(); err != nil {
		s.logger.Info("Payment rejected", "number", number, "error", err)
		return nil, err
	}

	if _, err := s.writer.SaveRecord(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Payment recorded", "name", p.Name, "number", number, "donation", donation)
	return &PaymentResult{Status: IntakeStatusOK, Payment: p}, nil
}

// linkedDonation resolves donation_hash, or donation_number when no hash is
// given. An unknown reference leaves the payment unlinked.
func (s *intakeServiceImpl) linkedDonation(ctx context.Context, payload Payload) (string, error) {
	var (
		d   *entity.Donation
		err error
	)
	if h := payload.String("donation_hash"); h != "" {
		d, err = s.donations.GetByHash(ctx, h)
	} else if n := payload.String("donation_number"); n != "" {
		d, err = s.donations.GetByNumber(ctx, n)
	}
	if err != nil {
		return "", fmt.Errorf("lookup linked donation: %w", err)
	}
	if d == nil {
		return "", nil
	}
	return d.Name, nil
}

// String returns the value at key as text without control characters;
// numbers are formatted without exponent and null becomes ""
func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(utils.SanitizeString(v))
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Float reads a number or numeric string at key, recording a field error
// when it is neither
func (p Payload) Float(verr *port.ValidationError, key string) float64 {
	return p.FloatAs(verr, key, key)
}

// FloatAs is Float reporting errors under field
func (p Payload) FloatAs(verr *port.ValidationError, key, field string) float64 {
	switch v := p[key].(type) {
	case nil:
		return 0
	case float64:
		return v
	case string:
		if strings.TrimSpace(v) == "" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			verr.Add(field, "%s must be a number", key)
			return 0
		}
		return f
	default:
		verr.Add(field, "%s must be a number", key)
		return 0
	}
}

// Int reads a whole number at key, reporting errors under field
func (p Payload) Int(verr *port.ValidationError, key, field string) int {
	f := p.FloatAs(verr, key, field)
	if f != float64(int(f)) {
		verr.Add(field, "%s must be a whole number", key)
		return 0
	}
	return int(f)
}

// Time parses a datetime at key; an empty value gives nil
func (p Payload) Time(verr *port.ValidationError, key string) *time.Time {
	raw := p.String(key)
	if raw == "" {
		return nil
	}
	t, err := utils.ParseDateTime(raw)
	if err != nil {
		verr.Add(key, "Invalid datetime format. Use ISO8601 (e.g. 2025-07-20T00:00:00+00:01)")
		return nil
	}
	return &t
}

// List returns the objects of an array at key, skipping other elements
func (p Payload) List(key string) []map[string]interface{} {
	raw, ok := p[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
