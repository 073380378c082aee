package entity

import (
	"fmt"
	"strings"
	"time"
)

// DonationPayment is a money movement reported by a payment provider
type DonationPayment struct {
	Meta
	Hash               string     `json:"hash"`
	Type               string     `json:"type"`
	Amount             float64    `json:"amount"`
	Info1              string     `json:"info_1"`
	Info2              string     `json:"info_2"`
	Info3              string     `json:"info_3"`
	Number             string     `json:"number"`
	Provider           string     `json:"provider"`
	PaymentAt          *time.Time `json:"payment_at,omitempty"`
	Donation           string     `json:"donation"`
	CreatedFromPayload bool       `json:"created_from_payload"`
}

func (*DonationPayment) RecordKind() Kind { return KindDonationPayment }

// Problems lists the field errors of the payment, keyed by field name
func (p *DonationPayment) Problems() map[string]string {
	problems := make(map[string]string)

	required := map[string]bool{
		"hash":     strings.TrimSpace(p.Hash) != "",
		"type":     strings.TrimSpace(p.Type) != "",
		"number":   strings.TrimSpace(p.Number) != "",
		"provider": strings.TrimSpace(p.Provider) != "",
	}
	for field, ok := range required {
		if !ok {
			problems[field] = field + " is required"
		}
	}

	if p.Amount <= 0 {
		problems["amount"] = "Amount must be greater than 0"
	}
	if p.Type != "" && !oneOf(strings.ToLower(p.Type), PaymentTypes) {
		problems["type"] = fmt.Sprintf("Invalid type. Must be one of %s", strings.Join(PaymentTypes, ", "))
	}
	if p.Provider != "" && !oneOf(strings.ToLower(p.Provider), PaymentProviders) {
		problems["provider"] = fmt.Sprintf("Invalid provider. Must be one of %s", strings.Join(PaymentProviders, ", "))
	}
	return problems
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
