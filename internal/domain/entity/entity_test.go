package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonation_Recalculate(t *testing.T) {
	tests := []struct {
		name      string
		items     []DonationItem
		wantTotal float64
		wantLines []float64
	}{
		{
			name: "sums line totals",
			items: []DonationItem{
				{Quantity: 2, Amount: 5},
				{Quantity: 1, Amount: 10},
			},
			wantTotal: 20,
			wantLines: []float64{10, 10},
		},
		{
			name:      "no items",
			items:     nil,
			wantTotal: 0,
			wantLines: []float64{},
		},
		{
			name: "missing values count as zero",
			items: []DonationItem{
				{Quantity: 3},
				{Amount: 4.5},
				{Quantity: 2, Amount: 4.5},
			},
			wantTotal: 9,
			wantLines: []float64{0, 0, 9},
		},
		{
			name: "rounds to cents",
			items: []DonationItem{
				{Quantity: 3, Amount: 0.1},
				{Quantity: 7, Amount: 1.25},
			},
			wantTotal: 9.05,
			wantLines: []float64{0.3, 8.75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Donation{Items: tt.items, Total: 999}
			d.Recalculate()

			assert.InDelta(t, tt.wantTotal, d.Total, 0.0001)
			require.Len(t, d.Items, len(tt.wantLines))
			for i, want := range tt.wantLines {
				assert.InDelta(t, want, d.Items[i].Total, 0.0001, "line %d", i)
			}
		})
	}
}

func TestDonation_RecomputeTotalUsesCurrentLines(t *testing.T) {
	d := &Donation{Items: []DonationItem{{Total: 12}, {Total: 8}}}
	d.RecomputeTotal()
	assert.Equal(t, 20.0, d.Total)

	d.Items = d.Items[:1]
	d.RecomputeTotal()
	assert.Equal(t, 12.0, d.Total)
}

func TestDonation_ItemAndRenumber(t *testing.T) {
	d := &Donation{Items: []DonationItem{{RowID: "a"}, {RowID: "b"}}}
	d.Renumber()

	require.NotNil(t, d.Item("b"))
	assert.Equal(t, 2, d.Item("b").Idx)
	assert.Nil(t, d.Item("missing"))
}

func TestDelivery_Title(t *testing.T) {
	tests := []struct {
		name string
		d    Delivery
		want string
	}{
		{"own purchase", Delivery{DeliveryType: SourceOwnPurchase, PurchasedBy: "PER-00001"}, "Purchased by PER-00001"},
		{"own purchase without buyer", Delivery{DeliveryType: SourceOwnPurchase}, ""},
		{"organization", Delivery{DeliveryType: SourceDonatedFromOrganization, OrganizationDetail: "ORG-00002"}, "Donated by ORG-00002"},
		{"no type", Delivery{PurchasedBy: "PER-00001"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Title())
		})
	}
}

func TestDelivery_RecipientDisplay(t *testing.T) {
	tests := []struct {
		name string
		d    Delivery
		want string
	}{
		{"person", Delivery{DeliverTo: RecipientPerson, PersonDetails: "PER-1", FirstName: "Ada", LastName: " "}, "Ada"},
		{"person without link", Delivery{DeliverTo: RecipientPerson, FirstName: "Ada"}, ""},
		{"shelter name", Delivery{DeliverTo: RecipientAnimalShelter, ShelterDetails: "SHL-1", ShelterName: "Paws"}, "Paws"},
		{"shelter id fallback", Delivery{DeliverTo: RecipientAnimalShelter, ShelterDetails: "SHL-1"}, "SHL-1"},
		{"unknown", Delivery{DeliverTo: "Other", PersonDetails: "PER-1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.RecipientDisplay())
		})
	}
}

func TestPersonDetails_ComposeFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&PersonDetails{FirstName: "Ada", LastName: "Lovelace"}).ComposeFullName())
	assert.Equal(t, "Lovelace", (&PersonDetails{LastName: "Lovelace"}).ComposeFullName())
	assert.Equal(t, "", (&PersonDetails{}).ComposeFullName())
}

func TestKindLookup(t *testing.T) {
	kind, ok := KindBySlug("delivery")
	require.True(t, ok)
	assert.Equal(t, KindDelivery, kind)

	info, ok := kind.Info()
	require.True(t, ok)
	assert.Equal(t, "DEL", info.Prefix)
	assert.Equal(t, 6, info.Width)

	_, ok = KindBySlug("nope")
	assert.False(t, ok)
}

func TestShelterAndOrganizationDisplayName(t *testing.T) {
	s := &AnimalShelter{Meta: Meta{Name: "SHL-00001"}}
	assert.Equal(t, "SHL-00001", s.DisplayName())
	s.ShelterName = "Happy Tails"
	assert.Equal(t, "Happy Tails", s.DisplayName())

	o := &Organization{Meta: Meta{Name: "ORG-00001"}}
	assert.Equal(t, "ORG-00001", o.DisplayName())
}

func TestDonationPayment_Problems(t *testing.T) {
	valid := &DonationPayment{Hash: "h", Type: "Deposit", Amount: 5, Number: "n", Provider: "STRIPE"}
	assert.Empty(t, valid.Problems())

	empty := &DonationPayment{}
	assert.Equal(t, map[string]string{
		"hash":     "hash is required",
		"type":     "type is required",
		"amount":   "Amount must be greater than 0",
		"number":   "number is required",
		"provider": "provider is required",
	}, empty.Problems())

	bad := &DonationPayment{Hash: "h", Type: "gift", Amount: -1, Number: "n", Provider: "venmo"}
	problems := bad.Problems()
	assert.Equal(t, "Amount must be greater than 0", problems["amount"])
	assert.Contains(t, problems["type"], "Invalid type")
	assert.Contains(t, problems["provider"], "Invalid provider")
}

func TestNew(t *testing.T) {
	for _, info := range kinds {
		rec, ok := New(info.Kind)
		if assert.True(t, ok, info.Kind) {
			assert.Equal(t, info.Kind, rec.RecordKind())
		}
	}
	_, ok := New("Invoice")
	assert.False(t, ok)
}
