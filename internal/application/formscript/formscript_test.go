package formscript

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	manager *Manager
	reader  *mockReader
	writer  *mockWriter
	logger  *mockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		reader: newMockReader(),
		writer: &mockWriter{},
		logger: &mockLogger{},
	}
	f.manager = NewManager(f.reader, &mockLoader{}, f.writer,
		Config{FetchTimeout: time.Second, IdleTTL: time.Minute}, f.logger, DefaultScripts()...)
	t.Cleanup(f.manager.Shutdown)
	return f
}

func raw(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func decode[T any](t *testing.T, snap *Snapshot) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(snap.Record, &out))
	return &out
}

func (f *fixture) wait(t *testing.T, id string) *Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := f.manager.Snapshot(ctx, id, true)
	require.NoError(t, err)
	return snap
}

func TestOpen_UnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Open(context.Background(), entity.KindProduct, nil)
	assert.ErrorIs(t, err, ErrNoScript)
}

func TestDonation_RecipientSwitch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.manager.Open(ctx, entity.KindDonation, raw(map[string]interface{}{
		"donated_to":      "Person",
		"shelter_details": "SHL-00001",
		"shelter_name":    "Paws",
	}))
	require.NoError(t, err)

	d := decode[entity.Donation](t, snap)
	assert.Empty(t, d.ShelterDetails, "inactive group is cleared on open")
	assert.Empty(t, d.ShelterName)
	assert.False(t, snap.Layout["contact_person"].Hidden)
	assert.True(t, snap.Layout["shelter_details"].Hidden)

	snap, err = f.manager.Change(snap.SessionID, "donated_to", raw("Animal Shelter"))
	require.NoError(t, err)
	assert.True(t, snap.Layout["contact_person"].Hidden)
	assert.True(t, snap.Layout["person_email"].Hidden)
	assert.False(t, snap.Layout["shelter_name"].Hidden)
}

func TestSwitch_UnknownDiscriminatorHidesEverything(t *testing.T) {
	tests := []struct {
		name  string
		kind  entity.Kind
		field string
		value string
	}{
		{"donation", entity.KindDonation, "donated_to", "Organization"},
		{"food demand plural", entity.KindFoodDemand, "order_by", "Animal Shelters"},
		{"delivery recipient", entity.KindDelivery, "deleiver_to", ""},
		{"animal", entity.KindAnimalInformation, "animal_type", "Bird"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			snap, err := f.manager.Open(context.Background(), tt.kind, nil)
			require.NoError(t, err)

			snap, err = f.manager.Change(snap.SessionID, tt.field, raw(tt.value))
			require.NoError(t, err)

			sc := f.manager.scripts[tt.kind]
			for field := range sc.Layout().Snapshot() {
				if field == "display_title" || field == "purchased_by" || field == "organization_detail" || field == "organization_name" {
					continue
				}
				assert.True(t, snap.Layout[field].Hidden, field)
			}
		})
	}
}

func TestAnimalInformation_SwitchClearsCounts(t *testing.T) {
	f := newFixture(t)

	snap, err := f.manager.Open(context.Background(), entity.KindAnimalInformation, raw(map[string]interface{}{
		"animal_type": "Dog",
		"adult_dogs":  4,
		"puppies":     2,
	}))
	require.NoError(t, err)
	a := decode[entity.AnimalInformation](t, snap)
	assert.Equal(t, 4, a.AdultDogs)
	assert.True(t, snap.Layout["kittens"].Hidden)

	snap, err = f.manager.Change(snap.SessionID, "animal_type", raw("Cat"))
	require.NoError(t, err)
	a = decode[entity.AnimalInformation](t, snap)
	assert.Zero(t, a.AdultDogs)
	assert.Zero(t, a.Puppies)
	assert.False(t, snap.Layout["kittens"].Hidden)
	assert.True(t, snap.Layout["puppies"].Hidden)
}

func TestLink_CopiesAttributes(t *testing.T) {
	f := newFixture(t)
	f.reader.contacts["ACP-00001"] = &entity.ContactPerson{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"}

	snap, err := f.manager.Open(context.Background(), entity.KindDonation, raw(map[string]string{"donated_to": "Person"}))
	require.NoError(t, err)

	_, err = f.manager.Change(snap.SessionID, "contact_person", raw("ACP-00001"))
	require.NoError(t, err)

	snap = f.wait(t, snap.SessionID)
	d := decode[entity.Donation](t, snap)
	assert.Equal(t, "Ada", d.PersonFirstName)
	assert.Equal(t, "Lovelace", d.PersonLastName)
	assert.Equal(t, "ada@example.org", d.PersonEmail)
	assert.Zero(t, snap.Pending)
	assert.Empty(t, snap.Errors)
}

func TestLink_OpenFollowsFilledLinks(t *testing.T) {
	f := newFixture(t)
	f.reader.people["PER-00001"] = &entity.PersonDetails{FirstName: "Grace", LastName: "Hopper"}
	f.reader.orgs["ORG-00001"] = &entity.Organization{Meta: entity.Meta{Name: "ORG-00001"}}

	snap, err := f.manager.Open(context.Background(), entity.KindDelivery, raw(map[string]string{
		"deleivery_type":      "Donated From Organization",
		"organization_detail": "ORG-00001",
		"deleiver_to":         "Person",
		"person_details":      "PER-00001",
	}))
	require.NoError(t, err)

	snap = f.wait(t, snap.SessionID)
	d := decode[entity.Delivery](t, snap)
	assert.Equal(t, "Grace", d.FirstName)
	assert.Equal(t, "Hopper", d.LastName)
	assert.Equal(t, "ORG-00001", d.OrganizationName, "organization without a name falls back to its id")
	assert.Equal(t, "Donated by ORG-00001", d.DisplayTitle)
	assert.True(t, snap.Layout["organization_detail"].Required)
	assert.False(t, snap.Layout["purchased_by"].Required)
}

func TestLink_StaleResultIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.reader.people["PER-1"] = &entity.PersonDetails{FirstName: "Old", LastName: "Value"}
	f.reader.people["PER-2"] = &entity.PersonDetails{FirstName: "New", LastName: "Value"}
	slow := f.reader.gate("PER-1")

	snap, err := f.manager.Open(context.Background(), entity.KindFoodDemand, raw(map[string]string{"order_by": "Person"}))
	require.NoError(t, err)
	id := snap.SessionID

	snap, err = f.manager.Change(id, "person_details", raw("PER-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Pending)

	_, err = f.manager.Change(id, "person_details", raw("PER-2"))
	require.NoError(t, err)

	close(slow)
	snap = f.wait(t, id)

	d := decode[entity.FoodDemand](t, snap)
	assert.Equal(t, "PER-2", d.PersonDetails)
	assert.Equal(t, "New", d.FirstName)
	assert.Equal(t, 1, f.logger.infoCount("Discarded stale lookup"))
}

func TestLink_ClearIsSynchronous(t *testing.T) {
	f := newFixture(t)
	f.reader.people["PER-1"] = &entity.PersonDetails{FirstName: "Ada"}
	slow := f.reader.gate("PER-1")

	snap, err := f.manager.Open(context.Background(), entity.KindDelivery, raw(map[string]string{
		"deleiver_to": "Person",
		"first_name":  "Stale",
	}))
	require.NoError(t, err)
	id := snap.SessionID

	_, err = f.manager.Change(id, "person_details", raw("PER-1"))
	require.NoError(t, err)

	snap, err = f.manager.Change(id, "person_details", json.RawMessage(`null`))
	require.NoError(t, err)
	d := decode[entity.Delivery](t, snap)
	assert.Empty(t, d.FirstName, "copies are cleared before the lookup returns")

	close(slow)
	snap = f.wait(t, id)
	d = decode[entity.Delivery](t, snap)
	assert.Empty(t, d.FirstName)
	assert.Empty(t, d.PersonDetails)
}

func TestLink_SwitchingGroupDiscardsInflightLookup(t *testing.T) {
	f := newFixture(t)
	f.reader.shelters["SHL-1"] = &entity.AnimalShelter{ShelterName: "Paws"}
	slow := f.reader.gate("SHL-1")

	snap, err := f.manager.Open(context.Background(), entity.KindDonation, raw(map[string]string{"donated_to": "Animal Shelter"}))
	require.NoError(t, err)
	id := snap.SessionID

	_, err = f.manager.Change(id, "shelter_details", raw("SHL-1"))
	require.NoError(t, err)
	_, err = f.manager.Change(id, "donated_to", raw("Person"))
	require.NoError(t, err)

	close(slow)
	d := decode[entity.Donation](t, f.wait(t, id))
	assert.Empty(t, d.ShelterName)
}

func TestLink_FailureIsRecorded(t *testing.T) {
	f := newFixture(t)

	snap, err := f.manager.Open(context.Background(), entity.KindPersonDemand, nil)
	require.NoError(t, err)

	_, err = f.manager.Change(snap.SessionID, "person_details", raw("ACP-404"))
	require.NoError(t, err)

	snap = f.wait(t, snap.SessionID)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "person_details", snap.Errors[0].Field)
	assert.Equal(t, "ACP-404", snap.Errors[0].Value)
	assert.Contains(t, snap.Errors[0].Message, "not found")
	d := decode[entity.PersonDemand](t, snap)
	assert.Equal(t, "ACP-404", d.PersonDetails, "the link value is kept")
}

func TestLink_Timeout(t *testing.T) {
	reader := newMockReader()
	reader.gate("ACP-1")
	m := NewManager(reader, &mockLoader{}, &mockWriter{}, Config{FetchTimeout: 20 * time.Millisecond}, &mockLogger{}, DefaultScripts()...)
	defer m.Shutdown()

	snap, err := m.Open(context.Background(), entity.KindPersonDemand, raw(map[string]string{"person_details": "ACP-1"}))
	require.NoError(t, err)

	snap, err = m.Snapshot(context.Background(), snap.SessionID, true)
	require.NoError(t, err)
	require.Len(t, snap.Errors, 1)
	assert.Contains(t, snap.Errors[0].Message, context.DeadlineExceeded.Error())
}

func TestDonation_ItemTotals(t *testing.T) {
	f := newFixture(t)
	f.reader.products["PRD-1"] = &entity.Product{ProductName: "Dry food", ProductPrice: 5}
	f.reader.products["PRD-2"] = &entity.Product{ProductName: "Blanket", ProductPrice: 10}

	snap, err := f.manager.Open(context.Background(), entity.KindDonation, nil)
	require.NoError(t, err)
	id := snap.SessionID

	_, err = f.manager.AddItem(id)
	require.NoError(t, err)
	_, err = f.manager.AddItem(id)
	require.NoError(t, err)

	_, err = f.manager.Change(id, "items.1.product", raw("PRD-1"))
	require.NoError(t, err)
	_, err = f.manager.Change(id, "items.2.product", raw("PRD-2"))
	require.NoError(t, err)
	f.wait(t, id)

	snap, err = f.manager.Change(id, "items.1.quantity", raw(2))
	require.NoError(t, err)

	d := decode[entity.Donation](t, snap)
	want := []entity.DonationItem{
		{Idx: 1, Product: "PRD-1", ProductID: "PRD-1", ProductName: "Dry food", Quantity: 2, Amount: 5, Total: 10},
		{Idx: 2, Product: "PRD-2", ProductID: "PRD-2", ProductName: "Blanket", Quantity: 1, Amount: 10, Total: 10},
	}
	if diff := cmp.Diff(want, d.Items, cmpopts.IgnoreFields(entity.DonationItem{}, "RowID")); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 20.0, d.Total)

	snap, err = f.manager.RemoveItem(id, 1)
	require.NoError(t, err)
	d = decode[entity.Donation](t, snap)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 1, d.Items[0].Idx)
	assert.Equal(t, 10.0, d.Total)
}

func TestDonation_ClearingProductLeavesRow(t *testing.T) {
	f := newFixture(t)

	snap, err := f.manager.Open(context.Background(), entity.KindDonation, raw(map[string]interface{}{
		"items": []map[string]interface{}{
			{"product": "PRD-1", "product_name": "Dry food", "quantity": 2, "amount": 5},
		},
	}))
	require.NoError(t, err)
	id := snap.SessionID
	f.wait(t, id)

	snap, err = f.manager.Change(id, "items.1.product", json.RawMessage(`null`))
	require.NoError(t, err)

	d := decode[entity.Donation](t, snap)
	assert.Empty(t, d.Items[0].Product)
	assert.Equal(t, "Dry food", d.Items[0].ProductName)
	assert.Equal(t, 10.0, d.Items[0].Total)
	assert.Equal(t, 10.0, d.Total)
}

func TestDonation_ItemErrors(t *testing.T) {
	f := newFixture(t)

	snap, err := f.manager.Open(context.Background(), entity.KindDonation, nil)
	require.NoError(t, err)
	id := snap.SessionID

	_, err = f.manager.Change(id, "items.1.quantity", raw(1))
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = f.manager.AddItem(id)
	require.NoError(t, err)

	_, err = f.manager.Change(id, "items.1.total", raw(99))
	assert.ErrorIs(t, err, ErrReadOnlyField)

	_, err = f.manager.Change(id, "total", raw(99))
	assert.ErrorIs(t, err, ErrReadOnlyField)

	_, err = f.manager.RemoveItem(id, 3)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestItems_NotSupported(t *testing.T) {
	f := newFixture(t)

	snap, err := f.manager.Open(context.Background(), entity.KindFoodDemand, nil)
	require.NoError(t, err)

	_, err = f.manager.AddItem(snap.SessionID)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestChange_RejectsSystemAndUnknownFields(t *testing.T) {
	f := newFixture(t)

	snap, err := f.manager.Open(context.Background(), entity.KindPersonDetails, nil)
	require.NoError(t, err)
	id := snap.SessionID

	_, err = f.manager.Change(id, "name", raw("PER-9"))
	assert.ErrorIs(t, err, ErrReadOnlyField)

	_, err = f.manager.Change(id, "full_name", raw("x"))
	assert.ErrorIs(t, err, ErrReadOnlyField)

	_, err = f.manager.Change(id, "shoe_size", raw(42))
	assert.Error(t, err)

	_, err = f.manager.Change(id, "first_name", raw("Ada"))
	require.NoError(t, err)
	snap, err = f.manager.Change(id, "last_name", raw("Lovelace"))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", decode[entity.PersonDetails](t, snap).FullName)
}

func TestChange_RejectsHiddenGroupFields(t *testing.T) {
	tests := []struct {
		name    string
		kind    entity.Kind
		initial map[string]string
		field   string
	}{
		{"donation shelter", entity.KindDonation, map[string]string{"donated_to": "Person"}, "shelter_details"},
		{"donation shelter name", entity.KindDonation, map[string]string{"donated_to": "Person"}, "shelter_name"},
		{"donation without recipient", entity.KindDonation, nil, "contact_person"},
		{"delivery source", entity.KindDelivery, map[string]string{"deleivery_type": "Own Purchase"}, "organization_detail"},
		{"delivery recipient", entity.KindDelivery, map[string]string{"deleiver_to": "Person"}, "shelter_details"},
		{"food demand", entity.KindFoodDemand, map[string]string{"order_by": "Animal Shelter"}, "person_details"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.reader.shelters["SHL-1"] = &entity.AnimalShelter{ShelterName: "Paws"}

			snap, err := f.manager.Open(context.Background(), tt.kind, raw(tt.initial))
			require.NoError(t, err)
			require.True(t, snap.Layout[tt.field].Hidden)

			_, err = f.manager.Change(snap.SessionID, tt.field, raw("SHL-1"))
			assert.ErrorIs(t, err, ErrHiddenField)

			snap = f.wait(t, snap.SessionID)
			assert.Empty(t, f.reader.calls, "no lookup is started")

			var fields map[string]interface{}
			require.NoError(t, json.Unmarshal(snap.Record, &fields))
			assert.Empty(t, fields[tt.field])
		})
	}
}

func TestSave_ClearsInactiveGroups(t *testing.T) {
	tests := []struct {
		name    string
		kind    entity.Kind
		initial map[string]string
		fill    func(rec entity.Record)
		check   func(t *testing.T, rec entity.Record)
	}{
		{
			name:    "donation",
			kind:    entity.KindDonation,
			initial: map[string]string{"donated_to": "Person"},
			fill: func(rec entity.Record) {
				d := rec.(*entity.Donation)
				d.ShelterDetails, d.ShelterName = "SHL-1", "Paws"
			},
			check: func(t *testing.T, rec entity.Record) {
				d := rec.(*entity.Donation)
				assert.Empty(t, d.ShelterDetails)
				assert.Empty(t, d.ShelterName)
			},
		},
		{
			name:    "delivery",
			kind:    entity.KindDelivery,
			initial: map[string]string{"deleivery_type": "Own Purchase", "purchased_by": "Jane", "deleiver_to": "Person"},
			fill: func(rec entity.Record) {
				d := rec.(*entity.Delivery)
				d.OrganizationDetail, d.ShelterDetails, d.ShelterName = "ORG-1", "SHL-1", "Paws"
			},
			check: func(t *testing.T, rec entity.Record) {
				d := rec.(*entity.Delivery)
				assert.Empty(t, d.OrganizationDetail)
				assert.Empty(t, d.ShelterDetails)
				assert.Empty(t, d.ShelterName)
				assert.Equal(t, "Jane", d.PurchasedBy)
			},
		},
		{
			name:    "food demand",
			kind:    entity.KindFoodDemand,
			initial: map[string]string{"order_by": "Animal Shelter"},
			fill: func(rec entity.Record) {
				d := rec.(*entity.FoodDemand)
				d.PersonDetails, d.FirstName = "PER-1", "Ada"
			},
			check: func(t *testing.T, rec entity.Record) {
				d := rec.(*entity.FoodDemand)
				assert.Empty(t, d.PersonDetails)
				assert.Empty(t, d.FirstName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			snap, err := f.manager.Open(ctx, tt.kind, raw(tt.initial))
			require.NoError(t, err)

			s, err := f.manager.session(snap.SessionID)
			require.NoError(t, err)
			s.mu.Lock()
			tt.fill(s.Record())
			s.mu.Unlock()

			_, _, err = f.manager.Save(ctx, snap.SessionID)
			require.NoError(t, err)
			require.Len(t, f.writer.saved, 1)
			tt.check(t, f.writer.saved[0])
		})
	}
}

func TestSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.manager.Open(ctx, entity.KindDelivery, raw(map[string]string{"deleivery_type": "Own Purchase"}))
	require.NoError(t, err)
	id := snap.SessionID

	_, _, err = f.manager.Save(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, port.ErrValidation))
	var verr *port.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "purchased_by")
	assert.Empty(t, f.writer.saved)

	_, err = f.manager.Change(id, "purchased_by", raw("Jane"))
	require.NoError(t, err)

	name, snap, err := f.manager.Save(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "NEW-1", name)
	require.Len(t, f.writer.saved, 1)
	d := decode[entity.Delivery](t, snap)
	assert.Equal(t, "Purchased by Jane", d.DisplayTitle)
}

func TestSave_DonationValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.manager.Open(ctx, entity.KindDonation, raw(map[string]interface{}{
		"items": []map[string]interface{}{{"quantity": -1, "amount": 2}},
	}))
	require.NoError(t, err)

	_, _, err = f.manager.Save(ctx, snap.SessionID)
	var verr *port.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Quantity cannot be negative", verr.Fields["items.1.quantity"])
}

func TestLoad(t *testing.T) {
	reader := newMockReader()
	loader := &mockLoader{
		loadRecordFunc: func(ctx context.Context, kind entity.Kind, name string) (entity.Record, error) {
			return &entity.FoodDemand{
				Meta:                   entity.Meta{Name: name},
				OrderBy:                "Animal Shelter",
				ContactedAnimalShelter: "SHL-1",
				ShelterName:            "Stored name",
			}, nil
		},
	}
	m := NewManager(reader, loader, &mockWriter{}, Config{}, &mockLogger{}, DefaultScripts()...)
	defer m.Shutdown()

	snap, err := m.Load(context.Background(), entity.KindFoodDemand, "FD-00001")
	require.NoError(t, err)

	d := decode[entity.FoodDemand](t, snap)
	assert.Equal(t, "FD-00001", d.Name)
	assert.Equal(t, "Stored name", d.ShelterName)
	assert.Zero(t, snap.Pending)
	assert.Empty(t, reader.calls, "loading does not follow links")
	assert.True(t, snap.Layout["person_details"].Hidden)
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)
	f.manager.now = func() time.Time { return now }

	old, err := f.manager.Open(context.Background(), entity.KindPersonDemand, nil)
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	fresh, err := f.manager.Open(context.Background(), entity.KindPersonDemand, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.manager.Len())

	evicted := f.manager.EvictIdle(now.Add(30 * time.Second))
	assert.Equal(t, 1, evicted)

	_, err = f.manager.Snapshot(context.Background(), old.SessionID, false)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, f.manager.Close(fresh.SessionID))
	assert.ErrorIs(t, f.manager.Close(fresh.SessionID), ErrSessionNotFound)
	assert.Zero(t, f.manager.Len())
}

func TestKinds(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []entity.Kind{
		entity.KindPersonDetails,
		entity.KindAnimalInformation,
		entity.KindDelivery,
		entity.KindDonation,
		entity.KindFoodDemand,
		entity.KindPersonDemand,
	}, f.manager.Kinds())
}

func TestParseItemField(t *testing.T) {
	idx, field, ok := parseItemField("items.3.quantity")
	assert.True(t, ok)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "quantity", field)

	for _, in := range []string{"items", "items.x.quantity", "rows.1.quantity", "quantity"} {
		_, _, ok := parseItemField(in)
		assert.False(t, ok, in)
	}
}
