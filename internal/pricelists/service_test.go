package pricelists

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pricing-engine/internal/pricing"
	"github.com/angelmondragon/pricing-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
)

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestCreatePriceListValidation(t *testing.T) {
	svc := newTestService(t, openTestDB(t), nil)
	ctx := context.Background()
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input CreatePriceListInput
	}{
		{name: "blankName", input: CreatePriceListInput{Name: "   "}},
		{name: "unknownStatus", input: CreatePriceListInput{Name: "x", Status: "archived"}},
		{name: "invertedWindow", input: CreatePriceListInput{Name: "x", ValidFrom: timePtr(from), ValidTo: timePtr(from.Add(-time.Hour))}},
		{name: "nilPartner", input: CreatePriceListInput{Name: "x", PartnerIDs: []uuid.UUID{uuid.Nil}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePriceList(ctx, tc.input)
			requireCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreatePriceListDefaultsAndPartners(t *testing.T) {
	svc := newTestService(t, openTestDB(t), nil)
	partner := uuid.New()

	got, err := svc.CreatePriceList(context.Background(), CreatePriceListInput{
		Name:       "  Wholesale ",
		Priority:   20,
		PartnerIDs: []uuid.UUID{partner, partner},
	})
	require.NoError(t, err)
	assert.Equal(t, "Wholesale", got.Name)
	assert.Equal(t, enums.PriceListStatusActive.String(), got.Status)
	assert.Equal(t, 20, got.Priority)
	assert.Equal(t, []uuid.UUID{partner}, got.PartnerIDs)
}

func TestAddEntryValidation(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)
	list := mustCreateList(t, conn, nil)
	ctx := context.Background()

	base := CreateEntryInput{ProductID: uuid.New(), Price: decimal.NewFromInt(10), Currency: "usd"}
	cases := []struct {
		name   string
		mutate func(*CreateEntryInput)
	}{
		{name: "missingProduct", mutate: func(in *CreateEntryInput) { in.ProductID = uuid.Nil }},
		{name: "negativePrice", mutate: func(in *CreateEntryInput) { in.Price = decimal.NewFromInt(-1) }},
		{name: "badCurrency", mutate: func(in *CreateEntryInput) { in.Currency = "US1" }},
		{name: "badStatus", mutate: func(in *CreateEntryInput) { in.Status = "gone" }},
		{name: "invertedBracket", mutate: func(in *CreateEntryInput) { in.MinQuantity = 10; in.MaxQuantity = 5 }},
		{name: "negativeQuantity", mutate: func(in *CreateEntryInput) { in.MinQuantity = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			_, err := svc.AddEntry(ctx, list.ID, input)
			requireCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestAddEntryNormalizesAndInvalidates(t *testing.T) {
	conn := openTestDB(t)
	inv := &recordingInvalidator{}
	svc := newTestService(t, conn, inv)
	list := mustCreateList(t, conn, nil)
	productID := uuid.New()

	got, err := svc.AddEntry(context.Background(), list.ID, CreateEntryInput{
		ProductID:   productID,
		Price:       decimal.RequireFromString("19.99"),
		Currency:    " eur ",
		MaxQuantity: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, 1, got.MinQuantity)
	assert.Equal(t, enums.EntryStatusActive.String(), got.Status)
	assert.Equal(t, []uuid.UUID{productID}, inv.invalidated())
}

func TestAddEntryUnknownList(t *testing.T) {
	svc := newTestService(t, openTestDB(t), nil)
	_, err := svc.AddEntry(context.Background(), uuid.New(), CreateEntryInput{
		ProductID: uuid.New(),
		Price:     decimal.NewFromInt(1),
		Currency:  "USD",
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateStatusInvalidatesEveryPricedProduct(t *testing.T) {
	conn := openTestDB(t)
	inv := &recordingInvalidator{}
	svc := newTestService(t, conn, inv)
	list := mustCreateList(t, conn, nil)
	p1, p2 := uuid.New(), uuid.New()
	mustCreateEntry(t, conn, list.ID, p1, "1")
	mustCreateEntry(t, conn, list.ID, p2, "2")

	got, err := svc.UpdatePriceListStatus(context.Background(), list.ID, enums.PriceListStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, "suspended", got.Status)
	assert.ElementsMatch(t, []uuid.UUID{p1, p2}, inv.invalidated())

	_, err = svc.UpdatePriceListStatus(context.Background(), list.ID, "bogus")
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.UpdatePriceListStatus(context.Background(), uuid.New(), enums.PriceListStatusActive)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestInvalidationFailureDoesNotFailWrite(t *testing.T) {
	conn := openTestDB(t)
	p1, p2 := uuid.New(), uuid.New()
	inv := &recordingInvalidator{failFor: map[uuid.UUID]bool{p1: true}}
	svc := newTestService(t, conn, inv)
	list := mustCreateList(t, conn, nil)
	mustCreateEntry(t, conn, list.ID, p1, "1")
	mustCreateEntry(t, conn, list.ID, p2, "2")

	require.NoError(t, svc.DeletePriceList(context.Background(), list.ID))
	assert.ElementsMatch(t, []uuid.UUID{p1, p2}, inv.invalidated())

	_, err := svc.GetPriceList(context.Background(), list.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveEntry(t *testing.T) {
	conn := openTestDB(t)
	inv := &recordingInvalidator{}
	svc := newTestService(t, conn, inv)
	list := mustCreateList(t, conn, nil)
	other := mustCreateList(t, conn, nil)
	productID := uuid.New()
	entry := mustCreateEntry(t, conn, list.ID, productID, "3")

	err := svc.RemoveEntry(context.Background(), other.ID, entry.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	require.NoError(t, svc.RemoveEntry(context.Background(), list.ID, entry.ID))
	assert.Equal(t, []uuid.UUID{productID}, inv.invalidated())

	err = svc.RemoveEntry(context.Background(), list.ID, entry.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestPartnerAssignmentLifecycle(t *testing.T) {
	conn := openTestDB(t)
	inv := &recordingInvalidator{}
	svc := newTestService(t, conn, inv)
	ctx := context.Background()
	list := mustCreateList(t, conn, nil)
	productID := uuid.New()
	mustCreateEntry(t, conn, list.ID, productID, "4")
	partner := uuid.New()

	_, err := svc.AssignPartner(ctx, list.ID, uuid.Nil)
	requireCode(t, err, pkgerrors.CodeValidation)

	got, err := svc.AssignPartner(ctx, list.ID, partner)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{partner}, got.PartnerIDs)

	_, err = svc.AssignPartner(ctx, list.ID, partner)
	requireCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.AssignPartner(ctx, uuid.New(), partner)
	requireCode(t, err, pkgerrors.CodeNotFound)

	require.NoError(t, svc.UnassignPartner(ctx, list.ID, partner))
	err = svc.UnassignPartner(ctx, list.ID, partner)
	requireCode(t, err, pkgerrors.CodeNotFound)

	assert.Equal(t, []uuid.UUID{productID, productID}, inv.invalidated())
}

func TestRepositoryDrivesResolver(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()
	productID := uuid.New()
	partner := uuid.New()

	generic, err := svc.CreatePriceList(ctx, CreatePriceListInput{Name: "generic", Priority: 10})
	require.NoError(t, err)
	partnerList, err := svc.CreatePriceList(ctx, CreatePriceListInput{Name: "partner", Priority: 1, PartnerIDs: []uuid.UUID{partner}})
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, generic.ID, CreateEntryInput{ProductID: productID, Price: decimal.NewFromInt(100), Currency: "USD"})
	require.NoError(t, err)
	partnerEntry, err := svc.AddEntry(ctx, partnerList.ID, CreateEntryInput{ProductID: productID, Price: decimal.NewFromInt(90), Currency: "USD"})
	require.NoError(t, err)

	resolver, err := pricing.NewResolver(NewRepository(conn))
	require.NoError(t, err)

	out, err := resolver.Resolve(ctx, pricing.Request{ProductID: productID, Quantity: 1, PartnerID: &partner})
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.Equal(t, partnerEntry.ID, out.Price.EntryID)

	anon, err := resolver.Resolve(ctx, pricing.Request{ProductID: productID, Quantity: 1})
	require.NoError(t, err)
	require.True(t, anon.Found)
	assert.Equal(t, generic.ID, anon.Price.PriceListID)

	_, err = svc.UpdatePriceListStatus(ctx, generic.ID, enums.PriceListStatusSuspended)
	require.NoError(t, err)
	anon, err = resolver.Resolve(ctx, pricing.Request{ProductID: productID, Quantity: 1})
	require.NoError(t, err)
	assert.False(t, anon.Found)
}
