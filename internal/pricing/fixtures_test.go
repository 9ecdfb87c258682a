package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricing-engine/pkg/enums"
)

var (
	testProductID = uuid.MustParse("7c3a2f64-0c1e-4f7b-9a9e-1d2b3c4d5e6f")
	testPartnerP  = uuid.MustParse("11111111-2222-4333-8444-555555555555")
	testPartnerQ  = uuid.MustParse("99999999-8888-4777-8666-555555555555")
	testToday     = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
)

type listOption func(*PriceList)

func withPriority(p int) listOption { return func(l *PriceList) { l.Priority = p } }

func withDefault() listOption { return func(l *PriceList) { l.IsDefault = true } }

func withPartners(ids ...uuid.UUID) listOption {
	return func(l *PriceList) { l.PartnerIDs = append(l.PartnerIDs, ids...) }
}

func withValidity(from, to *time.Time) listOption {
	return func(l *PriceList) {
		l.ValidFrom = from
		l.ValidTo = to
	}
}

func withListStatus(s enums.PriceListStatus) listOption {
	return func(l *PriceList) { l.Status = s }
}

func withCreatedAt(t time.Time) listOption { return func(l *PriceList) { l.CreatedAt = t } }

func newList(name string, opts ...listOption) *PriceList {
	list := &PriceList{
		ID:        uuid.New(),
		Name:      name,
		Status:    enums.PriceListStatusActive,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(list)
	}
	return list
}

func newEntry(list *PriceList, price string) Entry {
	return Entry{
		ID:          uuid.New(),
		ProductID:   testProductID,
		PriceList:   list,
		Price:       decimal.RequireFromString(price),
		Currency:    "EUR",
		Status:      enums.EntryStatusActive,
		MinQuantity: 1,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
