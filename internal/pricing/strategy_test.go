package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryIDs(entries []Entry) []uuid.UUID {
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestDefaultStrategy_PartnerGroupOutranksPriority(t *testing.T) {
	assigned := newEntry(newList("partner", withPriority(10), withPartners(testPartnerP)), "9.00")
	generic := newEntry(newList("generic", withPriority(50), withDefault()), "8.00")
	otherPartner := newEntry(newList("other", withPriority(99), withPartners(testPartnerQ)), "7.00")

	ordered := DefaultStrategy{}.OrderByPrecedence([]Entry{generic, otherPartner, assigned}, uuidPtr(testPartnerP))

	require.Len(t, ordered, 3)
	assert.Equal(t, assigned.ID, ordered[0].ID, "assigned list must come first")
	assert.Equal(t, []uuid.UUID{assigned.ID, otherPartner.ID, generic.ID}, entryIDs(ordered))
}

func TestDefaultStrategy_AnonymousHidesRestrictedLists(t *testing.T) {
	restricted := newEntry(newList("restricted", withPriority(100), withPartners(testPartnerP)), "1.00")
	generic := newEntry(newList("generic", withPriority(1)), "2.00")

	ordered := DefaultStrategy{}.OrderByPrecedence([]Entry{restricted, generic}, nil)
	require.Len(t, ordered, 1)
	assert.Equal(t, generic.ID, ordered[0].ID)

	onlyRestricted := DefaultStrategy{}.OrderByPrecedence([]Entry{restricted}, nil)
	assert.Empty(t, onlyRestricted)
}

func TestDefaultStrategy_CompositeTieBreak(t *testing.T) {
	older := date(2024, 1, 1)
	newer := date(2024, 3, 1)

	highPriority := newEntry(newList("high", withPriority(20), withCreatedAt(older)), "1.00")
	defaultList := newEntry(newList("default", withPriority(10), withDefault(), withCreatedAt(older)), "1.00")
	newest := newEntry(newList("newest", withPriority(10), withCreatedAt(newer)), "1.00")
	oldest := newEntry(newList("oldest", withPriority(10), withCreatedAt(older)), "1.00")

	ordered := DefaultStrategy{}.OrderByPrecedence([]Entry{oldest, newest, defaultList, highPriority}, nil)

	assert.Equal(t, []uuid.UUID{highPriority.ID, defaultList.ID, newest.ID, oldest.ID}, entryIDs(ordered))
}

func TestDefaultStrategy_IdentityBreaksFullTies(t *testing.T) {
	list := newList("shared", withPriority(5))
	a := newEntry(list, "3.00")
	b := newEntry(list, "3.00")
	a.ID = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	b.ID = uuid.MustParse("00000000-0000-4000-8000-000000000002")

	forward := DefaultStrategy{}.OrderByPrecedence([]Entry{a, b}, nil)
	backward := DefaultStrategy{}.OrderByPrecedence([]Entry{b, a}, nil)

	assert.Equal(t, entryIDs(forward), entryIDs(backward))
	assert.Equal(t, a.ID, forward[0].ID)
}

func TestDefaultStrategy_DoesNotMutateInput(t *testing.T) {
	low := newEntry(newList("low", withPriority(1)), "1.00")
	high := newEntry(newList("high", withPriority(9)), "1.00")
	input := []Entry{low, high}

	_ = DefaultStrategy{}.OrderByPrecedence(input, nil)

	assert.Equal(t, low.ID, input[0].ID)
	assert.Equal(t, high.ID, input[1].ID)
}

func TestDefaultStrategy_DropsEntriesWithoutList(t *testing.T) {
	orphan := newEntry(nil, "1.00")
	ordered := DefaultStrategy{}.OrderByPrecedence([]Entry{orphan}, uuidPtr(testPartnerP))
	assert.Empty(t, ordered)
}

func TestLowestPriceStrategy(t *testing.T) {
	cheapGeneric := newEntry(newList("cheap", withPriority(1)), "4.50")
	pricyGeneric := newEntry(newList("pricy", withPriority(90)), "9.99")
	partner := newEntry(newList("partner", withPartners(testPartnerP)), "12.00")

	t.Run("cheapest generic wins anonymously", func(t *testing.T) {
		ordered := LowestPriceStrategy{}.OrderByPrecedence([]Entry{pricyGeneric, partner, cheapGeneric}, nil)
		assert.Equal(t, []uuid.UUID{cheapGeneric.ID, pricyGeneric.ID}, entryIDs(ordered))
	})

	t.Run("partner group still comes first", func(t *testing.T) {
		ordered := LowestPriceStrategy{}.OrderByPrecedence([]Entry{pricyGeneric, partner, cheapGeneric}, uuidPtr(testPartnerP))
		assert.Equal(t, []uuid.UUID{partner.ID, cheapGeneric.ID, pricyGeneric.ID}, entryIDs(ordered))
	})

	t.Run("equal prices fall back to priority", func(t *testing.T) {
		a := newEntry(newList("a", withPriority(1), withCreatedAt(time.Time{})), "5.00")
		b := newEntry(newList("b", withPriority(2)), "5.000")
		ordered := LowestPriceStrategy{}.OrderByPrecedence([]Entry{a, b}, nil)
		assert.Equal(t, b.ID, ordered[0].ID)
	})
}
