package pricelists

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricing-engine/pkg/db"
	"github.com/angelmondragon/pricing-engine/pkg/db/models"
	"github.com/angelmondragon/pricing-engine/pkg/enums"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(
		&models.PriceList{},
		&models.PriceListEntry{},
		&models.PriceListPartner{},
	))
	return conn
}

func mustCreateList(t *testing.T, conn *gorm.DB, mutate func(*models.PriceList)) *models.PriceList {
	t.Helper()
	list := &models.PriceList{
		Name:   "list-" + uuid.NewString()[:8],
		Status: enums.PriceListStatusActive,
	}
	if mutate != nil {
		mutate(list)
	}
	require.NoError(t, conn.Create(list).Error)
	return list
}

func mustCreateEntry(t *testing.T, conn *gorm.DB, listID, productID uuid.UUID, price string) *models.PriceListEntry {
	t.Helper()
	entry := &models.PriceListEntry{
		PriceListID: listID,
		ProductID:   productID,
		Price:       decimal.RequireFromString(price),
		Currency:    "USD",
		Status:      enums.EntryStatusActive,
		MinQuantity: 1,
	}
	require.NoError(t, conn.Create(entry).Error)
	return entry
}

func mustAssignPartner(t *testing.T, conn *gorm.DB, listID, partnerID uuid.UUID) {
	t.Helper()
	require.NoError(t, conn.Create(&models.PriceListPartner{PriceListID: listID, PartnerID: partnerID}).Error)
}

type recordingInvalidator struct {
	mu      sync.Mutex
	calls   []uuid.UUID
	failFor map[uuid.UUID]bool
}

func (r *recordingInvalidator) InvalidateProduct(_ context.Context, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, productID)
	if r.failFor[productID] {
		return errors.New("redis unavailable")
	}
	return nil
}

func (r *recordingInvalidator) invalidated() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, len(r.calls))
	copy(out, r.calls)
	return out
}

func newTestService(t *testing.T, conn *gorm.DB, invalidator CacheInvalidator) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewFromDB(conn), invalidator, logger.New(logger.Options{ServiceName: "pricelists-test"}))
	require.NoError(t, err)
	return svc
}

func timePtr(t time.Time) *time.Time {
	return &t
}
