package pricelists

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricing-engine/internal/pricing"
	"github.com/angelmondragon/pricing-engine/pkg/db"
	"github.com/angelmondragon/pricing-engine/pkg/db/models"
	"github.com/angelmondragon/pricing-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
)

// Repository persists price lists, their entries and partner assignments. It also serves
// as the engine's candidate collector.
type Repository struct {
	db *gorm.DB
}

var _ pricing.CandidateCollector = (*Repository)(nil)

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FetchCandidates loads every live entry for the product with its price list and partner
// assignments. All reads share one transaction so the result is a single snapshot.
func (r *Repository) FetchCandidates(ctx context.Context, productID uuid.UUID) ([]pricing.Entry, error) {
	var rows []models.PriceListEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Preload("PriceList").
			Preload("PriceList.Partners").
			Where("product_id = ?", productID).
			Where("price_list_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).Model(&models.PriceList{}).Select("id")).
			Order("created_at ASC").
			Find(&rows).
			Error
	}, db.SnapshotOptions(r.db))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: fetch price candidates")
	}

	out := make([]pricing.Entry, 0, len(rows))
	for i := range rows {
		if rows[i].PriceList == nil {
			continue
		}
		out = append(out, toPricingEntry(&rows[i]))
	}
	return out, nil
}

// CreatePriceList inserts a new price list row.
func (r *Repository) CreatePriceList(ctx context.Context, list *models.PriceList) (*models.PriceList, error) {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindPriceList loads a live price list with its partner assignments.
func (r *Repository) FindPriceList(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	var list models.PriceList
	if err := r.db.WithContext(ctx).
		Preload("Partners", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&list, "id = ?", id).
		Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdatePriceListStatus sets the list status. It returns gorm.ErrRecordNotFound when no
// live list matches.
func (r *Repository) UpdatePriceListStatus(ctx context.Context, id uuid.UUID, status enums.PriceListStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.PriceList{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePriceList soft deletes the list and its entries.
func (r *Repository) DeletePriceList(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("price_list_id = ?", id).Delete(&models.PriceListEntry{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&models.PriceList{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateEntry inserts a new price list entry.
func (r *Repository) CreateEntry(ctx context.Context, entry *models.PriceListEntry) (*models.PriceListEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// FindEntry loads a live entry belonging to the given list.
func (r *Repository) FindEntry(ctx context.Context, priceListID, entryID uuid.UUID) (*models.PriceListEntry, error) {
	var entry models.PriceListEntry
	if err := r.db.WithContext(ctx).
		First(&entry, "id = ? AND price_list_id = ?", entryID, priceListID).
		Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry soft deletes an entry of the given list.
func (r *Repository) DeleteEntry(ctx context.Context, priceListID, entryID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND price_list_id = ?", entryID, priceListID).
		Delete(&models.PriceListEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssignPartner restricts the list to the partner. Duplicate assignments surface as a
// unique violation.
func (r *Repository) AssignPartner(ctx context.Context, priceListID, partnerID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.PriceListPartner{
		PriceListID: priceListID,
		PartnerID:   partnerID,
	}).Error
}

// UnassignPartner removes the partner assignment.
func (r *Repository) UnassignPartner(ctx context.Context, priceListID, partnerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("price_list_id = ? AND partner_id = ?", priceListID, partnerID).
		Delete(&models.PriceListPartner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListProductIDs returns the distinct products priced by live entries of the list.
func (r *Repository) ListProductIDs(ctx context.Context, priceListID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.PriceListEntry{}).
		Where("price_list_id = ?", priceListID).
		Distinct("product_id").
		Pluck("product_id", &ids).
		Error; err != nil {
		return nil, err
	}
	return ids, nil
}
