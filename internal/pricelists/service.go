package pricelists

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricing-engine/pkg/db"
	"github.com/angelmondragon/pricing-engine/pkg/db/models"
	"github.com/angelmondragon/pricing-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

// Service exposes price list administration.
type Service interface {
	CreatePriceList(ctx context.Context, input CreatePriceListInput) (*PriceListDTO, error)
	GetPriceList(ctx context.Context, id uuid.UUID) (*PriceListDTO, error)
	UpdatePriceListStatus(ctx context.Context, id uuid.UUID, status enums.PriceListStatus) (*PriceListDTO, error)
	DeletePriceList(ctx context.Context, id uuid.UUID) error
	AddEntry(ctx context.Context, priceListID uuid.UUID, input CreateEntryInput) (*EntryDTO, error)
	RemoveEntry(ctx context.Context, priceListID, entryID uuid.UUID) error
	AssignPartner(ctx context.Context, priceListID, partnerID uuid.UUID) (*PriceListDTO, error)
	UnassignPartner(ctx context.Context, priceListID, partnerID uuid.UUID) error
}

// CreatePriceListInput holds the validated payload to create a price list.
type CreatePriceListInput struct {
	Name       string
	ValidFrom  *time.Time
	ValidTo    *time.Time
	Status     enums.PriceListStatus
	IsDefault  bool
	Priority   int
	PartnerIDs []uuid.UUID
}

// CreateEntryInput holds the validated payload to price a product inside a list.
type CreateEntryInput struct {
	ProductID   uuid.UUID
	Price       decimal.Decimal
	Currency    string
	Status      enums.EntryStatus
	MinQuantity int
	MaxQuantity int
}

// CacheInvalidator drops cached resolutions for a product.
type CacheInvalidator interface {
	InvalidateProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	invalidator CacheInvalidator
	logg        *logger.Logger
}

// NewService constructs a price list service. invalidator may be nil when no resolution
// cache is configured.
func NewService(repo *Repository, dbClient *db.Client, invalidator CacheInvalidator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price list repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		invalidator: invalidator,
		logg:        logg,
	}, nil
}

// CreatePriceList inserts the list and its initial partner assignments.
func (s *service) CreatePriceList(ctx context.Context, input CreatePriceListInput) (*PriceListDTO, error) {
	list, err := buildPriceList(input)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreatePriceList(ctx, list); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price list")
		}
		for _, partnerID := range uniquePartners(input.PartnerIDs) {
			if err := txRepo.AssignPartner(ctx, list.ID, partnerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: assign partner")
			}
		}
		return nil
	}); err != nil {
		return nil, asDependency(err, "create price list")
	}

	return s.GetPriceList(ctx, list.ID)
}

// GetPriceList loads a live list with its partners.
func (s *service) GetPriceList(ctx context.Context, id uuid.UUID) (*PriceListDTO, error) {
	list, err := s.repo.FindPriceList(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "price list not found", "load price list")
	}
	return NewPriceListDTO(list), nil
}

// UpdatePriceListStatus changes the list lifecycle state and invalidates every product it prices.
func (s *service) UpdatePriceListStatus(ctx context.Context, id uuid.UUID, status enums.PriceListStatus) (*PriceListDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price list status").
			WithDetails(map[string]any{"status": status.String()})
	}

	var touched []uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdatePriceListStatus(ctx, id, status); err != nil {
			return mapRepoError(err, "price list not found", "db: update price list status")
		}
		ids, err := txRepo.ListProductIDs(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list priced products")
		}
		touched = ids
		return nil
	}); err != nil {
		return nil, asDependency(err, "update price list status")
	}

	s.invalidate(ctx, touched...)
	return s.GetPriceList(ctx, id)
}

// DeletePriceList soft deletes the list with its entries.
func (s *service) DeletePriceList(ctx context.Context, id uuid.UUID) error {
	var touched []uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ids, err := txRepo.ListProductIDs(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list priced products")
		}
		if err := txRepo.DeletePriceList(ctx, id); err != nil {
			return mapRepoError(err, "price list not found", "db: delete price list")
		}
		touched = ids
		return nil
	}); err != nil {
		return asDependency(err, "delete price list")
	}

	s.invalidate(ctx, touched...)
	return nil
}

// AddEntry prices a product inside the list.
func (s *service) AddEntry(ctx context.Context, priceListID uuid.UUID, input CreateEntryInput) (*EntryDTO, error) {
	entry, err := buildEntry(priceListID, input)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindPriceList(ctx, priceListID); err != nil {
			return mapRepoError(err, "price list not found", "db: load price list")
		}
		if _, err := txRepo.CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price list entry")
		}
		return nil
	}); err != nil {
		return nil, asDependency(err, "add price list entry")
	}

	s.invalidate(ctx, entry.ProductID)
	return NewEntryDTO(entry), nil
}

// RemoveEntry soft deletes an entry of the list.
func (s *service) RemoveEntry(ctx context.Context, priceListID, entryID uuid.UUID) error {
	var productID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		entry, err := txRepo.FindEntry(ctx, priceListID, entryID)
		if err != nil {
			return mapRepoError(err, "price list entry not found", "db: load price list entry")
		}
		if err := txRepo.DeleteEntry(ctx, priceListID, entryID); err != nil {
			return mapRepoError(err, "price list entry not found", "db: delete price list entry")
		}
		productID = entry.ProductID
		return nil
	}); err != nil {
		return asDependency(err, "remove price list entry")
	}

	s.invalidate(ctx, productID)
	return nil
}

// AssignPartner restricts the list to a partner.
func (s *service) AssignPartner(ctx context.Context, priceListID, partnerID uuid.UUID) (*PriceListDTO, error) {
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner_id is required")
	}

	var touched []uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindPriceList(ctx, priceListID); err != nil {
			return mapRepoError(err, "price list not found", "db: load price list")
		}
		if err := txRepo.AssignPartner(ctx, priceListID, partnerID); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "partner already assigned to price list")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: assign partner")
		}
		ids, err := txRepo.ListProductIDs(ctx, priceListID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list priced products")
		}
		touched = ids
		return nil
	}); err != nil {
		return nil, asDependency(err, "assign partner")
	}

	s.invalidate(ctx, touched...)
	return s.GetPriceList(ctx, priceListID)
}

// UnassignPartner removes a partner restriction from the list.
func (s *service) UnassignPartner(ctx context.Context, priceListID, partnerID uuid.UUID) error {
	var touched []uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UnassignPartner(ctx, priceListID, partnerID); err != nil {
			return mapRepoError(err, "partner assignment not found", "db: unassign partner")
		}
		ids, err := txRepo.ListProductIDs(ctx, priceListID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list priced products")
		}
		touched = ids
		return nil
	}); err != nil {
		return asDependency(err, "unassign partner")
	}

	s.invalidate(ctx, touched...)
	return nil
}

// invalidate drops cached resolutions after a committed write. Failures are logged only;
// the write already succeeded and cached entries expire on their own.
func (s *service) invalidate(ctx context.Context, productIDs ...uuid.UUID) {
	if s.invalidator == nil || len(productIDs) == 0 {
		return
	}
	var errs error
	for _, productID := range productIDs {
		if productID == uuid.Nil {
			continue
		}
		if err := s.invalidator.InvalidateProduct(ctx, productID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %s: %w", productID, err))
		}
	}
	if errs == nil {
		return
	}
	failed := len(multierr.Errors(errs))
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"failed_products": failed,
		"total_products":  len(productIDs),
	})
	s.logg.Error(logCtx, "price cache invalidation failed", errs)
}

func buildPriceList(input CreatePriceListInput) (*models.PriceList, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	status := input.Status
	if status == "" {
		status = enums.PriceListStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price list status").
			WithDetails(map[string]any{"status": status.String()})
	}

	validFrom := utcPtr(input.ValidFrom)
	validTo := utcPtr(input.ValidTo)
	if validFrom != nil && validTo != nil && validTo.Before(*validFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_to must not be before valid_from")
	}

	for _, partnerID := range input.PartnerIDs {
		if partnerID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner_ids must not contain an empty id")
		}
	}

	return &models.PriceList{
		Name:      name,
		ValidFrom: validFrom,
		ValidTo:   validTo,
		Status:    status,
		IsDefault: input.IsDefault,
		Priority:  input.Priority,
	}, nil
}

func buildEntry(priceListID uuid.UUID, input CreateEntryInput) (*models.PriceListEntry, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	currency, err := normalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = enums.EntryStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entry status").
			WithDetails(map[string]any{"status": status.String()})
	}

	if err := validateBracket(input.MinQuantity, input.MaxQuantity); err != nil {
		return nil, err
	}
	minQty := input.MinQuantity
	if minQty < 1 {
		minQty = 1
	}

	return &models.PriceListEntry{
		PriceListID: priceListID,
		ProductID:   input.ProductID,
		Price:       input.Price,
		Currency:    currency,
		Status:      status,
		MinQuantity: minQty,
		MaxQuantity: input.MaxQuantity,
	}, nil
}

func validateBracket(minQty, maxQty int) error {
	if minQty < 0 || maxQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantities must not be negative")
	}
	effectiveMin := minQty
	if effectiveMin < 1 {
		effectiveMin = 1
	}
	if maxQty != 0 && maxQty < effectiveMin {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_quantity must be 0 or at least min_quantity").
			WithDetails(map[string]any{"min_quantity": effectiveMin, "max_quantity": maxQty})
	}
	return nil
}

func normalizeCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "currency must be a 3-letter ISO code")
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "currency must be a 3-letter ISO code")
		}
	}
	return code, nil
}

func uniquePartners(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func mapRepoError(err error, notFoundMsg, op string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func asDependency(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
