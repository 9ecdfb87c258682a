package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricing-engine/api/responses"
	"github.com/angelmondragon/pricing-engine/api/validators"
	"github.com/angelmondragon/pricing-engine/internal/pricelists"
	"github.com/angelmondragon/pricing-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricing-engine/pkg/errors"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

const maxPriceListNameLen = 200

type createPriceListRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidTo    *time.Time `json:"valid_to,omitempty"`
	Status     string     `json:"status,omitempty" validate:"omitempty,oneof=active suspended expired deleted"`
	IsDefault  bool       `json:"is_default"`
	Priority   int        `json:"priority"`
	PartnerIDs []string   `json:"partner_ids,omitempty" validate:"omitempty,dive,uuid"`
}

type updatePriceListStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended expired deleted"`
}

type createEntryRequest struct {
	ProductID   string           `json:"product_id" validate:"required,uuid"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Currency    string           `json:"currency" validate:"required,iso4217"`
	Status      string           `json:"status,omitempty" validate:"omitempty,oneof=active suspended inactive"`
	MinQuantity int              `json:"min_quantity" validate:"gte=0"`
	MaxQuantity int              `json:"max_quantity" validate:"gte=0"`
}

type assignPartnerRequest struct {
	PartnerID string `json:"partner_id" validate:"required,uuid"`
}

// PriceListCreate handles POST /api/v1/price-lists.
func PriceListCreate(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		var req createPriceListRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreatePriceList(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// PriceListGet handles GET /api/v1/price-lists/{priceListId}.
func PriceListGet(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}
		listID, err := validators.ParseUUIDParam(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetPriceList(r.Context(), listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PriceListUpdateStatus handles PATCH /api/v1/price-lists/{priceListId}/status.
func PriceListUpdateStatus(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}
		listID, err := validators.ParseUUIDParam(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updatePriceListStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePriceListStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.UpdatePriceListStatus(r.Context(), listID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PriceListDelete handles DELETE /api/v1/price-lists/{priceListId}.
func PriceListDelete(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}
		listID, err := validators.ParseUUIDParam(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePriceList(r.Context(), listID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// PriceListAddEntry handles POST /api/v1/price-lists/{priceListId}/entries.
func PriceListAddEntry(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}
		listID, err := validators.ParseUUIDParam(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createEntryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddEntry(r.Context(), listID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// PriceListRemoveEntry handles DELETE /api/v1/price-lists/{priceListId}/entries/{entryId}.
func PriceListRemoveEntry(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}
		listID, err := validators.ParseUUIDParam(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entryID, err := validators.ParseUUIDParam(chi.URLParam(r, "entryId"), "entryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveEntry(r.Context(), listID, entryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// PriceListAssignPartner handles POST /api/v1/price-lists/{priceListId}/partners.
func PriceListAssignPartner(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}
		listID, err := validators.ParseUUIDParam(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req assignPartnerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partnerID, err := validators.ParseUUIDParam(req.PartnerID, "partner_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AssignPartner(r.Context(), listID, partnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PriceListUnassignPartner handles DELETE /api/v1/price-lists/{priceListId}/partners/{partnerId}.
func PriceListUnassignPartner(svc pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}
		listID, err := validators.ParseUUIDParam(chi.URLParam(r, "priceListId"), "priceListId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partnerID, err := validators.ParseUUIDParam(chi.URLParam(r, "partnerId"), "partnerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UnassignPartner(r.Context(), listID, partnerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func (req createPriceListRequest) toInput() (pricelists.CreatePriceListInput, error) {
	input := pricelists.CreatePriceListInput{
		Name:      validators.SanitizeString(req.Name, maxPriceListNameLen),
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		IsDefault: req.IsDefault,
		Priority:  req.Priority,
	}
	if req.Status != "" {
		status, err := enums.ParsePriceListStatus(req.Status)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	for _, raw := range req.PartnerIDs {
		id, err := validators.ParseUUIDParam(raw, "partner_ids")
		if err != nil {
			return input, err
		}
		input.PartnerIDs = append(input.PartnerIDs, id)
	}
	return input, nil
}

func (req createEntryRequest) toInput() (pricelists.CreateEntryInput, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return pricelists.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id")
	}
	input := pricelists.CreateEntryInput{
		ProductID:   productID,
		Price:       *req.Price,
		Currency:    strings.ToUpper(req.Currency),
		MinQuantity: req.MinQuantity,
		MaxQuantity: req.MaxQuantity,
	}
	if req.Status != "" {
		status, err := enums.ParseEntryStatus(req.Status)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	return input, nil
}
