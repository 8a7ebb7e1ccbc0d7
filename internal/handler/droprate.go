package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/droprate"
	"github.com/yamiko-app/yamiko/internal/logger"
)

// DropRatesResponse is the rate table served for a pack
// ResolvedPack is the stored pack that supplied the rates, or BUILTIN.
// Fallback is set whenever it differs from the requested pack.
type DropRatesResponse struct {
	PackType     string         `json:"pack_type"`
	ResolvedPack string         `json:"resolved_pack"`
	Fallback     bool           `json:"fallback"`
	Rates        domain.RateMap `json:"rates"`
}

// PackListResponse lists configured pack types
type PackListResponse struct {
	Packs []string `json:"packs"`
}

// RollRequest draws one tier from a pack
type RollRequest struct {
	PackType string `json:"pack_type" validate:"required,notblank,max=50"`
}

// RollResponse is the tier drawn by a roll
type RollResponse struct {
	PackType string      `json:"pack_type"`
	Tier     domain.Tier `json:"tier"`
}

// UpdateDropRatesRequest replaces a pack's whole rate table
type UpdateDropRatesRequest struct {
	PackType string             `json:"pack_type" validate:"required,notblank,max=50"`
	Rates    map[string]float64 `json:"rates" validate:"required,dive,keys,tier,endkeys,gte=0,lte=100"`
}

// DropRateHandlers contains HTTP handlers for the gacha drop-rate table
type DropRateHandlers struct {
	service droprate.Service
}

// NewDropRateHandlers creates new drop-rate handlers
func NewDropRateHandlers(service droprate.Service) *DropRateHandlers {
	return &DropRateHandlers{service: service}
}

// HandleGetDropRates returns the rates for a pack
// @Summary Get drop rates
// @Description Returns the pack's rates; unconfigured packs fall back to the standard table and set fallback
// @Tags gacha
// @Produce json
// @Param pack_type query string false "Pack type" default(STANDARD)
// @Success 200 {object} DropRatesResponse
// @Security ApiKeyAuth
// @Router /api/v1/gacha/rates [get]
func (h *DropRateHandlers) HandleGetDropRates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packType := droprate.NormalizePackType(GetOptionalQueryParam(r, "pack_type", domain.DefaultPackType))
		if packType == "" {
			packType = domain.DefaultPackType
		}

		resolved := h.service.ResolveDropRates(r.Context(), packType)

		respondJSON(w, http.StatusOK, DropRatesResponse{
			PackType:     packType,
			ResolvedPack: resolved.Source,
			Fallback:     resolved.Fallback(),
			Rates:        resolved.Rates,
		})
	}
}

// HandleListPacks returns every configured pack type
// @Summary List pack types
// @Tags gacha
// @Produce json
// @Success 200 {object} PackListResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/gacha/packs [get]
func (h *DropRateHandlers) HandleListPacks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packs, err := h.service.ListPacks(r.Context())
		if err != nil {
			logger.FromContext(r.Context()).Error(opListPacks+": service error", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgListPacksFailed)
			return
		}
		if packs == nil {
			packs = []string{}
		}

		respondJSON(w, http.StatusOK, PackListResponse{Packs: packs})
	}
}

// HandleRoll draws one tier from a pack
// @Summary Roll a pack
// @Description Draws one tier using the pack's current rates
// @Tags gacha
// @Accept json
// @Produce json
// @Param request body RollRequest true "Roll"
// @Success 200 {object} RollResponse
// @Failure 400 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/gacha/roll [post]
func (h *DropRateHandlers) HandleRoll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RollRequest
		if err := DecodeAndValidateRequest(r, w, &req, opRoll); err != nil {
			return
		}

		packType := droprate.NormalizePackType(req.PackType)
		tier := h.service.Roll(r.Context(), packType)

		respondJSON(w, http.StatusOK, RollResponse{PackType: packType, Tier: tier})
	}
}

// HandleUpdateDropRates replaces a pack's rates
// @Summary Update drop rates
// @Description Replaces every tier's rate for a pack. Rates must cover all tiers and sum to 100.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body UpdateDropRatesRequest true "New rates"
// @Success 200 {object} domain.DropRateUpdateResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/gacha/rates [put]
func (h *DropRateHandlers) HandleUpdateDropRates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateDropRatesRequest
		if err := DecodeAndValidateRequest(r, w, &req, opUpdateDropRates); err != nil {
			return
		}

		rates := make(domain.RateMap, len(req.Rates))
		for key, rate := range req.Rates {
			tier := domain.Tier(strings.ToUpper(strings.TrimSpace(key)))
			if _, dup := rates[tier]; dup {
				respondServiceError(w, r, opUpdateDropRates,
					domain.NewValidationError("rates", fmt.Sprintf(ErrMsgDuplicateTierFormat, tier)))
				return
			}
			rates[tier] = rate
		}

		result, err := h.service.UpdateDropRates(r.Context(), req.PackType, rates)
		if err != nil {
			respondServiceError(w, r, opUpdateDropRates, err)
			return
		}

		logger.FromContext(r.Context()).Info(opUpdateDropRates+": success",
			"pack_type", result.PackType,
			"updated_at", result.UpdatedAt.Format(time.RFC3339))
		respondJSON(w, http.StatusOK, result)
	}
}
