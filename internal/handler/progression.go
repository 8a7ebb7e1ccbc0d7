package handler

import (
	"net/http"

	"github.com/yamiko-app/yamiko/internal/domain"
	"github.com/yamiko-app/yamiko/internal/logger"
	"github.com/yamiko-app/yamiko/internal/progression"
)

// AddExpRequest awards gameplay EXP
type AddExpRequest struct {
	UserID string `json:"user_id" validate:"required,notblank,max=100"`
	Amount int64  `json:"amount" validate:"gt=0,lte=1000000000"`
}

// GrantExpRequest awards administrative EXP. An empty reason uses the default.
type GrantExpRequest struct {
	UserID string `json:"user_id" validate:"required,notblank,max=100"`
	Amount int64  `json:"amount" validate:"gt=0,lte=1000000000"`
	Reason string `json:"reason" validate:"max=200"`
}

// GrantRubiesRequest credits rubies with a mandatory audit reason
type GrantRubiesRequest struct {
	UserID string `json:"user_id" validate:"required,notblank,max=100"`
	Amount int64  `json:"amount" validate:"gt=0,lte=1000000000"`
	Reason string `json:"reason" validate:"required,notblank,max=200"`
}

// ProgressionHandlers contains HTTP handlers for the progression engine
type ProgressionHandlers struct {
	service progression.Service
}

// NewProgressionHandlers creates new progression handlers
func NewProgressionHandlers(service progression.Service) *ProgressionHandlers {
	return &ProgressionHandlers{service: service}
}

// HandleGetProgression returns a user's level, EXP, rubies and energy
// @Summary Get user progression
// @Description Returns the user's progression including EXP needed for the next level
// @Tags progression
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.ProgressionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/progression [get]
func (h *ProgressionHandlers) HandleGetProgression() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		view, err := h.service.GetProgression(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, opGetProgression, err)
			return
		}

		respondJSON(w, http.StatusOK, view)
	}
}

// HandleAddExp applies gameplay EXP and reports any level-ups
// @Summary Add EXP
// @Description Adds EXP from gameplay, cascading through as many level-ups as it covers
// @Tags progression
// @Accept json
// @Produce json
// @Param request body AddExpRequest true "EXP award"
// @Success 200 {object} domain.ProgressionResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/progression/exp [post]
func (h *ProgressionHandlers) HandleAddExp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddExpRequest
		if err := DecodeAndValidateRequest(r, w, &req, opAddExp); err != nil {
			return
		}

		result, err := h.service.AddExp(r.Context(), req.UserID, req.Amount)
		if err != nil {
			respondServiceError(w, r, opAddExp, err)
			return
		}

		logResult(r, opAddExp, req.UserID, result)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleGrantExp applies administrative EXP
// @Summary Grant EXP
// @Description Grants EXP with a reason shown to the user in a notification
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantExpRequest true "EXP grant"
// @Success 200 {object} domain.ProgressionResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/progression/grant-exp [post]
func (h *ProgressionHandlers) HandleGrantExp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GrantExpRequest
		if err := DecodeAndValidateRequest(r, w, &req, opGrantExp); err != nil {
			return
		}

		result, err := h.service.GrantExp(r.Context(), req.UserID, req.Amount, req.Reason)
		if err != nil {
			respondServiceError(w, r, opGrantExp, err)
			return
		}

		logResult(r, opGrantExp, req.UserID, result)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleGrantRubies credits rubies
// @Summary Grant rubies
// @Description Credits premium currency and records an audit transaction
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantRubiesRequest true "Ruby grant"
// @Success 200 {object} domain.RubyGrantResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/rubies/grant [post]
func (h *ProgressionHandlers) HandleGrantRubies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GrantRubiesRequest
		if err := DecodeAndValidateRequest(r, w, &req, opGrantRubies); err != nil {
			return
		}

		result, err := h.service.GrantRubies(r.Context(), req.UserID, req.Amount, req.Reason)
		if err != nil {
			respondServiceError(w, r, opGrantRubies, err)
			return
		}

		logger.FromContext(r.Context()).Info(opGrantRubies+": success",
			"user_id", req.UserID, "amount", result.Granted, "balance", result.Balance)
		respondJSON(w, http.StatusOK, result)
	}
}

func logResult(r *http.Request, opName, userID string, result *domain.ProgressionResult) {
	logger.FromContext(r.Context()).Info(opName+": success",
		"user_id", userID,
		"level", result.Level,
		"levels_gained", result.LevelsGained)
}
