package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/quotation-labs/quotation-system/internal/application/service"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/middleware"
)

// RateHandler handles HTTP requests for the exchange rate table
type RateHandler struct {
	service *service.RateService
	logger  logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(svc *service.RateService, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &RateHandler{service: svc, logger: log}
}

// UpsertRate handles PUT /rates
func (h *RateHandler) UpsertRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req UpsertRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, h.logger, err, requestID)
		return
	}
	if err := validate.Struct(&req); err != nil {
		badRequest(w, h.logger, err, requestID)
		return
	}

	rate, err := h.service.Upsert(r.Context(), req.BaseCurrency, req.QuoteCurrency, req.Rate)
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, toRateResponse(rate))
}

// ListRates handles GET /rates
func (h *RateHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rates, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	resp := make([]RateResponse, 0, len(rates))
	for _, rate := range rates {
		resp = append(resp, toRateResponse(rate))
	}
	writeJSON(w, http.StatusOK, resp)
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates", h.UpsertRate).Methods(http.MethodPut)
	router.HandleFunc("/rates", h.ListRates).Methods(http.MethodGet)
}
