package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/quotation-labs/quotation-system/internal/application/service"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/middleware"
)

// TransactionHandler handles HTTP requests for the transaction endpoints
type TransactionHandler struct {
	service *service.TransactionService
	logger  logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc *service.TransactionService, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &TransactionHandler{service: svc, logger: log}
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, h.logger, errUnauthenticated, requestID)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, h.logger, err, requestID)
		return
	}
	if err := validate.Struct(&req); err != nil {
		badRequest(w, h.logger, err, requestID)
		return
	}

	tx, err := h.service.Process(r.Context(), ownerID, service.ProcessInput{
		Type:             entity.TransactionType(req.TransactionType),
		AccountID:        req.AccountID,
		RelatedAccountID: req.RelatedAccountID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Description:      req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// ListTransactions handles GET /transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, h.logger, errUnauthenticated, requestID)
		return
	}

	txs, err := h.service.ListTransactions(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	resp := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetTransaction handles GET /transactions/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, h.logger, errUnauthenticated, requestID)
		return
	}

	tx, err := h.service.GetTransaction(r.Context(), ownerID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)
}
