package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/quotation-labs/quotation-system/internal/application/service"
	"github.com/quotation-labs/quotation-system/internal/domain/entity"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/middleware"
)

// AccountHandler handles HTTP requests for the account endpoints
type AccountHandler struct {
	service *service.AccountService
	logger  logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(svc *service.AccountService, log logger.Logger) *AccountHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &AccountHandler{service: svc, logger: log}
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, h.logger, errUnauthenticated, requestID)
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, h.logger, err, requestID)
		return
	}
	if err := validate.Struct(&req); err != nil {
		badRequest(w, h.logger, err, requestID)
		return
	}

	account, err := h.service.Open(r.Context(), ownerID, req.Currency)
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, h.logger, errUnauthenticated, requestID)
		return
	}

	accounts, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAccount handles GET /accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, h.logger, errUnauthenticated, requestID)
		return
	}

	id, err := accountID(r)
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	account, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// CloseAccount handles DELETE /accounts/{id}
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, h.logger, errUnauthenticated, requestID)
		return
	}

	id, err := accountID(r)
	if err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	if err := h.service.Close(r.Context(), ownerID, id); err != nil {
		writeError(w, h.logger, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the account handler routes
func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}", h.CloseAccount).Methods(http.MethodDelete)
}

func accountID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, &entity.Error{Kind: entity.KindValidation, Message: "account id must be a positive integer"}
	}
	return id, nil
}
