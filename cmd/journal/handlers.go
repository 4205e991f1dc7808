package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recentTradesLimit caps the trade list embedded in the dashboard response;
// the full set still feeds the aggregation.
const recentTradesLimit = 50

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log   *zap.Logger
	store *journal.Store
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, store *journal.Store) *APIHandler {
	return &APIHandler{log: log, store: store}
}

// Register wires every API route onto the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.HealthHandler)
	mux.HandleFunc("GET /api/dashboard", h.DashboardHandler)

	mux.HandleFunc("GET /api/accounts", h.ListAccountsHandler)
	mux.HandleFunc("POST /api/accounts", h.CreateAccountHandler)
	mux.HandleFunc("PUT /api/accounts/{id}", h.UpdateAccountHandler)
	mux.HandleFunc("DELETE /api/accounts/{id}", h.DeleteAccountHandler)

	mux.HandleFunc("GET /api/trades", h.TradesHandler)
	mux.HandleFunc("POST /api/trades", h.LogTradeHandler)
	mux.HandleFunc("PUT /api/trades/{id}", h.UpdateTradeHandler)
	mux.HandleFunc("DELETE /api/trades/{id}", h.DeleteTradeHandler)
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK\n"))
}

// DashboardResponse is the structure for the /api/dashboard endpoint.
type DashboardResponse struct {
	journal.Dashboard
	Trades []models.Trade `json:"trades"`
}

// DashboardHandler fetches the trade set for the selected account (or all
// accounts) and runs a full aggregation pass over it. A fetch failure yields
// an error response, never a partial aggregate.
func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.queryAccountID(w, r)
	if !ok {
		return
	}

	trades, err := h.store.TradesForDashboard(accountID)
	if err != nil {
		h.log.Error("Failed to get trades for dashboard", zap.Error(err))
		http.Error(w, "Failed to get trades", http.StatusInternalServerError)
		return
	}

	response := DashboardResponse{
		Dashboard: journal.Aggregate(trades, time.Now()),
		Trades:    trades,
	}
	if len(response.Trades) > recentTradesLimit {
		response.Trades = response.Trades[:recentTradesLimit]
	}

	h.writeJSON(w, http.StatusOK, response)
}

// ListAccountsHandler returns all accounts, newest first.
func (h *APIHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts()
	if err != nil {
		h.log.Error("Failed to list accounts", zap.Error(err))
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

// CreateAccountHandler creates a new trading account.
func (h *APIHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.CreateAccount(&account); err != nil {
		h.writeStoreError(w, "Failed to create account", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, account)
}

// accountUpdateRequest carries the editable account fields.
type accountUpdateRequest struct {
	Name               string   `json:"name"`
	MaxDailyLoss       *float64 `json:"max_daily_loss"`
	MaxDrawdown        *float64 `json:"max_drawdown"`
	IsTrailingDrawdown bool     `json:"is_trailing_drawdown"`
}

// UpdateAccountHandler edits an account's name and risk limits.
func (h *APIHandler) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req accountUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.store.UpdateAccount(id, req.Name, req.MaxDailyLoss, req.MaxDrawdown, req.IsTrailingDrawdown)
	if err != nil {
		h.writeStoreError(w, "Failed to update account", err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// DeleteAccountHandler deletes an account and all of its trades.
func (h *APIHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteAccount(id); err != nil {
		h.writeStoreError(w, "Failed to delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TradesHandler returns recent trades, most recent exit first.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.queryAccountID(w, r)
	if !ok {
		return
	}

	trades, err := h.store.RecentTrades(accountID, recentTradesLimit)
	if err != nil {
		h.log.Error("Failed to get trades from database", zap.Error(err))
		http.Error(w, "Failed to get trades", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, trades)
}

// LogTradeHandler records a new trade; P&L is derived server-side.
func (h *APIHandler) LogTradeHandler(w http.ResponseWriter, r *http.Request) {
	var input journal.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.store.LogTrade(&input)
	if err != nil {
		h.writeStoreError(w, "Failed to log trade", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, trade)
}

// UpdateTradeHandler replaces a trade's fields and re-derives its P&L.
func (h *APIHandler) UpdateTradeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var input journal.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.store.UpdateTrade(id, &input)
	if err != nil {
		h.writeStoreError(w, "Failed to update trade", err)
		return
	}
	h.writeJSON(w, http.StatusOK, trade)
}

// DeleteTradeHandler removes a single trade.
func (h *APIHandler) DeleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteTrade(id); err != nil {
		h.writeStoreError(w, "Failed to delete trade", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

// writeStoreError maps store errors onto HTTP status codes: validation
// failures are the client's fault, missing rows are 404, the rest is 500.
func (h *APIHandler) writeStoreError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, journal.ErrInvalidAccountType),
		errors.Is(err, journal.ErrInvalidDrawdown),
		errors.Is(err, journal.ErrInvalidDirection),
		errors.Is(err, journal.ErrInvalidQuantity),
		errors.Is(err, journal.ErrInvalidCosts),
		errors.Is(err, journal.ErrInvalidStopLoss):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		h.log.Error(msg, zap.Error(err))
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

func (h *APIHandler) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func (h *APIHandler) queryAccountID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := r.URL.Query().Get("account_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, "Invalid account_id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
