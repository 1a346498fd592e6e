package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venexhq/venex/internal/domain"
	"github.com/venexhq/venex/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	exchangeSvc *service.ExchangeService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(exchangeSvc *service.ExchangeService) *AccountHandler {
	return &AccountHandler{exchangeSvc: exchangeSvc}
}

// movementRequest is the JSON request body for deposits and withdrawals.
type movementRequest struct {
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

// movementResponse is the JSON response for deposits and withdrawals.
type movementResponse struct {
	Account    string `json:"account"`
	Asset      string `json:"asset"`
	Amount     uint64 `json:"amount"`
	NewBalance uint64 `json:"new_balance"`
	OccurredAt string `json:"occurred_at"`
}

// balanceResponse is the JSON response for the balance endpoint.
type balanceResponse struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Balance uint64 `json:"balance"`
}

// tradeListResponse is the JSON response for the account trades endpoint.
type tradeListResponse struct {
	Trades []tradeResponse `json:"trades"`
	Total  int             `json:"total"`
}

// Deposit handles POST /accounts/{account}/deposits.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var req movementRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	dep, err := h.exchangeSvc.Deposit(account, domain.Asset(req.Asset), req.Amount)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, movementResponse{
		Account:    dep.Account,
		Asset:      string(dep.Asset),
		Amount:     dep.Amount,
		NewBalance: dep.NewBalance,
		OccurredAt: fmtTime(dep.OccurredAt),
	})
}

// Withdraw handles POST /accounts/{account}/withdrawals.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var req movementRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	wd, err := h.exchangeSvc.Withdraw(account, domain.Asset(req.Asset), req.Amount)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, movementResponse{
		Account:    wd.Account,
		Asset:      string(wd.Asset),
		Amount:     wd.Amount,
		NewBalance: wd.NewBalance,
		OccurredAt: fmtTime(wd.OccurredAt),
	})
}

// GetBalance handles GET /accounts/{account}/balances/{asset}.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	asset := chi.URLParam(r, "asset")

	balance, err := h.exchangeSvc.BalanceOf(account, domain.Asset(asset))
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, balanceResponse{
		Account: account,
		Asset:   asset,
		Balance: balance,
	})
}

// ListTrades handles GET /accounts/{account}/trades.
func (h *AccountHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	trades, err := h.exchangeSvc.ListTradesByAccount(account)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	resp := tradeListResponse{
		Trades: make([]tradeResponse, len(trades)),
		Total:  len(trades),
	}
	for i, t := range trades {
		resp.Trades[i] = buildTradeResponse(t)
	}
	WriteJSON(w, http.StatusOK, resp)
}
