package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venexhq/venex/internal/service"
	"github.com/venexhq/venex/internal/token"
)

// TokenHandler handles HTTP requests for token ledger endpoints.
type TokenHandler struct {
	tokenSvc *service.TokenService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokenSvc *service.TokenService) *TokenHandler {
	return &TokenHandler{tokenSvc: tokenSvc}
}

// tokenResponse is the JSON representation of a registered token.
type tokenResponse struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply uint64 `json:"total_supply"`
}

// tokenListResponse is the JSON response for GET /tokens.
type tokenListResponse struct {
	Tokens []tokenResponse `json:"tokens"`
	Total  int             `json:"total"`
}

// tokenTransferRequest is the JSON request body for token transfers.
type tokenTransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// tokenTransferResponse echoes a settled transfer with the sender's
// remaining holding.
type tokenTransferResponse struct {
	Symbol      string `json:"symbol"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      uint64 `json:"amount"`
	FromBalance uint64 `json:"from_balance"`
}

// tokenApproveRequest is the JSON request body for allowance approvals.
type tokenApproveRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  uint64 `json:"amount"`
}

// tokenApproveResponse echoes the allowance now in force.
type tokenApproveResponse struct {
	Symbol    string `json:"symbol"`
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance uint64 `json:"allowance"`
}

// tokenBalanceResponse is the JSON response for token holding lookups.
type tokenBalanceResponse struct {
	Symbol  string `json:"symbol"`
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

// List handles GET /tokens.
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	tokens := h.tokenSvc.List()

	resp := tokenListResponse{
		Tokens: make([]tokenResponse, len(tokens)),
		Total:  len(tokens),
	}
	for i, t := range tokens {
		resp.Tokens[i] = buildTokenResponse(t)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /tokens/{symbol}.
func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	tok, err := h.tokenSvc.Get(chi.URLParam(r, "symbol"))
	if err != nil {
		mapExchangeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildTokenResponse(tok))
}

// Transfer handles POST /tokens/{symbol}/transfers.
func (h *TokenHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req tokenTransferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.tokenSvc.Transfer(symbol, req.From, req.To, req.Amount); err != nil {
		mapExchangeError(w, err)
		return
	}

	balance, err := h.tokenSvc.BalanceOf(symbol, req.From)
	if err != nil {
		mapExchangeError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, tokenTransferResponse{
		Symbol:      symbol,
		From:        req.From,
		To:          req.To,
		Amount:      req.Amount,
		FromBalance: balance,
	})
}

// Approve handles POST /tokens/{symbol}/approvals.
func (h *TokenHandler) Approve(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req tokenApproveRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.tokenSvc.Approve(symbol, req.Owner, req.Spender, req.Amount); err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, tokenApproveResponse{
		Symbol:    symbol,
		Owner:     req.Owner,
		Spender:   req.Spender,
		Allowance: req.Amount,
	})
}

// GetBalance handles GET /tokens/{symbol}/balances/{account}.
func (h *TokenHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	account := chi.URLParam(r, "account")

	balance, err := h.tokenSvc.BalanceOf(symbol, account)
	if err != nil {
		mapExchangeError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tokenBalanceResponse{
		Symbol:  symbol,
		Account: account,
		Balance: balance,
	})
}

func buildTokenResponse(t *token.Token) tokenResponse {
	return tokenResponse{
		Symbol:      t.Symbol(),
		Name:        t.Name(),
		Decimals:    t.Decimals(),
		TotalSupply: t.TotalSupply(),
	}
}
