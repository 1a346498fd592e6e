package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/venexhq/venex/internal/domain"
	"github.com/venexhq/venex/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	exchangeSvc *service.ExchangeService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(exchangeSvc *service.ExchangeService) *OrderHandler {
	return &OrderHandler{exchangeSvc: exchangeSvc}
}

// makeOrderRequest is the JSON request body for POST /orders.
type makeOrderRequest struct {
	Account    string `json:"account"`
	GetAsset   string `json:"get_asset"`
	GetAmount  uint64 `json:"get_amount"`
	GiveAsset  string `json:"give_asset"`
	GiveAmount uint64 `json:"give_amount"`
}

// accountRequest is the JSON request body for cancel and fill, which only
// identify the acting account.
type accountRequest struct {
	Account string `json:"account"`
}

// orderResponse is the JSON response for order endpoints. Terminal
// timestamps are null until the order reaches that state.
type orderResponse struct {
	OrderID     uint64  `json:"order_id"`
	Account     string  `json:"account"`
	GetAsset    string  `json:"get_asset"`
	GetAmount   uint64  `json:"get_amount"`
	GiveAsset   string  `json:"give_asset"`
	GiveAmount  uint64  `json:"give_amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	FilledAt    *string `json:"filled_at"`
	CancelledAt *string `json:"cancelled_at"`
}

// orderListResponse is the JSON response for GET /orders.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// tradeResponse is the JSON representation of a settled trade.
type tradeResponse struct {
	TradeID    string `json:"trade_id"`
	OrderID    uint64 `json:"order_id"`
	Creator    string `json:"creator"`
	Filler     string `json:"filler"`
	GetAsset   string `json:"get_asset"`
	GetAmount  uint64 `json:"get_amount"`
	GiveAsset  string `json:"give_asset"`
	GiveAmount uint64 `json:"give_amount"`
	Fee        uint64 `json:"fee"`
	ExecutedAt string `json:"executed_at"`
}

// MakeOrder handles POST /orders.
func (h *OrderHandler) MakeOrder(w http.ResponseWriter, r *http.Request) {
	var req makeOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.exchangeSvc.MakeOrder(service.MakeOrderRequest{
		Account:    req.Account,
		AssetGet:   domain.Asset(req.GetAsset),
		AmountGet:  req.GetAmount,
		AssetGive:  domain.Asset(req.GiveAsset),
		AmountGive: req.GiveAmount,
	})
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(chi.URLParam(r, "order_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	order, err := h.exchangeSvc.GetOrder(id)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// ListOrders handles GET /orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var statusFilter *domain.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.OrderStatus(s)
		statusFilter = &status
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a valid integer")
			return
		}
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
	}

	orders, total, err := h.exchangeSvc.ListOrders(statusFilter, page, limit)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	resp := orderListResponse{
		Orders: make([]orderResponse, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for i, o := range orders {
		resp.Orders[i] = buildOrderResponse(o)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// CancelOrder handles DELETE /orders/{order_id}.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(chi.URLParam(r, "order_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	var req accountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.exchangeSvc.CancelOrder(id, req.Account)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// FillOrder handles POST /orders/{order_id}/fill.
func (h *OrderHandler) FillOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(chi.URLParam(r, "order_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	var req accountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	trade, err := h.exchangeSvc.FillOrder(id, req.Account)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildTradeResponse(trade))
}

func buildOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		OrderID:     o.ID,
		Account:     o.Creator,
		GetAsset:    string(o.AssetGet),
		GetAmount:   o.AmountGet,
		GiveAsset:   string(o.AssetGive),
		GiveAmount:  o.AmountGive,
		Status:      string(o.Status),
		CreatedAt:   fmtTime(o.CreatedAt),
		FilledAt:    fmtTimePtr(o.FilledAt),
		CancelledAt: fmtTimePtr(o.CancelledAt),
	}
}

func buildTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		TradeID:    t.TradeID,
		OrderID:    t.OrderID,
		Creator:    t.Creator,
		Filler:     t.Filler,
		GetAsset:   string(t.AssetGet),
		GetAmount:  t.AmountGet,
		GiveAsset:  string(t.AssetGive),
		GiveAmount: t.AmountGive,
		Fee:        t.Fee,
		ExecutedAt: fmtTime(t.ExecutedAt),
	}
}

// mapExchangeError maps domain errors to HTTP responses for exchange
// endpoints.
func mapExchangeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrTokenNotFound):
		WriteError(w, http.StatusNotFound, "token_not_found", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrOrderFinalized):
		WriteError(w, http.StatusConflict, "order_finalized", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		WriteError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, domain.ErrBalanceOverflow):
		WriteError(w, http.StatusConflict, "balance_overflow", err.Error())
	case errors.Is(err, domain.ErrInsufficientAllowance):
		WriteError(w, http.StatusConflict, "insufficient_allowance", err.Error())
	case errors.Is(err, domain.ErrInvalidAsset):
		WriteError(w, http.StatusBadRequest, "invalid_asset", err.Error())
	case errors.Is(err, domain.ErrInvalidRecipient):
		WriteError(w, http.StatusBadRequest, "invalid_recipient", err.Error())
	case errors.Is(err, domain.ErrTransferFailed):
		WriteError(w, http.StatusConflict, "transfer_failed", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
