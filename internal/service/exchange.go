package service

import (
	"fmt"
	"regexp"

	"github.com/venexhq/venex/internal/domain"
	"github.com/venexhq/venex/internal/engine"
	"github.com/venexhq/venex/internal/store"
)

var (
	accountIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	tokenAssetRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)
)

// ValidOrderStatuses lists all valid order status values for validation.
var ValidOrderStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusOpen:      true,
	domain.OrderStatusFilled:    true,
	domain.OrderStatusCancelled: true,
}

// MakeOrderRequest represents the input for order creation.
type MakeOrderRequest struct {
	Account    string
	AssetGet   domain.Asset
	AmountGet  uint64
	AssetGive  domain.Asset
	AmountGive uint64
}

// ExchangeService validates requests, delegates to the exchange engine, and
// records trades and webhook notifications for successful operations.
type ExchangeService struct {
	exchange   *engine.Exchange
	tradeStore *store.TradeStore
	webhookSvc *WebhookService
}

// NewExchangeService creates a new ExchangeService with the given
// dependencies. webhookSvc may be nil, in which case no notifications are
// dispatched.
func NewExchangeService(exchange *engine.Exchange, tradeStore *store.TradeStore, webhookSvc *WebhookService) *ExchangeService {
	return &ExchangeService{
		exchange:   exchange,
		tradeStore: tradeStore,
		webhookSvc: webhookSvc,
	}
}

func validAccountID(id string) bool {
	return accountIDRegex.MatchString(id)
}

func validAsset(a domain.Asset) bool {
	return a.IsNative() || tokenAssetRegex.MatchString(string(a))
}

func validateMovement(account string, asset domain.Asset, amount uint64) error {
	if !validAccountID(account) {
		return &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	if !validAsset(asset) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("asset must be %q or an uppercase token symbol", domain.AssetNative),
		}
	}
	if amount == 0 {
		return &domain.ValidationError{Message: "amount must be a positive integer"}
	}
	return nil
}

// Deposit credits an account with funds, pulling tokens from the external
// token ledger for token assets.
func (s *ExchangeService) Deposit(account string, asset domain.Asset, amount uint64) (*domain.Deposit, error) {
	if err := validateMovement(account, asset, amount); err != nil {
		return nil, err
	}

	var dep *domain.Deposit
	var err error
	if asset.IsNative() {
		dep, err = s.exchange.DepositNative(amount, account)
	} else {
		dep, err = s.exchange.DepositToken(asset, amount, account)
	}
	if err != nil {
		return nil, err
	}

	if s.webhookSvc != nil {
		s.webhookSvc.DispatchDeposit(dep)
	}
	return dep, nil
}

// Withdraw debits an account, pushing tokens back out through the external
// token ledger for token assets.
func (s *ExchangeService) Withdraw(account string, asset domain.Asset, amount uint64) (*domain.Withdrawal, error) {
	if err := validateMovement(account, asset, amount); err != nil {
		return nil, err
	}

	var wd *domain.Withdrawal
	var err error
	if asset.IsNative() {
		wd, err = s.exchange.WithdrawNative(amount, account)
	} else {
		wd, err = s.exchange.WithdrawToken(asset, amount, account)
	}
	if err != nil {
		return nil, err
	}

	if s.webhookSvc != nil {
		s.webhookSvc.DispatchWithdrawal(wd)
	}
	return wd, nil
}

// BalanceOf returns an account's credited amount for an asset.
func (s *ExchangeService) BalanceOf(account string, asset domain.Asset) (uint64, error) {
	if !validAccountID(account) {
		return 0, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	if !validAsset(asset) {
		return 0, &domain.ValidationError{
			Message: fmt.Sprintf("asset must be %q or an uppercase token symbol", domain.AssetNative),
		}
	}
	return s.exchange.BalanceOf(asset, account), nil
}

// MakeOrder validates the request and creates an open order. The creator's
// balance is deliberately not checked — solvency is verified at fill time.
func (s *ExchangeService) MakeOrder(req MakeOrderRequest) (*domain.Order, error) {
	if !validAccountID(req.Account) {
		return nil, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	if !validAsset(req.AssetGet) || !validAsset(req.AssetGive) {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("assets must be %q or an uppercase token symbol", domain.AssetNative),
		}
	}
	if req.AmountGet == 0 || req.AmountGive == 0 {
		return nil, &domain.ValidationError{Message: "amounts must be positive integers"}
	}

	order, err := s.exchange.MakeOrder(req.AssetGet, req.AmountGet, req.AssetGive, req.AmountGive, req.Account)
	if err != nil {
		return nil, err
	}

	if s.webhookSvc != nil {
		s.webhookSvc.DispatchOrderCreated(order)
	}
	return order, nil
}

// CancelOrder cancels an open order on behalf of its creator.
func (s *ExchangeService) CancelOrder(id uint64, account string) (*domain.Order, error) {
	if !validAccountID(account) {
		return nil, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}

	order, err := s.exchange.CancelOrder(id, account)
	if err != nil {
		return nil, err
	}

	if s.webhookSvc != nil {
		s.webhookSvc.DispatchOrderCancelled(order)
	}
	return order, nil
}

// FillOrder settles an open order against the filler, records the trade,
// and notifies both parties.
func (s *ExchangeService) FillOrder(id uint64, account string) (*domain.Trade, error) {
	if !validAccountID(account) {
		return nil, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}

	trade, err := s.exchange.FillOrder(id, account)
	if err != nil {
		return nil, err
	}

	s.tradeStore.Append(trade)

	if s.webhookSvc != nil {
		s.webhookSvc.DispatchTradeExecuted(trade.Creator, trade)
		if trade.Filler != trade.Creator {
			s.webhookSvc.DispatchTradeExecuted(trade.Filler, trade)
		}
	}
	return trade, nil
}

// GetOrder retrieves an order by id.
func (s *ExchangeService) GetOrder(id uint64) (*domain.Order, error) {
	return s.exchange.Order(id)
}

// OrderCount returns the number of orders ever created.
func (s *ExchangeService) OrderCount() uint64 {
	return s.exchange.OrderCount()
}

// IsFilled reports whether the order exists and has been filled.
func (s *ExchangeService) IsFilled(id uint64) bool {
	return s.exchange.IsFilled(id)
}

// IsCancelled reports whether the order exists and has been cancelled.
func (s *ExchangeService) IsCancelled(id uint64) bool {
	return s.exchange.IsCancelled(id)
}

// ListOrders returns a paginated id-ordered list of orders with optional
// status filtering.
func (s *ExchangeService) ListOrders(status *domain.OrderStatus, page, limit int) ([]*domain.Order, int, error) {
	if status != nil && !ValidOrderStatuses[*status] {
		return nil, 0, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid status filter: '%s'. Must be one of: open, filled, cancelled", *status),
		}
	}
	if page < 1 {
		return nil, 0, &domain.ValidationError{Message: "page must be >= 1"}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{Message: "limit must be between 1 and 100"}
	}

	orders, total := s.exchange.ListOrders(status, page, limit)
	return orders, total, nil
}

// ListTrades returns all settled trades in chronological order.
func (s *ExchangeService) ListTrades() []*domain.Trade {
	return s.tradeStore.List()
}

// ListTradesByAccount returns the trades an account took part in.
func (s *ExchangeService) ListTradesByAccount(account string) ([]*domain.Trade, error) {
	if !validAccountID(account) {
		return nil, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	return s.tradeStore.ListByAccount(account), nil
}
