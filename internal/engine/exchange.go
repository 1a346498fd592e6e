package engine

import (
	"math"
	"math/bits"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/venexhq/venex/internal/domain"
)

// balanceKey addresses one entry in the custody ledger.
type balanceKey struct {
	Asset   domain.Asset
	Account string
}

// Exchange is the custodial ledger and order book. A single mutex serializes
// every operation, so each deposit, withdrawal, make, cancel, or fill runs as
// one indivisible step: the balance checks, the five-leg settlement, and the
// order status transition can never interleave with another call. All checks
// happen before any mutation, so a failed call leaves state untouched.
//
// Token deposits and withdrawals move value through the external token
// ledger into and out of the custody account; native-asset movement bypasses
// the collaborator entirely.
type Exchange struct {
	mu sync.Mutex

	feeAccount string
	feePercent uint64
	custody    string
	tokens     domain.TokenResolver

	balances map[balanceKey]uint64
	orders   *orderIndex
	orderSeq uint64
}

// NewExchange creates an exchange. feeAccount receives the skim on every
// fill; feePercent is an integer percentage of the amount the filler pays.
// custody names the account the exchange holds token funds under on the
// external token ledgers. Both fee parameters are fixed for the lifetime of
// the exchange.
func NewExchange(feeAccount string, feePercent uint64, custody string, tokens domain.TokenResolver) *Exchange {
	return &Exchange{
		feeAccount: feeAccount,
		feePercent: feePercent,
		custody:    custody,
		tokens:     tokens,
		balances:   make(map[balanceKey]uint64),
		orders:     newOrderIndex(),
	}
}

// FeeAccount returns the account credited with fee skims.
func (e *Exchange) FeeAccount() string { return e.feeAccount }

// FeePercent returns the fee percentage applied to every fill.
func (e *Exchange) FeePercent() uint64 { return e.feePercent }

// DepositToken pulls amount of a token from the depositor's external holding
// into custody and credits the depositor's ledger balance. The depositor must
// have approved the custody account for at least amount beforehand; allowance
// and balance failures from the token ledger pass through unchanged.
func (e *Exchange) DepositToken(asset domain.Asset, amount uint64, depositor string) (*domain.Deposit, error) {
	if asset.IsNative() {
		return nil, domain.ErrInvalidAsset
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tok, ok := e.tokens.Resolve(asset)
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	// Headroom is verified before the external pull so a refused credit can
	// never leave tokens stranded in custody.
	if e.balance(asset, depositor) > math.MaxUint64-amount {
		return nil, domain.ErrBalanceOverflow
	}
	if err := tok.TransferFrom(depositor, e.custody, e.custody, amount); err != nil {
		return nil, err
	}

	newBalance, err := e.credit(asset, depositor, amount)
	if err != nil {
		return nil, err
	}
	return &domain.Deposit{
		Asset:      asset,
		Account:    depositor,
		Amount:     amount,
		NewBalance: newBalance,
		OccurredAt: time.Now(),
	}, nil
}

// WithdrawToken debits the account's ledger balance and pushes amount back
// out of custody on the external token ledger.
func (e *Exchange) WithdrawToken(asset domain.Asset, amount uint64, account string) (*domain.Withdrawal, error) {
	if asset.IsNative() {
		return nil, domain.ErrInvalidAsset
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tok, ok := e.tokens.Resolve(asset)
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	if e.balance(asset, account) < amount {
		return nil, domain.ErrInsufficientBalance
	}
	if err := tok.Transfer(e.custody, account, amount); err != nil {
		return nil, err
	}

	newBalance := e.debit(asset, account, amount)
	return &domain.Withdrawal{
		Asset:      asset,
		Account:    account,
		Amount:     amount,
		NewBalance: newBalance,
		OccurredAt: time.Now(),
	}, nil
}

// DepositNative credits the depositor with amount of the native value asset.
func (e *Exchange) DepositNative(amount uint64, depositor string) (*domain.Deposit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	newBalance, err := e.credit(domain.AssetNative, depositor, amount)
	if err != nil {
		return nil, err
	}
	return &domain.Deposit{
		Asset:      domain.AssetNative,
		Account:    depositor,
		Amount:     amount,
		NewBalance: newBalance,
		OccurredAt: time.Now(),
	}, nil
}

// WithdrawNative debits the account's native-asset balance.
func (e *Exchange) WithdrawNative(amount uint64, account string) (*domain.Withdrawal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.balance(domain.AssetNative, account) < amount {
		return nil, domain.ErrInsufficientBalance
	}

	newBalance := e.debit(domain.AssetNative, account, amount)
	return &domain.Withdrawal{
		Asset:      domain.AssetNative,
		Account:    account,
		Amount:     amount,
		NewBalance: newBalance,
		OccurredAt: time.Now(),
	}, nil
}

// BalanceOf returns the account's credited amount for an asset. Never fails;
// unknown pairs are zero.
func (e *Exchange) BalanceOf(asset domain.Asset, account string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance(asset, account)
}

// MakeOrder stores a new open order and returns it. The creator's balance is
// not checked or reserved here — solvency is verified when the order is
// filled.
func (e *Exchange) MakeOrder(assetGet domain.Asset, amountGet uint64, assetGive domain.Asset, amountGive uint64, creator string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.orderSeq++
	o := &domain.Order{
		ID:         e.orderSeq,
		Creator:    creator,
		AssetGet:   assetGet,
		AmountGet:  amountGet,
		AssetGive:  assetGive,
		AmountGive: amountGive,
		Status:     domain.OrderStatusOpen,
		CreatedAt:  time.Now(),
	}
	e.orders.put(o)

	return cloneOrder(o), nil
}

// CancelOrder transitions an open order to cancelled. Only the creator may
// cancel, and a finalized order cannot be cancelled again.
func (e *Exchange) CancelOrder(id uint64, caller string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders.get(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Creator != caller {
		return nil, domain.ErrUnauthorized
	}
	if !o.IsOpen() {
		return nil, domain.ErrOrderFinalized
	}

	now := time.Now()
	o.Status = domain.OrderStatusCancelled
	o.CancelledAt = &now

	return cloneOrder(o), nil
}

// FillOrder settles an open order against the filler and returns the trade
// record. The filler pays amountGet plus the fee in the order's get-asset;
// the creator pays amountGive in the give-asset. The status check, both
// solvency checks, the five balance movements, and the status transition all
// happen under the one lock, so a second fill or a concurrent cancel of the
// same order observes the finalized status and is rejected with no effect.
//
// Every leg is staged before any balance mutates, with wrap-around on both
// the fee sum and each credited balance rejected up front, so a failed fill
// leaves the ledger untouched and a successful one cannot mint or destroy
// value.
func (e *Exchange) FillOrder(id uint64, filler string) (*domain.Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders.get(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !o.IsOpen() {
		return nil, domain.ErrOrderFinalized
	}

	// Fee is denominated in the asset the filler pays, truncating toward
	// zero. The 128-bit product keeps the computation exact for any amount;
	// a fee or fee-inclusive total beyond the uint64 range can never be
	// covered by any balance, so those orders are unfillable.
	hi, lo := bits.Mul64(o.AmountGet, e.feePercent)
	if hi >= 100 {
		return nil, domain.ErrInsufficientBalance
	}
	fee, _ := bits.Div64(hi, lo, 100)
	total, carry := bits.Add64(o.AmountGet, fee, 0)
	if carry != 0 {
		return nil, domain.ErrInsufficientBalance
	}

	// The creator may have withdrawn the offered funds since creating the
	// order; escrow is lazy, so solvency is re-checked here. Staging the
	// legs in settlement order also catches the self-fill case where one
	// account sits on both sides and the same balance funds both debits.
	s := e.stageSettlement()
	if err := s.debit(o.AssetGet, filler, total); err != nil {
		return nil, err
	}
	if err := s.credit(o.AssetGet, o.Creator, o.AmountGet); err != nil {
		return nil, err
	}
	if err := s.credit(o.AssetGet, e.feeAccount, fee); err != nil {
		return nil, err
	}
	if err := s.debit(o.AssetGive, o.Creator, o.AmountGive); err != nil {
		return nil, err
	}
	if err := s.credit(o.AssetGive, filler, o.AmountGive); err != nil {
		return nil, err
	}
	s.apply()

	now := time.Now()
	o.Status = domain.OrderStatusFilled
	o.FilledAt = &now

	return &domain.Trade{
		TradeID:    uuid.New().String(),
		OrderID:    o.ID,
		Creator:    o.Creator,
		Filler:     filler,
		AssetGet:   o.AssetGet,
		AmountGet:  o.AmountGet,
		AssetGive:  o.AssetGive,
		AmountGive: o.AmountGive,
		Fee:        fee,
		ExecutedAt: now,
	}, nil
}

// Order returns a copy of the order with the given id.
func (e *Exchange) Order(id uint64) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders.get(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

// OrderCount returns the number of orders ever created.
func (e *Exchange) OrderCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return uint64(e.orders.len())
}

// IsFilled reports whether the order exists and has been filled.
func (e *Exchange) IsFilled(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders.get(id)
	return ok && o.Status == domain.OrderStatusFilled
}

// IsCancelled reports whether the order exists and has been cancelled.
func (e *Exchange) IsCancelled(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders.get(id)
	return ok && o.Status == domain.OrderStatusCancelled
}

// ListOrders returns orders in ascending id order with optional status
// filtering and 1-based pagination, plus the total matching count.
func (e *Exchange) ListOrders(status *domain.OrderStatus, page, limit int) ([]*domain.Order, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders, total := e.orders.list(status, page, limit)
	result := make([]*domain.Order, len(orders))
	for i, o := range orders {
		result[i] = cloneOrder(o)
	}
	return result, total
}

// balance, credit, and debit assume the caller holds e.mu.

func (e *Exchange) balance(asset domain.Asset, account string) uint64 {
	return e.balances[balanceKey{Asset: asset, Account: account}]
}

// credit adds amount to a balance, refusing any addition that would wrap
// past the uint64 range so no entry point can silently destroy value.
func (e *Exchange) credit(asset domain.Asset, account string, amount uint64) (uint64, error) {
	key := balanceKey{Asset: asset, Account: account}
	newBalance, carry := bits.Add64(e.balances[key], amount, 0)
	if carry != 0 {
		return e.balances[key], domain.ErrBalanceOverflow
	}
	e.balances[key] = newBalance
	return newBalance, nil
}

// debit subtracts amount from a balance. The caller must have verified
// sufficiency; debits never wrap because every balance was built from
// checked credits.
func (e *Exchange) debit(asset domain.Asset, account string, amount uint64) uint64 {
	key := balanceKey{Asset: asset, Account: account}
	e.balances[key] -= amount
	return e.balances[key]
}

// settlement stages a multi-leg balance movement so it applies all or
// nothing. Legs read through earlier staged legs, which keeps the checks
// exact when one account appears on both sides of a fill. The caller holds
// e.mu for the settlement's whole lifetime.
type settlement struct {
	e       *Exchange
	pending map[balanceKey]uint64
}

func (e *Exchange) stageSettlement() *settlement {
	return &settlement{e: e, pending: make(map[balanceKey]uint64, 5)}
}

func (s *settlement) balance(key balanceKey) uint64 {
	if v, ok := s.pending[key]; ok {
		return v
	}
	return s.e.balances[key]
}

func (s *settlement) debit(asset domain.Asset, account string, amount uint64) error {
	key := balanceKey{Asset: asset, Account: account}
	b := s.balance(key)
	if b < amount {
		return domain.ErrInsufficientBalance
	}
	s.pending[key] = b - amount
	return nil
}

func (s *settlement) credit(asset domain.Asset, account string, amount uint64) error {
	key := balanceKey{Asset: asset, Account: account}
	newBalance, carry := bits.Add64(s.balance(key), amount, 0)
	if carry != 0 {
		return domain.ErrBalanceOverflow
	}
	s.pending[key] = newBalance
	return nil
}

func (s *settlement) apply() {
	for key, v := range s.pending {
		s.e.balances[key] = v
	}
}

// cloneOrder returns a copy so callers never share the engine's mutable
// order record outside the lock.
func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	if o.FilledAt != nil {
		t := *o.FilledAt
		c.FilledAt = &t
	}
	if o.CancelledAt != nil {
		t := *o.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}
