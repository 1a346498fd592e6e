package token

import (
	"sync"

	"github.com/venexhq/venex/internal/domain"
)

// Token is a fungible-asset ledger with delegated-transfer support. The full
// supply is minted to the deployer account at construction; value then moves
// only through Transfer and TransferFrom. It implements domain.TokenLedger,
// which is the only surface the exchange engine consumes.
type Token struct {
	name        string
	symbol      string
	decimals    uint8
	totalSupply uint64

	mu         sync.RWMutex
	balances   map[string]uint64
	allowances map[string]map[string]uint64 // owner → spender → amount
}

// New creates a token and mints the entire supply to the deployer account.
func New(name, symbol string, decimals uint8, totalSupply uint64, deployer string) *Token {
	t := &Token{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: totalSupply,
		balances:    make(map[string]uint64),
		allowances:  make(map[string]map[string]uint64),
	}
	t.balances[deployer] = totalSupply
	return t
}

// Name returns the token's display name.
func (t *Token) Name() string { return t.name }

// Symbol returns the token's asset symbol.
func (t *Token) Symbol() string { return t.symbol }

// Decimals returns the number of decimal places in one whole token unit.
func (t *Token) Decimals() uint8 { return t.decimals }

// TotalSupply returns the fixed total supply in atomic units.
func (t *Token) TotalSupply() uint64 { return t.totalSupply }

// Asset returns the asset identifier for this token on the exchange ledger.
func (t *Token) Asset() domain.Asset { return domain.Asset(t.symbol) }

// BalanceOf returns the account's holding, zero for unknown accounts.
func (t *Token) BalanceOf(account string) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balances[account]
}

// Allowance returns the amount the owner has authorized the spender to pull.
func (t *Token) Allowance(owner, spender string) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allowances[owner][spender]
}

// Transfer moves amount from sender to recipient. It returns
// domain.ErrInvalidRecipient for an empty recipient and
// domain.ErrInsufficientBalance when the sender's holding is too small.
func (t *Token) Transfer(sender, recipient string, amount uint64) error {
	if recipient == "" {
		return domain.ErrInvalidRecipient
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[sender] < amount {
		return domain.ErrInsufficientBalance
	}
	t.balances[sender] -= amount
	t.balances[recipient] += amount
	return nil
}

// Approve authorizes the spender to pull up to amount from the owner's
// holding via TransferFrom. A repeated approval replaces the previous
// allowance rather than adding to it.
func (t *Token) Approve(owner, spender string, amount uint64) error {
	if spender == "" {
		return domain.ErrInvalidRecipient
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[string]uint64)
	}
	t.allowances[owner][spender] = amount
	return nil
}

// TransferFrom moves amount from owner to recipient on the spender's
// authority. The spender's allowance is checked before the owner's balance
// and reduced only on success.
func (t *Token) TransferFrom(owner, recipient, spender string, amount uint64) error {
	if recipient == "" {
		return domain.ErrInvalidRecipient
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.allowances[owner][spender] < amount {
		return domain.ErrInsufficientAllowance
	}
	if t.balances[owner] < amount {
		return domain.ErrInsufficientBalance
	}
	t.allowances[owner][spender] -= amount
	t.balances[owner] -= amount
	t.balances[recipient] += amount
	return nil
}
