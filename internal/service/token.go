package service

import (
	"github.com/venexhq/venex/internal/domain"
	"github.com/venexhq/venex/internal/token"
)

// TokenService validates requests against the token registry and exposes the
// external token ledgers over the API. Holders move and approve funds here
// before the exchange can pull a token deposit into custody.
type TokenService struct {
	registry *token.Registry
}

// NewTokenService creates a new TokenService backed by the given registry.
func NewTokenService(registry *token.Registry) *TokenService {
	return &TokenService{registry: registry}
}

func validateTokenSymbol(symbol string) error {
	if !tokenAssetRegex.MatchString(symbol) {
		return &domain.ValidationError{Message: "symbol must match ^[A-Z]{1,10}$"}
	}
	return nil
}

// List returns every registered token.
func (s *TokenService) List() []*token.Token {
	return s.registry.List()
}

// Get retrieves a token by symbol.
func (s *TokenService) Get(symbol string) (*token.Token, error) {
	if err := validateTokenSymbol(symbol); err != nil {
		return nil, err
	}
	return s.registry.Get(domain.Asset(symbol))
}

// Transfer moves amount of a token between holder accounts on the external
// ledger.
func (s *TokenService) Transfer(symbol, from, to string, amount uint64) error {
	if err := validateTokenSymbol(symbol); err != nil {
		return err
	}
	if !validAccountID(from) || !validAccountID(to) {
		return &domain.ValidationError{Message: "accounts must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	if amount == 0 {
		return &domain.ValidationError{Message: "amount must be a positive integer"}
	}

	tok, err := s.registry.Get(domain.Asset(symbol))
	if err != nil {
		return err
	}
	return tok.Transfer(from, to, amount)
}

// Approve sets the spender's allowance over the owner's holding. A zero
// amount revokes a previous approval.
func (s *TokenService) Approve(symbol, owner, spender string, amount uint64) error {
	if err := validateTokenSymbol(symbol); err != nil {
		return err
	}
	if !validAccountID(owner) || !validAccountID(spender) {
		return &domain.ValidationError{Message: "accounts must match ^[a-zA-Z0-9_-]{1,64}$"}
	}

	tok, err := s.registry.Get(domain.Asset(symbol))
	if err != nil {
		return err
	}
	return tok.Approve(owner, spender, amount)
}

// BalanceOf returns an account's holding on the token's external ledger.
func (s *TokenService) BalanceOf(symbol, account string) (uint64, error) {
	if err := validateTokenSymbol(symbol); err != nil {
		return 0, err
	}
	if !validAccountID(account) {
		return 0, &domain.ValidationError{Message: "account must match ^[a-zA-Z0-9_-]{1,64}$"}
	}

	tok, err := s.registry.Get(domain.Asset(symbol))
	if err != nil {
		return 0, err
	}
	return tok.BalanceOf(account), nil
}

// Allowance returns the amount the owner has authorized the spender to pull.
func (s *TokenService) Allowance(symbol, owner, spender string) (uint64, error) {
	if err := validateTokenSymbol(symbol); err != nil {
		return 0, err
	}
	if !validAccountID(owner) || !validAccountID(spender) {
		return 0, &domain.ValidationError{Message: "accounts must match ^[a-zA-Z0-9_-]{1,64}$"}
	}

	tok, err := s.registry.Get(domain.Asset(symbol))
	if err != nil {
		return 0, err
	}
	return tok.Allowance(owner, spender), nil
}
