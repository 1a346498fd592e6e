package token

import (
	"sync"

	"github.com/venexhq/venex/internal/domain"
)

// Registry is a thread-safe index of deployed tokens keyed by asset symbol.
// It implements domain.TokenResolver for the exchange engine.
type Registry struct {
	mu     sync.RWMutex
	tokens map[domain.Asset]*Token
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tokens: make(map[domain.Asset]*Token),
	}
}

// Register adds a token under its symbol. It returns
// domain.ErrInvalidAsset if the symbol collides with the native-asset
// sentinel and domain.ErrTokenAlreadyExists on duplicate registration.
func (r *Registry) Register(t *Token) error {
	asset := t.Asset()
	if asset.IsNative() {
		return domain.ErrInvalidAsset
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[asset]; exists {
		return domain.ErrTokenAlreadyExists
	}
	r.tokens[asset] = t
	return nil
}

// Resolve returns the token ledger for an asset, if one is registered.
func (r *Registry) Resolve(asset domain.Asset) (domain.TokenLedger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[asset]
	if !ok {
		return nil, false
	}
	return t, true
}

// Get retrieves a token by asset. It returns domain.ErrTokenNotFound
// if no token is registered under the asset.
func (r *Registry) Get(asset domain.Asset) (*Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[asset]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return t, nil
}

// List returns all registered tokens in unspecified order.
func (r *Registry) List() []*Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Token, 0, len(r.tokens))
	for _, t := range r.tokens {
		result = append(result, t)
	}
	return result
}
