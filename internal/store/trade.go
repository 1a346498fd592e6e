package store

import (
	"sync"

	"github.com/venexhq/venex/internal/domain"
)

// TradeStore is a thread-safe, append-only log of settled trades, with a
// secondary index by account so both parties can query their history.
type TradeStore struct {
	mu        sync.RWMutex
	trades    []*domain.Trade            // chronological
	byAccount map[string][]*domain.Trade // account → trades (chronological)
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		byAccount: make(map[string][]*domain.Trade),
	}
}

// Append adds a trade to the log and to both parties' indexes.
func (s *TradeStore) Append(t *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = append(s.trades, t)
	s.byAccount[t.Creator] = append(s.byAccount[t.Creator], t)
	if t.Filler != t.Creator {
		s.byAccount[t.Filler] = append(s.byAccount[t.Filler], t)
	}
}

// List returns all trades in chronological order.
func (s *TradeStore) List() []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Trade, len(s.trades))
	copy(result, s.trades)
	return result
}

// ListByAccount returns the trades an account took part in, as creator or
// filler, in chronological order. Returns an empty slice for unknown
// accounts.
func (s *TradeStore) ListByAccount(account string) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := s.byAccount[account]
	if trades == nil {
		return []*domain.Trade{}
	}

	result := make([]*domain.Trade, len(trades))
	copy(result, trades)
	return result
}

// Count returns the total number of trades recorded.
func (s *TradeStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trades)
}
