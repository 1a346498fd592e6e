package engine

import (
	"github.com/google/btree"

	"github.com/venexhq/venex/internal/domain"
)

// orderIndex holds every order ever issued, keyed by sequential ID, using a
// B-tree so listings walk in id order without a separate sorted structure.
// Orders are never removed — filled and cancelled orders stay queryable.
type orderIndex struct {
	tree *btree.BTreeG[*domain.Order]
}

func orderLess(a, b *domain.Order) bool {
	return a.ID < b.ID
}

func newOrderIndex() *orderIndex {
	const degree = 32
	return &orderIndex{
		tree: btree.NewG[*domain.Order](degree, orderLess),
	}
}

// put inserts an order. IDs are unique, so this never replaces.
func (idx *orderIndex) put(o *domain.Order) {
	idx.tree.ReplaceOrInsert(o)
}

// get returns the order with the given id, or false if it was never issued.
func (idx *orderIndex) get(id uint64) (*domain.Order, bool) {
	return idx.tree.Get(&domain.Order{ID: id})
}

// len returns the number of orders ever issued.
func (idx *orderIndex) len() int {
	return idx.tree.Len()
}

// list returns orders in ascending id order, optionally filtered by status,
// with 1-based pagination. It returns the requested page and the total count
// of matching orders before pagination.
func (idx *orderIndex) list(status *domain.OrderStatus, page, limit int) ([]*domain.Order, int) {
	filtered := make([]*domain.Order, 0)
	idx.tree.Ascend(func(o *domain.Order) bool {
		if status != nil && o.Status != *status {
			return true
		}
		filtered = append(filtered, o)
		return true
	})

	total := len(filtered)

	if page < 1 || limit < 1 {
		return []*domain.Order{}, total
	}
	start := (page - 1) * limit
	if start >= total {
		return []*domain.Order{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return filtered[start:end], total
}
