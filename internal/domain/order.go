package domain

import "time"

// OrderStatus represents the lifecycle state of an order. Orders start open
// and end in exactly one of the two terminal states.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a conditional trade offer: the creator offers AmountGive of
// AssetGive in return for AmountGet of AssetGet. The offered funds are not
// reserved at creation — solvency is re-verified when the order is filled.
type Order struct {
	ID          uint64
	Creator     string
	AssetGet    Asset
	AmountGet   uint64
	AssetGive   Asset
	AmountGive  uint64
	Status      OrderStatus
	CreatedAt   time.Time
	FilledAt    *time.Time
	CancelledAt *time.Time
}

// IsOpen reports whether the order can still be filled or cancelled.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen
}
