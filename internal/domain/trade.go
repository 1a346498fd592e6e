package domain

import "time"

// Trade records the settlement of a filled order. Fee is denominated in
// AssetGet (the asset the filler pays) and is credited to the fee account.
type Trade struct {
	TradeID    string
	OrderID    uint64
	Creator    string
	Filler     string
	AssetGet   Asset
	AmountGet  uint64
	AssetGive  Asset
	AmountGive uint64
	Fee        uint64
	ExecutedAt time.Time
}
