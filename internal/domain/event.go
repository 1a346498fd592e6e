package domain

import "time"

// Deposit records a completed deposit into the exchange ledger.
// NewBalance is the account's credited amount after the deposit.
type Deposit struct {
	Asset      Asset
	Account    string
	Amount     uint64
	NewBalance uint64
	OccurredAt time.Time
}

// Withdrawal records a completed withdrawal from the exchange ledger.
// NewBalance is the account's credited amount after the withdrawal.
type Withdrawal struct {
	Asset      Asset
	Account    string
	Amount     uint64
	NewBalance uint64
	OccurredAt time.Time
}
