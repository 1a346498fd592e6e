package domain

// TokenLedger is the exchange's view of a fungible-token ledger. The exchange
// only needs the pull-on-behalf primitive for deposits, the plain transfer for
// withdrawals, and the balance query; everything else the token does (names,
// supply, approvals) stays behind this contract.
type TokenLedger interface {
	// TransferFrom moves amount from owner to recipient using the allowance
	// the owner granted to spender. The allowance is reduced on success.
	TransferFrom(owner, recipient, spender string, amount uint64) error

	// Transfer moves amount from sender to recipient.
	Transfer(sender, recipient string, amount uint64) error

	// BalanceOf returns the account's token holding. Never fails.
	BalanceOf(account string) uint64
}

// TokenResolver looks up the token ledger behind an asset identifier.
type TokenResolver interface {
	Resolve(asset Asset) (TokenLedger, bool)
}
