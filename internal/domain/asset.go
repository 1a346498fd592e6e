package domain

// Asset identifies one balance dimension on the exchange ledger. The native
// value asset uses a fixed sentinel code; every other value is the symbol of a
// fungible token registered with the exchange. Using a single identifier for
// both classes lets one ledger table serve them without branching in the
// order logic.
type Asset string

// AssetNative is the sentinel identifier for the platform's native value asset.
const AssetNative Asset = "native"

// IsNative reports whether the asset is the native value asset.
func (a Asset) IsNative() bool {
	return a == AssetNative
}

// IsToken reports whether the asset refers to a fungible-token type.
func (a Asset) IsToken() bool {
	return a != AssetNative
}
