package token

import (
	"errors"
	"testing"

	"github.com/venexhq/venex/internal/domain"
)

const supply = uint64(1_000_000_000_000) // 1M units at 6 decimals

func newTestToken() *Token {
	return New("Venus Token", "VEN", 6, supply, "treasury")
}

func TestToken_Deployment(t *testing.T) {
	tok := newTestToken()

	if tok.Name() != "Venus Token" {
		t.Errorf("Name() = %q, want %q", tok.Name(), "Venus Token")
	}
	if tok.Symbol() != "VEN" {
		t.Errorf("Symbol() = %q, want %q", tok.Symbol(), "VEN")
	}
	if tok.Decimals() != 6 {
		t.Errorf("Decimals() = %d, want 6", tok.Decimals())
	}
	if tok.TotalSupply() != supply {
		t.Errorf("TotalSupply() = %d, want %d", tok.TotalSupply(), supply)
	}
	if tok.BalanceOf("treasury") != supply {
		t.Errorf("deployer balance = %d, want full supply %d", tok.BalanceOf("treasury"), supply)
	}
	if tok.Asset() != domain.Asset("VEN") {
		t.Errorf("Asset() = %q, want VEN", tok.Asset())
	}
}

func TestToken_Transfer(t *testing.T) {
	tok := newTestToken()

	if err := tok.Transfer("treasury", "alice", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tok.BalanceOf("treasury"); got != supply-100 {
		t.Errorf("sender balance = %d, want %d", got, supply-100)
	}
	if got := tok.BalanceOf("alice"); got != 100 {
		t.Errorf("recipient balance = %d, want 100", got)
	}
}

func TestToken_Transfer_InsufficientBalance(t *testing.T) {
	tok := newTestToken()

	err := tok.Transfer("alice", "bob", 1)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if tok.BalanceOf("bob") != 0 {
		t.Errorf("recipient balance = %d, want 0 after failed transfer", tok.BalanceOf("bob"))
	}
}

func TestToken_Transfer_InvalidRecipient(t *testing.T) {
	tok := newTestToken()

	err := tok.Transfer("treasury", "", 100)
	if !errors.Is(err, domain.ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
	if tok.BalanceOf("treasury") != supply {
		t.Errorf("sender balance changed after failed transfer")
	}
}

func TestToken_Approve(t *testing.T) {
	tok := newTestToken()

	if err := tok.Approve("treasury", "exchange", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tok.Allowance("treasury", "exchange"); got != 500 {
		t.Errorf("allowance = %d, want 500", got)
	}

	// A repeated approval replaces the allowance.
	if err := tok.Approve("treasury", "exchange", 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tok.Allowance("treasury", "exchange"); got != 200 {
		t.Errorf("allowance after re-approve = %d, want 200", got)
	}
}

func TestToken_Approve_InvalidSpender(t *testing.T) {
	tok := newTestToken()

	err := tok.Approve("treasury", "", 500)
	if !errors.Is(err, domain.ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
}

func TestToken_TransferFrom(t *testing.T) {
	tok := newTestToken()
	if err := tok.Approve("treasury", "exchange", 300); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := tok.TransferFrom("treasury", "alice", "exchange", 300); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tok.BalanceOf("alice"); got != 300 {
		t.Errorf("recipient balance = %d, want 300", got)
	}
	if got := tok.BalanceOf("treasury"); got != supply-300 {
		t.Errorf("owner balance = %d, want %d", got, supply-300)
	}
	if got := tok.Allowance("treasury", "exchange"); got != 0 {
		t.Errorf("allowance = %d, want 0 after full pull", got)
	}
}

func TestToken_TransferFrom_ExceedsAllowance(t *testing.T) {
	tok := newTestToken()
	if err := tok.Approve("treasury", "exchange", 100); err != nil {
		t.Fatalf("approve: %v", err)
	}

	err := tok.TransferFrom("treasury", "alice", "exchange", 101)
	if !errors.Is(err, domain.ErrInsufficientAllowance) {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
	if tok.BalanceOf("alice") != 0 {
		t.Errorf("recipient credited despite failed pull")
	}
	if got := tok.Allowance("treasury", "exchange"); got != 100 {
		t.Errorf("allowance = %d, want 100 after failed pull", got)
	}
}

func TestToken_TransferFrom_NoApproval(t *testing.T) {
	tok := newTestToken()

	err := tok.TransferFrom("treasury", "alice", "exchange", 1)
	if !errors.Is(err, domain.ErrInsufficientAllowance) {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
}

func TestToken_TransferFrom_ExceedsBalance(t *testing.T) {
	tok := newTestToken()
	// alice approves more than she holds.
	if err := tok.Approve("alice", "exchange", 1000); err != nil {
		t.Fatalf("approve: %v", err)
	}

	err := tok.TransferFrom("alice", "bob", "exchange", 1000)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := tok.Allowance("alice", "exchange"); got != 1000 {
		t.Errorf("allowance = %d, want 1000 after failed pull", got)
	}
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	tok := newTestToken()

	if err := r.Register(tok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolved, ok := r.Resolve(domain.Asset("VEN"))
	if !ok {
		t.Fatal("expected VEN to resolve")
	}
	if resolved.BalanceOf("treasury") != supply {
		t.Errorf("resolved ledger balance = %d, want %d", resolved.BalanceOf("treasury"), supply)
	}

	got, err := r.Get(domain.Asset("VEN"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tok {
		t.Error("Get returned a different token")
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(newTestToken()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Register(newTestToken())
	if !errors.Is(err, domain.ErrTokenAlreadyExists) {
		t.Fatalf("expected ErrTokenAlreadyExists, got %v", err)
	}
}

func TestRegistry_Register_NativeSentinel(t *testing.T) {
	r := NewRegistry()
	tok := New("Fake Native", string(domain.AssetNative), 6, supply, "treasury")

	err := r.Register(tok)
	if !errors.Is(err, domain.ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset, got %v", err)
	}
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	if got := len(r.List()); got != 0 {
		t.Errorf("empty registry lists %d tokens", got)
	}

	if err := r.Register(newTestToken()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(New("Other Token", "OTH", 2, 500, "treasury")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := r.List()
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Resolve(domain.Asset("NOPE")); ok {
		t.Error("expected unknown asset to not resolve")
	}
	if _, err := r.Get(domain.Asset("NOPE")); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}
