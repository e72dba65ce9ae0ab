package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSaveWalletRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	address := "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8"
	saved, err := store.SaveWallet(ctx, "whatsapp:+14155550100", address)
	if err != nil {
		t.Fatalf("save wallet: %v", err)
	}
	if saved.WalletAddress != address {
		t.Fatalf("expected exact address back, got %s", saved.WalletAddress)
	}

	sess, ok, err := store.Get(ctx, "whatsapp:+14155550100")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !ok {
		t.Fatalf("expected session to exist")
	}
	if sess.WalletAddress != address {
		t.Fatalf("round-trip mismatch: %s", sess.WalletAddress)
	}
}

func TestSaveWalletRejectsBadFormat(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	good := "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8"
	if _, err := store.SaveWallet(ctx, "user", good); err != nil {
		t.Fatalf("save valid wallet: %v", err)
	}

	bad := []string{
		"",
		"0x123",
		"742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8ab",
		"0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8ff",
	}
	for _, candidate := range bad {
		_, err := store.SaveWallet(ctx, "user", candidate)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("candidate %q: expected ErrInvalidAddress, got %v", candidate, err)
		}
	}

	// Rejected saves must not disturb the existing session.
	sess, ok, err := store.Get(ctx, "user")
	if err != nil || !ok {
		t.Fatalf("get session after rejects: ok=%v err=%v", ok, err)
	}
	if sess.WalletAddress != good {
		t.Fatalf("rejected saves must leave session unchanged, got %s", sess.WalletAddress)
	}
}

func TestSaveWalletOverwritesAndRefreshesTimestamp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	times := []time.Time{
		time.Unix(1000, 0),
		time.Unix(2000, 0),
	}
	store.now = func() time.Time {
		next := times[0]
		if len(times) > 1 {
			times = times[1:]
		}
		return next
	}

	first := "0x1111111111111111111111111111111111111111"
	second := "0x2222222222222222222222222222222222222222"

	if _, err := store.SaveWallet(ctx, "user", first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	saved, err := store.SaveWallet(ctx, "user", second)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if saved.WalletAddress != second {
		t.Fatalf("expected last-write-wins, got %s", saved.WalletAddress)
	}
	if saved.SavedAt != 2000 {
		t.Fatalf("expected SavedAt refreshed on every save, got %d", saved.SavedAt)
	}
}

func TestGetUnknownUser(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected no session for unknown user")
	}
}
