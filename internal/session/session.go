// Package session owns the per-user conversation state: the wallet
// address a user has registered with the assistant.
package session

import (
	"context"
	"strings"

	xerrors "NeoLink/internal/errors"
)

// Session holds everything the assistant remembers about one user.
// The user key is the messaging sender id (a phone number string).
type Session struct {
	UserKey       string `json:"user_key"`
	WalletAddress string `json:"wallet_address"`
	SavedAt       int64  `json:"saved_at"`
}

// ErrInvalidAddress is returned when a candidate wallet address fails
// the format check.
var ErrInvalidAddress = xerrors.New(xerrors.CodeInvalidAddress, "wallet address must be 0x followed by 40 hex characters")

// Store is the session storage contract. Implementations must be safe
// for concurrent use across users. Later saves overwrite earlier ones;
// SavedAt is refreshed on every save and entries never expire.
type Store interface {
	// Get returns the session for the user key, reporting whether one exists.
	Get(ctx context.Context, userKey string) (Session, bool, error)
	// SaveWallet validates and stores the wallet address for the user key.
	SaveWallet(ctx context.Context, userKey, address string) (Session, error)
	Close() error
}

// ValidateAddress applies the documented (deliberately loose) format
// check: the 0x prefix plus a total length of 42 characters. Call sites
// that need strict hex matching rely on the intent classifier's pattern
// instead.
func ValidateAddress(address string) error {
	if !strings.HasPrefix(address, "0x") || len(address) != 42 {
		return ErrInvalidAddress
	}
	return nil
}
