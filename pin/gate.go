// Package pin implements the time-boxed unlock gate in front of the
// private holdings book.
//
// This is a local convenience lock, not a security boundary: the PIN hash
// is a non-cryptographic FNV-1a digest that only keeps the holdings list
// out of casual view. Do not rely on it against anyone with access to the
// store file.
package pin

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"time"

	"github.com/wssxwz/stock-strategy/store"
)

const (
	hashKey      = "pin_hash"
	deadlineKey  = "pin_unlocked_until"
	UnlockWindow = 30 * time.Minute
)

var (
	ErrInvalidPin = errors.New("invalid pin")
	ErrMismatch   = errors.New("pin entries do not match")
	ErrBadFormat  = errors.New("pin must be exactly 4 digits")
	ErrNotSet     = errors.New("pin has not been set up")
	ErrAlreadySet = errors.New("pin is already set up")
)

var pinFormat = regexp.MustCompile(`^\d{4}$`)

type Gate struct {
	store *store.Store
	now   func() time.Time
}

func NewGate(st *store.Store) *Gate {
	return &Gate{store: st, now: time.Now}
}

// WithClock replaces the clock used for the unlock deadline.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

func obfuscate(pin string) string {
	h := fnv.New32a()
	h.Write([]byte("stock-strategy:" + pin))
	return fmt.Sprintf("%08x", h.Sum32())
}

// IsSet reports whether first-time setup has completed.
func (g *Gate) IsSet() bool {
	var stored string
	return g.store.Get(hashKey, &stored) && stored != ""
}

// Setup stores the PIN hash after the caller enters the PIN twice. The gate
// unlocks immediately on success.
func (g *Gate) Setup(entry, confirm string) error {
	if g.IsSet() {
		return ErrAlreadySet
	}
	if !pinFormat.MatchString(entry) {
		return ErrBadFormat
	}
	if entry != confirm {
		return ErrMismatch
	}

	if err := g.store.Set(hashKey, obfuscate(entry)); err != nil {
		return fmt.Errorf("store pin: %w", err)
	}
	return g.Touch()
}

// Unlock opens the gate for UnlockWindow when pin matches the stored hash.
func (g *Gate) Unlock(pin string) error {
	var stored string
	if !g.store.Get(hashKey, &stored) || stored == "" {
		return ErrNotSet
	}
	if obfuscate(pin) != stored {
		return ErrInvalidPin
	}
	return g.Touch()
}

// Touch advances the unlock deadline. Called on every successful PIN entry
// and every gated action so an active session stays open.
func (g *Gate) Touch() error {
	deadline := g.now().Add(UnlockWindow)
	if err := g.store.Set(deadlineKey, deadline); err != nil {
		return fmt.Errorf("store unlock deadline: %w", err)
	}
	return nil
}

// Lock closes the gate immediately.
func (g *Gate) Lock() {
	_ = g.store.Delete(deadlineKey)
}

// Unlocked reports whether the gate is currently open. Expiry is implicit:
// once the deadline passes, the check reports locked without requiring an
// explicit Lock call.
func (g *Gate) Unlocked() bool {
	var deadline time.Time
	if !g.store.Get(deadlineKey, &deadline) {
		return false
	}
	return g.now().Before(deadline)
}
