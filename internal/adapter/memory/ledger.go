package memory

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// Ledger implements domain.AlertLedger in memory. Entries are keyed by asset,
// contact and calendar day; a later Record for the same key overwrites.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]domain.AlertDecision
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]domain.AlertDecision)}
}

func ledgerKey(assetID, contact string, day time.Time) string {
	return assetID + "|" + contact + "|" + domain.DayKey(day)
}

func (l *Ledger) HasAlertToday(_ context.Context, assetID, contact string, day time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[ledgerKey(assetID, contact, day)]
	return ok, nil
}

func (l *Ledger) Record(_ context.Context, d domain.AlertDecision) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[ledgerKey(d.AssetID, d.GuardianContact, d.CycleDate)] = d
	return nil
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
