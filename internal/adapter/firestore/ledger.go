package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/jonboulle/clockwork"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// Ledger implements domain.AlertLedger. Firestore's strongly consistent
// point reads give the read-your-writes guarantee the dedup check needs.
type Ledger struct {
	client *firestore.Client
	clock  clockwork.Clock
}

func NewLedger(client *firestore.Client, clock clockwork.Clock) *Ledger {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ledger{client: client, clock: clock}
}

func (l *Ledger) HasAlertToday(ctx context.Context, assetID, contact string, day time.Time) (bool, error) {
	_, err := l.client.Collection(alertsCollection).Doc(alertKey(assetID, contact, day)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("check alert ledger: %w", err)
	}
	return true, nil
}

func (l *Ledger) Record(ctx context.Context, d domain.AlertDecision) error {
	ref := l.client.Collection(alertsCollection).Doc(alertKey(d.AssetID, d.GuardianContact, d.CycleDate))
	if _, err := ref.Set(ctx, newAlertDoc(d, l.clock.Now().UTC())); err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}
