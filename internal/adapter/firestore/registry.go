package firestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// Registry implements domain.AssetRegistry.
type Registry struct {
	client *firestore.Client
	logger *slog.Logger
}

func NewRegistry(client *firestore.Client, logger *slog.Logger) *Registry {
	return &Registry{client: client, logger: logger}
}

func (r *Registry) GetForest(ctx context.Context, id string) (domain.Forest, error) {
	snap, err := r.client.Collection(forestsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.Forest{}, domain.ErrForestNotFound
		}
		return domain.Forest{}, fmt.Errorf("get forest %s: %w", id, err)
	}
	var doc forestDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.Forest{}, fmt.Errorf("decode forest %s: %w", id, err)
	}
	doc.ID = snap.Ref.ID
	return doc.toDomain(), nil
}

// ListMonitored joins active adoptions with their forests. Adoptions whose
// forest no longer exists are skipped.
func (r *Registry) ListMonitored(ctx context.Context) ([]domain.MonitoredAsset, error) {
	adoptions, err := r.activeAdoptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(adoptions) == 0 {
		return nil, nil
	}

	refs := make([]*firestore.DocumentRef, len(adoptions))
	for i, a := range adoptions {
		refs[i] = r.client.Collection(forestsCollection).Doc(a.ForestID)
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("get adopted forests: %w", err)
	}

	assets := make([]domain.MonitoredAsset, 0, len(adoptions))
	for i, snap := range snaps {
		if !snap.Exists() {
			r.logger.Warn("adopted forest missing", "forest_id", adoptions[i].ForestID)
			continue
		}
		var doc forestDoc
		if err := snap.DataTo(&doc); err != nil {
			r.logger.Warn("decode adopted forest failed", "forest_id", adoptions[i].ForestID, "error", err)
			continue
		}
		doc.ID = snap.Ref.ID
		assets = append(assets, domain.MonitoredAsset{
			Forest:          doc.toDomain(),
			GuardianName:    adoptions[i].GuardianName,
			GuardianContact: adoptions[i].GuardianEmail,
		})
	}
	return assets, nil
}

func (r *Registry) activeAdoptions(ctx context.Context) ([]adoptionDoc, error) {
	iter := r.client.Collection(adoptionsCollection).Where("is_active", "==", true).Documents(ctx)
	defer iter.Stop()

	var out []adoptionDoc
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list adoptions: %w", err)
		}
		var doc adoptionDoc
		if err := snap.DataTo(&doc); err != nil {
			r.logger.Warn("decode adoption failed", "doc_id", snap.Ref.ID, "error", err)
			continue
		}
		out = append(out, doc)
	}
}
