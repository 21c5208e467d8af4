// Package library is the persistence authority for material lifecycle
// transitions. Create, update and delete all funnel through saving the full
// collection: local durable storage first, an optional remote HTTP mirror
// on a best-effort basis.
package library

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/material"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
	"github.com/mattelier/mattelier-backend/internal/store"
)

const (
	// Source labels, exposed for observability and tests.
	SourceLocal         = "local"
	SourceHTTPWithLocal = "http+local-fallback"
)

type Config struct {
	// APIBaseURL enables the remote mirror when non-empty.
	APIBaseURL string
	Store      store.SlotStore
	HTTPClient *http.Client
	Logger     *logger.Logger
	// Now overrides the clock, for tests.
	Now func() int64
}

type Repository struct {
	store  store.SlotStore
	mirror *mirrorClient
	log    *logger.Logger
	now    func() int64
}

func New(cfg Config) *Repository {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("service", "MaterialRepository")
	now := cfg.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	r := &Repository{store: cfg.Store, log: log, now: now}
	if cfg.APIBaseURL != "" {
		r.mirror = newMirrorClient(cfg.APIBaseURL, cfg.HTTPClient, log)
	}
	return r
}

// Source identifies the active persistence mode.
func (r *Repository) Source() string {
	if r.mirror != nil {
		return SourceHTTPWithLocal
	}
	return SourceLocal
}

// LoadAll reads the local slot and re-normalizes every record, dropping any
// that fail. It never touches the network.
func (r *Repository) LoadAll(ctx context.Context) []domain.Material {
	raw, ok, err := r.store.Get(ctx, store.KeyMaterials)
	if err != nil {
		r.log.Warn("local load failed", "error", err)
		return []domain.Material{}
	}
	if !ok {
		return []domain.Material{}
	}
	var records []any
	if err := json.Unmarshal(raw, &records); err != nil {
		r.log.Warn("materials slot is not a JSON array", "error", err)
		return []domain.Material{}
	}
	return r.normalizeAll(records)
}

// SaveAll persists the full collection. Local write first; a local failure
// is fatal for the operation and the mirror is never contacted in that
// case. When local succeeds, one mirror write is attempted (if configured)
// and any mirror failure is swallowed: local durability is the guarantee
// the rest of the app depends on.
func (r *Repository) SaveAll(ctx context.Context, materials []domain.Material) SaveResult {
	if materials == nil {
		materials = []domain.Material{}
	}
	raw, err := json.Marshal(materials)
	if err != nil {
		r.log.Error("marshal materials failed", "error", err)
		return SaveResult{OK: false, Remote: SyncFailed}
	}
	if err := r.store.Set(ctx, store.KeyMaterials, raw); err != nil {
		r.log.Error("local save failed", "error", err, "count", len(materials))
		return SaveResult{OK: false, Remote: SyncFailed}
	}
	if r.mirror == nil {
		return SaveResult{OK: true, Remote: SyncNotConfigured}
	}
	if err := r.mirror.putMaterials(ctx, materials, r.now()); err != nil {
		r.log.Warn("remote sync failed, local copy retained", "error", err)
		return SaveResult{OK: true, Remote: SyncFailed}
	}
	return SaveResult{OK: true, Remote: SyncSucceeded}
}

// LoadFromRemote fetches the mirror collection, normalizes it, refreshes
// the local slot with the survivors and returns them. The mirror is a
// hydration source, not the system of record. The second return is false
// on any failure or when no mirror is configured.
func (r *Repository) LoadFromRemote(ctx context.Context) ([]domain.Material, bool) {
	if r.mirror == nil {
		return nil, false
	}
	records, err := r.mirror.getMaterials(ctx)
	if err != nil {
		r.log.Warn("remote load failed", "error", err)
		return nil, false
	}
	materials := r.normalizeAll(records)
	raw, err := json.Marshal(materials)
	if err == nil {
		err = r.store.Set(ctx, store.KeyMaterials, raw)
	}
	if err != nil {
		// The hydrated set is still usable in memory; the next save will
		// try the slot again.
		r.log.Error("writing hydrated materials to local store failed", "error", err)
	}
	return materials, true
}

func (r *Repository) normalizeAll(records []any) []domain.Material {
	now := r.now()
	materials := make([]domain.Material, 0, len(records))
	dropped := 0
	for _, rec := range records {
		m := material.Normalize(rec, now)
		if m == nil {
			dropped++
			continue
		}
		materials = append(materials, *m)
	}
	if dropped > 0 {
		r.log.Warn("dropped records failing normalization", "dropped", dropped, "kept", len(materials))
	}
	return materials
}
