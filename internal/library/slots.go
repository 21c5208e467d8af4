package library

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mattelier/mattelier-backend/internal/store"
)

const (
	maxOrderIDLength     = 120
	maxOrderEntries      = 5000
	maxOrderEncodedChars = 200000
	maxRecentCommands    = 6
)

// SanitizeManualOrderIDs trims entries, drops empties, caps each id at 120
// characters and deduplicates preserving first occurrence.
func SanitizeManualOrderIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if runes := []rune(id); len(runes) > maxOrderIDLength {
			id = string(runes[:maxOrderIDLength])
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SaveManualOrder persists the user's manual material ordering. The list is
// sanitized, capped at 5000 entries and tail-dropped until its encoded form
// fits 200,000 characters.
func (r *Repository) SaveManualOrder(ctx context.Context, ids []string) error {
	ids = SanitizeManualOrderIDs(ids)
	if len(ids) > maxOrderEntries {
		ids = ids[:maxOrderEntries]
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	for len(raw) > maxOrderEncodedChars && len(ids) > 0 {
		ids = ids[:len(ids)-1]
		raw, err = json.Marshal(ids)
		if err != nil {
			return err
		}
	}
	return r.store.Set(ctx, store.KeyManualOrder, raw)
}

func (r *Repository) LoadManualOrder(ctx context.Context) []string {
	raw, ok, err := r.store.Get(ctx, store.KeyManualOrder)
	if err != nil || !ok {
		if err != nil {
			r.log.Warn("manual order load failed", "error", err)
		}
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		r.log.Warn("manual order slot is malformed", "error", err)
		return []string{}
	}
	return SanitizeManualOrderIDs(ids)
}

// PushRecentCommand records a palette command invocation, most recent
// first, deduplicated and capped at 6 entries.
func (r *Repository) PushRecentCommand(ctx context.Context, commandID string) error {
	commandID = strings.TrimSpace(commandID)
	if commandID == "" {
		return nil
	}
	recent := r.RecentCommands(ctx)
	next := make([]string, 0, maxRecentCommands)
	next = append(next, commandID)
	for _, id := range recent {
		if id == commandID {
			continue
		}
		next = append(next, id)
		if len(next) == maxRecentCommands {
			break
		}
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, store.KeyRecentCommands, raw)
}

func (r *Repository) RecentCommands(ctx context.Context) []string {
	raw, ok, err := r.store.Get(ctx, store.KeyRecentCommands)
	if err != nil || !ok {
		if err != nil {
			r.log.Warn("recent commands load failed", "error", err)
		}
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []string{}
	}
	if len(ids) > maxRecentCommands {
		ids = ids[:maxRecentCommands]
	}
	return ids
}

func (r *Repository) MarkOnboardingSeen(ctx context.Context) error {
	return r.store.Set(ctx, store.KeyOnboardingSeen, []byte("true"))
}

func (r *Repository) OnboardingSeen(ctx context.Context) bool {
	raw, ok, err := r.store.Get(ctx, store.KeyOnboardingSeen)
	if err != nil || !ok {
		return false
	}
	var seen bool
	if err := json.Unmarshal(raw, &seen); err != nil {
		// Presence of the slot is enough for legacy values.
		return true
	}
	return seen
}
