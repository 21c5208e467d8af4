// Package store persists the library's logical collections as whole-value
// JSON slots, mirroring the single key-value slot per collection that the
// front end uses. Readers and writers do full-collection read-modify-write;
// atomicity granularity is the entire slot and the last writer wins.
package store

import "context"

// Slot keys. One slot per logical collection.
const (
	KeyMaterials      = "mattelier:materials"
	KeyManualOrder    = "mattelier:material-order"
	KeyRecentCommands = "mattelier:recent-commands"
	KeyOnboardingSeen = "mattelier:onboarding-seen"
)

// SlotStore is the durable backend the repository writes through. Get
// reports presence separately from errors so an empty library is not a
// failure.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
