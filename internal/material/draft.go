package material

import (
	"github.com/google/uuid"

	"github.com/mattelier/mattelier-backend/internal/domain"
)

// FromDraft completes a locally trusted draft into a Material. A missing id
// is minted, a missing createdAt is stamped with now, and updatedAt is left
// exactly as the caller set it: creating and updating are the caller's
// distinction, not this function's.
//
// Unlike Normalize, FromDraft deduplicates tags. Drafts accumulate
// duplicates through repeated edits in the UI; imported records keep theirs
// to stay faithful to their source.
func FromDraft(draft domain.MaterialDraft, now int64) domain.Material {
	d := clampDraft(draft)
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt <= 0 {
		d.CreatedAt = now
	}
	d.Tags = dedupeTags(d.Tags)
	return materialize(d)
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
