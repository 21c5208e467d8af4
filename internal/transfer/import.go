// Package transfer handles bulk movement of materials in and out of the
// library: JSON import with size/count ceilings and the export envelope.
package transfer

import (
	"encoding/json"
	"fmt"

	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/material"
)

const (
	// MaxImportFileBytes bounds the file before its contents are read, so
	// huge payloads are rejected without decoding them into memory.
	MaxImportFileBytes = 8 << 20
	// MaxImportChars bounds the decoded text.
	MaxImportChars = 12_000_000
	// MaxImportMaterials bounds the candidate count.
	MaxImportMaterials = 600
	// MaxTextureChars bounds a single embedded texture data URL.
	MaxTextureChars = 2_500_000
)

// Result is the outcome of ParseImport. Message is human-readable and
// specific enough to surface to the user directly.
type Result struct {
	OK        bool              `json:"ok"`
	Materials []domain.Material `json:"materials,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func failf(format string, args ...any) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

// CheckImportFileSize rejects oversized files before their contents are
// read.
func CheckImportFileSize(sizeBytes int64) error {
	if sizeBytes > MaxImportFileBytes {
		return fmt.Errorf("import file is too large (%d bytes, limit %d)", sizeBytes, MaxImportFileBytes)
	}
	return nil
}

// ParseImport validates a raw JSON import against the current library. It
// is total: any input, however hostile, yields a Result rather than a
// panic. Surviving materials whose ids collide with existing ones are
// re-minted as new records; existing materials are never overwritten by an
// import.
func ParseImport(raw string, existing []domain.Material, now int64) Result {
	if len(raw) > MaxImportChars {
		return failf("import payload is too large (%d characters, limit %d)", len(raw), MaxImportChars)
	}
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return failf("import is not valid JSON: %v", err)
	}

	candidates := detectCandidates(parsed)
	if len(candidates) > MaxImportMaterials {
		return failf("too many materials in import (%d, limit %d)", len(candidates), MaxImportMaterials)
	}

	materials := make([]domain.Material, 0, len(candidates))
	for _, c := range candidates {
		if m := material.Normalize(c, now); m != nil {
			materials = append(materials, *m)
		}
	}
	if len(materials) == 0 {
		return failf("no valid materials found in import")
	}

	for _, m := range materials {
		for name, ref := range m.TextureMaps() {
			if len(ref) > MaxTextureChars {
				return failf("material %q embeds an oversized texture (%s, %d characters); importing it risks exceeding storage limits", m.Name, name, len(ref))
			}
		}
	}

	taken := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		taken[m.ID] = struct{}{}
	}
	for i, m := range materials {
		if _, collides := taken[m.ID]; collides {
			draft := m.Draft()
			draft.ID = ""
			materials[i] = material.FromDraft(draft, now)
		}
		taken[materials[i].ID] = struct{}{}
	}
	return Result{OK: true, Materials: materials}
}

// detectCandidates resolves the accepted import shapes into one candidate
// list: a bare array, `{materials: [...]}`, `{material: {...}}`, or, as a
// last resort, the parsed value itself as a single candidate.
func detectCandidates(parsed any) []any {
	switch v := parsed.(type) {
	case []any:
		return v
	case map[string]any:
		if list, ok := v["materials"].([]any); ok {
			return list
		}
		if single, ok := v["material"].(map[string]any); ok {
			return []any{single}
		}
	}
	return []any{parsed}
}
