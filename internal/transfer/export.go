package transfer

import (
	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/library"
)

// BuildExport wraps the collection in the export envelope. The shape
// mirrors the remote mirror's PUT body, so an export file can hydrate a
// mirror directly.
func BuildExport(materials []domain.Material, now int64) library.ExportEnvelope {
	if materials == nil {
		materials = []domain.Material{}
	}
	return library.ExportEnvelope{Version: 1, ExportedAt: now, Materials: materials}
}
