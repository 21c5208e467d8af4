// Package material is the single choke-point through which every material
// record enters the system. Untrusted input (storage, remote fetch, JSON
// import, share links) goes through Normalize; locally produced drafts go
// through FromDraft. Nothing else constructs a domain.Material.
package material

import (
	"github.com/mattelier/mattelier-backend/internal/domain"
)

// Normalize converts an arbitrary untrusted value into a well-formed
// Material. It returns nil only for non-object input or input lacking a
// non-empty string id; every other defect is repaired by coercion, clamping
// or defaulting. It never panics, whatever the input.
func Normalize(input any, now int64) *domain.Material {
	obj, ok := input.(map[string]any)
	if !ok {
		return nil
	}
	draft := CoerceDraft(obj)
	if draft.ID == "" {
		return nil
	}
	if draft.CreatedAt <= 0 {
		draft.CreatedAt = now
	}
	m := materialize(draft)
	return &m
}

// materialize copies a complete draft into a Material. The draft must
// already carry an id and createdAt.
func materialize(d domain.MaterialDraft) domain.Material {
	return domain.Material{
		ID:                 d.ID,
		Name:               d.Name,
		Favorite:           d.Favorite,
		Tags:               d.Tags,
		Color:              d.Color,
		Emissive:           d.Emissive,
		Metalness:          d.Metalness,
		Roughness:          d.Roughness,
		EmissiveIntensity:  d.EmissiveIntensity,
		Clearcoat:          d.Clearcoat,
		ClearcoatRoughness: d.ClearcoatRoughness,
		Transmission:       d.Transmission,
		Opacity:            d.Opacity,
		IOR:                d.IOR,
		AlphaTest:          d.AlphaTest,
		AOIntensity:        d.AOIntensity,
		NormalScale:        d.NormalScale,
		RepeatX:            d.RepeatX,
		RepeatY:            d.RepeatY,
		BaseColorMap:       d.BaseColorMap,
		NormalMap:          d.NormalMap,
		RoughnessMap:       d.RoughnessMap,
		MetalnessMap:       d.MetalnessMap,
		AOMap:              d.AOMap,
		EmissiveMap:        d.EmissiveMap,
		AlphaMap:           d.AlphaMap,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}
