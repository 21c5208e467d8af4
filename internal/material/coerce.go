package material

import (
	"strings"

	"github.com/mattelier/mattelier-backend/internal/domain"
)

// scalarRule describes one numeric material field: its valid range and the
// value used when the input is absent or unusable.
type scalarRule struct {
	key      string
	min, max float64
	def      float64
	assign   func(*domain.MaterialDraft, float64)
}

var scalarRules = []scalarRule{
	{"metalness", 0, 1, domain.DefaultMetalness, func(d *domain.MaterialDraft, v float64) { d.Metalness = v }},
	{"roughness", 0, 1, domain.DefaultRoughness, func(d *domain.MaterialDraft, v float64) { d.Roughness = v }},
	{"emissiveIntensity", 0, 1, domain.DefaultEmissiveIntensity, func(d *domain.MaterialDraft, v float64) { d.EmissiveIntensity = v }},
	{"clearcoat", 0, 1, domain.DefaultClearcoat, func(d *domain.MaterialDraft, v float64) { d.Clearcoat = v }},
	{"clearcoatRoughness", 0, 1, domain.DefaultClearcoatRoughness, func(d *domain.MaterialDraft, v float64) { d.ClearcoatRoughness = v }},
	{"transmission", 0, 1, domain.DefaultTransmission, func(d *domain.MaterialDraft, v float64) { d.Transmission = v }},
	{"opacity", 0, 1, domain.DefaultOpacity, func(d *domain.MaterialDraft, v float64) { d.Opacity = v }},
	{"ior", domain.MinIOR, domain.MaxIOR, domain.DefaultIOR, func(d *domain.MaterialDraft, v float64) { d.IOR = v }},
	{"alphaTest", 0, 1, domain.DefaultAlpha, func(d *domain.MaterialDraft, v float64) { d.AlphaTest = v }},
	{"aoIntensity", 0, domain.MaxAO, domain.DefaultAO, func(d *domain.MaterialDraft, v float64) { d.AOIntensity = v }},
	{"normalScale", 0, domain.MaxNormal, domain.DefaultNormal, func(d *domain.MaterialDraft, v float64) { d.NormalScale = v }},
	{"repeatX", domain.MinRepeat, domain.MaxRepeat, domain.DefaultRepeat, func(d *domain.MaterialDraft, v float64) { d.RepeatX = v }},
	{"repeatY", domain.MinRepeat, domain.MaxRepeat, domain.DefaultRepeat, func(d *domain.MaterialDraft, v float64) { d.RepeatY = v }},
}

var textureKeys = []struct {
	key    string
	assign func(*domain.MaterialDraft, string)
}{
	{"baseColorMap", func(d *domain.MaterialDraft, v string) { d.BaseColorMap = v }},
	{"normalMap", func(d *domain.MaterialDraft, v string) { d.NormalMap = v }},
	{"roughnessMap", func(d *domain.MaterialDraft, v string) { d.RoughnessMap = v }},
	{"metalnessMap", func(d *domain.MaterialDraft, v string) { d.MetalnessMap = v }},
	{"aoMap", func(d *domain.MaterialDraft, v string) { d.AOMap = v }},
	{"emissiveMap", func(d *domain.MaterialDraft, v string) { d.EmissiveMap = v }},
	{"alphaMap", func(d *domain.MaterialDraft, v string) { d.AlphaMap = v }},
}

// CoerceDraft turns an arbitrary decoded-JSON object into a draft whose
// every field satisfies the documented bounds. It does not require an id
// and never rejects: unusable fields take their defaults. Share-link
// decoding and the normalizer both build on it.
func CoerceDraft(obj map[string]any) domain.MaterialDraft {
	var d domain.MaterialDraft

	if id, ok := obj["id"].(string); ok {
		d.ID = strings.TrimSpace(id)
	}
	d.Name = coerceName(obj["name"])
	if fav, ok := obj["favorite"].(bool); ok {
		d.Favorite = fav
	}
	d.Tags = coerceTags(obj["tags"])

	d.Color = coerceColor(obj["color"], domain.DefaultColor)
	d.Emissive = coerceColor(obj["emissive"], domain.DefaultEmissive)

	for _, rule := range scalarRules {
		v, ok := domain.CoerceNumber(obj[rule.key])
		if !ok {
			v = rule.def
		}
		rule.assign(&d, domain.Clamp(v, rule.min, rule.max))
	}

	for _, tex := range textureKeys {
		if s, ok := obj[tex.key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				tex.assign(&d, s)
			}
		}
	}

	if ts, ok := domain.CoerceNumber(obj["createdAt"]); ok && ts > 0 {
		d.CreatedAt = int64(ts)
	}
	if ts, ok := domain.CoerceNumber(obj["updatedAt"]); ok && ts > 0 {
		d.UpdatedAt = int64(ts)
	}
	return d
}

// clampDraft applies the same bounds to an already-typed draft. Drafts
// arriving through the API are structurally sound but their values are
// still caller-controlled.
func clampDraft(d domain.MaterialDraft) domain.MaterialDraft {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = coerceName(d.Name)
	d.Color = coerceColor(d.Color, domain.DefaultColor)
	d.Emissive = coerceColor(d.Emissive, domain.DefaultEmissive)

	d.Metalness = domain.Clamp01(d.Metalness)
	d.Roughness = domain.Clamp01(d.Roughness)
	d.EmissiveIntensity = domain.Clamp01(d.EmissiveIntensity)
	d.Clearcoat = domain.Clamp01(d.Clearcoat)
	d.ClearcoatRoughness = domain.Clamp01(d.ClearcoatRoughness)
	d.Transmission = domain.Clamp01(d.Transmission)
	d.Opacity = domain.Clamp01(d.Opacity)
	d.IOR = domain.Clamp(d.IOR, domain.MinIOR, domain.MaxIOR)
	d.AlphaTest = domain.Clamp01(d.AlphaTest)
	d.AOIntensity = domain.Clamp(d.AOIntensity, 0, domain.MaxAO)
	d.NormalScale = domain.Clamp(d.NormalScale, 0, domain.MaxNormal)
	d.RepeatX = domain.Clamp(d.RepeatX, domain.MinRepeat, domain.MaxRepeat)
	d.RepeatY = domain.Clamp(d.RepeatY, domain.MinRepeat, domain.MaxRepeat)

	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}
	d.Tags = tags

	d.BaseColorMap = strings.TrimSpace(d.BaseColorMap)
	d.NormalMap = strings.TrimSpace(d.NormalMap)
	d.RoughnessMap = strings.TrimSpace(d.RoughnessMap)
	d.MetalnessMap = strings.TrimSpace(d.MetalnessMap)
	d.AOMap = strings.TrimSpace(d.AOMap)
	d.EmissiveMap = strings.TrimSpace(d.EmissiveMap)
	d.AlphaMap = strings.TrimSpace(d.AlphaMap)
	return d
}

func coerceName(v any) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.DefaultName
	}
	if runes := []rune(s); len(runes) > domain.MaxNameLength {
		s = string(runes[:domain.MaxNameLength])
	}
	return s
}

func coerceColor(v any, fallback string) string {
	s, _ := v.(string)
	return domain.NormalizeHexColor(s, fallback)
}

func coerceTags(v any) []string {
	var raw []string
	switch list := v.(type) {
	case []string:
		raw = list
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
