package domain

// Field bounds and defaults for every Material scalar. Both the normalizer
// and the draft builder apply exactly these rules, so a record is
// well-formed no matter which path it entered through.
const (
	DefaultName     = "Untitled"
	MaxNameLength   = 120
	DefaultColor    = "#FFFFFF"
	DefaultEmissive = "#000000"

	DefaultMetalness          = 0.0
	DefaultRoughness          = 1.0
	DefaultEmissiveIntensity  = 1.0
	DefaultClearcoat          = 0.0
	DefaultClearcoatRoughness = 0.0
	DefaultTransmission       = 0.0
	DefaultOpacity            = 1.0

	DefaultIOR    = 1.5
	MinIOR        = 1.0
	MaxIOR        = 2.5
	DefaultAlpha  = 0.0
	DefaultAO     = 1.0
	MaxAO         = 2.0
	DefaultNormal = 1.0
	MaxNormal     = 2.0
	DefaultRepeat = 1.0
	MinRepeat     = 0.01
	MaxRepeat     = 20.0
)

// Material is a persisted, trusted PBR parameter set. Every record that
// exists in the system satisfies the bounds above.
type Material struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Favorite bool     `json:"favorite,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	Color    string `json:"color"`
	Emissive string `json:"emissive"`

	Metalness          float64 `json:"metalness"`
	Roughness          float64 `json:"roughness"`
	EmissiveIntensity  float64 `json:"emissiveIntensity"`
	Clearcoat          float64 `json:"clearcoat"`
	ClearcoatRoughness float64 `json:"clearcoatRoughness"`
	Transmission       float64 `json:"transmission"`
	Opacity            float64 `json:"opacity"`
	IOR                float64 `json:"ior"`
	AlphaTest          float64 `json:"alphaTest"`
	AOIntensity        float64 `json:"aoIntensity"`
	NormalScale        float64 `json:"normalScale"`
	RepeatX            float64 `json:"repeatX"`
	RepeatY            float64 `json:"repeatY"`

	BaseColorMap string `json:"baseColorMap,omitempty"`
	NormalMap    string `json:"normalMap,omitempty"`
	RoughnessMap string `json:"roughnessMap,omitempty"`
	MetalnessMap string `json:"metalnessMap,omitempty"`
	AOMap        string `json:"aoMap,omitempty"`
	EmissiveMap  string `json:"emissiveMap,omitempty"`
	AlphaMap     string `json:"alphaMap,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// MaterialDraft is an in-progress edit: same shape as Material, but
// identity and timestamps may be unset. A draft becomes a Material only
// through the draft builder.
type MaterialDraft struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Favorite bool     `json:"favorite,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	Color    string `json:"color"`
	Emissive string `json:"emissive"`

	Metalness          float64 `json:"metalness"`
	Roughness          float64 `json:"roughness"`
	EmissiveIntensity  float64 `json:"emissiveIntensity"`
	Clearcoat          float64 `json:"clearcoat"`
	ClearcoatRoughness float64 `json:"clearcoatRoughness"`
	Transmission       float64 `json:"transmission"`
	Opacity            float64 `json:"opacity"`
	IOR                float64 `json:"ior"`
	AlphaTest          float64 `json:"alphaTest"`
	AOIntensity        float64 `json:"aoIntensity"`
	NormalScale        float64 `json:"normalScale"`
	RepeatX            float64 `json:"repeatX"`
	RepeatY            float64 `json:"repeatY"`

	BaseColorMap string `json:"baseColorMap,omitempty"`
	NormalMap    string `json:"normalMap,omitempty"`
	RoughnessMap string `json:"roughnessMap,omitempty"`
	MetalnessMap string `json:"metalnessMap,omitempty"`
	AOMap        string `json:"aoMap,omitempty"`
	EmissiveMap  string `json:"emissiveMap,omitempty"`
	AlphaMap     string `json:"alphaMap,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// Draft converts a persisted material back into draft form, e.g. for
// sharing or duplication.
func (m Material) Draft() MaterialDraft {
	return MaterialDraft{
		ID:                 m.ID,
		Name:               m.Name,
		Favorite:           m.Favorite,
		Tags:               append([]string(nil), m.Tags...),
		Color:              m.Color,
		Emissive:           m.Emissive,
		Metalness:          m.Metalness,
		Roughness:          m.Roughness,
		EmissiveIntensity:  m.EmissiveIntensity,
		Clearcoat:          m.Clearcoat,
		ClearcoatRoughness: m.ClearcoatRoughness,
		Transmission:       m.Transmission,
		Opacity:            m.Opacity,
		IOR:                m.IOR,
		AlphaTest:          m.AlphaTest,
		AOIntensity:        m.AOIntensity,
		NormalScale:        m.NormalScale,
		RepeatX:            m.RepeatX,
		RepeatY:            m.RepeatY,
		BaseColorMap:       m.BaseColorMap,
		NormalMap:          m.NormalMap,
		RoughnessMap:       m.RoughnessMap,
		MetalnessMap:       m.MetalnessMap,
		AOMap:              m.AOMap,
		EmissiveMap:        m.EmissiveMap,
		AlphaMap:           m.AlphaMap,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// TextureMaps returns the texture map references present on the material,
// keyed by their wire field name.
func (m Material) TextureMaps() map[string]string {
	maps := map[string]string{
		"baseColorMap": m.BaseColorMap,
		"normalMap":    m.NormalMap,
		"roughnessMap": m.RoughnessMap,
		"metalnessMap": m.MetalnessMap,
		"aoMap":        m.AOMap,
		"emissiveMap":  m.EmissiveMap,
		"alphaMap":     m.AlphaMap,
	}
	for k, v := range maps {
		if v == "" {
			delete(maps, k)
		}
	}
	return maps
}
