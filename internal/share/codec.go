// Package share encodes material drafts into URL-safe strings and decodes
// them back, across the two wire format versions that exist in the wild.
//
// V2 (current) is zstd-compressed JSON in raw URL-safe base64: texture data
// URLs make payloads large, and zstd keeps links short. V1 (legacy) is
// plain base64 of a percent-escaped JSON string and never carried textures.
// Decoding tries V2 first and falls back to V1; the order is fixed, never
// caller-selectable.
package share

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/material"
)

// Payload is a decoded share link. Version is 1 or 2 depending on which
// wire format the link used.
type Payload struct {
	Version         int                  `json:"v"`
	IncludeTextures bool                 `json:"includeTextures,omitempty"`
	Material        domain.MaterialDraft `json:"material"`
}

// zstd encoder/decoder are reused across calls; both are safe for
// concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("share: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(64<<20))
	if err != nil {
		panic("share: zstd decoder initialization failed: " + err.Error())
	}
}

// EncodeV2 serializes a payload in the current wire format. No length cap
// is enforced here; whether to include textures is the caller's call via
// IncludeTextures.
func EncodeV2(p Payload) (string, error) {
	p.Version = 2
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	compressed := zstdEncoder.EncodeAll(raw, nil)
	return base64.RawURLEncoding.EncodeToString(compressed), nil
}

// EncodeV1 serializes a payload in the legacy format. Kept so old links can
// be regenerated for compatibility testing; new links are always V2.
// Texture maps are stripped: V1 never carried them.
func EncodeV1(p Payload) string {
	p.Version = 1
	p.IncludeTextures = false
	p.Material = WithoutTextures(p.Material)
	raw, _ := json.Marshal(p)
	return base64.StdEncoding.EncodeToString([]byte(escapeNonASCII(string(raw))))
}

// decoder is one wire-format strategy: it returns nil when the input is not
// its format. Decode walks the list in order; adding a V3 format later only
// means prepending a strategy.
type decoder func(string) *Payload

var decoders = []decoder{decodeV2, decodeV1}

// Decode parses a share string in any supported format. Every numeric and
// color field of the embedded material is re-coerced and re-clamped, so a
// hand-tampered link cannot inject out-of-range render parameters. Any
// parse failure at any stage yields nil; Decode never panics.
func Decode(encoded string) *Payload {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil
	}
	for _, try := range decoders {
		if p := try(encoded); p != nil {
			return p
		}
	}
	return nil
}

func decodeV2(encoded string) *Payload {
	compressed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		// Tolerate padded variants of the URL-safe alphabet.
		compressed, err = base64.URLEncoding.DecodeString(encoded)
		if err != nil {
			return nil
		}
	}
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	// v is matched loosely (2 or "2"): future producers may stringify it.
	if v, ok := domain.CoerceNumber(obj["v"]); !ok || v != 2 {
		return nil
	}
	mat, ok := obj["material"].(map[string]any)
	if !ok {
		return nil
	}
	include, _ := obj["includeTextures"].(bool)
	return &Payload{
		Version:         2,
		IncludeTextures: include,
		Material:        material.CoerceDraft(mat),
	}
}

func decodeV1(encoded string) *Payload {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	text := string(raw)
	if strings.Contains(text, "%") {
		if unescaped, err := url.PathUnescape(text); err == nil {
			text = unescaped
		}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil
	}
	// Strict here: V1 is a frozen legacy format.
	if v, ok := obj["v"].(float64); !ok || v != 1 {
		return nil
	}
	mat, ok := obj["material"].(map[string]any)
	if !ok {
		return nil
	}
	draft := material.CoerceDraft(mat)
	// V1 payloads never carried textures; a link that smuggles map keys in
	// must not resurrect stale references.
	return &Payload{Version: 1, Material: WithoutTextures(draft)}
}

// WithoutTextures clears every texture map reference from a draft. Used
// when a share link is built without embedded textures, and on every V1
// decode.
func WithoutTextures(d domain.MaterialDraft) domain.MaterialDraft {
	d.BaseColorMap = ""
	d.NormalMap = ""
	d.RoughnessMap = ""
	d.MetalnessMap = ""
	d.AOMap = ""
	d.EmissiveMap = ""
	d.AlphaMap = ""
	return d
}

// escapeNonASCII reproduces the legacy encoder's percent-escaping of
// non-ASCII bytes so V1 strings survive plain base64.
func escapeNonASCII(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 {
			b.WriteByte(c)
			continue
		}
		b.WriteString("%" + strings.ToUpper(hexByte(c)))
	}
	return b.String()
}

func hexByte(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}
