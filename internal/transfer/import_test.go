package transfer

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mattelier/mattelier-backend/internal/domain"
)

const testNow = int64(1_700_000_000_000)

func TestCheckImportFileSize(t *testing.T) {
	if err := CheckImportFileSize(MaxImportFileBytes); err != nil {
		t.Fatalf("at limit: %v", err)
	}
	if err := CheckImportFileSize(MaxImportFileBytes + 1); err == nil {
		t.Fatalf("over limit: want error")
	}
	if err := CheckImportFileSize(0); err != nil {
		t.Fatalf("zero: %v", err)
	}
}

func TestParseImportShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"bare-array", `[{"id":"a"},{"id":"b"}]`, 2},
		{"materials-key", `{"materials":[{"id":"a"}]}`, 1},
		{"material-key", `{"material":{"id":"a"}}`, 1},
		{"single-object", `{"id":"a","name":"Solo"}`, 1},
	}
	for _, tc := range cases {
		result := ParseImport(tc.raw, nil, testNow)
		if !result.OK {
			t.Fatalf("%s: want ok, got %q", tc.name, result.Message)
		}
		if len(result.Materials) != tc.want {
			t.Fatalf("%s: want=%d got=%d", tc.name, tc.want, len(result.Materials))
		}
	}
}

func TestParseImportRejectsInvalidJSON(t *testing.T) {
	result := ParseImport("{not json", nil, testNow)
	if result.OK {
		t.Fatalf("want failure")
	}
	if !strings.Contains(result.Message, "not valid JSON") {
		t.Fatalf("message: got %q", result.Message)
	}
}

func TestParseImportRejectsOversizedText(t *testing.T) {
	raw := strings.Repeat("x", MaxImportChars+1)
	result := ParseImport(raw, nil, testNow)
	if result.OK {
		t.Fatalf("want failure")
	}
	if !strings.Contains(result.Message, "too large") {
		t.Fatalf("message: got %q", result.Message)
	}
}

func TestParseImportRejectsTooManyMaterials(t *testing.T) {
	items := make([]string, MaxImportMaterials+1)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":"m%d"}`, i)
	}
	raw := "[" + strings.Join(items, ",") + "]"
	result := ParseImport(raw, nil, testNow)
	if result.OK {
		t.Fatalf("want failure")
	}
	if !strings.Contains(result.Message, "too many materials") {
		t.Fatalf("message: got %q", result.Message)
	}
}

func TestParseImportNoValidMaterials(t *testing.T) {
	cases := []string{
		`[]`,
		`[{"name":"no id"},42,"junk"]`,
		`{"materials":[{"id":""}]}`,
		`"just a string"`,
	}
	for _, raw := range cases {
		result := ParseImport(raw, nil, testNow)
		if result.OK {
			t.Fatalf("ParseImport(%q): want failure", raw)
		}
		if !strings.Contains(result.Message, "no valid materials") {
			t.Fatalf("ParseImport(%q): message %q", raw, result.Message)
		}
	}
}

func TestParseImportRejectsOversizedTexture(t *testing.T) {
	huge := strings.Repeat("A", MaxTextureChars+1)
	obj := map[string]any{"id": "m1", "name": "Heavy", "baseColorMap": huge}
	raw, err := json.Marshal([]any{obj})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	result := ParseImport(string(raw), nil, testNow)
	if result.OK {
		t.Fatalf("want failure")
	}
	if !strings.Contains(result.Message, "oversized texture") {
		t.Fatalf("message: got %q", result.Message)
	}
}

func TestParseImportRemintsCollidingIDs(t *testing.T) {
	existing := []domain.Material{{ID: "m1", Name: "Mine", CreatedAt: 1000}}
	raw := `[{"id":"m1","name":"Theirs","createdAt":2000},{"id":"m2","name":"New"}]`
	result := ParseImport(raw, existing, testNow)
	if !result.OK {
		t.Fatalf("want ok, got %q", result.Message)
	}
	if len(result.Materials) != 2 {
		t.Fatalf("materials: want=2 got=%d", len(result.Materials))
	}

	reminted := result.Materials[0]
	if reminted.ID == "m1" || reminted.ID == "" {
		t.Fatalf("collision not re-minted: id=%q", reminted.ID)
	}
	if reminted.Name != "Theirs" {
		t.Fatalf("name: want=%q got=%q", "Theirs", reminted.Name)
	}
	if reminted.CreatedAt != 2000 {
		t.Fatalf("createdAt: want=2000 got=%d", reminted.CreatedAt)
	}
	if result.Materials[1].ID != "m2" {
		t.Fatalf("non-colliding id changed: %q", result.Materials[1].ID)
	}
	// The existing collection is never modified by an import.
	if existing[0].Name != "Mine" || existing[0].ID != "m1" {
		t.Fatalf("existing mutated: %+v", existing[0])
	}
}

func TestParseImportRemintsInternalDuplicates(t *testing.T) {
	raw := `[{"id":"dup"},{"id":"dup"}]`
	result := ParseImport(raw, nil, testNow)
	if !result.OK {
		t.Fatalf("want ok, got %q", result.Message)
	}
	if result.Materials[0].ID == result.Materials[1].ID {
		t.Fatalf("duplicate ids survived: %q", result.Materials[0].ID)
	}
}

func TestBuildExport(t *testing.T) {
	envelope := BuildExport(nil, testNow)
	if envelope.Version != 1 {
		t.Fatalf("version: want=1 got=%d", envelope.Version)
	}
	if envelope.ExportedAt != testNow {
		t.Fatalf("exportedAt: want=%d got=%d", testNow, envelope.ExportedAt)
	}
	if envelope.Materials == nil {
		t.Fatalf("materials: want empty slice, got nil")
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"materials":[]`) {
		t.Fatalf("empty export body: got %s", raw)
	}
}
