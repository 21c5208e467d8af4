package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mattelier/mattelier-backend/internal/library"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
	"github.com/mattelier/mattelier-backend/internal/store"
)

func newTestRouter() (*gin.Engine, *library.Repository) {
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	repo := library.New(library.Config{Store: store.NewMemoryStore(), Logger: log})

	r := gin.New()
	api := r.Group("/api")
	m := NewMaterialHandler(log, repo)
	api.GET("/materials", m.ListMaterials)
	api.PUT("/materials", m.SaveMaterials)
	api.POST("/materials/complete", m.CompleteDraft)
	api.POST("/materials/sync", m.SyncFromRemote)
	s := NewShareHandler(log)
	api.POST("/share/encode", s.Encode)
	api.POST("/share/decode", s.Decode)
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListMaterialsEmpty(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/api/materials", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	var resp struct {
		Materials []any  `json:"materials"`
		Source    string `json:"source"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Materials == nil {
		t.Fatalf("materials: want [], got null")
	}
	if resp.Source != library.SourceLocal {
		t.Fatalf("source: want=%q got=%q", library.SourceLocal, resp.Source)
	}
}

func TestSaveAndListMaterials(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPut, "/api/materials", map[string]any{
		"materials": []any{
			map[string]any{"id": "m1", "name": "Steel", "metalness": 7},
			map[string]any{"name": "dropped, no id"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body)
	}
	var saveResp struct {
		OK           bool  `json:"ok"`
		RemoteSynced *bool `json:"remoteSynced"`
		Saved        int   `json:"saved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saveResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !saveResp.OK || saveResp.Saved != 1 {
		t.Fatalf("save: got %+v", saveResp)
	}
	if saveResp.RemoteSynced != nil {
		t.Fatalf("remoteSynced: want null, got %v", *saveResp.RemoteSynced)
	}

	w = doJSON(t, r, http.MethodGet, "/api/materials", nil)
	var listResp struct {
		Materials []map[string]any `json:"materials"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.Materials) != 1 {
		t.Fatalf("materials: want=1 got=%d", len(listResp.Materials))
	}
	if got := listResp.Materials[0]["metalness"].(float64); got != 1 {
		t.Fatalf("metalness not clamped: got=%v", got)
	}
}

func TestCompleteDraft(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/materials/complete", map[string]any{
		"draft": map[string]any{"name": "Fresh"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body)
	}
	var resp struct {
		Material map[string]any `json:"material"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id, _ := resp.Material["id"].(string); id == "" {
		t.Fatalf("id not minted: %v", resp.Material)
	}
	if upd, ok := resp.Material["updatedAt"]; ok && upd.(float64) != 0 {
		t.Fatalf("new draft got updatedAt: %v", upd)
	}

	// A draft with an id is an edit and gets updatedAt stamped.
	w = doJSON(t, r, http.MethodPost, "/api/materials/complete", map[string]any{
		"draft": map[string]any{"id": "m1", "name": "Edited"},
	})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if upd, _ := resp.Material["updatedAt"].(float64); upd <= 0 {
		t.Fatalf("edit missing updatedAt: %v", resp.Material)
	}
}

func TestSyncWithoutMirror(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/materials/sync", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status: want=409 got=%d", w.Code)
	}
}

func TestShareEncodeDecodeRoundTrip(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/share/encode", map[string]any{
		"material":        map[string]any{"id": "m1", "name": "Linked", "baseColorMap": "data:x"},
		"includeTextures": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("encode status: want=200 got=%d body=%s", w.Code, w.Body)
	}
	var encResp struct {
		Encoded string `json:"encoded"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &encResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if encResp.Encoded == "" {
		t.Fatalf("empty encoded payload")
	}

	w = doJSON(t, r, http.MethodPost, "/api/share/decode", map[string]any{"encoded": encResp.Encoded})
	if w.Code != http.StatusOK {
		t.Fatalf("decode status: want=200 got=%d body=%s", w.Code, w.Body)
	}
	var decResp struct {
		V        int            `json:"v"`
		Material map[string]any `json:"material"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &decResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decResp.V != 2 {
		t.Fatalf("version: want=2 got=%d", decResp.V)
	}
	if decResp.Material["name"] != "Linked" {
		t.Fatalf("name: got %v", decResp.Material["name"])
	}
	if tex, ok := decResp.Material["baseColorMap"]; ok && tex != "" {
		t.Fatalf("texture survived includeTextures=false: %v", tex)
	}
}

func TestShareDecodeGarbage(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/share/decode", map[string]any{"encoded": "!!!"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want=422 got=%d", w.Code)
	}
}
