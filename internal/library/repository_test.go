package library

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/store"
)

// failingStore rejects every write. Reads pass through to an inner memory
// store so fixtures can be seeded.
type failingStore struct {
	inner *store.MemoryStore
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("disk full")
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("disk full")
}

func (s *failingStore) Close() error { return nil }

func testMaterials() []domain.Material {
	return []domain.Material{
		{ID: "m1", Name: "Steel", Color: "#A0A0A0", Emissive: "#000000",
			Roughness: 0.4, EmissiveIntensity: 1, Opacity: 1, IOR: 1.5,
			AOIntensity: 1, NormalScale: 1, RepeatX: 1, RepeatY: 1, CreatedAt: 1000},
	}
}

func TestSaveAllLocalOnly(t *testing.T) {
	repo := New(Config{Store: store.NewMemoryStore()})
	if got := repo.Source(); got != SourceLocal {
		t.Fatalf("source: want=%q got=%q", SourceLocal, got)
	}

	result := repo.SaveAll(context.Background(), testMaterials())
	if !result.OK {
		t.Fatalf("save: want ok")
	}
	if result.Remote != SyncNotConfigured {
		t.Fatalf("remote outcome: want=%v got=%v", SyncNotConfigured, result.Remote)
	}

	loaded := repo.LoadAll(context.Background())
	if len(loaded) != 1 || loaded[0].ID != "m1" {
		t.Fatalf("load after save: got %+v", loaded)
	}
}

func TestSaveAllLocalFailureSkipsMirror(t *testing.T) {
	mirrorCalled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mirrorCalled = true
	}))
	defer srv.Close()

	repo := New(Config{
		APIBaseURL: srv.URL,
		Store:      &failingStore{inner: store.NewMemoryStore()},
	})
	result := repo.SaveAll(context.Background(), testMaterials())
	if result.OK {
		t.Fatalf("save: want failure")
	}
	if result.Remote != SyncFailed {
		t.Fatalf("remote outcome: want=%v got=%v", SyncFailed, result.Remote)
	}
	if mirrorCalled {
		t.Fatalf("mirror contacted despite local failure")
	}
}

func TestSaveAllMirrorFailureKeepsLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	mem := store.NewMemoryStore()
	repo := New(Config{APIBaseURL: srv.URL, Store: mem})
	if got := repo.Source(); got != SourceHTTPWithLocal {
		t.Fatalf("source: want=%q got=%q", SourceHTTPWithLocal, got)
	}

	result := repo.SaveAll(context.Background(), testMaterials())
	if !result.OK {
		t.Fatalf("save: want ok despite mirror failure")
	}
	if result.Remote != SyncFailed {
		t.Fatalf("remote outcome: want=%v got=%v", SyncFailed, result.Remote)
	}

	// Local copy survived the failed sync.
	loaded := repo.LoadAll(context.Background())
	if len(loaded) != 1 || loaded[0].ID != "m1" {
		t.Fatalf("local copy lost: got %+v", loaded)
	}
}

func TestSaveAllMirrorSuccess(t *testing.T) {
	var gotBody ExportEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/materials" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("mirror body: %v", err)
		}
	}))
	defer srv.Close()

	repo := New(Config{
		APIBaseURL: srv.URL,
		Store:      store.NewMemoryStore(),
		Now:        func() int64 { return 42 },
	})
	result := repo.SaveAll(context.Background(), testMaterials())
	if !result.OK || result.Remote != SyncSucceeded {
		t.Fatalf("save: want ok+synced, got %+v", result)
	}
	if gotBody.Version != 1 || gotBody.ExportedAt != 42 {
		t.Fatalf("mirror envelope: got %+v", gotBody)
	}
	if len(gotBody.Materials) != 1 || gotBody.Materials[0].ID != "m1" {
		t.Fatalf("mirror materials: got %+v", gotBody.Materials)
	}
}

func TestLoadFromRemoteHydratesLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"materials":[{"id":"r1","name":"Remote"},{"name":"no id, dropped"}]}`))
	}))
	defer srv.Close()

	mem := store.NewMemoryStore()
	repo := New(Config{APIBaseURL: srv.URL, Store: mem})

	materials, ok := repo.LoadFromRemote(context.Background())
	if !ok {
		t.Fatalf("remote load: want ok")
	}
	if len(materials) != 1 || materials[0].ID != "r1" {
		t.Fatalf("remote materials: got %+v", materials)
	}

	// The local slot was refreshed with the hydrated set.
	loaded := repo.LoadAll(context.Background())
	if !reflect.DeepEqual(loaded, materials) {
		t.Fatalf("local slot not hydrated:\nwant=%+v\ngot=%+v", materials, loaded)
	}
}

func TestLoadFromRemoteBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"r1"}]`))
	}))
	defer srv.Close()

	repo := New(Config{APIBaseURL: srv.URL, Store: store.NewMemoryStore()})
	materials, ok := repo.LoadFromRemote(context.Background())
	if !ok || len(materials) != 1 {
		t.Fatalf("bare array: ok=%v materials=%+v", ok, materials)
	}
}

func TestLoadFromRemoteFailures(t *testing.T) {
	repo := New(Config{Store: store.NewMemoryStore()})
	if _, ok := repo.LoadFromRemote(context.Background()); ok {
		t.Fatalf("no mirror configured: want !ok")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	repo = New(Config{APIBaseURL: srv.URL, Store: store.NewMemoryStore()})
	if _, ok := repo.LoadFromRemote(context.Background()); ok {
		t.Fatalf("mirror error: want !ok")
	}
}

func TestLoadAllDropsInvalidRecords(t *testing.T) {
	mem := store.NewMemoryStore()
	raw := []byte(`[{"id":"m1"},{"no":"id"},"junk",42]`)
	if err := mem.Set(context.Background(), store.KeyMaterials, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := New(Config{Store: mem})
	loaded := repo.LoadAll(context.Background())
	if len(loaded) != 1 || loaded[0].ID != "m1" {
		t.Fatalf("want only m1, got %+v", loaded)
	}
}

func TestLoadAllMalformedSlot(t *testing.T) {
	mem := store.NewMemoryStore()
	if err := mem.Set(context.Background(), store.KeyMaterials, []byte(`{"not":"an array"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := New(Config{Store: mem})
	if loaded := repo.LoadAll(context.Background()); len(loaded) != 0 {
		t.Fatalf("malformed slot: want empty, got %+v", loaded)
	}
}

func TestSyncOutcomeJSON(t *testing.T) {
	cases := []struct {
		outcome SyncOutcome
		want    string
	}{
		{SyncNotConfigured, "null"},
		{SyncSucceeded, "true"},
		{SyncFailed, "false"},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(SaveResult{OK: true, Remote: tc.outcome})
		if err != nil {
			t.Fatalf("marshal %v: %v", tc.outcome, err)
		}
		want := `{"ok":true,"remoteSynced":` + tc.want + `}`
		if string(raw) != want {
			t.Fatalf("%v: want=%s got=%s", tc.outcome, want, raw)
		}
	}
}
