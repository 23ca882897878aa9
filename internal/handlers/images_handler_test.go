package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

type fakeStore struct {
	mu      sync.Mutex
	records []imagemodels.Record
	listErr error
	lists   int
}

func (s *fakeStore) List(ctx context.Context) ([]imagemodels.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]imagemodels.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore) Insert(ctx context.Context, rec imagemodels.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

type fakeCache struct {
	records     []imagemodels.Record
	hit         bool
	getErr      error
	sets        int
	invalidated int
}

func (c *fakeCache) Get(ctx context.Context) ([]imagemodels.Record, bool, error) {
	return c.records, c.hit, c.getErr
}

func (c *fakeCache) Set(ctx context.Context, records []imagemodels.Record) error {
	c.sets++
	c.records = records
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	c.hit = false
	return nil
}

func newImagesRouter(t *testing.T, st *fakeStore, cache ListingCache, assetDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewImagesHandler(st, cache, assetDir, nil).RegisterRoutes(router)
	return router
}

func decodeRecords(t *testing.T, body string) []imagemodels.Record {
	t.Helper()
	var out []imagemodels.Record
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return out
}

func TestListImages_FromStore(t *testing.T) {
	st := &fakeStore{records: []imagemodels.Record{
		{ID: "abc123", Category: "nature", Summary: "a tree"},
		{ID: "def456", Category: "food", Summary: "a pie"},
	}}
	cache := &fakeCache{}
	router := newImagesRouter(t, st, cache, t.TempDir())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := decodeRecords(t, w.Body.String())
	if len(got) != 2 || got[0].ID != "abc123" || got[1].ID != "def456" {
		t.Fatalf("unexpected records %+v", got)
	}
	if cache.sets != 1 {
		t.Fatalf("expected listing to be cached, sets=%d", cache.sets)
	}
}

func TestListImages_EmptyIsArray(t *testing.T) {
	router := newImagesRouter(t, &fakeStore{records: []imagemodels.Record{}}, nil, t.TempDir())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images", nil))
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected [], got %q", w.Body.String())
	}
}

func TestListImages_CacheHitSkipsStore(t *testing.T) {
	st := &fakeStore{}
	cache := &fakeCache{hit: true, records: []imagemodels.Record{{ID: "cached"}}}
	router := newImagesRouter(t, st, cache, t.TempDir())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images", nil))
	got := decodeRecords(t, w.Body.String())
	if len(got) != 1 || got[0].ID != "cached" {
		t.Fatalf("expected cached listing, got %+v", got)
	}
	if st.lists != 0 {
		t.Fatalf("expected store not to be queried, got %d", st.lists)
	}
}

func TestListImages_CacheErrorFallsBack(t *testing.T) {
	st := &fakeStore{records: []imagemodels.Record{{ID: "db"}}}
	cache := &fakeCache{getErr: errors.New("redis down")}
	router := newImagesRouter(t, st, cache, t.TempDir())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decodeRecords(t, w.Body.String()); len(got) != 1 || got[0].ID != "db" {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestListImages_StoreError(t *testing.T) {
	router := newImagesRouter(t, &fakeStore{listErr: errors.New("connection refused")}, nil, t.TempDir())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRegisterImage(t *testing.T) {
	assetDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(assetDir, "abc123"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	st := &fakeStore{}
	cache := &fakeCache{hit: true}
	router := newImagesRouter(t, st, cache, assetDir)

	body := `{"id":"abc123","category":"nature","summary":"a tree"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/images", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(st.records) != 1 || st.records[0].Summary != "a tree" {
		t.Fatalf("unexpected stored records %+v", st.records)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation, got %d", cache.invalidated)
	}
}

func TestRegisterImage_DefaultsCategory(t *testing.T) {
	assetDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(assetDir, "abc123"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	st := &fakeStore{}
	router := newImagesRouter(t, st, nil, assetDir)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/images", strings.NewReader(`{"id":"abc123"}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if st.records[0].Category != imagemodels.DefaultCategory {
		t.Fatalf("expected default category, got %q", st.records[0].Category)
	}
}

func TestRegisterImage_Rejections(t *testing.T) {
	router := newImagesRouter(t, &fakeStore{}, nil, t.TempDir())

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing id", `{"summary":"x"}`, http.StatusBadRequest},
		{"path traversal", `{"id":"../etc/passwd"}`, http.StatusBadRequest},
		{"unknown asset", `{"id":"nothere"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/images", strings.NewReader(tc.body)))
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestAssets_ServedByID(t *testing.T) {
	assetDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(assetDir, "abc123"), []byte("image-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	router := newImagesRouter(t, &fakeStore{}, nil, assetDir)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/abc123", nil))
	if w.Code != http.StatusOK || w.Body.String() != "image-bytes" {
		t.Fatalf("unexpected asset response %d %q", w.Code, w.Body.String())
	}
}
