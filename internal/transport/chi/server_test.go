package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mediadex/mediadex/internal/domain"
	"github.com/mediadex/mediadex/internal/remote"
	actoruc "github.com/mediadex/mediadex/internal/usecase/actor"
	healthuc "github.com/mediadex/mediadex/internal/usecase/health"
	imageuc "github.com/mediadex/mediadex/internal/usecase/image"
	movieuc "github.com/mediadex/mediadex/internal/usecase/movie"
	sceneuc "github.com/mediadex/mediadex/internal/usecase/scene"
	studiouc "github.com/mediadex/mediadex/internal/usecase/studio"
)

// emptyStore satisfies every entity store contract with empty data. The
// transport tests feed documents through the indexing endpoint instead.
type emptyStore struct{}

func (emptyStore) Scenes(ctx context.Context) ([]domain.Scene, error)  { return nil, nil }
func (emptyStore) Actors(ctx context.Context) ([]domain.Actor, error)  { return nil, nil }
func (emptyStore) Movies(ctx context.Context) ([]domain.Movie, error)  { return nil, nil }
func (emptyStore) Studios(ctx context.Context) ([]domain.Studio, error) {
	return nil, nil
}
func (emptyStore) Images(ctx context.Context) ([]domain.Image, error) { return nil, nil }

func (emptyStore) Scene(ctx context.Context, id string) (domain.Scene, error) {
	return domain.Scene{}, domain.ErrNotFound
}
func (emptyStore) Actor(ctx context.Context, id string) (domain.Actor, error) {
	return domain.Actor{}, domain.ErrNotFound
}
func (emptyStore) Movie(ctx context.Context, id string) (domain.Movie, error) {
	return domain.Movie{}, domain.ErrNotFound
}
func (emptyStore) Studio(ctx context.Context, id string) (domain.Studio, error) {
	return domain.Studio{}, domain.ErrNotFound
}
func (emptyStore) Image(ctx context.Context, id string) (domain.Image, error) {
	return domain.Image{}, domain.ErrNotFound
}

func (emptyStore) ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error) {
	return nil, nil
}
func (emptyStore) LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	return nil, nil
}
func (emptyStore) ViewCount(ctx context.Context, sceneID string) (int, error)      { return 0, nil }
func (emptyStore) SceneCountFor(ctx context.Context, id string) (int, error)       { return 0, nil }
func (emptyStore) ViewCountFor(ctx context.Context, actorID string) (int, error)   { return 0, nil }

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	logger := zap.NewNop()
	store := emptyStore{}

	scenes := sceneuc.New(store, logger)
	actors := actoruc.New(store, logger)
	movies := movieuc.New(store, logger)
	studios := studiouc.New(store, logger)
	images := imageuc.New(store, logger)
	health := healthuc.New(okPinger{}, scenes, actors, movies, studios, images)

	srv := NewServer(scenes, actors, movies, studios, images, health, logger)
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndSearchRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	docs := []sceneuc.Doc{
		{ID: "sc1", Name: "Beach Day", Favorite: true},
		{ID: "sc2", Name: "City Walk"},
	}
	rr := doJSON(t, r, http.MethodPost, "/index/scenes", docs)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status = %d, body %s", rr.Code, rr.Body)
	}

	rr = doJSON(t, r, http.MethodPost, "/index/scenes/search", remote.SearchRequest{Query: "beach"})
	if rr.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rr.Code, rr.Body)
	}
	var resp remote.SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0] != "sc1" {
		t.Errorf("items = %v, want [sc1]", resp.Items)
	}
	if resp.MaxItems != 1 || resp.NumPages != 1 {
		t.Errorf("max_items/num_pages = %d/%d, want 1/1", resp.MaxItems, resp.NumPages)
	}
}

func TestSearchQueryRoute(t *testing.T) {
	r := newTestRouter(t)

	docs := []sceneuc.Doc{
		{ID: "sc1", Name: "Beach Day", Favorite: true},
		{ID: "sc2", Name: "Beach Night"},
	}
	if rr := doJSON(t, r, http.MethodPost, "/index/scenes", docs); rr.Code != http.StatusOK {
		t.Fatalf("index status = %d", rr.Code)
	}

	rr := doJSON(t, r, http.MethodGet, "/search/scenes?query=beach+favorite:true", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rr.Code, rr.Body)
	}
	var resp searchPageResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "sc1" {
		t.Errorf("items = %v, want [sc1]", resp.Items)
	}
}

func TestResetIndexRoute(t *testing.T) {
	r := newTestRouter(t)

	docs := []actoruc.Doc{{ID: "ac1", Name: "Jane Doe"}}
	if rr := doJSON(t, r, http.MethodPost, "/index/actors", docs); rr.Code != http.StatusOK {
		t.Fatalf("index status = %d", rr.Code)
	}

	rr := doJSON(t, r, http.MethodDelete, "/index/actors", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rr.Code)
	}

	rr = doJSON(t, r, http.MethodPost, "/index/actors/search", remote.SearchRequest{Query: "jane"})
	var resp remote.SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("items after reset = %v, want none", resp.Items)
	}
}

func TestUnknownIndexType(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodDelete, "/index/podcasts", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != codeUnknownIndex {
		t.Errorf("code = %q, want %q", resp.Code, codeUnknownIndex)
	}
}

func TestBadQueryReturns400(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/search/scenes?query=sortDir:sideways", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != codeBadQuery {
		t.Errorf("code = %q, want %q", resp.Code, codeBadQuery)
	}
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Status  string         `json:"status"`
		Indexes map[string]int `json:"indexes"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if _, ok := resp.Indexes["scenes"]; !ok {
		t.Errorf("indexes = %v, want scenes entry", resp.Indexes)
	}
}
