package movie

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/mediadex/mediadex/internal/domain"
)

type stubStore struct {
	order   []string
	movies  map[string]domain.Movie
	scenes  map[string]domain.Scene
	labels  map[string][]domain.Label
	actors  map[string][]domain.Actor
	studios map[string]domain.Studio
}

func newStubStore() *stubStore {
	return &stubStore{
		movies:  map[string]domain.Movie{},
		scenes:  map[string]domain.Scene{},
		labels:  map[string][]domain.Label{},
		actors:  map[string][]domain.Actor{},
		studios: map[string]domain.Studio{},
	}
}

func (s *stubStore) add(mv domain.Movie) {
	s.order = append(s.order, mv.ID)
	s.movies[mv.ID] = mv
}

func (s *stubStore) Movies(ctx context.Context) ([]domain.Movie, error) {
	out := make([]domain.Movie, len(s.order))
	for i, id := range s.order {
		out[i] = s.movies[id]
	}
	return out, nil
}

func (s *stubStore) Movie(ctx context.Context, id string) (domain.Movie, error) {
	mv, ok := s.movies[id]
	if !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	return mv, nil
}

func (s *stubStore) Scene(ctx context.Context, id string) (domain.Scene, error) {
	sc, ok := s.scenes[id]
	if !ok {
		return domain.Scene{}, domain.ErrNotFound
	}
	return sc, nil
}

func (s *stubStore) ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error) {
	return s.actors[ownerID], nil
}

func (s *stubStore) LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	return s.labels[ownerID], nil
}

func (s *stubStore) Studio(ctx context.Context, id string) (domain.Studio, error) {
	st, ok := s.studios[id]
	if !ok {
		return domain.Studio{}, domain.ErrNotFound
	}
	return st, nil
}

func TestBuildDocAggregatesScenes(t *testing.T) {
	store := newStubStore()
	store.scenes["sc1"] = domain.Scene{ID: "sc1", Duration: 600, Size: 100, Rating: 4}
	store.scenes["sc2"] = domain.Scene{ID: "sc2", Duration: 900, Size: 200, Rating: 2}
	store.labels["sc1"] = []domain.Label{{ID: "l1", Name: "outdoor"}}
	store.labels["sc2"] = []domain.Label{{ID: "l1", Name: "outdoor"}, {ID: "l2", Name: "night"}}
	store.actors["sc1"] = []domain.Actor{{ID: "ac1", Name: "Jane Doe"}}
	store.actors["sc2"] = []domain.Actor{{ID: "ac1", Name: "Jane Doe"}, {ID: "ac2", Name: "Mary Major"}}
	store.add(domain.Movie{ID: "mv1", Name: "Collection", Scenes: []string{"sc1", "sc2", "sc-gone"}})

	svc := New(store, zap.NewNop())
	doc, err := svc.BuildDoc(context.Background(), store.movies["mv1"])
	if err != nil {
		t.Fatalf("BuildDoc: %v", err)
	}
	if len(doc.Scenes) != 2 {
		t.Errorf("scenes = %v, want the two existing scenes", doc.Scenes)
	}
	if doc.Duration != 1500 {
		t.Errorf("duration = %d, want 1500", doc.Duration)
	}
	if doc.Size != 300 {
		t.Errorf("size = %d, want 300", doc.Size)
	}
	if doc.Rating != 3 {
		t.Errorf("rating = %d, want 3", doc.Rating)
	}
	if len(doc.Labels) != 2 {
		t.Errorf("labels = %v, want deduplicated [l1 l2]", doc.Labels)
	}
	if len(doc.Actors) != 2 {
		t.Errorf("actors = %v, want deduplicated [ac1 ac2]", doc.Actors)
	}
}

func TestSearchByActorName(t *testing.T) {
	store := newStubStore()
	store.scenes["sc1"] = domain.Scene{ID: "sc1"}
	store.actors["sc1"] = []domain.Actor{{ID: "ac1", Name: "Jane Doe"}}
	store.add(domain.Movie{ID: "mv1", Name: "First", Scenes: []string{"sc1"}})
	store.add(domain.Movie{ID: "mv2", Name: "Second"})

	svc := New(store, zap.NewNop())
	if _, err := svc.BuildIndex(context.Background()); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	page, err := svc.Search(context.Background(), "jane", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ids := page.IDs(); len(ids) != 1 || ids[0] != "mv1" {
		t.Errorf("results = %v, want [mv1]", ids)
	}
}

func TestSearchFiltersByDuration(t *testing.T) {
	store := newStubStore()
	store.scenes["sc1"] = domain.Scene{ID: "sc1", Duration: 300}
	store.scenes["sc2"] = domain.Scene{ID: "sc2", Duration: 1200}
	store.add(domain.Movie{ID: "mv1", Name: "Short", Scenes: []string{"sc1"}})
	store.add(domain.Movie{ID: "mv2", Name: "Long", Scenes: []string{"sc2"}})

	svc := New(store, zap.NewNop())
	if _, err := svc.BuildIndex(context.Background()); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	page, err := svc.Search(context.Background(), "duration.min:600", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ids := page.IDs(); len(ids) != 1 || ids[0] != "mv2" {
		t.Errorf("results = %v, want [mv2]", ids)
	}
}

func TestSearchFiltersByStudioList(t *testing.T) {
	store := newStubStore()
	store.studios["st1"] = domain.Studio{ID: "st1", Name: "Alpha"}
	store.add(domain.Movie{ID: "mv1", Name: "One", Studio: "st1"})
	store.add(domain.Movie{ID: "mv2", Name: "Two"})

	svc := New(store, zap.NewNop())
	if _, err := svc.BuildIndex(context.Background()); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	page, err := svc.Search(context.Background(), "studios:st1,st9", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ids := page.IDs(); len(ids) != 1 || ids[0] != "mv1" {
		t.Errorf("results = %v, want [mv1]", ids)
	}
}
