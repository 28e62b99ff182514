package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mediadex/mediadex/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewIDPrefix(t *testing.T) {
	id := NewID(ScenePrefix)
	if !strings.HasPrefix(id, "sc_") {
		t.Errorf("id = %q, want sc_ prefix", id)
	}
	if id == NewID(ScenePrefix) {
		t.Error("two minted ids collided")
	}
}

func TestSceneRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sc, err := store.PutScene(ctx, domain.Scene{
		Name: "Beach Day", AddedOn: 100, Rating: 4, Favorite: true,
		Duration: 600, Size: 1 << 30, Resolution: 1080,
	})
	if err != nil {
		t.Fatalf("PutScene: %v", err)
	}

	got, err := store.SceneStore().Scene(ctx, sc.ID)
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	if got.Name != "Beach Day" || !got.Favorite || got.Resolution != 1080 {
		t.Errorf("got %+v", got)
	}

	all, err := store.SceneStore().Scenes(ctx)
	if err != nil {
		t.Fatalf("Scenes: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("scenes = %d, want 1", len(all))
	}
}

func TestSceneNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.SceneStore().Scene(context.Background(), "sc_missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestActorAliasesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ac, err := store.PutActor(ctx, domain.Actor{
		Name: "Jane Doe", Aliases: []string{"JD", "Janie"},
	})
	if err != nil {
		t.Fatalf("PutActor: %v", err)
	}

	got, err := store.ActorStore().Actor(ctx, ac.ID)
	if err != nil {
		t.Fatalf("Actor: %v", err)
	}
	if len(got.Aliases) != 2 || got.Aliases[0] != "JD" {
		t.Errorf("aliases = %v, want [JD Janie]", got.Aliases)
	}
}

func TestLabelAndActorLinks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sc, _ := store.PutScene(ctx, domain.Scene{Name: "S"})
	ac, _ := store.PutActor(ctx, domain.Actor{Name: "A"})
	lb, _ := store.PutLabel(ctx, domain.Label{Name: "outdoor"})

	if err := store.AttachActor(ctx, sc.ID, ac.ID); err != nil {
		t.Fatalf("AttachActor: %v", err)
	}
	if err := store.AttachActor(ctx, sc.ID, ac.ID); err != nil {
		t.Fatalf("AttachActor twice: %v", err)
	}
	if err := store.AttachLabel(ctx, sc.ID, lb.ID); err != nil {
		t.Fatalf("AttachLabel: %v", err)
	}

	actors, err := store.SceneStore().ActorsFor(ctx, sc.ID)
	if err != nil {
		t.Fatalf("ActorsFor: %v", err)
	}
	if len(actors) != 1 || actors[0].ID != ac.ID {
		t.Errorf("actors = %v, want one link", actors)
	}

	labels, err := store.SceneStore().LabelsFor(ctx, sc.ID)
	if err != nil {
		t.Fatalf("LabelsFor: %v", err)
	}
	if len(labels) != 1 || labels[0].Name != "outdoor" {
		t.Errorf("labels = %v, want [outdoor]", labels)
	}
}

func TestViewCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sc, _ := store.PutScene(ctx, domain.Scene{Name: "S"})
	ac, _ := store.PutActor(ctx, domain.Actor{Name: "A"})
	if err := store.AttachActor(ctx, sc.ID, ac.ID); err != nil {
		t.Fatalf("AttachActor: %v", err)
	}

	for i := int64(0); i < 3; i++ {
		if err := store.AddView(ctx, sc.ID, 1000+i); err != nil {
			t.Fatalf("AddView: %v", err)
		}
	}

	n, err := store.SceneStore().ViewCount(ctx, sc.ID)
	if err != nil {
		t.Fatalf("ViewCount: %v", err)
	}
	if n != 3 {
		t.Errorf("scene views = %d, want 3", n)
	}

	n, err = store.ActorStore().ViewCountFor(ctx, ac.ID)
	if err != nil {
		t.Fatalf("ViewCountFor: %v", err)
	}
	if n != 3 {
		t.Errorf("actor views = %d, want 3", n)
	}

	n, err = store.ActorStore().SceneCountFor(ctx, ac.ID)
	if err != nil {
		t.Fatalf("SceneCountFor: %v", err)
	}
	if n != 1 {
		t.Errorf("actor scenes = %d, want 1", n)
	}
}

func TestMovieSceneMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sc1, _ := store.PutScene(ctx, domain.Scene{Name: "One"})
	sc2, _ := store.PutScene(ctx, domain.Scene{Name: "Two"})
	mv, err := store.PutMovie(ctx, domain.Movie{
		Name: "Collection", Scenes: []string{sc2.ID, sc1.ID},
	})
	if err != nil {
		t.Fatalf("PutMovie: %v", err)
	}

	got, err := store.MovieStore().Movie(ctx, mv.ID)
	if err != nil {
		t.Fatalf("Movie: %v", err)
	}
	if len(got.Scenes) != 2 || got.Scenes[0] != sc2.ID {
		t.Errorf("scenes = %v, want ordered [%s %s]", got.Scenes, sc2.ID, sc1.ID)
	}

	// Replacing the movie replaces its membership list.
	mv.Scenes = []string{sc1.ID}
	if _, err := store.PutMovie(ctx, mv); err != nil {
		t.Fatalf("PutMovie replace: %v", err)
	}
	got, err = store.MovieStore().Movie(ctx, mv.ID)
	if err != nil {
		t.Fatalf("Movie after replace: %v", err)
	}
	if len(got.Scenes) != 1 || got.Scenes[0] != sc1.ID {
		t.Errorf("scenes = %v, want [%s]", got.Scenes, sc1.ID)
	}
}

func TestStudioSceneCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	st, _ := store.PutStudio(ctx, domain.Studio{Name: "Alpha"})
	store.PutScene(ctx, domain.Scene{Name: "One", Studio: st.ID})
	store.PutScene(ctx, domain.Scene{Name: "Two", Studio: st.ID})
	store.PutScene(ctx, domain.Scene{Name: "Other"})

	n, err := store.StudioStore().SceneCountFor(ctx, st.ID)
	if err != nil {
		t.Fatalf("SceneCountFor: %v", err)
	}
	if n != 2 {
		t.Errorf("scene count = %d, want 2", n)
	}
}

func TestImageRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sc, _ := store.PutScene(ctx, domain.Scene{Name: "Beach Day"})
	img, err := store.PutImage(ctx, domain.Image{Name: "Still 1", Scene: sc.ID})
	if err != nil {
		t.Fatalf("PutImage: %v", err)
	}

	got, err := store.ImageStore().Image(ctx, img.ID)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got.Scene != sc.ID {
		t.Errorf("scene = %q, want %q", got.Scene, sc.ID)
	}
}
