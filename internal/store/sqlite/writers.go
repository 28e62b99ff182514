package sqlite

import (
	"context"
	"fmt"

	"github.com/mediadex/mediadex/internal/domain"
)

// PutScene inserts or replaces a scene, minting an id when absent.
func (s *Store) PutScene(ctx context.Context, sc domain.Scene) (domain.Scene, error) {
	if sc.ID == "" {
		sc.ID = NewID(ScenePrefix)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scenes
		(id, name, description, added_on, release_date, rating, favorite, bookmark, studio_id, duration, size, resolution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.Description, sc.AddedOn, sc.ReleaseDate, sc.Rating,
		boolToInt(sc.Favorite), sc.Bookmark, sc.Studio, sc.Duration, sc.Size, sc.Resolution)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("storing scene %s: %w", sc.ID, err)
	}
	return sc, nil
}

// PutActor inserts or replaces an actor, minting an id when absent.
func (s *Store) PutActor(ctx context.Context, ac domain.Actor) (domain.Actor, error) {
	if ac.ID == "" {
		ac.ID = NewID(ActorPrefix)
	}
	aliases, err := marshalAliases(ac.Aliases)
	if err != nil {
		return domain.Actor{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO actors
		(id, name, aliases, added_on, born_on, rating, favorite, bookmark)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ac.ID, ac.Name, aliases, ac.AddedOn, ac.BornOn, ac.Rating,
		boolToInt(ac.Favorite), ac.Bookmark)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("storing actor %s: %w", ac.ID, err)
	}
	return ac, nil
}

// PutMovie inserts or replaces a movie and its scene membership list,
// minting an id when absent.
func (s *Store) PutMovie(ctx context.Context, mv domain.Movie) (domain.Movie, error) {
	if mv.ID == "" {
		mv.ID = NewID(MoviePrefix)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO movies
		(id, name, added_on, release_date, favorite, bookmark, studio_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		mv.ID, mv.Name, mv.AddedOn, mv.ReleaseDate,
		boolToInt(mv.Favorite), mv.Bookmark, mv.Studio)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("storing movie %s: %w", mv.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM movie_scenes WHERE movie_id = ?", mv.ID); err != nil {
		return domain.Movie{}, fmt.Errorf("clearing scenes for movie %s: %w", mv.ID, err)
	}
	for i, sceneID := range mv.Scenes {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO movie_scenes (movie_id, scene_id, position) VALUES (?, ?, ?)",
			mv.ID, sceneID, i)
		if err != nil {
			return domain.Movie{}, fmt.Errorf("linking scene %s to movie %s: %w", sceneID, mv.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Movie{}, fmt.Errorf("committing movie %s: %w", mv.ID, err)
	}
	return mv, nil
}

// PutStudio inserts or replaces a studio, minting an id when absent.
func (s *Store) PutStudio(ctx context.Context, st domain.Studio) (domain.Studio, error) {
	if st.ID == "" {
		st.ID = NewID(StudioPrefix)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO studios
		(id, name, added_on, favorite, bookmark, parent_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID, st.Name, st.AddedOn, boolToInt(st.Favorite), st.Bookmark, st.Parent)
	if err != nil {
		return domain.Studio{}, fmt.Errorf("storing studio %s: %w", st.ID, err)
	}
	return st, nil
}

// PutImage inserts or replaces an image, minting an id when absent.
func (s *Store) PutImage(ctx context.Context, img domain.Image) (domain.Image, error) {
	if img.ID == "" {
		img.ID = NewID(ImagePrefix)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO images
		(id, name, added_on, rating, favorite, bookmark, scene_id, studio_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.Name, img.AddedOn, img.Rating,
		boolToInt(img.Favorite), img.Bookmark, img.Scene, img.Studio)
	if err != nil {
		return domain.Image{}, fmt.Errorf("storing image %s: %w", img.ID, err)
	}
	return img, nil
}

// PutLabel inserts or replaces a label, minting an id when absent.
func (s *Store) PutLabel(ctx context.Context, l domain.Label) (domain.Label, error) {
	if l.ID == "" {
		l.ID = NewID(LabelPrefix)
	}
	aliases, err := marshalAliases(l.Aliases)
	if err != nil {
		return domain.Label{}, err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO labels (id, name, aliases) VALUES (?, ?, ?)",
		l.ID, l.Name, aliases)
	if err != nil {
		return domain.Label{}, fmt.Errorf("storing label %s: %w", l.ID, err)
	}
	return l, nil
}

// AttachLabel links a label to an entity. Re-attaching is a no-op.
func (s *Store) AttachLabel(ctx context.Context, ownerID, labelID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO label_links (label_id, owner_id) VALUES (?, ?)",
		labelID, ownerID)
	if err != nil {
		return fmt.Errorf("attaching label %s to %s: %w", labelID, ownerID, err)
	}
	return nil
}

// AttachActor links an actor to an entity. Re-attaching is a no-op.
func (s *Store) AttachActor(ctx context.Context, ownerID, actorID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO actor_links (actor_id, owner_id) VALUES (?, ?)",
		actorID, ownerID)
	if err != nil {
		return fmt.Errorf("attaching actor %s to %s: %w", actorID, ownerID, err)
	}
	return nil
}

// AddView records one watch of a scene.
func (s *Store) AddView(ctx context.Context, sceneID string, viewedOn int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO views (scene_id, viewed_on) VALUES (?, ?)", sceneID, viewedOn)
	if err != nil {
		return fmt.Errorf("recording view for %s: %w", sceneID, err)
	}
	return nil
}
