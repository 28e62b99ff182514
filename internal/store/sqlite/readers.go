package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mediadex/mediadex/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

const sceneColumns = "id, name, description, added_on, release_date, rating, favorite, bookmark, studio_id, duration, size, resolution"

func scanScene(row scanner) (domain.Scene, error) {
	var sc domain.Scene
	var favorite int
	err := row.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.AddedOn, &sc.ReleaseDate,
		&sc.Rating, &favorite, &sc.Bookmark, &sc.Studio, &sc.Duration, &sc.Size, &sc.Resolution)
	if err != nil {
		return domain.Scene{}, err
	}
	sc.Favorite = favorite != 0
	return sc, nil
}

const actorColumns = "id, name, aliases, added_on, born_on, rating, favorite, bookmark"

func scanActor(row scanner) (domain.Actor, error) {
	var ac domain.Actor
	var favorite int
	var aliases string
	err := row.Scan(&ac.ID, &ac.Name, &aliases, &ac.AddedOn, &ac.BornOn,
		&ac.Rating, &favorite, &ac.Bookmark)
	if err != nil {
		return domain.Actor{}, err
	}
	ac.Favorite = favorite != 0
	ac.Aliases, err = unmarshalAliases(aliases)
	if err != nil {
		return domain.Actor{}, err
	}
	return ac, nil
}

const movieColumns = "id, name, added_on, release_date, favorite, bookmark, studio_id"

func scanMovie(row scanner) (domain.Movie, error) {
	var mv domain.Movie
	var favorite int
	err := row.Scan(&mv.ID, &mv.Name, &mv.AddedOn, &mv.ReleaseDate,
		&favorite, &mv.Bookmark, &mv.Studio)
	if err != nil {
		return domain.Movie{}, err
	}
	mv.Favorite = favorite != 0
	return mv, nil
}

const studioColumns = "id, name, added_on, favorite, bookmark, parent_id"

func scanStudio(row scanner) (domain.Studio, error) {
	var st domain.Studio
	var favorite int
	err := row.Scan(&st.ID, &st.Name, &st.AddedOn, &favorite, &st.Bookmark, &st.Parent)
	if err != nil {
		return domain.Studio{}, err
	}
	st.Favorite = favorite != 0
	return st, nil
}

const imageColumns = "id, name, added_on, rating, favorite, bookmark, scene_id, studio_id"

func scanImage(row scanner) (domain.Image, error) {
	var img domain.Image
	var favorite int
	err := row.Scan(&img.ID, &img.Name, &img.AddedOn, &img.Rating,
		&favorite, &img.Bookmark, &img.Scene, &img.Studio)
	if err != nil {
		return domain.Image{}, err
	}
	img.Favorite = favorite != 0
	return img, nil
}

func (s *Store) scene(ctx context.Context, id string) (domain.Scene, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sceneColumns+" FROM scenes WHERE id = ?", id)
	sc, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scene{}, fmt.Errorf("scene %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Scene{}, fmt.Errorf("querying scene %s: %w", id, err)
	}
	return sc, nil
}

func (s *Store) scenes(ctx context.Context) ([]domain.Scene, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+sceneColumns+" FROM scenes ORDER BY added_on, id")
	if err != nil {
		return nil, fmt.Errorf("querying scenes: %w", err)
	}
	defer rows.Close()

	var out []domain.Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scene: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) studio(ctx context.Context, id string) (domain.Studio, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studioColumns+" FROM studios WHERE id = ?", id)
	st, err := scanStudio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Studio{}, fmt.Errorf("studio %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Studio{}, fmt.Errorf("querying studio %s: %w", id, err)
	}
	return st, nil
}

func (s *Store) labelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.aliases
		FROM labels l
		JOIN label_links ll ON ll.label_id = l.id
		WHERE ll.owner_id = ?
		ORDER BY l.name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying labels for %s: %w", ownerID, err)
	}
	defer rows.Close()

	var out []domain.Label
	for rows.Next() {
		var l domain.Label
		var aliases string
		if err := rows.Scan(&l.ID, &l.Name, &aliases); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		l.Aliases, err = unmarshalAliases(aliases)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) actorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.aliases, a.added_on, a.born_on, a.rating, a.favorite, a.bookmark
		FROM actors a
		JOIN actor_links al ON al.actor_id = a.id
		WHERE al.owner_id = ?
		ORDER BY a.name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying actors for %s: %w", ownerID, err)
	}
	defer rows.Close()

	var out []domain.Actor
	for rows.Next() {
		ac, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning actor: %w", err)
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

// sceneStore serves the scene search contract.
type sceneStore struct {
	store *Store
}

func (s *sceneStore) Scenes(ctx context.Context) ([]domain.Scene, error) {
	return s.store.scenes(ctx)
}

func (s *sceneStore) Scene(ctx context.Context, id string) (domain.Scene, error) {
	return s.store.scene(ctx, id)
}

func (s *sceneStore) ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error) {
	return s.store.actorsFor(ctx, ownerID)
}

func (s *sceneStore) LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	return s.store.labelsFor(ctx, ownerID)
}

func (s *sceneStore) Studio(ctx context.Context, id string) (domain.Studio, error) {
	return s.store.studio(ctx, id)
}

func (s *sceneStore) ViewCount(ctx context.Context, sceneID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM views WHERE scene_id = ?", sceneID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting views for %s: %w", sceneID, err)
	}
	return n, nil
}

// actorStore serves the actor search contract.
type actorStore struct {
	store *Store
}

func (s *actorStore) Actors(ctx context.Context) ([]domain.Actor, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+actorColumns+" FROM actors ORDER BY added_on, id")
	if err != nil {
		return nil, fmt.Errorf("querying actors: %w", err)
	}
	defer rows.Close()

	var out []domain.Actor
	for rows.Next() {
		ac, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning actor: %w", err)
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

func (s *actorStore) Actor(ctx context.Context, id string) (domain.Actor, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT "+actorColumns+" FROM actors WHERE id = ?", id)
	ac, err := scanActor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Actor{}, fmt.Errorf("actor %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("querying actor %s: %w", id, err)
	}
	return ac, nil
}

func (s *actorStore) LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	return s.store.labelsFor(ctx, ownerID)
}

func (s *actorStore) SceneCountFor(ctx context.Context, actorID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM actor_links WHERE actor_id = ? AND owner_id LIKE ?",
		actorID, ScenePrefix+"_%").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting scenes for actor %s: %w", actorID, err)
	}
	return n, nil
}

func (s *actorStore) ViewCountFor(ctx context.Context, actorID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM views v
		JOIN actor_links al ON al.owner_id = v.scene_id
		WHERE al.actor_id = ?`, actorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting views for actor %s: %w", actorID, err)
	}
	return n, nil
}

// movieStore serves the movie search contract.
type movieStore struct {
	store *Store
}

func (s *movieStore) Movies(ctx context.Context) ([]domain.Movie, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movies ORDER BY added_on, id")
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	var out []domain.Movie
	for rows.Next() {
		mv, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movie: %w", err)
		}
		out = append(out, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		scenes, err := s.movieScenes(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Scenes = scenes
	}
	return out, nil
}

func (s *movieStore) Movie(ctx context.Context, id string) (domain.Movie, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	mv, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movie{}, fmt.Errorf("movie %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Movie{}, fmt.Errorf("querying movie %s: %w", id, err)
	}
	mv.Scenes, err = s.movieScenes(ctx, id)
	if err != nil {
		return domain.Movie{}, err
	}
	return mv, nil
}

func (s *movieStore) movieScenes(ctx context.Context, movieID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT scene_id FROM movie_scenes WHERE movie_id = ? ORDER BY position", movieID)
	if err != nil {
		return nil, fmt.Errorf("querying scenes for movie %s: %w", movieID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning movie scene: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *movieStore) Scene(ctx context.Context, id string) (domain.Scene, error) {
	return s.store.scene(ctx, id)
}

func (s *movieStore) ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error) {
	return s.store.actorsFor(ctx, ownerID)
}

func (s *movieStore) LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	return s.store.labelsFor(ctx, ownerID)
}

func (s *movieStore) Studio(ctx context.Context, id string) (domain.Studio, error) {
	return s.store.studio(ctx, id)
}

// studioStore serves the studio search contract.
type studioStore struct {
	store *Store
}

func (s *studioStore) Studios(ctx context.Context) ([]domain.Studio, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+studioColumns+" FROM studios ORDER BY added_on, id")
	if err != nil {
		return nil, fmt.Errorf("querying studios: %w", err)
	}
	defer rows.Close()

	var out []domain.Studio
	for rows.Next() {
		st, err := scanStudio(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning studio: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *studioStore) Studio(ctx context.Context, id string) (domain.Studio, error) {
	return s.store.studio(ctx, id)
}

func (s *studioStore) LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	return s.store.labelsFor(ctx, ownerID)
}

func (s *studioStore) SceneCountFor(ctx context.Context, studioID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scenes WHERE studio_id = ?", studioID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting scenes for studio %s: %w", studioID, err)
	}
	return n, nil
}

// imageStore serves the image search contract.
type imageStore struct {
	store *Store
}

func (s *imageStore) Images(ctx context.Context) ([]domain.Image, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+imageColumns+" FROM images ORDER BY added_on, id")
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var out []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (s *imageStore) Image(ctx context.Context, id string) (domain.Image, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT "+imageColumns+" FROM images WHERE id = ?", id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Image{}, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Image{}, fmt.Errorf("querying image %s: %w", id, err)
	}
	return img, nil
}

func (s *imageStore) ActorsFor(ctx context.Context, ownerID string) ([]domain.Actor, error) {
	return s.store.actorsFor(ctx, ownerID)
}

func (s *imageStore) LabelsFor(ctx context.Context, ownerID string) ([]domain.Label, error) {
	return s.store.labelsFor(ctx, ownerID)
}

func (s *imageStore) Scene(ctx context.Context, id string) (domain.Scene, error) {
	return s.store.scene(ctx, id)
}

func (s *imageStore) Studio(ctx context.Context, id string) (domain.Studio, error) {
	return s.store.studio(ctx, id)
}
