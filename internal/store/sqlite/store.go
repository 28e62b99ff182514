// Package sqlite persists the media catalog in a single SQLite
// database file and exposes per-entity read contracts for the search
// services.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mediadex/mediadex/internal/usecase/actor"
	"github.com/mediadex/mediadex/internal/usecase/image"
	"github.com/mediadex/mediadex/internal/usecase/movie"
	"github.com/mediadex/mediadex/internal/usecase/scene"
	"github.com/mediadex/mediadex/internal/usecase/studio"
)

// Entity id prefixes. Links store bare owner ids, so the prefix is what
// distinguishes a scene link from an image link.
const (
	ScenePrefix  = "sc"
	ActorPrefix  = "ac"
	MoviePrefix  = "mv"
	StudioPrefix = "st"
	ImagePrefix  = "im"
	LabelPrefix  = "lb"
)

// Store is the unified SQLite-backed catalog store. Per-entity search
// contracts are served through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the catalog database under dataDir. An
// empty dataDir defaults to ~/.mediadex/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mediadex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SceneStore returns the scene search contract backed by this store.
func (s *Store) SceneStore() scene.Store {
	return &sceneStore{store: s}
}

// ActorStore returns the actor search contract backed by this store.
func (s *Store) ActorStore() actor.Store {
	return &actorStore{store: s}
}

// MovieStore returns the movie search contract backed by this store.
func (s *Store) MovieStore() movie.Store {
	return &movieStore{store: s}
}

// StudioStore returns the studio search contract backed by this store.
func (s *Store) StudioStore() studio.Store {
	return &studioStore{store: s}
}

// ImageStore returns the image search contract backed by this store.
func (s *Store) ImageStore() image.Store {
	return &imageStore{store: s}
}

// NewID mints an entity id with the given prefix.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func marshalAliases(aliases []string) (string, error) {
	if aliases == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(aliases)
	if err != nil {
		return "", fmt.Errorf("marshaling aliases: %w", err)
	}
	return string(raw), nil
}

func unmarshalAliases(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var aliases []string
	if err := json.Unmarshal([]byte(raw), &aliases); err != nil {
		return nil, fmt.Errorf("unmarshaling aliases: %w", err)
	}
	return aliases, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
