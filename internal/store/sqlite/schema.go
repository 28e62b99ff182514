package sqlite

// schema is applied on open. Statements are idempotent so reopening an
// existing database is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS scenes (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	added_on      INTEGER NOT NULL DEFAULT 0,
	release_date  INTEGER NOT NULL DEFAULT 0,
	rating        INTEGER NOT NULL DEFAULT 0,
	favorite      INTEGER NOT NULL DEFAULT 0,
	bookmark      INTEGER NOT NULL DEFAULT 0,
	studio_id     TEXT NOT NULL DEFAULT '',
	duration      INTEGER NOT NULL DEFAULT 0,
	size          INTEGER NOT NULL DEFAULT 0,
	resolution    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS actors (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	aliases   TEXT NOT NULL DEFAULT '[]',
	added_on  INTEGER NOT NULL DEFAULT 0,
	born_on   INTEGER NOT NULL DEFAULT 0,
	rating    INTEGER NOT NULL DEFAULT 0,
	favorite  INTEGER NOT NULL DEFAULT 0,
	bookmark  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS movies (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	added_on      INTEGER NOT NULL DEFAULT 0,
	release_date  INTEGER NOT NULL DEFAULT 0,
	favorite      INTEGER NOT NULL DEFAULT 0,
	bookmark      INTEGER NOT NULL DEFAULT 0,
	studio_id     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS movie_scenes (
	movie_id  TEXT NOT NULL,
	scene_id  TEXT NOT NULL,
	position  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (movie_id, scene_id)
);

CREATE TABLE IF NOT EXISTS studios (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	added_on  INTEGER NOT NULL DEFAULT 0,
	favorite  INTEGER NOT NULL DEFAULT 0,
	bookmark  INTEGER NOT NULL DEFAULT 0,
	parent_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS images (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	added_on  INTEGER NOT NULL DEFAULT 0,
	rating    INTEGER NOT NULL DEFAULT 0,
	favorite  INTEGER NOT NULL DEFAULT 0,
	bookmark  INTEGER NOT NULL DEFAULT 0,
	scene_id  TEXT NOT NULL DEFAULT '',
	studio_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS labels (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	aliases TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS label_links (
	label_id TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	PRIMARY KEY (label_id, owner_id)
);

CREATE TABLE IF NOT EXISTS actor_links (
	actor_id TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	PRIMARY KEY (actor_id, owner_id)
);

CREATE TABLE IF NOT EXISTS views (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	scene_id  TEXT NOT NULL,
	viewed_on INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scenes_studio ON scenes(studio_id);
CREATE INDEX IF NOT EXISTS idx_label_links_owner ON label_links(owner_id);
CREATE INDEX IF NOT EXISTS idx_actor_links_owner ON actor_links(owner_id);
CREATE INDEX IF NOT EXISTS idx_views_scene ON views(scene_id);
`
