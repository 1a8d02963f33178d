package storage

const schemaDDL = `
CREATE TABLE IF NOT EXISTS atoms (
	id TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS names (
	atom TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (atom, key, value)
);
CREATE TABLE IF NOT EXISTS edges (
	from_atom TEXT NOT NULL,
	to_atom TEXT NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY (from_atom, to_atom, label)
);
CREATE TABLE IF NOT EXISTS tags (
	atom TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (atom, key, value)
);
CREATE TABLE IF NOT EXISTS blobs (
	atom TEXT NOT NULL,
	kind TEXT NOT NULL,
	mime TEXT NOT NULL,
	digest TEXT NOT NULL,
	PRIMARY KEY (atom, kind)
);
`
