package store

// Idempotent schema. Uniqueness of (project_id, method, path) is enforced at
// the database level in addition to the service-level pre-check, so a lost
// race reports as a constraint violation instead of a silent duplicate.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	version     TEXT NOT NULL DEFAULT '1.0.0',
	base_url    TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS endpoints (
	id            TEXT PRIMARY KEY,
	project_id    TEXT NOT NULL,
	method        TEXT NOT NULL CHECK (method IN ('GET', 'POST', 'PUT', 'DELETE', 'PATCH', 'HEAD', 'OPTIONS')),
	path          TEXT NOT NULL,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT '[]',
	operation_id  TEXT NOT NULL DEFAULT '',
	deprecated    INTEGER NOT NULL DEFAULT 0,
	request_body  TEXT,
	responses     TEXT,
	parameters    TEXT,
	documentation TEXT NOT NULL DEFAULT '',
	folder        TEXT NOT NULL DEFAULT 'General',
	sort_order    INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects (id) ON DELETE CASCADE,
	UNIQUE (project_id, method, path)
);

CREATE TABLE IF NOT EXISTS documentation (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	slug       TEXT NOT NULL,
	parent_id  TEXT,
	sort_order INTEGER NOT NULL DEFAULT 0,
	published  INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects (id) ON DELETE CASCADE,
	FOREIGN KEY (parent_id) REFERENCES documentation (id) ON DELETE CASCADE,
	UNIQUE (project_id, slug)
);

CREATE TABLE IF NOT EXISTS environments (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	base_url   TEXT NOT NULL,
	variables  TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects (id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS request_history (
	id             TEXT PRIMARY KEY,
	endpoint_id    TEXT NOT NULL,
	environment_id TEXT,
	request        TEXT NOT NULL,
	response       TEXT,
	status         INTEGER NOT NULL DEFAULT 0,
	duration       INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL,
	FOREIGN KEY (endpoint_id) REFERENCES endpoints (id) ON DELETE CASCADE,
	FOREIGN KEY (environment_id) REFERENCES environments (id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_endpoints_project ON endpoints (project_id);
CREATE INDEX IF NOT EXISTS idx_endpoints_method_path ON endpoints (method, path);
CREATE INDEX IF NOT EXISTS idx_documentation_project ON documentation (project_id);
CREATE INDEX IF NOT EXISTS idx_documentation_parent ON documentation (parent_id);
CREATE INDEX IF NOT EXISTS idx_environments_project ON environments (project_id);
CREATE INDEX IF NOT EXISTS idx_request_history_endpoint ON request_history (endpoint_id);
`
