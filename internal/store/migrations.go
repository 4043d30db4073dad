package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	user_id     TEXT NOT NULL,
	task_id     TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	due_date    TEXT NOT NULL DEFAULT '',
	due_time    TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, task_id)
);

CREATE TABLE IF NOT EXISTS reminders (
	task_id        TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	fire_at        DATETIME NOT NULL,
	policy_kind    TEXT NOT NULL CHECK(policy_kind IN ('offset_before', 'absolute')),
	offset_minutes INTEGER NOT NULL DEFAULT 0,
	policy_at      DATETIME,
	active         INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id);
CREATE INDEX IF NOT EXISTS idx_reminders_fire_at ON reminders(fire_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_reminders_active_fire_at
	ON reminders(active, fire_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
