package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// schema is the portal's own storage; survey data lives in the
// downstream services and is never persisted here.
const schema = `
CREATE TABLE IF NOT EXISTS "user" (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	username      TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	roles         TEXT[] NOT NULL DEFAULT '{}',
	password_hash BYTEA,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL,
	last_login    TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS user_username_idx ON "user" (username) WHERE username != '';
CREATE UNIQUE INDEX IF NOT EXISTS user_email_idx ON "user" (email) WHERE email != '';

CREATE TABLE IF NOT EXISTS banner (
	id         UUID PRIMARY KEY,
	content    TEXT NOT NULL,
	set_by     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS banner_template (
	id      UUID PRIMARY KEY,
	title   TEXT NOT NULL,
	content TEXT NOT NULL
);
`

// Migrate brings the schema up to date. Statements are idempotent.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
