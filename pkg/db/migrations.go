// pkg/db/migrations.go
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// postgresSchema creates the ledger tables on PostgreSQL.
// Tables are ordered so foreign keys always point at an existing table.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id          TEXT PRIMARY KEY,
    username    TEXT NOT NULL UNIQUE,
    email       TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS user_profiles (
    user_id            TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    phone_number       TEXT NOT NULL DEFAULT '',
    is_verified        BOOLEAN NOT NULL DEFAULT FALSE,
    verification_token TEXT NOT NULL,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS savings_groups (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    balance            NUMERIC(15, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
    tier               INTEGER NOT NULL DEFAULT 1 CHECK (tier BETWEEN 1 AND 3),
    risk_tolerance     TEXT NOT NULL DEFAULT 'LOW',
    contribution_limit NUMERIC(15, 2) NOT NULL DEFAULT 1000000.00,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS memberships (
    id                 TEXT PRIMARY KEY,
    user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    group_id           TEXT NOT NULL REFERENCES savings_groups(id) ON DELETE CASCADE,
    role               TEXT NOT NULL DEFAULT 'MEMBER',
    contribution_limit NUMERIC(15, 2) NOT NULL DEFAULT 10000.00,
    joined_at          TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, group_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id            TEXT PRIMARY KEY,
    group_id      TEXT NOT NULL,
    user_id       TEXT NOT NULL,
    kind          TEXT NOT NULL,
    amount        NUMERIC(15, 2) NOT NULL,
    balance_after NUMERIC(15, 2) NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contributions (
    id             TEXT PRIMARY KEY,
    membership_id  TEXT NOT NULL REFERENCES memberships(id) ON DELETE CASCADE,
    amount         NUMERIC(15, 2) NOT NULL CHECK (amount > 0),
    kind           TEXT NOT NULL,
    transaction_id TEXT REFERENCES transactions(id) ON DELETE SET NULL,
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS loans (
    id             TEXT PRIMARY KEY,
    membership_id  TEXT NOT NULL REFERENCES memberships(id) ON DELETE CASCADE,
    principal      NUMERIC(15, 2) NOT NULL CHECK (principal > 0),
    rate           NUMERIC(5, 2) NOT NULL CHECK (rate >= 0 AND rate <= 100),
    start_date     TIMESTAMPTZ NOT NULL,
    due_date       TIMESTAMPTZ NOT NULL,
    status         TEXT NOT NULL DEFAULT 'PENDING',
    transaction_id TEXT REFERENCES transactions(id) ON DELETE SET NULL,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL,
    CHECK (due_date > start_date)
);

CREATE TABLE IF NOT EXISTS investments (
    id                 TEXT PRIMARY KEY,
    group_id           TEXT NOT NULL REFERENCES savings_groups(id) ON DELETE CASCADE,
    kind               TEXT NOT NULL,
    principal          NUMERIC(15, 2) NOT NULL CHECK (principal > 0),
    purchase_date      TIMESTAMPTZ NOT NULL,
    current_value      NUMERIC(15, 2) NOT NULL,
    provider           TEXT NOT NULL,
    annual_return_rate NUMERIC(5, 2) NOT NULL DEFAULT 0,
    purchased_by       TEXT NOT NULL,
    transaction_id     TEXT REFERENCES transactions(id) ON DELETE SET NULL,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_memberships_group_id ON memberships(group_id);
CREATE INDEX IF NOT EXISTS idx_transactions_group_id ON transactions(group_id, created_at);
CREATE INDEX IF NOT EXISTS idx_contributions_membership_id ON contributions(membership_id, created_at);
CREATE INDEX IF NOT EXISTS idx_loans_membership_id ON loans(membership_id);
CREATE INDEX IF NOT EXISTS idx_loans_status_due ON loans(status, due_date);
CREATE INDEX IF NOT EXISTS idx_investments_group_id ON investments(group_id);
`

// sqliteSchema mirrors postgresSchema. Money columns are TEXT so SQLite's
// numeric affinity never turns them into floating point values.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id          TEXT PRIMARY KEY,
    username    TEXT NOT NULL UNIQUE,
    email       TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS user_profiles (
    user_id            TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    phone_number       TEXT NOT NULL DEFAULT '',
    is_verified        BOOLEAN NOT NULL DEFAULT 0,
    verification_token TEXT NOT NULL,
    created_at         DATETIME NOT NULL,
    updated_at         DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS savings_groups (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    balance            TEXT NOT NULL DEFAULT '0',
    tier               INTEGER NOT NULL DEFAULT 1 CHECK (tier BETWEEN 1 AND 3),
    risk_tolerance     TEXT NOT NULL DEFAULT 'LOW',
    contribution_limit TEXT NOT NULL DEFAULT '1000000',
    created_at         DATETIME NOT NULL,
    updated_at         DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS memberships (
    id                 TEXT PRIMARY KEY,
    user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    group_id           TEXT NOT NULL REFERENCES savings_groups(id) ON DELETE CASCADE,
    role               TEXT NOT NULL DEFAULT 'MEMBER',
    contribution_limit TEXT NOT NULL DEFAULT '10000',
    joined_at          DATETIME NOT NULL,
    UNIQUE (user_id, group_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id            TEXT PRIMARY KEY,
    group_id      TEXT NOT NULL,
    user_id       TEXT NOT NULL,
    kind          TEXT NOT NULL,
    amount        TEXT NOT NULL,
    balance_after TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS contributions (
    id             TEXT PRIMARY KEY,
    membership_id  TEXT NOT NULL REFERENCES memberships(id) ON DELETE CASCADE,
    amount         TEXT NOT NULL,
    kind           TEXT NOT NULL,
    transaction_id TEXT REFERENCES transactions(id) ON DELETE SET NULL,
    created_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS loans (
    id             TEXT PRIMARY KEY,
    membership_id  TEXT NOT NULL REFERENCES memberships(id) ON DELETE CASCADE,
    principal      TEXT NOT NULL,
    rate           TEXT NOT NULL,
    start_date     DATETIME NOT NULL,
    due_date       DATETIME NOT NULL,
    status         TEXT NOT NULL DEFAULT 'PENDING',
    transaction_id TEXT REFERENCES transactions(id) ON DELETE SET NULL,
    created_at     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS investments (
    id                 TEXT PRIMARY KEY,
    group_id           TEXT NOT NULL REFERENCES savings_groups(id) ON DELETE CASCADE,
    kind               TEXT NOT NULL,
    principal          TEXT NOT NULL,
    purchase_date      DATETIME NOT NULL,
    current_value      TEXT NOT NULL,
    provider           TEXT NOT NULL,
    annual_return_rate TEXT NOT NULL DEFAULT '0',
    purchased_by       TEXT NOT NULL,
    transaction_id     TEXT REFERENCES transactions(id) ON DELETE SET NULL,
    created_at         DATETIME NOT NULL,
    updated_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_memberships_group_id ON memberships(group_id);
CREATE INDEX IF NOT EXISTS idx_transactions_group_id ON transactions(group_id, created_at);
CREATE INDEX IF NOT EXISTS idx_contributions_membership_id ON contributions(membership_id, created_at);
CREATE INDEX IF NOT EXISTS idx_loans_membership_id ON loans(membership_id);
CREATE INDEX IF NOT EXISTS idx_loans_status_due ON loans(status, due_date);
CREATE INDEX IF NOT EXISTS idx_investments_group_id ON investments(group_id);
`

// Migrate applies the schema for the connection's dialect. It is idempotent.
func Migrate(conn *sqlx.DB) error {
	schema := sqliteSchema
	if IsPostgres(conn) {
		schema = postgresSchema
	}
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("apply %s schema: %w", conn.DriverName(), err)
	}
	return nil
}
