package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// dialect captures the differences between the supported SQL engines.
type dialect struct {
	name       string
	driverName string
	serial     string
	dollarArgs bool
}

var (
	sqliteDialect = dialect{
		name:       "sqlite",
		driverName: "sqlite",
		serial:     "INTEGER PRIMARY KEY AUTOINCREMENT",
	}
	postgresDialect = dialect{
		name:       "postgres",
		driverName: "pgx",
		serial:     "BIGSERIAL PRIMARY KEY",
		dollarArgs: true,
	}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return sqliteDialect, nil
	case "postgres", "postgresql", "pgx":
		return postgresDialect, nil
	}
	return dialect{}, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
}

// rebind rewrites ? placeholders to $n for engines that need it.
func (d dialect) rebind(q string) string {
	if !d.dollarArgs {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func (d dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			seq ` + d.serial + `,
			id TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL DEFAULT '',
			branch TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '[]',
			traits TEXT NOT NULL DEFAULT '{}',
			goal TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			location_preference TEXT NOT NULL DEFAULT '',
			selected_location TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS crew_groups (
			seq ` + d.serial + `,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			creator_email TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			seq ` + d.serial + `,
			group_id TEXT NOT NULL,
			email TEXT NOT NULL,
			UNIQUE (group_id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS group_messages (
			seq ` + d.serial + `,
			id TEXT NOT NULL UNIQUE,
			group_id TEXT NOT NULL,
			email TEXT NOT NULL,
			content TEXT NOT NULL,
			client_id TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS group_messages_group_idx ON group_messages (group_id, seq)`,
		`CREATE TABLE IF NOT EXISTS connections (
			seq ` + d.serial + `,
			user1_email TEXT NOT NULL,
			user2_email TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL,
			UNIQUE (user1_email, user2_email)
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT NOT NULL,
			email TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			start_at BIGINT NOT NULL,
			end_at BIGINT NOT NULL,
			all_day INTEGER NOT NULL DEFAULT 0,
			link TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS invitations (
			seq ` + d.serial + `,
			id TEXT NOT NULL UNIQUE,
			event_id TEXT NOT NULL,
			inviter_email TEXT NOT NULL,
			invitee_email TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS invitations_invitee_idx ON invitations (invitee_email)`,
	}
}

// Migrate creates the schema if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.name, err)
		}
	}
	return nil
}
