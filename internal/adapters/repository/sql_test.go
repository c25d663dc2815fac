package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crewmatch.db")
	s, err := OpenSQL(context.Background(), "sqlite", "file:"+path, WithClock(fixedClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return openSQLite(t)
	})
}

// Set CREWMATCH_TEST_POSTGRES_DSN to run the contract against a live server.
func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("CREWMATCH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CREWMATCH_TEST_POSTGRES_DSN not set")
	}
	runStoreContract(t, func(t *testing.T) Store {
		ctx := context.Background()
		s, err := OpenSQL(ctx, "postgres", dsn, WithClock(fixedClock))
		require.NoError(t, err)
		for _, table := range []string{"profiles", "crew_groups", "group_members", "group_messages", "connections", "events", "invitations"} {
			_, err := s.db.ExecContext(ctx, "TRUNCATE "+table)
			require.NoError(t, err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSQLStore_MigrateIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := OpenSQL(ctx, "sqlite", "file:"+path)
	require.NoError(t, err)
	_, err = s.UpsertProfile(ctx, model.Profile{Email: "a@x.io", Skills: []string{"research"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQL(ctx, "sqlite", "file:"+path)
	require.NoError(t, err)
	defer s.Close()

	p, err := s.GetProfile(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, []string{"research"}, p.Skills)
}

func TestDialect_Rebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ? LIMIT ?"
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2 LIMIT $3", postgresDialect.rebind(q))
}

func TestDialectFor(t *testing.T) {
	d, err := dialectFor("postgresql")
	require.NoError(t, err)
	assert.Equal(t, "pgx", d.driverName)

	d, err = dialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.driverName)

	_, err = dialectFor("oracle")
	require.ErrorIs(t, err, ErrUnknownDriver)
}
