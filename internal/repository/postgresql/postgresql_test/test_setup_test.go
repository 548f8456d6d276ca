package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-check/kintai-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// truncated lists every table written by the tests, children first.
var truncated = []string{
	"revoked_tokens",
	"issue_logs",
	"correction_reasons",
	"issues",
	"attendance_records",
	"employees",
	"detection_rules",
	"reason_templates",
	"vocabulary_entries",
	"users",
	"stores",
	"organizations",
}

// openTestDB connects to TEST_DATABASE_URL, migrates it and truncates all tables.
// The test is skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = postgresql.Migrate(ctx, db)
	require.NoError(t, err)
	require.NoError(t, truncateAll(ctx, db))
	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range truncated {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}

// insertOrganization creates an organization row directly; there is no write API for it.
func insertOrganization(t *testing.T, db *database.DB, name, plan string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(),
		`INSERT INTO organizations (name, plan) VALUES ($1, $2) RETURNING id`, name, plan).Scan(&id)
	require.NoError(t, err)
	return id
}
