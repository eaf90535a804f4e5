package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE carts (id bigserial);
ALTER TABLE carts ADD COLUMN active boolean;

-- +migrate Down
DROP TABLE carts;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE carts")
		assert.Contains(t, up, "ALTER TABLE carts")
		assert.NotContains(t, up, "DROP TABLE carts")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE carts")
		assert.NotContains(t, down, "CREATE TABLE carts")
	})
}

func TestInitMigrationHasBothSections(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)

	up := extractMigrationPart(string(content), "Up")
	down := extractMigrationPart(string(content), "Down")

	assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS cart_items")
	assert.Contains(t, up, "unit_price NUMERIC(10,2)")
	assert.Contains(t, down, "DROP TABLE IF EXISTS order_items")
	assert.NotContains(t, up, "DROP TABLE")
}

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMigrationsUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	applied := writeMigration(t, dir, "0001_init.sql", "-- +migrate Up\nCREATE TABLE carts (id int);")
	pending := writeMigration(t, dir, "0002_items.sql", "-- +migrate Up\nCREATE TABLE cart_items (id int);")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0002_items.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE cart_items").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_items.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, runMigrationsUp(db, []string{applied, pending}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsUp_FailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	file := writeMigration(t, t.TempDir(), "0001_init.sql", "-- +migrate Up\nCREATE TABLE broken;")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err = runMigrationsUp(db, []string{file})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_init.sql")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsDown(t *testing.T) {
	t.Run("Rolls Back Latest", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_init.sql",
			"-- +migrate Up\nCREATE TABLE carts (id int);\n-- +migrate Down\nDROP TABLE carts;")

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_init.sql"))
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE carts").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM schema_migrations").
			WithArgs("0001_init.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, runMigrationsDown(db, []string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing Applied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		require.NoError(t, runMigrationsDown(db, nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing File", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0009_gone.sql"))

		err = runMigrationsDown(db, nil)
		assert.ErrorContains(t, err, "0009_gone.sql")
	})
}

func TestRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	writeMigration(t, dir, "0002_b.sql", "-- +migrate Up\nCREATE TABLE b (id int);")
	writeMigration(t, dir, "0001_a.sql", "-- +migrate Up\nCREATE TABLE a (id int);")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	for _, v := range []string{"0001_a.sql", "0002_b.sql"} {
		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs(v).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	}

	require.NoError(t, run(db, "up", dir))
	require.NoError(t, mock.ExpectationsWereMet())

	t.Run("Unknown Mode", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorContains(t, run(db, "sideways", t.TempDir()), "unknown mode")
	})
}
