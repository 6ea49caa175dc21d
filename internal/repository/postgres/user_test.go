package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/Deymos01/git-slackin/internal/config"
	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/repository"
	"github.com/Deymos01/git-slackin/internal/repository/postgres"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
)

const migrationsPath = "file://../../../migrations"

// newStorage connects to the database described by CONFIG_PATH, migrates it and
// empties the users table. Without CONFIG_PATH the test is skipped.
func newStorage(t *testing.T) *postgres.Storage {
	t.Helper()

	path := os.Getenv("CONFIG_PATH")
	if path == "" || testing.Short() {
		t.Skip("CONFIG_PATH not set, skipping postgres integration test")
	}

	cfg, err := config.Load(path)
	require.NoError(t, err)

	m, err := migrate.New(migrationsPath, cfg.PostgresConfig.URL())
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	db, err := sql.Open("postgres", cfg.PostgresConfig.DSN())
	require.NoError(t, err)
	_, err = db.Exec(`TRUNCATE users`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	storage, err := postgres.New(cfg.PostgresConfig)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	return storage
}

func ptr[T any](v T) *T {
	return &v
}

func TestStorage_Users(t *testing.T) {
	storage := newStorage(t)
	ctx := context.Background()

	ada := &domains.User{DisplayName: "Ada", GitHubHandle: "Ada", SlackID: "U1", Requestable: true, NotificationsEnabled: true}
	bob := &domains.User{DisplayName: "Bob", GitHubHandle: "bob", SlackID: "U2", Requestable: true, NotificationsEnabled: true}

	require.NoError(t, storage.CreateUser(ctx, ada))
	require.NoError(t, storage.CreateUser(ctx, bob))
	require.Equal(t, domains.ReviewActionRespond, ada.ReviewAction)

	t.Run("duplicate handle", func(t *testing.T) {
		err := storage.CreateUser(ctx, &domains.User{DisplayName: "x", GitHubHandle: "ADA", SlackID: "U3"})
		require.ErrorIs(t, err, repository.ErrUserExists)
	})

	t.Run("lookup ignores handle case", func(t *testing.T) {
		got, err := storage.UserByGitHubHandle(ctx, "ada")
		require.NoError(t, err)
		require.Equal(t, ada.ID, got.ID)

		_, err = storage.UserBySlackID(ctx, "U404")
		require.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("update and filter", func(t *testing.T) {
		n, err := storage.UpdateUsers(ctx,
			domains.UserFilter{SlackID: ptr("U2")},
			domains.UserUpdate{Requestable: ptr(false), NotificationsEnabled: ptr(false)})
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		requestable, err := storage.ListUsers(ctx, domains.UserFilter{Requestable: ptr(true)})
		require.NoError(t, err)
		require.Len(t, requestable, 1)
		require.Equal(t, "Ada", requestable[0].DisplayName)

		got, err := storage.UserBySlackID(ctx, "U2")
		require.NoError(t, err)
		require.False(t, got.Requestable)
		require.False(t, got.NotificationsEnabled)

		all, err := storage.ListUsers(ctx, domains.UserFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
	})
}
