package user

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/rcanepa/docker-testdriven-app/internal/apperrors"
	"github.com/rcanepa/docker-testdriven-app/internal/repository/postgres"
	"github.com/rcanepa/docker-testdriven-app/internal/testutil"
)

func Test_UserService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(dbpool *pgxpool.Pool, t *testing.T, fn func(s *UserService)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			fn(NewService(nil, &postgres.UserRepo{DB: tx}))
		})
	}

	t.Run("create and get user", func(t *testing.T) {
		withTx(pg.Pool, t, func(s *UserService) {
			created, err := s.CreateUser(t.Context(), "justatest", "test@test.com", "123456")
			require.NoError(t, err)
			require.NotEqual(t, "123456", created.PasswordHash, "password must be hashed")

			got, err := s.GetUser(t.Context(), created.ID)
			require.NoError(t, err)
			require.Equal(t, created.ID, got.ID)
			require.Equal(t, "justatest", got.Username)
		})
	})

	t.Run("get missing user fails", func(t *testing.T) {
		withTx(pg.Pool, t, func(s *UserService) {
			_, err := s.GetUser(t.Context(), 999999)
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("list users ordered by creation", func(t *testing.T) {
		withTx(pg.Pool, t, func(s *UserService) {
			_, err := s.CreateUser(t.Context(), "first", "first@test.com", "123456")
			require.NoError(t, err)
			_, err = s.CreateUser(t.Context(), "second", "second@test.com", "123456")
			require.NoError(t, err)

			users, err := s.ListUsers(t.Context())
			require.NoError(t, err)
			require.Len(t, users, 2)
			require.Equal(t, "first", users[0].Username)
			require.Equal(t, "second", users[1].Username)
		})
	})
}
