package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcanepa/docker-testdriven-app/internal/testutil"
)

func Test_RevokedTokenRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(dbpool *pgxpool.Pool, t *testing.T, testFunc func(*RevokedTokenRepo)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			testFunc(&RevokedTokenRepo{DB: tx})
		})
	}

	t.Run("fresh token is not revoked", func(t *testing.T) {
		withTx(pg.Pool, t, func(r *RevokedTokenRepo) {
			revoked, err := r.IsRevoked(t.Context(), "some-token")

			require.NoError(t, err)
			assert.False(t, revoked)
		})
	})

	t.Run("revoke then check", func(t *testing.T) {
		withTx(pg.Pool, t, func(r *RevokedTokenRepo) {
			err := r.Revoke(t.Context(), "some-token")
			require.NoError(t, err)

			revoked, err := r.IsRevoked(t.Context(), "some-token")
			require.NoError(t, err)
			assert.True(t, revoked)

			// Other tokens must stay unaffected
			revoked, err = r.IsRevoked(t.Context(), "other-token")
			require.NoError(t, err)
			assert.False(t, revoked)
		})
	})

	t.Run("revoke is idempotent", func(t *testing.T) {
		withTx(pg.Pool, t, func(r *RevokedTokenRepo) {
			require.NoError(t, r.Revoke(t.Context(), "some-token"))

			first, err := r.Get(t.Context(), "some-token")
			require.NoError(t, err)

			require.NoError(t, r.Revoke(t.Context(), "some-token"), "revoking twice should not be an error")

			second, err := r.Get(t.Context(), "some-token")
			require.NoError(t, err)
			assert.Equal(t, first.RevokedAt, second.RevokedAt, "original revocation time must be kept")
		})
	})

	t.Run("get entry", func(t *testing.T) {
		withTx(pg.Pool, t, func(r *RevokedTokenRepo) {
			_, err := r.Get(t.Context(), "some-token")
			require.Error(t, err, "token is not blacklisted yet")

			require.NoError(t, r.Revoke(t.Context(), "some-token"))

			entry, err := r.Get(t.Context(), "some-token")
			require.NoError(t, err)
			assert.Equal(t, "some-token", entry.Token)
			assert.WithinDuration(t, time.Now(), entry.RevokedAt, time.Second, "RevokedAt should be recent")
		})
	})
}
