package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/rcanepa/docker-testdriven-app/internal/handlers"
	"github.com/rcanepa/docker-testdriven-app/internal/repository/postgres"
	"github.com/rcanepa/docker-testdriven-app/internal/service/auth"
	"github.com/rcanepa/docker-testdriven-app/internal/service/auth/tokenmanager"
	"github.com/rcanepa/docker-testdriven-app/internal/service/user"
	"github.com/rcanepa/docker-testdriven-app/internal/testutil"
)

type Services struct {
	AuthService  *auth.AuthService
	UserService  *user.UserService
	TokenManager *tokenmanager.TokenManager
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The transaction is rolled back when the test finishes, so the db stays clean
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		userRepo := &postgres.UserRepo{DB: tx}
		revokedRepo := &postgres.RevokedTokenRepo{DB: tx}

		// Initialize services
		tm, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"})
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tm, userRepo, revokedRepo)
		require.NoError(t, err, "auth service starting error")

		us := user.NewService(nil, userRepo)

		// Complete all together as router
		router := handlers.NewRouter(
			handlers.NewAuth(as),
			handlers.NewUsers(us),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:  as,
			UserService:  us,
			TokenManager: tm,
		})
	})
}
