package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/rcanepa/docker-testdriven-app/internal/repository/postgres"
	"github.com/rcanepa/docker-testdriven-app/internal/service/auth"
	"github.com/rcanepa/docker-testdriven-app/internal/service/auth/tokenmanager"
	"github.com/rcanepa/docker-testdriven-app/internal/service/user"
	"github.com/rcanepa/docker-testdriven-app/internal/testutil"
)

type testServices struct {
	Auth  *auth.AuthService
	Users *user.UserService
	Token *tokenmanager.TokenManager
}

// serveWithTx runs the production router over a db transaction and rolls it
// back at test end, so every subtest starts from a clean database
func serveWithTx(pg testutil.PostgresContainer, t *testing.T, fn func(url string, s testServices)) {
	t.Helper()

	testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
		userRepo := &postgres.UserRepo{DB: tx}
		revokedRepo := &postgres.RevokedTokenRepo{DB: tx}

		tm, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"})
		require.NoError(t, err, "token manager should be created without errors")

		authService, err := auth.NewService(auth.Config{}, tm, userRepo, revokedRepo)
		require.NoError(t, err, "auth service starting error")

		userService := user.NewService(nil, userRepo)

		router := NewRouter(NewAuth(authService), NewUsers(userService))
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(srv.URL, testServices{Auth: authService, Users: userService, Token: tm})
	})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return string(body)
}

// get sends a GET request with an optional bearer token
func get(t *testing.T, url string, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}
