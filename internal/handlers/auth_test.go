package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rcanepa/docker-testdriven-app/internal/testutil"
)

func Test_AuthHandler(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("register ok", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			data := `{"username": "justatest", "email": "test@test.com", "password": "123456"}`
			resp, err := http.Post(url+"/auth/register", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

			var parsed struct {
				Status    string `json:"status"`
				Message   string `json:"message"`
				AuthToken string `json:"auth_token"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))
			require.Equal(t, "success", parsed.Status)
			require.Equal(t, "Successfully registered.", parsed.Message)
			require.NotEmpty(t, parsed.AuthToken, "register should log the user in")

			// The returned token must already be usable
			user, err := s.Auth.Status(t.Context(), parsed.AuthToken)
			require.NoError(t, err)
			require.Equal(t, "justatest", user.Username)
		})
	})

	t.Run("register duplicate email", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			_, _, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			data := `{"username": "justatest2", "email": "test@test.com", "password": "password"}`
			resp, err := http.Post(url+"/auth/register", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Sorry. That user already exists."}`, body)
		})
	})

	t.Run("register duplicate username", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			_, _, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			data := `{"username": "justatest", "email": "test@test2.com", "password": "password"}`
			resp, err := http.Post(url+"/auth/register", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Sorry. That user already exists."}`, body)
		})
	})

	t.Run("register invalid payloads", func(t *testing.T) {
		tests := []struct {
			name string
			data string
		}{
			{"no username", `{"email": "test@test2.com", "password": "password"}`},
			{"no email", `{"username": "justatest", "password": "password"}`},
			{"no password", `{"username": "justatest", "email": "test@test.com"}`},
			{"broken json", `{"username":`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				serveWithTx(pg, t, func(url string, s testServices) {
					resp, err := http.Post(url+"/auth/register", "application/json", strings.NewReader(tt.data))
					require.NoError(t, err)
					body := readBody(t, resp)

					require.Equal(t, http.StatusBadRequest, resp.StatusCode)
					require.JSONEq(t, `{"status": "fail", "message": "Invalid payload."}`, body)
				})
			})
		}
	})

	t.Run("login ok", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			_, _, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			data := `{"email": "test@test.com", "password": "password"}`
			resp, err := http.Post(url+"/auth/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			var parsed struct {
				Status    string `json:"status"`
				Message   string `json:"message"`
				AuthToken string `json:"auth_token"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))
			require.Equal(t, "success", parsed.Status)
			require.Equal(t, "Successfully logged in.", parsed.Message)
			require.NotEmpty(t, parsed.AuthToken)
		})
	})

	t.Run("login unknown user", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			data := `{"email": "test@test.com", "password": "password"}`
			resp, err := http.Post(url+"/auth/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equal(t, http.StatusNotFound, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "User does not exist."}`, body)
		})
	})

	t.Run("login wrong password", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			_, _, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			data := `{"email": "test@test.com", "password": "wrong"}`
			resp, err := http.Post(url+"/auth/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Invalid credentials."}`, body)
		})
	})

	t.Run("logout ok", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			_, token, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			resp := get(t, url+"/auth/logout", token)
			body := readBody(t, resp)

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"status": "success", "message": "Successfully logged out."}`, body)
		})
	})

	t.Run("logout with expired token", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			s.Token.SetTTL(-time.Second)
			_, token, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			resp := get(t, url+"/auth/logout", token)
			body := readBody(t, resp)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Signature expired. Please log in again."}`, body)
		})
	})

	t.Run("logout with garbage token", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			resp := get(t, url+"/auth/logout", "invalid-token")
			body := readBody(t, resp)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Invalid token. Please log in again."}`, body)
		})
	})

	t.Run("status ok", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			registered, token, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			resp := get(t, url+"/auth/status", token)
			body := readBody(t, resp)

			require.Equal(t, http.StatusOK, resp.StatusCode)

			var parsed struct {
				Status string `json:"status"`
				Data   struct {
					ID       int64  `json:"id"`
					Username string `json:"username"`
					Email    string `json:"email"`
					Active   bool   `json:"active"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))
			require.Equal(t, "success", parsed.Status)
			require.Equal(t, registered.ID, parsed.Data.ID)
			require.Equal(t, "justatest", parsed.Data.Username)
			require.Equal(t, "test@test.com", parsed.Data.Email)
			require.True(t, parsed.Data.Active)
			require.NotContains(t, body, "password", "password hash must never leak")
		})
	})

	t.Run("status with garbage token", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			resp := get(t, url+"/auth/status", "invalid-token")
			body := readBody(t, resp)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Invalid token. Please log in again."}`, body)
		})
	})

	t.Run("status without header", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			resp := get(t, url+"/auth/status", "")
			body := readBody(t, resp)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Provide a valid auth token."}`, body)
		})
	})

	t.Run("status after logout", func(t *testing.T) {
		serveWithTx(pg, t, func(url string, s testServices) {
			_, token, err := s.Auth.Register(t.Context(), "justatest", "test@test.com", "password")
			require.NoError(t, err)

			resp := get(t, url+"/auth/logout", token)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_ = readBody(t, resp)

			// The very same token must be rejected now
			resp = get(t, url+"/auth/status", token)
			body := readBody(t, resp)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"status": "fail", "message": "Invalid token. Please log in again."}`, body)
		})
	})
}
