package handlers

import (
	"net/http"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authHandler *AuthHandler,
	usersHandler *UsersHandler,
	mds ...func(next http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", authHandler.register)
	mux.HandleFunc("POST /auth/login", authHandler.login)
	mux.HandleFunc("GET /auth/logout", authHandler.logout)
	mux.HandleFunc("GET /auth/status", authHandler.status)

	mux.HandleFunc("GET /users/ping", usersHandler.ping)
	mux.HandleFunc("POST /users", usersHandler.create)
	mux.HandleFunc("GET /users", usersHandler.list)
	mux.HandleFunc("GET /users/{id}", usersHandler.get)

	return chain(mux, mds...)
}
