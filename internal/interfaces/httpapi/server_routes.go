package httpapi

import (
	"net/http"
	"strings"
)

const apiPathPrefix = "/api/"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier SessionVerifier) {
	mux.HandleFunc("POST /api/auth/login", handler.Login)
	mux.Handle("GET /api/auth/check", RequireSession(verifier, http.HandlerFunc(handler.CheckSession)))
	// Logout works without a valid session so a stale client can always clear its state.
	mux.HandleFunc("POST /api/auth/logout", handler.Logout)
}

func registerAuthorizedSyncRoutes(mux *http.ServeMux, handler *Handler, verifier SessionVerifier) {
	mux.Handle("POST /api/feishu/add-records", RequireSession(verifier, http.HandlerFunc(handler.AddRecords)))
	mux.Handle("POST /api/feishu/player/add-records", RequireSession(verifier, http.HandlerFunc(handler.AddPlayerRecords)))
	mux.Handle("POST /api/feishu/search-records", RequireSession(verifier, http.HandlerFunc(handler.SearchRecords)))
	mux.Handle("POST /api/games/parse", RequireSession(verifier, http.HandlerFunc(handler.ParseGame)))
	mux.Handle("POST /api/games/sync", RequireSession(verifier, http.HandlerFunc(handler.SyncGame)))
}

func registerStaticRoutes(mux *http.ServeMux, staticDir string) {
	staticDir = strings.TrimSpace(staticDir)
	if staticDir == "" {
		return
	}
	mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))
}
