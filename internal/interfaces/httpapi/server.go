package httpapi

import (
	"errors"
	"net/http"

	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// StaticDir, when set, is served at "/".
	StaticDir string
}

func NewRouter(
	handler *Handler,
	verifier SessionVerifier,
	logger *logging.Logger,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerAuthRoutes(mux, handler, verifier)
	registerAuthorizedSyncRoutes(mux, handler, verifier)
	registerStaticRoutes(mux, cfg.StaticDir)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

// recoverPanic turns a handler panic into a 500 envelope and logs the stack.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var catcher panics.Catcher
		catcher.Try(func() { next.ServeHTTP(w, r) })

		recovered := catcher.Recovered()
		if recovered == nil {
			return
		}
		if err, ok := recovered.Value.(error); ok && errors.Is(err, http.ErrAbortHandler) {
			panic(http.ErrAbortHandler)
		}

		ctx := r.Context()
		logger.ErrorContext(ctx, "panic recovered",
			"method", r.Method,
			"path", r.URL.Path,
			"panic", recovered.Value,
			"stack", string(recovered.Stack),
		)
		writeInternalError(ctx, w)
	})
}
