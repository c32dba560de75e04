package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/courtside-sync/external/feishu"
	"github.com/riskibarqy/courtside-sync/internal/config"
	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/domain/game"
	"github.com/riskibarqy/courtside-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside-sync/internal/interfaces/httpapi"
	"github.com/riskibarqy/courtside-sync/internal/platform/cache"
	idgen "github.com/riskibarqy/courtside-sync/internal/platform/id"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
	"github.com/riskibarqy/courtside-sync/internal/usecase"
)

// App holds the wired HTTP server and the background state it owns.
type App struct {
	Server *http.Server

	sessions *cache.Store
	cfg      config.Config
	logger   *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repo := newBitableRepository(cfg, logger)
	for _, table := range cfg.Tables.All() {
		logger.Info("bitable table configured", "role", table.Role, "table_id", table.ID, "view_id", table.ViewID)
	}

	sessions := cache.NewStore(cfg.SessionTTL)

	authSvc := usecase.NewAuthService(usecase.AuthConfig{
		Username:   cfg.LoginUsername,
		Password:   cfg.LoginPassword,
		SessionTTL: cfg.SessionTTL,
	}, sessions, idgen.NewSizedGenerator(idgen.TokenSize), logger)
	syncSvc := usecase.NewSyncService(repo, cfg.Tables, logger)
	gameSvc := usecase.NewGameService(game.NewMapper(game.WithLocation(cfg.MatchLocation)), syncSvc, logger)

	handler := httpapi.NewHandler(authSvc, syncSvc, gameSvc, logger)
	router := httpapi.NewRouter(handler, authSvc, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
	})

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func newBitableRepository(cfg config.Config, logger *logging.Logger) bitable.Repository {
	if cfg.BitableBackend == config.BackendMemory {
		logger.Warn("bitable backend is in-memory; records are not persisted")
		return memory.NewBitableRepository()
	}

	return feishu.NewClient(feishu.ClientConfig{
		BaseURL:        cfg.FeishuBaseURL,
		AppID:          cfg.FeishuAppID,
		AppSecret:      cfg.FeishuAppSecret,
		AppToken:       cfg.FeishuAppToken,
		Timeout:        cfg.FeishuTimeout,
		Logger:         logger,
		CircuitBreaker: cfg.FeishuCircuitBreaker,
	})
}

// RunSessionJanitor evicts expired sessions until ctx is done.
func (a *App) RunSessionJanitor(ctx context.Context) {
	a.sessions.RunJanitor(ctx, a.cfg.SessionSweepInterval, func(removed int) {
		a.logger.Debug("expired sessions swept", "removed", removed, "remaining", a.sessions.Len())
	})
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.Server.Shutdown(ctx)
}
