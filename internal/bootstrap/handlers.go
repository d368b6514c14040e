package bootstrap

import (
	"log/slog"
	"os"

	"github.com/adib-hasan/gitboard/internal/account"
	"github.com/adib-hasan/gitboard/internal/github"
	"github.com/adib-hasan/gitboard/internal/health"
	"github.com/adib-hasan/gitboard/internal/repo"
	"github.com/adib-hasan/gitboard/internal/session"
	"github.com/adib-hasan/gitboard/internal/sync"
	"github.com/adib-hasan/gitboard/internal/web"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "1.0.0"

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideGitHubClient(cfg *Config) *github.Client {
	return github.NewClient(github.Options{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.CallbackURL(),
	})
}

func ProvideSessionManager(cfg *Config) *session.Manager {
	return session.NewManager(cfg.SecretKey)
}

func ProvidePipeline(client *github.Client, accounts *account.Store, repos *repo.Store, logger *slog.Logger) *sync.Pipeline {
	return sync.NewPipeline(client, accounts, repos, logger.With("component", "sync"))
}

func ProvideWebHandler(
	accounts *account.Store,
	repos *repo.Store,
	pipeline *sync.Pipeline,
	client *github.Client,
	sessions *session.Manager,
	logger *slog.Logger,
) *web.Handler {
	return web.NewHandler(accounts, repos, pipeline, client, sessions, logger.With("handler", "web"))
}

func ProvideHealthHandler(db *gorm.DB) *health.Handler {
	return health.NewHandler(db, version)
}

type HandlerParams struct {
	fx.In

	WebHandler    *web.Handler
	HealthHandler *health.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	params.WebHandler.RegisterRoutes(e)
	params.HealthHandler.RegisterRoutes(e)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideGitHubClient,
		ProvideSessionManager,
		ProvidePipeline,
		ProvideWebHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
