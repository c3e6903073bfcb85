package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/humanbelnik/moviemingle/internal/config"
	http_auth "github.com/humanbelnik/moviemingle/internal/delivery/http/auth"
	http_deck "github.com/humanbelnik/moviemingle/internal/delivery/http/deck"
	http_init "github.com/humanbelnik/moviemingle/internal/delivery/http/init"
	http_like "github.com/humanbelnik/moviemingle/internal/delivery/http/like"
	http_access_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/access"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	http_movie "github.com/humanbelnik/moviemingle/internal/delivery/http/movie"
	http_swagger "github.com/humanbelnik/moviemingle/internal/delivery/http/swagger"
	ws_deck "github.com/humanbelnik/moviemingle/internal/delivery/ws/deck"
	infra_pg_init "github.com/humanbelnik/moviemingle/internal/infra/postgres/init"
	infra_postgres_like "github.com/humanbelnik/moviemingle/internal/infra/postgres/like"
	infra_postgres_user "github.com/humanbelnik/moviemingle/internal/infra/postgres/user"
	infra_redis_cache "github.com/humanbelnik/moviemingle/internal/infra/redis/cache"
	infra_redis_init "github.com/humanbelnik/moviemingle/internal/infra/redis/init"
	infra_session_cache "github.com/humanbelnik/moviemingle/internal/infra/redis/session"
	infra_tmdb "github.com/humanbelnik/moviemingle/internal/infra/tmdb"
	service_identity "github.com/humanbelnik/moviemingle/internal/service/identity"
	usecase_catalog "github.com/humanbelnik/moviemingle/internal/usecase/catalog"
	usecase_deck "github.com/humanbelnik/moviemingle/internal/usecase/deck"
	usecase_like "github.com/humanbelnik/moviemingle/internal/usecase/like"
)

func Go(cfg *config.Config) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

	if cfg.Catalog.APIKey == "" {
		logger.Warn("TMDB_API_KEY is not set, movie listings will fail")
	}

	userRepository := infra_postgres_user.New(pgConn)
	likeRepository := infra_postgres_like.New(pgConn)
	sessionStore := infra_session_cache.New(redisConn, "session")
	confirmationStore := infra_session_cache.New(redisConn, "confirm")
	catalogCache := infra_redis_cache.New(redisConn)
	tmdbClient := infra_tmdb.New(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, cfg.Catalog.HTTPTimeout,
		infra_tmdb.WithLogger(logger))

	catalogUC := usecase_catalog.New(tmdbClient, cfg.Catalog.ImageBaseURL,
		usecase_catalog.WithCache(catalogCache, cfg.Catalog.PageTTL, cfg.Catalog.GenresTTL),
		usecase_catalog.WithLogger(logger),
	)
	likeUC := usecase_like.New(likeRepository)
	identityService := service_identity.New(userRepository, sessionStore, confirmationStore, cfg.Auth.RedirectURL,
		service_identity.WithTTL(cfg.Auth.SessionTTL, cfg.Auth.ConfirmationTTL),
		service_identity.WithLogger(logger),
	)

	hub := ws_deck.New(logger)
	decks := usecase_deck.NewRegistry(catalogUC, likeUC, identityService,
		usecase_deck.WithNotifier(hub),
		usecase_deck.WithLogger(logger),
	)

	go decks.Run(context.Background(), cfg.Deck.SweepInterval)

	authMiddleware := http_auth_middleware.New(identityService)
	limiter := http_access_middleware.New(context.Background(), cfg.Limiter)

	controllerPool := http_init.NewControllerPool(limiter.RateLimited())
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_movie.New(catalogUC))
	controllerPool.Add(http_auth.New(identityService, decks, authMiddleware, cfg.Auth.SessionTTL,
		http_auth.WithDisconnector(hub)))
	controllerPool.Add(http_deck.New(decks, authMiddleware))
	controllerPool.Add(http_like.New(likeUC, authMiddleware))
	controllerPool.Add(ws_deck.NewController(hub, decks, authMiddleware))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Host, cfg.HTTP.Port)
}
