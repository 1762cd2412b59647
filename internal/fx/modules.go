package fx

import (
	"royale-tracker/internal/api"
	"royale-tracker/internal/cache"
	"royale-tracker/internal/config"
	"royale-tracker/internal/logger"
	"royale-tracker/internal/server"
	"royale-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	// store + caches
	fx.Provide(cache.NewStore),
	fx.Provide(cache.NewPlayerCache),
	fx.Provide(cache.NewResultCache),
	fx.Provide(cache.NewLock),
	fx.Provide(cache.NewProgressStore),
	fx.Provide(cache.NewRecentTournaments),
	// api client
	fx.Provide(api.NewClient),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewTournamentService),
	fx.Provide(service.NewAnalyzer),
	// server
	fx.Provide(server.NewServer),
)
