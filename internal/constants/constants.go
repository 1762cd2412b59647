package constants

import "time"

const (
	PlayerCacheTTL  = 12 * time.Hour
	ResultActiveTTL = 5 * time.Minute
	ResultEndedTTL  = 12 * time.Hour
	LockTTL         = 5 * time.Minute
	ProgressTTL     = 60 * time.Second
	RecentTTL       = 7 * 24 * time.Hour
)

const (
	// Upstream throttles somewhere around 50 req/s; stay under it.
	FetchRateLimit    = 40
	FetchConcurrency  = 40
	CacheBatchSize    = 100
	FlushBatchSize    = 500
	MaxReportedErrors = 10
)

const (
	ExternalAPITimeout  = 15 * time.Second
	TournamentRetries   = 3
	TournamentRetryStep = 10 * time.Second
	TournamentRetryWait = 1 * time.Second
	WaiterPollInterval  = 2 * time.Second
	WaiterMaxWait       = 50 * time.Second
	StoreTimeout        = 5 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	RecentTournamentLimit = 5
)
