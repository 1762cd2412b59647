package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"royale-tracker/internal/api"
	"royale-tracker/internal/cache"
	"royale-tracker/internal/classify"
	"royale-tracker/internal/constants"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// PlayerFetcher is the slice of the upstream client the fan-out needs.
type PlayerFetcher interface {
	FetchPlayer(ctx context.Context, tag string) api.FetchResult
}

// Analyzer runs tournament analyses. At most one live run per tournament
// tag; everyone else either gets the cached result or tails the holder's
// progress through the shared store.
type Analyzer struct {
	fetcher     PlayerFetcher
	tournaments TournamentAPI
	players     *cache.PlayerCache
	results     *cache.ResultCache
	locks       *cache.Lock
	progress    *cache.ProgressStore
	logger      zerolog.Logger

	rateLimit    rate.Limit
	concurrency  int
	flushEvery   int
	pollInterval time.Duration
	waitCeiling  time.Duration
}

func NewAnalyzer(
	client *api.Client,
	players *cache.PlayerCache,
	results *cache.ResultCache,
	locks *cache.Lock,
	progress *cache.ProgressStore,
	logger zerolog.Logger,
) *Analyzer {
	return &Analyzer{
		fetcher:      client,
		tournaments:  client,
		players:      players,
		results:      results,
		locks:        locks,
		progress:     progress,
		logger:       logger,
		rateLimit:    rate.Limit(constants.FetchRateLimit),
		concurrency:  constants.FetchConcurrency,
		flushEvery:   constants.FlushBatchSize,
		pollInterval: constants.WaiterPollInterval,
		waitCeiling:  constants.WaiterMaxWait,
	}
}

type emitFunc func(domain.AnalysisEvent)

// Analyze runs (or waits on) the analysis for one tournament and returns the
// final report. Returns ErrAnalysisInProgress when someone else's run did
// not finish within the wait ceiling.
func (a *Analyzer) Analyze(ctx context.Context, tag string) (*domain.AnalysisReport, error) {
	var report *domain.AnalysisReport
	err := a.run(ctx, tag, func(ev domain.AnalysisEvent) {
		if ev.Type == domain.EventComplete {
			report = ev.Report
		}
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// AnalyzeStream is Analyze with live feedback: an ordered event sequence of
// one init, any number of progress events, and one terminal complete or
// error. The channel closes after the terminal event.
func (a *Analyzer) AnalyzeStream(ctx context.Context, tag string) <-chan domain.AnalysisEvent {
	events := make(chan domain.AnalysisEvent, 16)

	go func() {
		defer close(events)
		emit := func(ev domain.AnalysisEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		if err := a.run(ctx, tag, emit); err != nil {
			emit(domain.AnalysisEvent{Type: domain.EventError, Message: err.Error()})
		}
	}()
	return events
}

func (a *Analyzer) run(ctx context.Context, tag string, emit emitFunc) error {
	tag = domain.NormalizeTag(tag)
	logger := a.logger.With().Str("tournament", tag).Logger()

	// A fresh cached result short-circuits before any upstream call.
	if cached, ok := a.results.Get(ctx, tag); ok {
		logger.Info().Msg("serving analysis from result cache")
		served := servedFromCache(cached)
		emit(domain.AnalysisEvent{Type: domain.EventInit, Tournament: &served.Tournament, Total: served.Stats.Total})
		emit(domain.AnalysisEvent{Type: domain.EventComplete, Report: &domain.AnalysisReport{TournamentResult: served}})
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	tournament, err := a.tournaments.GetTournament(fetchCtx, tag)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to fetch tournament: %w", err)
	}

	token, acquired, err := a.locks.Acquire(ctx, tag)
	if err != nil {
		// Coordination backend down: better an occasional duplicate run
		// than no analysis at all.
		logger.Warn().Err(err).Msg("lock backend unavailable, analyzing without coordination")
		return a.analyze(ctx, logger, tournament, "", emit)
	}
	if !acquired {
		logger.Info().Msg("another requester holds the analysis lock, waiting")
		return a.wait(ctx, logger, tournament, emit)
	}
	return a.analyze(ctx, logger, tournament, token, emit)
}

// analyze is the lock-holder path. Lock release and progress cleanup are
// guaranteed on every exit, including cancellation.
func (a *Analyzer) analyze(ctx context.Context, logger zerolog.Logger, t *domain.Tournament, token string, emit emitFunc) error {
	tag := domain.NormalizeTag(t.Tag)
	defer func() {
		cleanup := context.WithoutCancel(ctx)
		if token != "" {
			a.locks.Release(cleanup, tag, token)
		}
		a.progress.Clear(cleanup, tag)
	}()

	start := time.Now()
	info := t.Info()

	// Normalize and dedupe the roster, keeping member metadata for display.
	members := make(map[string]domain.TournamentMember, len(t.MembersList))
	order := make([]string, 0, len(t.MembersList))
	for _, m := range t.MembersList {
		mtag := domain.NormalizeTag(m.Tag)
		if mtag == "" {
			continue
		}
		if _, ok := members[mtag]; ok {
			continue
		}
		members[mtag] = m
		order = append(order, mtag)
	}
	total := len(order)

	emit(domain.AnalysisEvent{Type: domain.EventInit, Tournament: &info, Total: total})
	logger.Info().Int("members", total).Msg("starting analysis")

	counts := make(map[domain.Tier]int, len(domain.Tiers))
	results := make([]domain.PlayerResult, 0, total)
	var reported []domain.PlayerError
	stats := domain.Stats{Total: total}

	// Cache hits fold in before any fetch completes.
	hits := a.players.GetMany(ctx, order)
	missing := make([]string, 0, total-len(hits))
	for _, mtag := range order {
		entry, ok := hits[mtag]
		if !ok {
			missing = append(missing, mtag)
			continue
		}
		counts[entry.Classification.Tier]++
		results = append(results, playerResult(mtag, entry.Name, members[mtag], entry.Classification, domain.SourceCache))
		stats.FromCache++
	}
	processed := stats.FromCache
	logger.Info().Int("cached", stats.FromCache).Int("to_fetch", len(missing)).Msg("roster partitioned")

	publish := func() {
		summary := domain.Summarize(counts, len(results))
		a.progress.Publish(ctx, tag, processed, total, summary)
		emit(domain.AnalysisEvent{Type: domain.EventProgress, Processed: processed, Total: total, Summary: summary})
	}
	publish()

	if len(missing) > 0 {
		// One limiter per run; it is the real throttle, the worker pool
		// just bounds in-flight connections.
		limiter := rate.NewLimiter(a.rateLimit, 1)
		completions := make(chan api.FetchResult)

		g, fetchCtx := errgroup.WithContext(ctx)
		g.SetLimit(a.concurrency)

		var fetchErr error
		go func() {
			for _, mtag := range missing {
				mtag := mtag
				g.Go(func() error {
					if err := limiter.Wait(fetchCtx); err != nil {
						return err
					}
					select {
					case completions <- a.fetcher.FetchPlayer(fetchCtx, mtag):
						return nil
					case <-fetchCtx.Done():
						return fetchCtx.Err()
					}
				})
			}
			fetchErr = g.Wait()
			close(completions)
		}()

		pending := make(map[string]domain.CachedPlayerEntry)
		for res := range completions {
			if res.Outcome == api.OutcomeSuccess {
				classification := classify.Player(res.Player)
				counts[classification.Tier]++
				result := playerResult(res.Tag, res.Player.Name, members[res.Tag], classification, domain.SourceAPI)
				results = append(results, result)
				pending[res.Tag] = cache.Entry(result.Name, classification)
				stats.FromAPI++
			} else {
				stats.Errors++
				if len(reported) < constants.MaxReportedErrors {
					reported = append(reported, domain.PlayerError{Tag: res.Tag, Error: res.Message()})
				}
			}

			processed++
			if processed%a.flushEvery == 0 {
				a.players.PutMany(ctx, pending)
				pending = make(map[string]domain.CachedPlayerEntry)
				publish()
				logger.Info().Int("processed", processed).Int("total", total).Msg("analysis progress")
			}
		}
		if fetchErr != nil {
			return fmt.Errorf("analysis aborted: %w", fetchErr)
		}
		a.players.PutMany(ctx, pending)
	}

	stats.Successful = len(results)
	summary := domain.Summarize(counts, stats.Successful)

	final := domain.TournamentResult{
		Tournament:     info,
		Summary:        summary,
		Stats:          stats,
		ElapsedSeconds: math.Round(time.Since(start).Seconds()*10) / 10,
	}
	a.results.Put(ctx, tag, &final, t.Ended())

	logger.Info().
		Int("successful", stats.Successful).
		Int("errors", stats.Errors).
		Int("from_cache", stats.FromCache).
		Int("from_api", stats.FromAPI).
		Float64("elapsed_seconds", final.ElapsedSeconds).
		Msg("analysis complete")

	emit(domain.AnalysisEvent{Type: domain.EventComplete, Report: &domain.AnalysisReport{
		TournamentResult: final,
		Players:          results,
		Errors:           reported,
	}})
	return nil
}

// wait is the non-holder path: poll the shared store for either the final
// result or a progress snapshot to relay, up to a hard ceiling chosen to
// stay inside the platform's request budget.
func (a *Analyzer) wait(ctx context.Context, logger zerolog.Logger, t *domain.Tournament, emit emitFunc) error {
	tag := domain.NormalizeTag(t.Tag)
	info := t.Info()

	emit(domain.AnalysisEvent{Type: domain.EventInit, Tournament: &info, Total: info.MemberCount})

	deadline := time.Now().Add(a.waitCeiling)
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	lastProcessed := -1
	for {
		if result, ok := a.results.Get(ctx, tag); ok {
			logger.Info().Msg("relaying result from the finished analysis")
			served := servedFromCache(result)
			emit(domain.AnalysisEvent{Type: domain.EventComplete, Report: &domain.AnalysisReport{TournamentResult: served}})
			return nil
		}

		if snapshot, ok := a.progress.Get(ctx, tag); ok && snapshot.Processed > lastProcessed {
			lastProcessed = snapshot.Processed
			emit(domain.AnalysisEvent{
				Type:      domain.EventProgress,
				Processed: snapshot.Processed,
				Total:     snapshot.Total,
				Summary:   snapshot.Summary,
			})
		}

		if time.Now().After(deadline) {
			logger.Warn().Msg("wait ceiling reached with analysis still running")
			return ErrAnalysisInProgress
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Progress exposes the current snapshot for the standalone progress endpoint.
func (a *Analyzer) Progress(ctx context.Context, tag string) (*domain.AnalysisProgress, bool) {
	return a.progress.Get(ctx, tag)
}

func servedFromCache(result *domain.TournamentResult) domain.TournamentResult {
	served := *result
	served.FromCache = true
	served.ElapsedSeconds = 0
	return served
}

func playerResult(tag, name string, member domain.TournamentMember, classification domain.Classification, source string) domain.PlayerResult {
	if name == "" {
		name = member.Name
	}
	if name == "" {
		name = "Unknown"
	}
	return domain.PlayerResult{
		Tag:             tag,
		Name:            name,
		TournamentRank:  member.Rank,
		TournamentScore: member.Score,
		Classification:  classification,
		Source:          source,
	}
}
