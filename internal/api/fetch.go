package api

import (
	"context"
	"errors"
	"fmt"

	"royale-tracker/internal/domain"
)

// Outcome is the typed result of a single player fetch. The fetcher never
// retries on its own; a 429 is reported so the caller can decide, without a
// concurrency slot being held across a backoff sleep.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeRateLimited
	OutcomeTimeout
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "error"
	}
}

type FetchResult struct {
	Tag     string
	Player  *domain.PlayerRecord
	Outcome Outcome
	Err     error
}

// Message is the short diagnostic reported alongside failed roster entries.
func (r FetchResult) Message() string {
	switch r.Outcome {
	case OutcomeNotFound:
		return "Player not found"
	case OutcomeRateLimited:
		return "Rate limited"
	case OutcomeTimeout:
		return "Timeout"
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return "unknown error"
	}
}

// FetchPlayer fetches one player profile and maps the result to a typed
// outcome. The tag is normalized before the request so the result key always
// matches the cache key.
func (c *Client) FetchPlayer(ctx context.Context, tag string) FetchResult {
	tag = domain.NormalizeTag(tag)

	url := fmt.Sprintf("%s/players/%s", c.baseURL, domain.EncodeTag(tag))
	player, err := doRequest[domain.PlayerRecord](ctx, c, url)
	if err != nil {
		return FetchResult{Tag: tag, Outcome: outcomeFor(err), Err: err}
	}

	stampFetched(player)
	return FetchResult{Tag: tag, Player: player, Outcome: OutcomeSuccess}
}

func outcomeFor(err error) Outcome {
	switch {
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
