package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"royale-tracker/internal/config"
	"royale-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrRateLimited = errors.New("rate limited")
	ErrTimeout     = errors.New("request timeout")
)

// StatusError covers upstream responses outside the mapped set.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.Code)
}

// Client talks to the Clash Royale API through the RoyaleAPI proxy.
type Client struct {
	baseURL string
	token   string
	client  *fasthttp.Client
	logger  zerolog.Logger
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.APIBaseURL,
		token:   cfg.CRAPIKey,
		// No fixed Read/WriteTimeout: the per-call context deadline governs
		// via DoDeadline, so retry attempts with a larger budget can accept
		// responses a smaller fixed cap would cut off.
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

// GetTournament fetches a tournament including its full member roster.
func (c *Client) GetTournament(ctx context.Context, tag string) (*domain.Tournament, error) {
	url := fmt.Sprintf("%s/tournaments/%s", c.baseURL, domain.EncodeTag(tag))
	return doRequest[domain.Tournament](ctx, c, url)
}

// GetPlayer fetches a player profile. Callers that need typed per-player
// outcomes use FetchPlayer instead.
func (c *Client) GetPlayer(ctx context.Context, tag string) (*domain.PlayerRecord, error) {
	url := fmt.Sprintf("%s/players/%s", c.baseURL, domain.EncodeTag(tag))
	player, err := doRequest[domain.PlayerRecord](ctx, c, url)
	if err != nil {
		return nil, err
	}
	stampFetched(player)
	return player, nil
}

func doRequest[T any](ctx context.Context, client *Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+client.token)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.client.DoDeadline(req, resp, deadline)
	} else {
		err = client.client.Do(req, resp)
	}
	if err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case fasthttp.StatusForbidden:
		return nil, ErrForbidden
	case fasthttp.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, &StatusError{Code: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func stampFetched(p *domain.PlayerRecord) {
	if p.CachedAt == "" {
		p.CachedAt = time.Now().UTC().Format(time.RFC3339)
	}
}
