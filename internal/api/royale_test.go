package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"royale-tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.Config{APIBaseURL: baseURL, CRAPIKey: "test-key"}, zerolog.Nop())
}

// A response slower than any single-attempt default must still land as long
// as the caller's deadline allows it; retry attempts hand in growing budgets
// and the client has no fixed read cap to cut them short.
func TestGetTournamentSlowResponseWithinDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		time.Sleep(150 * time.Millisecond)
		w.Write([]byte(`{"tag":"#T1","name":"Slow","status":"inProgress","membersList":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tournament, err := newTestClient(srv.URL).GetTournament(ctx, "#T1")
	require.NoError(t, err)
	assert.Equal(t, "#T1", tournament.Tag)
}

func TestGetTournamentDeadlineGovernsRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestClient(srv.URL).GetTournament(ctx, "#T1")

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second, "the deadline, not a client-level cap, must bound the call")
}

func TestDoRequestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).GetPlayer(context.Background(), "#P1")
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("unmapped status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetPlayer(context.Background(), "#P1")
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	})
}
