package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"royale-tracker/internal/api"
	"royale-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server owns the HTTP surface. Routing and JSON shaping live here; all
// behavior sits in the service layer.
type Server struct {
	players     *service.PlayerService
	tournaments *service.TournamentService
	analyzer    *service.Analyzer
	logger      zerolog.Logger
}

func NewServer(
	players *service.PlayerService,
	tournaments *service.TournamentService,
	analyzer *service.Analyzer,
	logger zerolog.Logger,
) *Server {
	return &Server{
		players:     players,
		tournaments: tournaments,
		analyzer:    analyzer,
		logger:      logger,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/tournament/{tag}", func(r chi.Router) {
			r.Get("/", s.handleTournament)
			r.Get("/full", s.handleTournamentFull)
			r.Get("/analyze", s.handleAnalyze)
			r.Get("/analyze/stream", s.handleAnalyzeStream)
		})
		r.Route("/player/{tag}", func(r chi.Router) {
			r.Get("/", s.handlePlayer)
			r.Get("/classify", s.handleClassifyPlayer)
		})
		r.Get("/analysis/progress/{tag}", s.handleProgress)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Post("/cache/clear", s.handleCacheClear)
		r.Get("/tournaments/recent", s.handleRecent)
	})

	return r
}

// tagParam pulls the {tag} segment. Tags arrive percent-encoded ("%23ABC"),
// and chi hands back the raw segment when the URL carries an escaped path.
func tagParam(r *http.Request) string {
	raw := chi.URLParam(r, "tag")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (s *Server) handleTournament(w http.ResponseWriter, r *http.Request) {
	info, err := s.tournaments.Get(r.Context(), tagParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleTournamentFull(w http.ResponseWriter, r *http.Request) {
	tournament, err := s.tournaments.GetFull(r.Context(), tagParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tournament)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyzer.Analyze(r.Context(), tagParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handleAnalyzeStream serves the analysis as Server-Sent Events: one init,
// progress snapshots as they land, then a single complete or error event.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New("streaming unsupported by connection"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range s.analyzer.AnalyzeStream(r.Context(), tagParam(r)) {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to encode stream event")
			continue
		}
		if _, err := w.Write([]byte("event: " + string(event.Type) + "\ndata: " + string(payload) + "\n\n")); err != nil {
			// Client went away; the request context cancels the run and its
			// cleanup still releases the lock.
			return
		}
		flusher.Flush()
	}
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.GetPlayer(r.Context(), tagParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleClassifyPlayer(w http.ResponseWriter, r *http.Request) {
	classification, err := s.players.ClassifyPlayer(r.Context(), tagParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, classification)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.analyzer.Progress(r.Context(), tagParam(r))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "no analysis in progress for this tournament"})
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.players.GetCacheStats(r.Context()))
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.players.ClearCache(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.tournaments.Recent(r.Context()))
}

type errorBody struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps service and upstream errors onto HTTP statuses. A run
// still in progress is not a failure; clients get 202 and retry.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	retryable := false

	var statusErr *api.StatusError
	switch {
	case errors.Is(err, service.ErrAnalysisInProgress):
		status = http.StatusAccepted
		retryable = true
	case errors.Is(err, api.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, api.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, api.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, api.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.As(err, &statusErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	}
	s.writeJSON(w, status, errorBody{Error: err.Error(), Retryable: retryable})
}
