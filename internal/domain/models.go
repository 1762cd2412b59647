package domain

import (
	"time"
)

// SeasonResult is one Path of Legends season outcome. Rank is nil for
// players who finished the season without a ladder placement.
type SeasonResult struct {
	Rank     *int `json:"rank"`
	Trophies int  `json:"trophies"`
}

// PlayerRecord is the upstream player profile, reduced to the fields the
// classifier reads. Field names follow the Clash Royale API JSON.
type PlayerRecord struct {
	Tag           string        `json:"tag"`
	Name          string        `json:"name"`
	Trophies      int           `json:"trophies"`
	CurrentSeason *SeasonResult `json:"currentPathOfLegendSeasonResult,omitempty"`
	LastSeason    *SeasonResult `json:"lastPathOfLegendSeasonResult,omitempty"`
	BestSeason    *SeasonResult `json:"bestPathOfLegendSeasonResult,omitempty"`
	CachedAt      string        `json:"_cachedAt,omitempty"`
}

// SeasonResults returns the three season windows in current/last/best order,
// nil entries included.
func (p *PlayerRecord) SeasonResults() []*SeasonResult {
	return []*SeasonResult{p.CurrentSeason, p.LastSeason, p.BestSeason}
}

type Tier string

const (
	TierTop1K       Tier = "top_1k"
	TierTop10K      Tier = "top_10k"
	TierTop50K      Tier = "top_50k"
	TierEverRanked  Tier = "ever_ranked"
	TierFinalLeague Tier = "final_league"
	TierReached12K  Tier = "reached_12k"
	TierTrophy10K   Tier = "trophy_10k_12k"
	TierCasual      Tier = "casual"
	TierBeginner    Tier = "beginner"
)

// Tiers lists every tier in priority order, best first.
var Tiers = []Tier{
	TierTop1K,
	TierTop10K,
	TierTop50K,
	TierEverRanked,
	TierFinalLeague,
	TierReached12K,
	TierTrophy10K,
	TierCasual,
	TierBeginner,
}

// Classification is derived from a PlayerRecord and never mutated; exactly
// one of Rank or Trophies is set depending on the tier.
type Classification struct {
	Tier     Tier   `json:"tier"`
	Label    string `json:"label"`
	Priority int    `json:"priority"`
	Rank     *int   `json:"rank,omitempty"`
	Trophies *int   `json:"trophies,omitempty"`
}

// CachedPlayerEntry is the value stored under player:<tag>.
type CachedPlayerEntry struct {
	Name           string         `json:"name"`
	Classification Classification `json:"classification"`
	CachedAt       time.Time      `json:"cached_at"`
}

type TournamentMember struct {
	Tag   string `json:"tag"`
	Name  string `json:"name"`
	Rank  int    `json:"rank"`
	Score int    `json:"score"`
}

// Tournament is the upstream tournament object including its member roster.
type Tournament struct {
	Tag         string             `json:"tag"`
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	Capacity    int                `json:"capacity"`
	MaxCapacity int                `json:"maxCapacity"`
	MembersList []TournamentMember `json:"membersList"`
}

// Ended reports whether the tournament is immutable from here on.
func (t *Tournament) Ended() bool {
	return t.Status == "ended"
}

// TournamentInfo is the roster-free view returned to callers.
type TournamentInfo struct {
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Capacity    int    `json:"capacity"`
	MaxCapacity int    `json:"maxCapacity"`
	MemberCount int    `json:"memberCount"`
}

func (t *Tournament) Info() TournamentInfo {
	return TournamentInfo{
		Tag:         t.Tag,
		Name:        t.Name,
		Status:      t.Status,
		Capacity:    t.Capacity,
		MaxCapacity: t.MaxCapacity,
		MemberCount: len(t.MembersList),
	}
}

const (
	SourceCache = "cache"
	SourceAPI   = "api"
)

// PlayerResult is one classified roster entry.
type PlayerResult struct {
	Tag             string         `json:"tag"`
	Name            string         `json:"name"`
	TournamentRank  int            `json:"tournamentRank,omitempty"`
	TournamentScore int            `json:"tournamentScore,omitempty"`
	Classification  Classification `json:"classification"`
	Source          string         `json:"source"`
}

type PlayerError struct {
	Tag   string `json:"tag"`
	Error string `json:"error"`
}

type Stats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Errors     int `json:"errors"`
	FromCache  int `json:"from_cache"`
	FromAPI    int `json:"from_api"`
}

// TournamentResult is the value stored under tournament_result:<tag>. The
// per-player detail list deliberately stays out of it; rosters run to 10k
// entries and the cached path serves only summary and stats.
type TournamentResult struct {
	Tournament     TournamentInfo     `json:"tournament"`
	Summary        map[Tier]TierCount `json:"summary"`
	Stats          Stats              `json:"stats"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	FromCache      bool               `json:"from_cache,omitempty"`
}

// AnalysisReport is a TournamentResult plus the per-player detail produced
// by a live run.
type AnalysisReport struct {
	TournamentResult
	Players []PlayerResult `json:"players,omitempty"`
	Errors  []PlayerError  `json:"errors,omitempty"`
}

// AnalysisProgress is the value stored under tournament_progress:<tag>.
// Only meaningful while the analysis lock is held; absence after release
// means the result cache has the answer.
type AnalysisProgress struct {
	Processed int                `json:"processed"`
	Total     int                `json:"total"`
	Summary   map[Tier]TierCount `json:"summary,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type RecentTournament struct {
	Tag         string    `json:"tag"`
	Name        string    `json:"name"`
	PlayerCount int       `json:"playerCount"`
	Status      string    `json:"status"`
	SearchedAt  time.Time `json:"searchedAt"`
}
