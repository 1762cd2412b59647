package domain

type EventType string

const (
	EventInit     EventType = "init"
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// AnalysisEvent is one element of the streaming analysis sequence: exactly
// one init first, zero or more progress events with non-decreasing Processed,
// then exactly one terminal complete or error.
type AnalysisEvent struct {
	Type       EventType          `json:"type"`
	Tournament *TournamentInfo    `json:"tournament,omitempty"`
	Processed  int                `json:"processed,omitempty"`
	Total      int                `json:"total,omitempty"`
	Summary    map[Tier]TierCount `json:"summary,omitempty"`
	Report     *AnalysisReport    `json:"result,omitempty"`
	Message    string             `json:"message,omitempty"`
}
