package models

// PoolEntry is a draftable player as seen by the engine.
type PoolEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name,omitempty"`
	Position string `json:"position"`
	Team     string `json:"team,omitempty"`
}

// RankedPlayer is a pool entry with its ranking from the ranking source.
type RankedPlayer struct {
	PoolEntry
	Rank int     `json:"rank"`
	ADP  float64 `json:"adp,omitempty"`
}
