package activity

import "time"

// Action describes what a visitor did on the catalog.
type Action string

const (
	ActionPlay   Action = "play"
	ActionRandom Action = "random"
	ActionSearch Action = "search"
	ActionTab    Action = "tab"
)

// Valid reports whether a is a recorded action.
func (a Action) Valid() bool {
	switch a {
	case ActionPlay, ActionRandom, ActionSearch, ActionTab:
		return true
	}
	return false
}

// Entry is a single activity record.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	GameID     string    `json:"game_id,omitempty"`
	GameURL    string    `json:"game_url,omitempty"`
	Category   string    `json:"category,omitempty"`
	Query      string    `json:"query,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

// GameCount is the number of launches recorded for one game.
type GameCount struct {
	GameID string `json:"game_id"`
	Count  int    `json:"count"`
}
