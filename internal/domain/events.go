package domain

import "fmt"

type EventType string

const (
	EventPiecePlaced EventType = "piece_placed"
	EventColumnFull  EventType = "column_full"
	EventGameWon     EventType = "game_won"
	EventGameTied    EventType = "game_tied"
	EventTurnChanged EventType = "turn_changed"
)

// Event is emitted by a Game for the collaborators rendering it.
// Row is only meaningful for piece_placed, Column for piece_placed and
// column_full, Player for piece_placed, game_won and turn_changed.
type Event struct {
	Type   EventType `json:"type"`
	Row    int       `json:"row"`
	Column int       `json:"column"`
	Player PlayerID  `json:"player"`
}

func PiecePlaced(row, column int, player PlayerID) Event {
	return Event{Type: EventPiecePlaced, Row: row, Column: column, Player: player}
}

func ColumnFull(column int) Event {
	return Event{Type: EventColumnFull, Row: -1, Column: column}
}

func GameWon(player PlayerID) Event {
	return Event{Type: EventGameWon, Row: -1, Column: -1, Player: player}
}

func GameTied() Event {
	return Event{Type: EventGameTied, Row: -1, Column: -1}
}

func TurnChanged(player PlayerID) Event {
	return Event{Type: EventTurnChanged, Row: -1, Column: -1, Player: player}
}

// Terminal reports whether the event ends the game.
func (e Event) Terminal() bool {
	return e.Type == EventGameWon || e.Type == EventGameTied
}

// Message is the human readable announcement for the event.
func (e Event) Message() string {
	switch e.Type {
	case EventPiecePlaced:
		return fmt.Sprintf("%s played column %d", e.Player, e.Column+1)
	case EventColumnFull:
		return fmt.Sprintf("Column %d is full", e.Column+1)
	case EventGameWon:
		return fmt.Sprintf("%s won!", e.Player)
	case EventGameTied:
		return "It's a tie!"
	case EventTurnChanged:
		return fmt.Sprintf("%s to move", e.Player)
	}
	return string(e.Type)
}

// Listener receives the events of a game, synchronously and in order.
type Listener interface {
	OnEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}
