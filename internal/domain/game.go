package domain

import "github.com/pkg/errors"

// Game is a single Connect Four match. It is not safe for concurrent use;
// hosts sharing a Game between goroutines must serialize RequestMove.
type Game struct {
	board         Board
	currentPlayer PlayerID
	status        GameStatus
	winner        PlayerID
	moveCount     int
	lastMove      *Position
	listeners     []Listener
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Row        int        `json:"row"`
	Column     int        `json:"column"`
	Player     PlayerID   `json:"player"`
	Status     GameStatus `json:"status"`
	Winner     PlayerID   `json:"winner"`
	NextPlayer PlayerID   `json:"nextPlayer"`
}

// Snapshot is the serialisable state of a game.
type Snapshot struct {
	Board         Board      `json:"board"`
	CurrentPlayer PlayerID   `json:"currentPlayer"`
	Status        GameStatus `json:"status"`
	Winner        PlayerID   `json:"winner"`
	MoveCount     int        `json:"moveCount"`
	LastMove      *Position  `json:"lastMove,omitempty"`
	WinningLine   []Position `json:"winningLine,omitempty"`
}

func NewGame(listeners ...Listener) *Game {
	return &Game{
		currentPlayer: Player1,
		status:        StatusActive,
		winner:        Empty,
		listeners:     listeners,
	}
}

// Subscribe adds a listener for subsequent events.
func (g *Game) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

func (g *Game) emit(e Event) {
	for _, l := range g.listeners {
		l.OnEvent(e)
	}
}

// RequestMove plays column for the player whose turn it is.
//
// The order is fixed: place, check the mover for a win, check for a tie,
// then hand the turn over. Rejected moves change nothing.
func (g *Game) RequestMove(column int) (MoveResult, error) {
	if g.IsFinished() {
		return MoveResult{}, errors.Wrapf(ErrGameOver, "game finished as %s", g.status)
	}

	if !validColumn(column) {
		return MoveResult{}, errors.Wrapf(ErrInvalidColumn, "column %d", column)
	}

	player := g.currentPlayer
	row, err := g.board.DropPiece(column, player)
	if err != nil {
		if errors.Is(err, ErrColumnFull) {
			g.emit(ColumnFull(column))
		}
		return MoveResult{}, err
	}

	g.moveCount++
	g.lastMove = &Position{Row: row, Column: column}
	g.emit(PiecePlaced(row, column, player))

	result := MoveResult{Row: row, Column: column, Player: player}

	if g.board.CheckWinAt(row, column, player) {
		g.status = StatusWon
		g.winner = player
		g.emit(GameWon(player))
		return g.finish(result), nil
	}

	if g.board.IsFull() {
		g.status = StatusDraw
		g.emit(GameTied())
		return g.finish(result), nil
	}

	g.currentPlayer = player.Other()
	g.emit(TurnChanged(g.currentPlayer))
	return g.finish(result), nil
}

func (g *Game) finish(r MoveResult) MoveResult {
	r.Status = g.status
	r.Winner = g.winner
	r.NextPlayer = g.currentPlayer
	if g.IsFinished() {
		r.NextPlayer = Empty
	}
	return r
}

// CheckForWin reports whether the player to move (or the winner, once the
// game is won) has four in a row. It does not modify the game.
func (g *Game) CheckForWin() bool {
	return g.board.CheckForWin(g.currentPlayer)
}

func (g *Game) IsTie() bool {
	return g.status == StatusDraw
}

func (g *Game) IsFinished() bool {
	return g.status == StatusWon || g.status == StatusDraw
}

// Board returns a copy of the grid.
func (g *Game) Board() Board {
	return g.board
}

func (g *Game) CurrentPlayer() PlayerID {
	return g.currentPlayer
}

func (g *Game) Status() GameStatus {
	return g.status
}

func (g *Game) Winner() PlayerID {
	return g.winner
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Board:         g.board,
		CurrentPlayer: g.currentPlayer,
		Status:        g.status,
		Winner:        g.winner,
		MoveCount:     g.moveCount,
	}
	if g.lastMove != nil {
		last := *g.lastMove
		s.LastMove = &last
	}
	if g.status == StatusWon {
		s.WinningLine, _ = g.board.WinningLine(g.winner)
	}
	return s
}
