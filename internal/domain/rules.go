package domain

// Position is a single cell of the board.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type direction struct {
	deltaRow, deltaCol int
}

// horizontal, vertical, diagonal down-right, diagonal down-left
var directions = [4]direction{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// lineFrom reports whether the ToWin cells starting at (row, column) and
// stepping by d are all inside the grid and all owned by player.
func (b Board) lineFrom(row, column int, d direction, player PlayerID) bool {
	for i := 0; i < ToWin; i++ {
		r, c := row+i*d.deltaRow, column+i*d.deltaCol
		if !inBounds(r, c) || b[r][c] != player {
			return false
		}
	}
	return true
}

// WinningLine returns the first line of four owned by player, scanning
// anchors top-left to bottom-right.
func (b Board) WinningLine(player PlayerID) ([]Position, bool) {
	if player == Empty {
		return nil, false
	}

	for row := 0; row < Rows; row++ {
		for column := 0; column < Columns; column++ {
			for _, d := range directions {
				if !b.lineFrom(row, column, d, player) {
					continue
				}
				line := make([]Position, ToWin)
				for i := range line {
					line[i] = Position{Row: row + i*d.deltaRow, Column: column + i*d.deltaCol}
				}
				return line, true
			}
		}
	}
	return nil, false
}

// CheckForWin reports whether player has four in a row anywhere.
func (b Board) CheckForWin(player PlayerID) bool {
	_, ok := b.WinningLine(player)
	return ok
}

// CheckWinAt only looks at the lines passing through (row, column). For the
// cell that was just filled it agrees with CheckForWin, since a new line of
// four must contain the new piece.
func (b Board) CheckWinAt(row, column int, player PlayerID) bool {
	if player == Empty || !inBounds(row, column) || b[row][column] != player {
		return false
	}

	for _, d := range directions {
		count := 1 + b.countInDirection(row, column, d.deltaRow, d.deltaCol, player) +
			b.countInDirection(row, column, -d.deltaRow, -d.deltaCol, player)
		if count >= ToWin {
			return true
		}
	}
	return false
}

// this counts the number of disks in a specific direction
func (b Board) countInDirection(row, column, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for inBounds(r, c) && b[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}
