package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// Board is the grid of cells, indexed [row][column] with row 0 at the top.
// It is a value type: assigning a Board copies it.
type Board [Rows][Columns]PlayerID

func validColumn(column int) bool {
	return column >= 0 && column < Columns
}

func inBounds(row, column int) bool {
	return row >= 0 && row < Rows && column >= 0 && column < Columns
}

// Cell returns the occupant of (row, column), or Empty when the
// coordinates are outside the grid.
func (b Board) Cell(row, column int) PlayerID {
	if !inBounds(row, column) {
		return Empty
	}
	return b[row][column]
}

// FindDropRow returns the row a piece dropped into column would land on.
func (b Board) FindDropRow(column int) (int, error) {
	if !validColumn(column) {
		return -1, errors.Wrapf(ErrInvalidColumn, "column %d", column)
	}

	// scanning from the bottom row (Rows-1) towards the top (0)
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			return row, nil
		}
	}

	return -1, errors.Wrapf(ErrColumnFull, "column %d", column)
}

// DropPiece settles a piece for player into column and returns its row.
// The board is left untouched when an error is returned.
func (b *Board) DropPiece(column int, player PlayerID) (int, error) {
	row, err := b.FindDropRow(column)
	if err != nil {
		return -1, err
	}

	b[row][column] = player
	return row, nil
}

// IsFull reports whether every cell of every row is occupied.
func (b Board) IsFull() bool {
	for row := 0; row < Rows; row++ {
		for column := 0; column < Columns; column++ {
			if b[row][column] == Empty {
				return false
			}
		}
	}
	return true
}

// ValidMoves lists the columns that can still take a piece.
func (b Board) ValidMoves() []int {
	moves := make([]int, 0, Columns)
	for column := 0; column < Columns; column++ {
		if b[0][column] == Empty {
			moves = append(moves, column)
		}
	}
	return moves
}

// Pieces counts the occupied cells.
func (b Board) Pieces() int {
	count := 0
	for row := range b {
		for column := range b[row] {
			if b[row][column] != Empty {
				count++
			}
		}
	}
	return count
}

// String renders the board one row per line, '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		for column := 0; column < Columns; column++ {
			if column > 0 {
				sb.WriteByte(' ')
			}
			switch b[row][column] {
			case Player1:
				sb.WriteByte('1')
			case Player2:
				sb.WriteByte('2')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard builds a board from Rows lines, top row first, in the format
// produced by Board.String. Spaces are ignored.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, errors.Errorf("expected %d rows, got %d", Rows, len(rows))
	}

	for row, line := range rows {
		line = strings.ReplaceAll(line, " ", "")
		if len(line) != Columns {
			return b, errors.Errorf("row %d: expected %d cells, got %d", row, Columns, len(line))
		}
		for column, ch := range line {
			switch ch {
			case '.':
				b[row][column] = Empty
			case '1':
				b[row][column] = Player1
			case '2':
				b[row][column] = Player2
			default:
				return b, errors.Errorf("row %d: unexpected cell %q", row, ch)
			}
		}
	}
	return b, nil
}
