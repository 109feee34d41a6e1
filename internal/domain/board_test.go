package domain

import (
	"testing"

	"github.com/pkg/errors"
)

func TestDropPieceGravity(t *testing.T) {
	var b Board

	for i, want := range []int{Rows - 1, Rows - 2, Rows - 3} {
		row, err := b.DropPiece(3, Player1)
		if err != nil {
			t.Fatalf("drop %d: unexpected error: %v", i, err)
		}
		if row != want {
			t.Fatalf("drop %d: expected row %d, got %d", i, want, row)
		}
	}

	if got := b.Cell(Rows-1, 3); got != Player1 {
		t.Errorf("expected bottom cell of column 3 to be Player 1, got %v", got)
	}
	if got := b.Pieces(); got != 3 {
		t.Errorf("expected 3 pieces on the board, got %d", got)
	}
}

func TestFindDropRow(t *testing.T) {
	b, err := ParseBoard(
		"1 . . . . . .",
		"2 . . . . . .",
		"1 . . . . . .",
		"2 . . . . . .",
		"1 . 2 . . . .",
		"2 . 1 . . . 1",
	)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		column  int
		row     int
		wantErr error
	}{
		{"empty column", 1, Rows - 1, nil},
		{"two pieces", 2, Rows - 3, nil},
		{"one piece", 6, Rows - 2, nil},
		{"full column", 0, -1, ErrColumnFull},
		{"negative column", -1, -1, ErrInvalidColumn},
		{"column past the edge", Columns, -1, ErrInvalidColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := b
			row, err := b.FindDropRow(tt.column)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if row != tt.row {
				t.Errorf("expected row %d, got %d", tt.row, row)
			}
			if b != before {
				t.Error("FindDropRow modified the board")
			}
		})
	}
}

func TestDropPieceFullColumnLeavesBoard(t *testing.T) {
	var b Board
	for i := 0; i < Rows; i++ {
		if _, err := b.DropPiece(0, PlayerID(i%2+1)); err != nil {
			t.Fatalf("drop %d: %v", i, err)
		}
	}

	before := b
	if _, err := b.DropPiece(0, Player1); !errors.Is(err, ErrColumnFull) {
		t.Fatalf("expected ErrColumnFull, got %v", err)
	}
	if b != before {
		t.Error("board changed after dropping into a full column")
	}
	if _, err := b.DropPiece(Columns+2, Player1); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
}

func TestIsFull(t *testing.T) {
	full, err := ParseBoard(
		"1 2 1 2 1 2 1",
		"1 2 1 2 1 2 1",
		"2 1 2 1 2 1 2",
		"2 1 2 1 2 1 2",
		"1 2 1 2 1 2 1",
		"1 2 1 2 1 2 1",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !full.IsFull() {
		t.Error("expected full board")
	}

	// only the bottom row full must not count as a tie
	var bottom Board
	for c := 0; c < Columns; c++ {
		bottom[Rows-1][c] = Player1
	}
	if bottom.IsFull() {
		t.Error("board with a single full row reported as full")
	}

	almost := full
	almost[0][3] = Empty
	if almost.IsFull() {
		t.Error("board with one empty cell reported as full")
	}
	if moves := almost.ValidMoves(); len(moves) != 1 || moves[0] != 3 {
		t.Errorf("expected only column 3 to be playable, got %v", moves)
	}
}

func TestParseBoardRoundTrip(t *testing.T) {
	var b Board
	b[5][0] = Player1
	b[5][1] = Player2
	b[4][0] = Player2

	lines := splitLines(b.String())
	parsed, err := ParseBoard(lines...)
	if err != nil {
		t.Fatal(err)
	}
	if parsed != b {
		t.Errorf("expected\n%s\ngot\n%s", b, parsed)
	}

	if _, err := ParseBoard("1 2"); err == nil {
		t.Error("expected an error for a short board")
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}
