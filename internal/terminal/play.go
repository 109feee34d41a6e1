package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dropfour/connect4/internal/domain"
)

// Play runs a hot-seat game on in/out until it ends, the players quit with
// "q", in reaches EOF or ctx is cancelled. Columns are typed as 1..7.
func Play(ctx context.Context, in io.Reader, out io.Writer) (*domain.Game, error) {
	renderer := NewRenderer(out)
	game := domain.NewGame(renderer)

	renderer.Draw()
	scanner := bufio.NewScanner(in)

	for !game.IsFinished() {
		if err := ctx.Err(); err != nil {
			return game, err
		}

		fmt.Fprintf(out, "%s, choose a column (1-%d, q to quit): ", renderer.playerLabel(game.CurrentPlayer()), domain.Columns)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return game, errors.Wrap(scanner.Err(), "read move")
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "q") {
			fmt.Fprintln(out, "Bye.")
			return game, nil
		}

		column, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(out, "%q is not a column number\n", input)
			continue
		}

		_, err = game.RequestMove(column - 1)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrInvalidColumn):
			fmt.Fprintf(out, "Pick a column between 1 and %d\n", domain.Columns)
		case errors.Is(err, domain.ErrColumnFull):
			// the renderer already reported it
		default:
			return game, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"status": game.Status(),
		"winner": int(game.Winner()),
		"moves":  game.MoveCount(),
	}).Debug("Terminal game finished")
	return game, nil
}
