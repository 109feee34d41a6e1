package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dropfour/connect4/internal/domain"
	"github.com/dropfour/connect4/internal/service/game"
)

// Games is the game service as seen by the HTTP handlers.
type Games interface {
	NewGame() (string, domain.Snapshot)
	Move(gameID string, column int) (domain.MoveResult, error)
	Snapshot(gameID string) (domain.Snapshot, error)
	List() []game.Summary
	Delete(gameID string) error
}

type GamesHandler struct {
	Games Games
}

func NewGamesHandler(games Games) *GamesHandler {
	return &GamesHandler{Games: games}
}

type gameResponse struct {
	GameID string `json:"gameId"`
	domain.Snapshot
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

type moveResponse struct {
	GameID string `json:"gameId"`
	domain.MoveResult
}

// errorStatus maps engine and service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidColumn):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrColumnFull), errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *GamesHandler) CreateGame(c *gin.Context) {
	gameID, snap := h.Games.NewGame()
	c.JSON(http.StatusCreated, gameResponse{GameID: gameID, Snapshot: snap})
}

// ListGames returns all games held in memory
func (h *GamesHandler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.Games.List())
}

func (h *GamesHandler) GetGame(c *gin.Context) {
	gameID := c.Param("id")
	snap, err := h.Games.Snapshot(gameID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gameResponse{GameID: gameID, Snapshot: snap})
}

func (h *GamesHandler) MakeMove(c *gin.Context) {
	gameID := c.Param("id")

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be {\"column\": <0-6>}"})
		return
	}

	res, err := h.Games.Move(gameID, *req.Column)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			logrus.WithError(err).WithField("game_id", gameID).Error("Move failed")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, moveResponse{GameID: gameID, MoveResult: res})
}

func (h *GamesHandler) DeleteGame(c *gin.Context) {
	if err := h.Games.Delete(c.Param("id")); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
