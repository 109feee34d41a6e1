package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/dropfour/connect4/internal/domain"
)

// Games is the game service as seen by the socket handler.
type Games interface {
	Move(gameID string, column int) (domain.MoveResult, error)
	Snapshot(gameID string) (domain.Snapshot, error)
}

// Handler manages WebSocket dependencies
type Handler struct {
	Hub      *Hub
	Games    Games
	Upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. Requests without an Origin
// header and requests from allowedOrigins are accepted.
func NewHandler(hub *Hub, games Games, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &Handler{
		Hub:   hub,
		Games: games,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades GET /ws/:id and streams the game to the socket.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	if _, err := h.Games.Snapshot(gameID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("[WS] Upgrade error")
		return
	}

	client := newClient(gameID, conn)
	h.Hub.register(client)

	// registered first so no event is missed; events racing the snapshot
	// may already be reflected in it
	h.sendSnapshot(client)

	logrus.WithFields(logrus.Fields{
		"game_id":   gameID,
		"followers": h.Hub.Count(gameID),
	}).Info("[WS] Connection established")

	go client.writePump()
	h.readPump(client)
}

func (h *Handler) sendSnapshot(c *Client) {
	snap, err := h.Games.Snapshot(c.gameID)
	if err != nil {
		c.enqueue(ServerMessage{Type: "error", GameID: c.gameID, Message: err.Error()})
		return
	}
	c.enqueue(ServerMessage{Type: "snapshot", GameID: c.gameID, Snapshot: &snap})
}

// readPump owns the read side of the socket until it closes.
func (h *Handler) readPump(c *Client) {
	defer func() {
		h.Hub.unregister(c)
		c.close()
		logrus.WithField("game_id", c.gameID).Info("[WS] Connection closed")
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("game_id", c.gameID).Debug("[WS] Client disconnected unexpectedly")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.enqueue(ServerMessage{Type: "error", GameID: c.gameID, Message: "invalid message format"})
			continue
		}

		h.processMessage(c, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "move":
		if msg.Column == nil {
			c.enqueue(ServerMessage{Type: "error", GameID: c.gameID, Message: "move requires a column"})
			return
		}
		// events of an accepted move reach every follower through the hub
		if _, err := h.Games.Move(c.gameID, *msg.Column); err != nil {
			c.enqueue(ServerMessage{Type: "error", GameID: c.gameID, Message: err.Error()})
		}

	case "snapshot":
		h.sendSnapshot(c)

	default:
		c.enqueue(ServerMessage{Type: "error", GameID: c.gameID, Message: "unknown message type: " + msg.Type})
	}
}
