package game

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dropfour/connect4/internal/domain"
)

const ErrGameNotFound domain.Error = "game not found"

// EventSink receives every engine event of every session. Publish is called
// while the session is locked and must not block.
type EventSink interface {
	Publish(gameID string, event domain.Event)
}

type GameSession struct {
	GameID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time

	game *domain.Game
	mu   sync.Mutex
	now  func() time.Time
}

// Summary describes a session for listings.
type Summary struct {
	GameID        string            `json:"gameId"`
	Status        domain.GameStatus `json:"status"`
	CurrentPlayer domain.PlayerID   `json:"currentPlayer"`
	Winner        domain.PlayerID   `json:"winner"`
	MoveCount     int               `json:"moveCount"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// RequestMove plays column for the player to move. The whole move, from
// validation to the turn switch, happens under the session lock.
func (gs *GameSession) RequestMove(column int) (domain.MoveResult, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{"game_id": gs.GameID, "column": column})

	res, err := gs.game.RequestMove(column)
	if err != nil {
		log.WithError(err).Debug("Move rejected")
		return res, err
	}

	gs.UpdatedAt = gs.now()
	log.WithFields(logrus.Fields{"row": res.Row, "player": int(res.Player)}).Debug("Move played")

	if gs.game.IsFinished() {
		gs.FinishedAt = gs.UpdatedAt
		log.WithFields(logrus.Fields{
			"status": res.Status,
			"winner": int(res.Winner),
			"moves":  gs.game.MoveCount(),
		}).Info("Game finished")
	}
	return res, nil
}

func (gs *GameSession) Snapshot() domain.Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.game.Snapshot()
}

func (gs *GameSession) IsFinished() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.game.IsFinished()
}

func (gs *GameSession) Summary() Summary {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return Summary{
		GameID:        gs.GameID,
		Status:        gs.game.Status(),
		CurrentPlayer: gs.game.CurrentPlayer(),
		Winner:        gs.game.Winner(),
		MoveCount:     gs.game.MoveCount(),
		CreatedAt:     gs.CreatedAt,
		UpdatedAt:     gs.UpdatedAt,
	}
}

// expired reports whether the session should be evicted at now.
func (gs *GameSession) expired(now time.Time, idleTTL, finishedTTL time.Duration) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.game.IsFinished() {
		return now.Sub(gs.FinishedAt) > finishedTTL
	}
	return now.Sub(gs.UpdatedAt) > idleTTL
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession // gameID → GameSession
	sinks    []EventSink
	mu       sync.RWMutex
	now      func() time.Time
}

// NewSessionManager creates a manager forwarding events to sinks. Sinks must
// be registered before sessions are created.
func NewSessionManager(sinks ...EventSink) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		sinks:    sinks,
		now:      time.Now,
	}
}

func (sm *SessionManager) AddSink(sink EventSink) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sinks = append(sm.sinks, sink)
}

func (sm *SessionManager) CreateSession() *GameSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	gameID := uuid.NewString()
	now := sm.now()

	// sessions keep their own copy so publishing never takes sm.mu
	sinks := append([]EventSink(nil), sm.sinks...)
	listener := domain.ListenerFunc(func(e domain.Event) {
		for _, sink := range sinks {
			sink.Publish(gameID, e)
		}
	})

	session := &GameSession{
		GameID:    gameID,
		CreatedAt: now,
		UpdatedAt: now,
		game:      domain.NewGame(listener),
		now:       sm.now,
	}
	sm.sessions[gameID] = session

	logrus.WithField("game_id", gameID).Info("Created session")
	return session
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return errors.Wrapf(ErrGameNotFound, "game %s", gameID)
	}

	delete(sm.sessions, gameID)
	logrus.WithField("game_id", gameID).Info("Removed session")
	return nil
}

// ListSessions returns summaries ordered by creation time.
func (sm *SessionManager) ListSessions() []Summary {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		sessions = append(sessions, session)
	}
	sm.mu.RUnlock()

	summaries := make([]Summary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, session.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].GameID < summaries[j].GameID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// CleanupOldSessions drops finished sessions older than finishedTTL and
// active sessions without a move for idleTTL. It returns how many were
// removed.
func (sm *SessionManager) CleanupOldSessions(idleTTL, finishedTTL time.Duration) int {
	now := sm.now()

	sm.mu.RLock()
	var stale []string
	for gameID, session := range sm.sessions {
		if session.expired(now, idleTTL, finishedTTL) {
			stale = append(stale, gameID)
		}
	}
	sm.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}

	removed := sm.removeExpired(stale, now, idleTTL, finishedTTL)
	if removed > 0 {
		logrus.WithField("count", removed).Info("Memory cleanup: removed stale game sessions")
	}
	return removed
}

// removeExpired deletes the candidates that are still expired once the write
// lock is held; a move played since the scan keeps its session.
func (sm *SessionManager) removeExpired(candidates []string, now time.Time, idleTTL, finishedTTL time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for _, gameID := range candidates {
		session, ok := sm.sessions[gameID]
		if !ok || !session.expired(now, idleTTL, finishedTTL) {
			continue
		}
		delete(sm.sessions, gameID)
		removed++
	}
	return removed
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
