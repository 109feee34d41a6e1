package game

import (
	"github.com/pkg/errors"

	"github.com/dropfour/connect4/internal/domain"
)

// Service is the entry point for game logic (facade)
type Service struct {
	Sessions *SessionManager
}

func NewService(sm *SessionManager) *Service {
	return &Service{Sessions: sm}
}

func (s *Service) NewGame() (string, domain.Snapshot) {
	session := s.Sessions.CreateSession()
	return session.GameID, session.Snapshot()
}

func (s *Service) session(gameID string) (*GameSession, error) {
	session, ok := s.Sessions.GetSession(gameID)
	if !ok {
		return nil, errors.Wrapf(ErrGameNotFound, "game %s", gameID)
	}
	return session, nil
}

// Move requests column in the given game.
func (s *Service) Move(gameID string, column int) (domain.MoveResult, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.MoveResult{}, err
	}
	return session.RequestMove(column)
}

func (s *Service) Snapshot(gameID string) (domain.Snapshot, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *Service) List() []Summary {
	return s.Sessions.ListSessions()
}

func (s *Service) Delete(gameID string) error {
	return s.Sessions.RemoveSession(gameID)
}
