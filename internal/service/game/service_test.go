package game

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/dropfour/connect4/internal/domain"
)

type sinkRecorder struct {
	mu     sync.Mutex
	events map[string][]domain.Event
}

func newSinkRecorder() *sinkRecorder {
	return &sinkRecorder{events: make(map[string][]domain.Event)}
}

func (r *sinkRecorder) Publish(gameID string, e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[gameID] = append(r.events[gameID], e)
}

func (r *sinkRecorder) get(gameID string) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events[gameID]...)
}

func TestServiceMoveFlow(t *testing.T) {
	sink := newSinkRecorder()
	svc := NewService(NewSessionManager(sink))

	gameID, snap := svc.NewGame()
	if gameID == "" {
		t.Fatal("expected a game id")
	}
	if snap.CurrentPlayer != domain.Player1 || snap.Status != domain.StatusActive {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}

	res, err := svc.Move(gameID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Row != domain.Rows-1 || res.Player != domain.Player1 || res.NextPlayer != domain.Player2 {
		t.Fatalf("unexpected result %+v", res)
	}

	events := sink.get(gameID)
	if len(events) != 2 || events[0].Type != domain.EventPiecePlaced || events[1].Type != domain.EventTurnChanged {
		t.Fatalf("expected piece_placed and turn_changed, got %+v", events)
	}

	snap, err = svc.Snapshot(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Board[domain.Rows-1][3] != domain.Player1 || snap.MoveCount != 1 {
		t.Errorf("snapshot does not reflect the move: %+v", snap)
	}
}

func TestServiceUnknownGame(t *testing.T) {
	svc := NewService(NewSessionManager())

	if _, err := svc.Move("missing", 0); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound from Move, got %v", err)
	}
	if _, err := svc.Snapshot("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound from Snapshot, got %v", err)
	}
	if err := svc.Delete("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound from Delete, got %v", err)
	}
}

func TestGamesAreIndependent(t *testing.T) {
	sink := newSinkRecorder()
	svc := NewService(NewSessionManager(sink))

	first, _ := svc.NewGame()
	second, _ := svc.NewGame()

	for _, column := range []int{0, 1, 0, 1, 0, 1, 0} {
		if _, err := svc.Move(first, column); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := svc.Snapshot(first)
	b, _ := svc.Snapshot(second)
	if a.Status != domain.StatusWon {
		t.Fatalf("expected the first game to be won, got %s", a.Status)
	}
	if b.Status != domain.StatusActive || b.MoveCount != 0 {
		t.Fatalf("second game changed: %+v", b)
	}
	if len(sink.get(second)) != 0 {
		t.Error("events of one game leaked into another")
	}

	if _, err := svc.Move(first, 5); !errors.Is(err, domain.ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	sink := newSinkRecorder()
	svc := NewService(NewSessionManager(sink))
	gameID, _ := svc.NewGame()

	// a lucky interleaving may win early; accepted moves must still match
	// the board either way
	var wg sync.WaitGroup
	for column := 0; column < domain.Columns; column++ {
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(c int) {
				defer wg.Done()
				_, _ = svc.Move(gameID, c)
			}(column)
		}
	}
	wg.Wait()

	snap, err := svc.Snapshot(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Board.Pieces() != snap.MoveCount {
		t.Fatalf("board has %d pieces but %d moves were counted", snap.Board.Pieces(), snap.MoveCount)
	}

	placed := 0
	for _, e := range sink.get(gameID) {
		if e.Type == domain.EventPiecePlaced {
			placed++
		}
	}
	if placed != snap.MoveCount {
		t.Errorf("expected %d piece_placed events, got %d", snap.MoveCount, placed)
	}
}

func TestListSessions(t *testing.T) {
	sm := NewSessionManager()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return clock }

	first := sm.CreateSession()
	clock = clock.Add(time.Minute)
	second := sm.CreateSession()

	if _, err := second.RequestMove(2); err != nil {
		t.Fatal(err)
	}

	list := sm.ListSessions()
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].GameID != first.GameID || list[1].GameID != second.GameID {
		t.Error("sessions are not ordered by creation time")
	}
	if list[1].MoveCount != 1 || list[1].CurrentPlayer != domain.Player2 {
		t.Errorf("unexpected summary %+v", list[1])
	}
}

func TestCleanupOldSessions(t *testing.T) {
	sm := NewSessionManager()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return clock }

	idle := sm.CreateSession()
	finished := sm.CreateSession()
	fresh := sm.CreateSession()

	for _, column := range []int{0, 1, 0, 1, 0, 1, 0} {
		if _, err := finished.RequestMove(column); err != nil {
			t.Fatal(err)
		}
	}

	clock = clock.Add(2 * time.Hour)
	if _, err := fresh.RequestMove(3); err != nil {
		t.Fatal(err)
	}

	removed := sm.CleanupOldSessions(3*time.Hour, time.Hour)
	if removed != 1 {
		t.Fatalf("expected only the finished session to be removed, got %d", removed)
	}
	if _, ok := sm.GetSession(finished.GameID); ok {
		t.Error("finished session survived cleanup")
	}

	clock = clock.Add(2 * time.Hour)
	removed = sm.CleanupOldSessions(3*time.Hour, time.Hour)
	if removed != 1 {
		t.Fatalf("expected the idle session to be removed, got %d", removed)
	}
	if _, ok := sm.GetSession(idle.GameID); ok {
		t.Error("idle session survived cleanup")
	}
	if _, ok := sm.GetSession(fresh.GameID); !ok {
		t.Error("recently played session was removed")
	}
}

func TestCleanupKeepsSessionPlayedAfterScan(t *testing.T) {
	sm := NewSessionManager()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return clock }

	session := sm.CreateSession()
	clock = clock.Add(2 * time.Hour)
	scanned := clock

	if !session.expired(scanned, time.Hour, time.Hour) {
		t.Fatal("expected the idle session to be a cleanup candidate")
	}

	// a move lands between the scan and the eviction
	clock = clock.Add(time.Second)
	if _, err := session.RequestMove(3); err != nil {
		t.Fatal(err)
	}

	if removed := sm.removeExpired([]string{session.GameID, "missing"}, scanned, time.Hour, time.Hour); removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
	if _, ok := sm.GetSession(session.GameID); !ok {
		t.Error("session played after the scan was evicted")
	}
}
