package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/pkg"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// Analysis is the engine's answer for an arbitrary board.
type Analysis struct {
	Board   entity.Board   `json:"board"`
	Player  entity.Mark    `json:"player"`
	Next    *entity.Board  `json:"next,omitempty"`
	Move    *entity.Cell   `json:"move,omitempty"`
	Value   int            `json:"value"`
	Outcome entity.Outcome `json:"outcome,omitempty"`
	Nodes   int            `json:"nodes"`
}

// GameManager runs human-versus-agent sessions kept in storage. Moves on the
// same session are serialized; different sessions proceed in parallel.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	autoReset   bool

	locksMutex sync.Mutex
	locks      map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, autoReset bool) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
		autoReset:   autoReset,
		locks:       make(map[string]*sessionLock),
	}
}

// GetOrCreateSession returns the stored session for id, or a new empty one
// when id is blank or has expired.
func (that *GameManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return that.CreateSession(ctx)
	}

	unlock := that.lock(id)
	defer unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err == nil {
		return session, nil
	}

	if !errors.Is(err, apperror.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	session = entity.NewSession(id)
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed create session: %w", err)
	}

	that.logger.Info("session recreated", "sessionID", id)

	return session, nil
}

func (that *GameManager) CreateSession(ctx context.Context) (*entity.Session, error) {
	id, err := pkg.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed generate session id: %w", err)
	}

	session := entity.NewSession(id)
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", id)

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	return session, nil
}

// MakeMove applies the human move at cell and the agent's reply. On a rejected
// move the unchanged session is returned together with the error.
func (that *GameManager) MakeMove(ctx context.Context, id string, cell entity.Cell) (*entity.Session, error) {
	log := that.logger.With("method", "MakeMove", "sessionID", id, "cell", cell.String())

	unlock := that.lock(id)
	defer unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	if err = session.ConfirmOngoingState(); err != nil {
		return session, err
	}

	controller := tictactoe.NewGameController(session.Board, &endLogger{log: log})

	outcome, err := controller.ApplyHumanMove(cell)
	if err != nil {
		log.Debug("move rejected", "error", err)
		return session, fmt.Errorf("failed make move: %w", err)
	}

	if cell := controller.LastAgentMove(); cell != nil {
		stats := controller.SearchStats()
		log.Debug("agent replied", "agentCell", cell.String(), "nodes", stats.Nodes, "evaluations", stats.Evaluations)
	}

	session.Board = controller.Board()
	session.LastAgentMove = controller.LastAgentMove()
	session.Moves++
	if session.LastAgentMove != nil {
		session.Moves++
	}
	session.Finish(outcome)

	stored := session
	if session.IsFinished() && that.autoReset {
		snapshot := *session
		stored = &snapshot
		stored.Reset()
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed update session: %w", err)
	}

	return session, nil
}

// Reset puts the session back to an empty board.
func (that *GameManager) Reset(ctx context.Context, id string) (*entity.Session, error) {
	unlock := that.lock(id)
	defer unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	session.Reset()

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed update session: %w", err)
	}

	that.logger.Info("session reset", "sessionID", id)

	return session, nil
}

func (that *GameManager) EndSession(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed delete session: %w", err)
	}

	return nil
}

// Analyze runs the search on board for player without touching any session.
// player must be the side to move on board.
func (that *GameManager) Analyze(board entity.Board, player entity.Mark) (*Analysis, error) {
	if !player.IsPlayer() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, player)
	}

	if !board.IsValid() {
		return nil, fmt.Errorf("%w: %s", entity.ErrMalformedBoard, board)
	}

	if toMove := board.ToMove(); player != toMove {
		return nil, fmt.Errorf("%w: %q to move on %s, got %q", apperror.ErrInvalidPlayer, toMove, board, player)
	}

	engine := tictactoe.NewEngine()
	result := engine.BestMove(board, player)

	analysis := &Analysis{
		Board:   board,
		Player:  player,
		Next:    result.Next,
		Value:   result.Value,
		Outcome: tictactoe.CheckEndCondition(board),
		Nodes:   engine.Stats().Nodes,
	}

	if result.HasMove() {
		if cell, ok := board.Diff(*result.Next); ok {
			analysis.Move = &cell
		}
	}

	return analysis, nil
}

func (that *GameManager) lock(id string) func() {
	that.locksMutex.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &sessionLock{}
		that.locks[id] = l
	}
	l.refs++
	that.locksMutex.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		that.locksMutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMutex.Unlock()
	}
}

type endLogger struct {
	log *slog.Logger
}

func (that *endLogger) GameEnded(outcome entity.Outcome, final entity.Board) {
	that.log.Info("game over", "outcome", outcome, "board", final.String())
}
