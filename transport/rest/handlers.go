package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/usecase"
)

const maxBodySize = 1 << 12

type Handlers interface {
	Ping(w http.ResponseWriter, _ *http.Request)

	CreateSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	EndSession(w http.ResponseWriter, r *http.Request)
	MakeMove(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
	Analyze(w http.ResponseWriter, r *http.Request)
}

type gameManager interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
	MakeMove(ctx context.Context, id string, cell entity.Cell) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	Analyze(board entity.Board, player entity.Mark) (*usecase.Analysis, error)
}

type handlers struct {
	logger      *slog.Logger
	gameManager gameManager
}

func NewHandlers(logger *slog.Logger, gameManager gameManager) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameManager: gameManager,
	}
}

type errorResponse struct {
	Error   string          `json:"error"`
	Session *entity.Session `json:"session,omitempty"`
}

type analyzeRequest struct {
	Board  entity.Board `json:"board"`
	Player entity.Mark  `json:"player"`
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameManager.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, session)
}

func (that *handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameManager.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *handlers) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := that.gameManager.EndSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	var cell entity.Cell
	if err := decodeBody(w, r, &cell); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	session, err := that.gameManager.MakeMove(r.Context(), mux.Vars(r)["id"], cell)
	if err != nil {
		that.writeError(w, err, session)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *handlers) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameManager.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	analysis, err := that.gameManager.Analyze(req.Board, req.Player)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, analysis)
}

func (that *handlers) writeError(w http.ResponseWriter, err error, session *entity.Session) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error(), Session: session})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, entity.ErrMalformedBoard):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	return decoder.Decode(v)
}
