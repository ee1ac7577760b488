package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/riskibarqy/tournament-desk/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	tournamentService *usecase.TournamentService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(tournamentService *usecase.TournamentService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService: tournamentService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	rules := h.tournamentService.ListGameRules()
	items := make([]gameRuleDTO, 0, len(rules))
	for _, item := range rules {
		items = append(items, gameRuleToDTO(item.Game, item.Rule))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGameRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameRule")
	defer span.End()

	game := gameFromPath(r)
	rule, err := h.tournamentService.GetRule(game)
	if err != nil {
		h.logger.WarnContext(ctx, "get game rule failed", "game", string(game), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameRuleToDTO(game, rule))
}

func (h *Handler) ListTeamsByGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByGame")
	defer span.End()

	game := gameFromPath(r)
	records, err := h.tournamentService.ListTeamsByGame(ctx, game)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams by game failed", "game", string(game), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamRecordsToDTO(records))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	table, err := h.tournamentService.LoadAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamRecordsToDTO(table.Records))
}

func (h *Handler) ExportTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportTeams")
	defer span.End()

	payload, err := h.tournamentService.ExportCSV(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "export teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", usecase.ExportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	var req registerTeamRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.tournamentService.RegisterTeam(ctx, usecase.RegisterTeamInput{
		Game:        tournament.Game(strings.TrimSpace(req.Game)),
		TeamName:    req.TeamName,
		Players:     req.Players,
		Substitutes: req.Substitutes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "game", req.Game, "team", req.TeamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamRecordToDTO(record))
}

func (h *Handler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatch")
	defer span.End()

	var req recordMatchRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.tournamentService.RecordMatchResult(ctx, usecase.RecordMatchInput{
		Game:         tournament.Game(strings.TrimSpace(req.Game)),
		Team:         req.Team,
		GoalsFor:     *req.GoalsFor,
		GoalsAgainst: *req.GoalsAgainst,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match failed", "game", req.Game, "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamRecordToDTO(record))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSON(body io.Reader, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func gameFromPath(r *http.Request) tournament.Game {
	return tournament.Game(strings.TrimSpace(r.PathValue("game")))
}
