package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/riskibarqy/tournament-desk/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

// ExportFilename is the suggested name for a downloaded copy of the table.
const ExportFilename = "sports_tournament_dataset.csv"

type RegisterTeamInput struct {
	Game        tournament.Game
	TeamName    string
	Players     []string
	Substitutes []string
}

type RecordMatchInput struct {
	Game         tournament.Game
	Team         string
	GoalsFor     int
	GoalsAgainst int
}

// GameRule pairs a game with its roster rule for catalog listings.
type GameRule struct {
	Game tournament.Game
	Rule tournament.SportRule
}

// TournamentService registers teams and records match results against the store.
// mu serializes every load-mutate-save cycle, so one service instance is the single
// writer for its store. Separate processes sharing a file are not coordinated.
type TournamentService struct {
	store  tournament.Store
	rules  tournament.Rules
	clock  clockwork.Clock
	logger *logging.Logger

	mu sync.Mutex
}

func NewTournamentService(
	store tournament.Store,
	rules tournament.Rules,
	clock clockwork.Clock,
	logger *logging.Logger,
) *TournamentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &TournamentService{
		store:  store,
		rules:  rules,
		clock:  clock,
		logger: logger,
	}
}

func (s *TournamentService) ListSupportedGames() []tournament.Game {
	return s.rules.Games()
}

func (s *TournamentService) ListGameRules() []GameRule {
	games := s.rules.Games()
	out := make([]GameRule, 0, len(games))
	for _, game := range games {
		rule, _ := s.rules.Rule(game)
		out = append(out, GameRule{Game: game, Rule: rule})
	}
	return out
}

func (s *TournamentService) GetRule(game tournament.Game) (tournament.SportRule, error) {
	game = normalizeGame(game)
	rule, ok := s.rules.Rule(game)
	if !ok {
		return tournament.SportRule{}, &ValidationError{
			Reason: ReasonUnknownGame,
			Err:    fmt.Errorf("%w: %q", tournament.ErrUnknownGame, game),
		}
	}
	return rule, nil
}

// RegisterTeam appends a new zeroed record. Registering an existing (game, team)
// pair again adds a second row; match results only ever touch the first one.
func (s *TournamentService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (tournament.TeamRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.RegisterTeam")
	defer span.End()

	input.Game = normalizeGame(input.Game)
	if err := s.rules.ValidateRegistration(input.Game, input.TeamName, input.Players, input.Substitutes); err != nil {
		return tournament.TeamRecord{}, validationFromDomain(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.store.LoadAll(ctx)
	if err != nil {
		return tournament.TeamRecord{}, storeError("load team table", err)
	}

	record := tournament.NewTeamRecord(input.Game, input.TeamName, input.Players, input.Substitutes, s.clock.Now())
	if _, exists := table.Find(record.Game, record.Team); exists {
		s.logger.WarnContext(ctx, "duplicate team registration",
			"game", string(record.Game),
			"team", record.Team,
		)
	}

	table.Records = append(table.Records, record)
	if err := s.store.SaveAll(ctx, table); err != nil {
		return tournament.TeamRecord{}, storeError("save team table", err)
	}

	s.logger.InfoContext(ctx, "team registered",
		"game", string(record.Game),
		"team", record.Team,
		"rows", table.Len(),
	)

	return record, nil
}

// RecordMatchResult folds one match into the first record matching (game, team).
// Calls are not idempotent: the same result recorded twice counts twice.
func (s *TournamentService) RecordMatchResult(ctx context.Context, input RecordMatchInput) (tournament.TeamRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.RecordMatchResult")
	defer span.End()

	input.Game = normalizeGame(input.Game)
	if input.GoalsFor < 0 || input.GoalsAgainst < 0 {
		return tournament.TeamRecord{}, &ValidationError{
			Reason: ReasonNegativeGoals,
			Err: fmt.Errorf("%w: goals_for=%d goals_against=%d",
				tournament.ErrNegativeGoals, input.GoalsFor, input.GoalsAgainst),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.store.LoadAll(ctx)
	if err != nil {
		return tournament.TeamRecord{}, storeError("load team table", err)
	}

	team := strings.TrimSpace(input.Team)
	idx, ok := table.Find(input.Game, team)
	if !ok {
		return tournament.TeamRecord{}, &NotFoundError{
			Reason: ReasonTeamNotRegistered,
			Game:   input.Game,
			Team:   team,
		}
	}

	record := &table.Records[idx]
	outcome, err := record.ApplyResult(input.GoalsFor, input.GoalsAgainst)
	if err != nil {
		return tournament.TeamRecord{}, validationFromDomain(err)
	}

	if err := s.store.SaveAll(ctx, table); err != nil {
		return tournament.TeamRecord{}, storeError("save team table", err)
	}

	s.logger.InfoContext(ctx, "match result recorded",
		"game", string(record.Game),
		"team", record.Team,
		"outcome", string(outcome),
		"played", record.Played,
		"points", record.Points,
	)

	return *record, nil
}

// LoadAll returns the full table for display or export.
func (s *TournamentService) LoadAll(ctx context.Context) (tournament.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.LoadAll")
	defer span.End()

	table, err := s.store.LoadAll(ctx)
	if err != nil {
		return tournament.Table{}, storeError("load team table", err)
	}
	return table, nil
}

// ListTeamsByGame returns one game's records ordered by points, highest first.
// Ties keep registration order.
func (s *TournamentService) ListTeamsByGame(ctx context.Context, game tournament.Game) ([]tournament.TeamRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ListTeamsByGame")
	defer span.End()

	game = normalizeGame(game)
	if _, err := s.GetRule(game); err != nil {
		return nil, err
	}

	table, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]tournament.TeamRecord, 0, table.Len())
	for _, item := range table.Records {
		if item.Game == game {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})

	return out, nil
}

// ListGamesWithTeams returns the distinct games present in the table, first seen first.
func (s *TournamentService) ListGamesWithTeams(ctx context.Context) ([]tournament.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ListGamesWithTeams")
	defer span.End()

	table, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[tournament.Game]struct{})
	out := make([]tournament.Game, 0, len(s.rules.Games()))
	for _, item := range table.Records {
		if _, ok := seen[item.Game]; ok {
			continue
		}
		seen[item.Game] = struct{}{}
		out = append(out, item.Game)
	}
	return out, nil
}

// ExportCSV encodes the full table the way the CSV store persists it.
func (s *TournamentService) ExportCSV(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ExportCSV")
	defer span.End()

	table, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := tournament.EncodeCSV(buf, table); err != nil {
		return nil, fmt.Errorf("encode team table: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func normalizeGame(game tournament.Game) tournament.Game {
	return tournament.Game(strings.TrimSpace(string(game)))
}

func storeError(op string, err error) error {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
