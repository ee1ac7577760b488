package tournament

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrUnknownGame          = errors.New("unknown game")
	ErrEmptyTeamName        = errors.New("team name cannot be empty")
	ErrWrongPlayerCount     = errors.New("wrong player count")
	ErrWrongSubstituteCount = errors.New("wrong substitute count")
	ErrNegativeGoals        = errors.New("goals cannot be negative")
	ErrCounterOverflow      = errors.New("counter overflow")
)

const (
	PointsForWin  = 3
	PointsForDraw = 1
	PointsForLoss = 0
)

// SportRule is the roster composition a game requires.
type SportRule struct {
	Players     int
	Substitutes int
}

// Rules is the static game catalog in display order.
type Rules struct {
	order  []Game
	byGame map[Game]SportRule
}

func DefaultRules() Rules {
	return NewRules(
		RuleEntry{Game: GameKabaddi, Rule: SportRule{Players: 7, Substitutes: 5}},
		RuleEntry{Game: GameKhoKho, Rule: SportRule{Players: 9, Substitutes: 3}},
		RuleEntry{Game: GameBasketball, Rule: SportRule{Players: 5, Substitutes: 7}},
		RuleEntry{Game: GameVolleyball, Rule: SportRule{Players: 6, Substitutes: 4}},
	)
}

type RuleEntry struct {
	Game Game
	Rule SportRule
}

func NewRules(entries ...RuleEntry) Rules {
	rules := Rules{
		order:  make([]Game, 0, len(entries)),
		byGame: make(map[Game]SportRule, len(entries)),
	}
	for _, entry := range entries {
		if _, exists := rules.byGame[entry.Game]; !exists {
			rules.order = append(rules.order, entry.Game)
		}
		rules.byGame[entry.Game] = entry.Rule
	}
	return rules
}

func (r Rules) Games() []Game {
	return append([]Game(nil), r.order...)
}

func (r Rules) Rule(game Game) (SportRule, bool) {
	rule, ok := r.byGame[game]
	return rule, ok
}

// ValidateRegistration checks a roster against the game's rule.
func (r Rules) ValidateRegistration(game Game, teamName string, players, substitutes []string) error {
	rule, ok := r.Rule(game)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}
	if strings.TrimSpace(teamName) == "" {
		return ErrEmptyTeamName
	}
	if !validNames(players, rule.Players) {
		return fmt.Errorf("%w: %s requires %d named players, got %d", ErrWrongPlayerCount, game, rule.Players, len(players))
	}
	if !validNames(substitutes, rule.Substitutes) {
		return fmt.Errorf("%w: %s requires %d named substitutes, got %d", ErrWrongSubstituteCount, game, rule.Substitutes, len(substitutes))
	}
	return nil
}

func validNames(names []string, expected int) bool {
	if len(names) != expected {
		return false
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return false
		}
	}
	return true
}

// Outcome is the classification of one match from a team's point of view.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

func ClassifyOutcome(goalsFor, goalsAgainst int) Outcome {
	switch {
	case goalsFor > goalsAgainst:
		return OutcomeWin
	case goalsFor < goalsAgainst:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// ApplyResult folds one match into the record's cumulative counters.
func (r *TeamRecord) ApplyResult(goalsFor, goalsAgainst int) (Outcome, error) {
	if goalsFor < 0 || goalsAgainst < 0 {
		return "", fmt.Errorf("%w: goals_for=%d goals_against=%d", ErrNegativeGoals, goalsFor, goalsAgainst)
	}

	if r.GoalsFor > math.MaxInt-goalsFor ||
		r.GoalsAgainst > math.MaxInt-goalsAgainst ||
		r.Played == math.MaxInt ||
		r.Points > math.MaxInt-PointsForWin {
		return "", fmt.Errorf("%w: goals_for=%d goals_against=%d", ErrCounterOverflow, goalsFor, goalsAgainst)
	}

	r.Played++
	r.GoalsFor += goalsFor
	r.GoalsAgainst += goalsAgainst

	outcome := ClassifyOutcome(goalsFor, goalsAgainst)
	switch outcome {
	case OutcomeWin:
		r.Won++
		r.Points += PointsForWin
	case OutcomeLoss:
		r.Lost++
		r.Points += PointsForLoss
	default:
		r.Draw++
		r.Points += PointsForDraw
	}

	return outcome, nil
}
