package httpapi

import (
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
)

type registerTeamRequest struct {
	Game        string   `json:"game" validate:"required"`
	TeamName    string   `json:"team_name" validate:"max=100"`
	Players     []string `json:"players" validate:"max=64"`
	Substitutes []string `json:"substitutes" validate:"max=64"`
}

// Goals are pointers so a missing field is rejected while 0 stays valid.
type recordMatchRequest struct {
	Game         string `json:"game" validate:"required"`
	Team         string `json:"team" validate:"required"`
	GoalsFor     *int   `json:"goals_for" validate:"required"`
	GoalsAgainst *int   `json:"goals_against" validate:"required"`
}

type gameRuleDTO struct {
	Game        string `json:"game"`
	Players     int    `json:"players"`
	Substitutes int    `json:"substitutes"`
}

type teamRecordDTO struct {
	Timestamp      string   `json:"timestamp"`
	Game           string   `json:"game"`
	Team           string   `json:"team"`
	Players        []string `json:"players"`
	Substitutes    []string `json:"substitutes"`
	Played         int      `json:"played"`
	Won            int      `json:"won"`
	Lost           int      `json:"lost"`
	Draw           int      `json:"draw"`
	GoalsFor       int      `json:"goals_for"`
	GoalsAgainst   int      `json:"goals_against"`
	GoalDifference int      `json:"goal_difference"`
	Points         int      `json:"points"`
}

func gameRuleToDTO(game tournament.Game, rule tournament.SportRule) gameRuleDTO {
	return gameRuleDTO{
		Game:        string(game),
		Players:     rule.Players,
		Substitutes: rule.Substitutes,
	}
}

func teamRecordToDTO(v tournament.TeamRecord) teamRecordDTO {
	return teamRecordDTO{
		Timestamp:      v.Timestamp,
		Game:           string(v.Game),
		Team:           v.Team,
		Players:        nonNil(v.Players),
		Substitutes:    nonNil(v.Substitutes),
		Played:         v.Played,
		Won:            v.Won,
		Lost:           v.Lost,
		Draw:           v.Draw,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference(),
		Points:         v.Points,
	}
}

func teamRecordsToDTO(records []tournament.TeamRecord) []teamRecordDTO {
	items := make([]teamRecordDTO, 0, len(records))
	for _, item := range records {
		items = append(items, teamRecordToDTO(item))
	}
	return items
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return append([]string(nil), names...)
}
