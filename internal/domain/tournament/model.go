package tournament

import (
	"strings"
	"time"
)

// Game identifies one of the supported sports.
type Game string

const (
	GameKabaddi    Game = "Kabaddi"
	GameKhoKho     Game = "Kho-Kho"
	GameBasketball Game = "Basketball"
	GameVolleyball Game = "Volleyball"
)

// TimestampLayout is the creation timestamp format stored with every record.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	ColumnTimestamp    = "Timestamp"
	ColumnGame         = "Game"
	ColumnTeam         = "Team"
	ColumnPlayers      = "Players"
	ColumnSubstitutes  = "Substitutes"
	ColumnPlayed       = "Played"
	ColumnWon          = "Won"
	ColumnLost         = "Lost"
	ColumnDraw         = "Draw"
	ColumnGoalsFor     = "Goals_For"
	ColumnGoalsAgainst = "Goals_Against"
	ColumnPoints       = "Points"
)

// Columns is the canonical column order of the persisted team table.
var Columns = []string{
	ColumnTimestamp,
	ColumnGame,
	ColumnTeam,
	ColumnPlayers,
	ColumnSubstitutes,
	ColumnPlayed,
	ColumnWon,
	ColumnLost,
	ColumnDraw,
	ColumnGoalsFor,
	ColumnGoalsAgainst,
	ColumnPoints,
}

// TeamRecord is a registered team's roster and cumulative results for one game.
type TeamRecord struct {
	Timestamp    string
	Game         Game
	Team         string
	Players      []string
	Substitutes  []string
	Played       int
	Won          int
	Lost         int
	Draw         int
	GoalsFor     int
	GoalsAgainst int
	Points       int

	// Extra keeps values of non-canonical columns found in the backing table.
	Extra map[string]string
}

// NewTeamRecord builds a freshly registered record with all counters at zero.
func NewTeamRecord(game Game, teamName string, players, substitutes []string, createdAt time.Time) TeamRecord {
	return TeamRecord{
		Timestamp:   createdAt.Format(TimestampLayout),
		Game:        game,
		Team:        strings.TrimSpace(teamName),
		Players:     trimNames(players),
		Substitutes: trimNames(substitutes),
	}
}

func (r TeamRecord) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Consistent reports whether the derived counters agree with each other.
func (r TeamRecord) Consistent() bool {
	return r.Played == r.Won+r.Lost+r.Draw && r.Points == PointsForWin*r.Won+PointsForDraw*r.Draw
}

func (r TeamRecord) clone() TeamRecord {
	out := r
	out.Players = append([]string(nil), r.Players...)
	out.Substitutes = append([]string(nil), r.Substitutes...)
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Table is the full in-memory team table in storage order.
type Table struct {
	Records []TeamRecord
	// ExtraColumns lists non-canonical columns, in file order, carried through a rewrite.
	ExtraColumns []string
}

func (t Table) Len() int {
	return len(t.Records)
}

// Find returns the index of the first record matching (game, team).
func (t Table) Find(game Game, team string) (int, bool) {
	for idx := range t.Records {
		if t.Records[idx].Game == game && t.Records[idx].Team == team {
			return idx, true
		}
	}
	return -1, false
}

func (t Table) Clone() Table {
	out := Table{
		Records:      make([]TeamRecord, 0, len(t.Records)),
		ExtraColumns: append([]string(nil), t.ExtraColumns...),
	}
	for _, item := range t.Records {
		out.Records = append(out.Records, item.clone())
	}
	return out
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, strings.TrimSpace(name))
	}
	return out
}
