package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
)

// SeedTable returns a small demo table: one registered team per supported game.
func SeedTable(rules tournament.Rules, createdAt time.Time) tournament.Table {
	teams := map[tournament.Game]string{
		tournament.GameKabaddi:    "Patna Raiders",
		tournament.GameKhoKho:     "Odisha Chasers",
		tournament.GameBasketball: "Bengaluru Falcons",
		tournament.GameVolleyball: "Kochi Spikers",
	}

	table := tournament.Table{}
	for _, game := range rules.Games() {
		name, ok := teams[game]
		if !ok {
			continue
		}
		rule, _ := rules.Rule(game)
		table.Records = append(table.Records, tournament.NewTeamRecord(
			game,
			name,
			seedNames(name, "Player", rule.Players),
			seedNames(name, "Sub", rule.Substitutes),
			createdAt,
		))
	}
	return table
}

func seedNames(team, role string, n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s %s %d", team, role, i))
	}
	return out
}
