// Command tournamentctl registers teams, records results and prints standings
// against the configured store.
//
// Usage:
//
//	tournamentctl games
//	tournamentctl register --game Volleyball --team Spikers --player A ... --sub G ...
//	tournamentctl record --game Volleyball --team Spikers --for 25 --against 20
//	tournamentctl list --game Volleyball
//	tournamentctl export --out sports_tournament_dataset.csv
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
