package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/riskibarqy/tournament-desk/internal/app"
	"github.com/riskibarqy/tournament-desk/internal/config"
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/riskibarqy/tournament-desk/internal/usecase"
	"github.com/spf13/cobra"
)

type cli struct {
	stdout io.Writer
	stderr io.Writer

	backend  string
	csvPath  string
	logLevel string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "tournamentctl",
		Short:        "Tournament scorekeeping from the command line",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&c.backend, "backend", "", "store backend (csv, memory, postgres); overrides STORE_BACKEND")
	root.PersistentFlags().StringVar(&c.csvPath, "csv-path", "", "csv store path; overrides STORE_CSV_PATH")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(c.gamesCmd(), c.registerCmd(), c.recordCmd(), c.listCmd(), c.exportCmd())
	return root
}

// withService loads configuration, applies flag overrides and runs fn against
// a freshly assembled service.
func (c *cli) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *usecase.TournamentService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.backend != "" {
		cfg.StoreBackend = strings.ToLower(strings.TrimSpace(c.backend))
	}
	if c.csvPath != "" {
		cfg.StoreCSVPath = c.csvPath
	}

	logger := logging.New(logging.ParseLevel(c.logLevel), c.stderr, "console")
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := app.NewRuntime(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	return fn(ctx, rt.Service)
}

func (c *cli) gamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List supported games and their roster sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := usecase.NewTournamentService(nil, tournament.DefaultRules(), nil, nil)

			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GAME\tPLAYERS\tSUBSTITUTES")
			for _, item := range svc.ListGameRules() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", item.Game, item.Rule.Players, item.Rule.Substitutes)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	var (
		game        string
		team        string
		players     []string
		substitutes []string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a team with its roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *usecase.TournamentService) error {
				record, err := svc.RegisterTeam(ctx, usecase.RegisterTeamInput{
					Game:        tournament.Game(strings.TrimSpace(game)),
					TeamName:    team,
					Players:     players,
					Substitutes: substitutes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "registered %s in %s (%d players, %d substitutes)\n",
					record.Team, record.Game, len(record.Players), len(record.Substitutes))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&game, "game", "", "game name, e.g. Kabaddi")
	cmd.Flags().StringVar(&team, "team", "", "team name")
	cmd.Flags().StringArrayVarP(&players, "player", "p", nil, "player name (repeat per player)")
	cmd.Flags().StringArrayVarP(&substitutes, "sub", "s", nil, "substitute name (repeat per substitute)")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func (c *cli) recordCmd() *cobra.Command {
	var (
		game         string
		team         string
		goalsFor     int
		goalsAgainst int
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one match result for a registered team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *usecase.TournamentService) error {
				record, err := svc.RecordMatchResult(ctx, usecase.RecordMatchInput{
					Game:         tournament.Game(strings.TrimSpace(game)),
					Team:         team,
					GoalsFor:     goalsFor,
					GoalsAgainst: goalsAgainst,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "%s: %s %d-%d, played %d, points %d\n",
					record.Game,
					record.Team,
					goalsFor,
					goalsAgainst,
					record.Played,
					record.Points,
				)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&game, "game", "", "game name")
	cmd.Flags().StringVar(&team, "team", "", "team name")
	cmd.Flags().IntVar(&goalsFor, "for", 0, "goals scored")
	cmd.Flags().IntVar(&goalsAgainst, "against", 0, "goals conceded")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("for")
	_ = cmd.MarkFlagRequired("against")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var game string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the team table, or one game's standings with --game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *usecase.TournamentService) error {
				if strings.TrimSpace(game) != "" {
					records, err := svc.ListTeamsByGame(ctx, tournament.Game(game))
					if err != nil {
						return err
					}
					return writeStandings(c.stdout, records)
				}

				games, err := svc.ListGamesWithTeams(ctx)
				if err != nil {
					return err
				}
				if len(games) == 0 {
					fmt.Fprintln(c.stdout, "no teams registered")
					return nil
				}
				for idx, g := range games {
					records, err := svc.ListTeamsByGame(ctx, g)
					if err != nil {
						return err
					}
					if idx > 0 {
						fmt.Fprintln(c.stdout)
					}
					fmt.Fprintf(c.stdout, "== %s ==\n", g)
					if err := writeStandings(c.stdout, records); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&game, "game", "", "only show this game")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full table as CSV to stdout or --out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *usecase.TournamentService) error {
				payload, err := svc.ExportCSV(ctx)
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					_, err := c.stdout.Write(payload)
					return err
				}
				if err := os.WriteFile(out, payload, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(c.stderr, "exported %d bytes to %s\n", len(payload), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout, suggested "+usecase.ExportFilename+")")
	return cmd
}

func writeStandings(w io.Writer, records []tournament.TeamRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TEAM\tP\tW\tD\tL\tGF\tGA\tGD\tPTS\t")
	for _, item := range records {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			item.Team,
			item.Played,
			item.Won,
			item.Draw,
			item.Lost,
			item.GoalsFor,
			item.GoalsAgainst,
			item.GoalDifference(),
			item.Points,
		)
	}
	return tw.Flush()
}
