package postgres

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	qb "github.com/riskibarqy/tournament-desk/internal/platform/querybuilder"
)

// insertBatchSize keeps one INSERT well under the 65535 bind-parameter limit.
const insertBatchSize = 500

// TeamRecordStore keeps the team table in Postgres. SaveAll runs in one
// transaction: it purges rows soft-deleted by the previous save, soft-deletes the
// live rows and inserts the new table, so at most one superseded copy of the
// table is retained. row_index keeps table order. Non-canonical CSV columns are
// not persisted here.
type TeamRecordStore struct {
	db *sqlx.DB
}

func NewTeamRecordStore(db *sqlx.DB) *TeamRecordStore {
	return &TeamRecordStore{db: db}
}

func (s *TeamRecordStore) EnsureInitialized(ctx context.Context) error {
	query, err := qb.Select("COUNT(1)").From(teamRecordsTable).
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build count team records query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query); err != nil {
		if isUndefinedTable(err) {
			return fmt.Errorf("table %s is missing, run the migration tool first: %w", teamRecordsTable, err)
		}
		return fmt.Errorf("count team records: %w", err)
	}
	return nil
}

// LoadAll returns read errors instead of treating them as an empty table, so a
// database outage can never lead to the table being overwritten.
func (s *TeamRecordStore) LoadAll(ctx context.Context) (tournament.Table, error) {
	query, err := qb.Select("*").From(teamRecordsTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("row_index", "id").
		ToSQL()
	if err != nil {
		return tournament.Table{}, fmt.Errorf("build list team records query: %w", err)
	}

	var rows []teamRecordTableModel
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return tournament.Table{}, fmt.Errorf("list team records: %w", err)
	}

	table := tournament.Table{Records: make([]tournament.TeamRecord, 0, len(rows))}
	for _, row := range rows {
		players, err := decodeRoster(row.Players)
		if err != nil {
			return tournament.Table{}, fmt.Errorf("decode players of team record id=%d: %w", row.ID, err)
		}
		substitutes, err := decodeRoster(row.Substitutes)
		if err != nil {
			return tournament.Table{}, fmt.Errorf("decode substitutes of team record id=%d: %w", row.ID, err)
		}

		table.Records = append(table.Records, tournament.TeamRecord{
			Timestamp:    row.RecordedAt,
			Game:         tournament.Game(strings.TrimSpace(row.Game)),
			Team:         strings.TrimSpace(row.Team),
			Players:      players,
			Substitutes:  substitutes,
			Played:       row.Played,
			Won:          row.Won,
			Lost:         row.Lost,
			Draw:         row.Draw,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			Points:       row.Points,
		})
	}

	return table, nil
}

func (s *TeamRecordStore) SaveAll(ctx context.Context, table tournament.Table) error {
	statements, err := replaceStatements(table)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace team records: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("%s: %w", stmt.op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace team records tx: %w", err)
	}
	return nil
}

type statement struct {
	op    string
	query string
	args  []any
}

// replaceStatements lists the SQL SaveAll runs, in order.
func replaceStatements(table tournament.Table) ([]statement, error) {
	purgeQuery, err := qb.DeleteFrom(teamRecordsTable).
		Where(qb.IsNotNull("deleted_at")).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build purge team records query: %w", err)
	}
	clearQuery, err := qb.Update(teamRecordsTable).
		SetExpr("deleted_at", "NOW()").
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build clear team records query: %w", err)
	}

	out := []statement{
		{op: "purge superseded team records", query: purgeQuery},
		{op: "clear team records", query: clearQuery},
	}

	for start := 0; start < len(table.Records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(table.Records))

		rows := make([]any, 0, end-start)
		for idx := start; idx < end; idx++ {
			insertModel, err := toInsertModel(idx, table.Records[idx])
			if err != nil {
				return nil, err
			}
			rows = append(rows, insertModel)
		}

		query, args, err := qb.InsertModels(teamRecordsTable, rows...)
		if err != nil {
			return nil, fmt.Errorf("build insert team records query: %w", err)
		}
		out = append(out, statement{
			op:    fmt.Sprintf("insert team records %d-%d", start, end-1),
			query: query,
			args:  args,
		})
	}

	return out, nil
}

func toInsertModel(idx int, item tournament.TeamRecord) (teamRecordInsertModel, error) {
	players, err := encodeRoster(item.Players)
	if err != nil {
		return teamRecordInsertModel{}, fmt.Errorf("encode players of %s/%s: %w", item.Game, item.Team, err)
	}
	substitutes, err := encodeRoster(item.Substitutes)
	if err != nil {
		return teamRecordInsertModel{}, fmt.Errorf("encode substitutes of %s/%s: %w", item.Game, item.Team, err)
	}

	return teamRecordInsertModel{
		RowIndex:     idx,
		RecordedAt:   item.Timestamp,
		Game:         string(item.Game),
		Team:         item.Team,
		Players:      players,
		Substitutes:  substitutes,
		Played:       item.Played,
		Won:          item.Won,
		Lost:         item.Lost,
		Draw:         item.Draw,
		GoalsFor:     item.GoalsFor,
		GoalsAgainst: item.GoalsAgainst,
		Points:       item.Points,
	}, nil
}

func encodeRoster(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	return sonic.MarshalString(names)
}

func decodeRoster(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var names []string
	if err := sonic.UnmarshalString(raw, &names); err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
