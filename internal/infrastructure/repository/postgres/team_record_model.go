package postgres

import "time"

const teamRecordsTable = "team_records"

type teamRecordTableModel struct {
	ID           int64      `db:"id"`
	RowIndex     int        `db:"row_index"`
	RecordedAt   string     `db:"recorded_at"`
	Game         string     `db:"game"`
	Team         string     `db:"team"`
	Players      string     `db:"players"`
	Substitutes  string     `db:"substitutes"`
	Played       int        `db:"played"`
	Won          int        `db:"won"`
	Lost         int        `db:"lost"`
	Draw         int        `db:"draw"`
	GoalsFor     int        `db:"goals_for"`
	GoalsAgainst int        `db:"goals_against"`
	Points       int        `db:"points"`
	CreatedAt    time.Time  `db:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type teamRecordInsertModel struct {
	RowIndex     int    `db:"row_index"`
	RecordedAt   string `db:"recorded_at"`
	Game         string `db:"game"`
	Team         string `db:"team"`
	Players      string `db:"players"`
	Substitutes  string `db:"substitutes"`
	Played       int    `db:"played"`
	Won          int    `db:"won"`
	Lost         int    `db:"lost"`
	Draw         int    `db:"draw"`
	GoalsFor     int    `db:"goals_for"`
	GoalsAgainst int    `db:"goals_against"`
	Points       int    `db:"points"`
}
