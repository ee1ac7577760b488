package tournament

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// ErrMalformedTable marks tabular input that cannot be decoded into a Table.
var ErrMalformedTable = errors.New("malformed team table")

const utf8BOM = "\ufeff"

// DecodeCSV reads a header-first CSV team table. Canonical columns missing from
// the header are backfilled with zero values; unknown columns are preserved.
func DecodeCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, fmt.Errorf("%w: missing header row", ErrMalformedTable)
		}
		return Table{}, fmt.Errorf("%w: read header: %v", ErrMalformedTable, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	index := make(map[string]int, len(header))
	for pos, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; dup {
			return Table{}, fmt.Errorf("%w: duplicate column %q", ErrMalformedTable, name)
		}
		index[name] = pos
	}

	canonical := make(map[string]struct{}, len(Columns))
	for _, col := range Columns {
		canonical[col] = struct{}{}
	}
	table := Table{}
	for _, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := canonical[name]; !ok {
			table.ExtraColumns = append(table.ExtraColumns, name)
		}
	}

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}
		if len(row) > len(header) {
			return Table{}, fmt.Errorf("%w: line %d: expected %d fields, got %d", ErrMalformedTable, line, len(header), len(row))
		}

		record, err := decodeRow(row, index, table.ExtraColumns)
		if err != nil {
			return Table{}, fmt.Errorf("%w: line %d: %v", ErrMalformedTable, line, err)
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

func decodeRow(row []string, index map[string]int, extraColumns []string) (TeamRecord, error) {
	cell := func(col string) (string, bool) {
		pos, ok := index[col]
		if !ok || pos >= len(row) {
			return "", false
		}
		return row[pos], true
	}
	text := func(col string) string {
		v, _ := cell(col)
		return strings.TrimSpace(v)
	}
	count := func(col string) (int, error) {
		v, ok := cell(col)
		if !ok {
			return 0, nil
		}
		n, err := parseCount(v)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", col, err)
		}
		return n, nil
	}

	out := TeamRecord{
		Timestamp: text(ColumnTimestamp),
		Game:      Game(text(ColumnGame)),
		Team:      text(ColumnTeam),
	}

	if v, ok := cell(ColumnPlayers); ok {
		out.Players = decodeNames(v)
	}
	if v, ok := cell(ColumnSubstitutes); ok {
		out.Substitutes = decodeNames(v)
	}

	counters := []struct {
		col string
		dst *int
	}{
		{ColumnPlayed, &out.Played},
		{ColumnWon, &out.Won},
		{ColumnLost, &out.Lost},
		{ColumnDraw, &out.Draw},
		{ColumnGoalsFor, &out.GoalsFor},
		{ColumnGoalsAgainst, &out.GoalsAgainst},
		{ColumnPoints, &out.Points},
	}
	for _, c := range counters {
		n, err := count(c.col)
		if err != nil {
			return TeamRecord{}, err
		}
		*c.dst = n
	}

	if len(extraColumns) > 0 {
		out.Extra = make(map[string]string, len(extraColumns))
		for _, col := range extraColumns {
			v, _ := cell(col)
			out.Extra[col] = v
		}
	}

	return out, nil
}

// parseCount accepts integers and integral floats ("3.0"), as spreadsheet
// tools tend to rewrite numeric columns that way.
func parseCount(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative counter %d", n)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid counter %q", raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative counter %q", raw)
	}
	// float64(math.MaxInt) rounds up to 2^63, which int() cannot hold.
	if f >= float64(math.MaxInt) {
		return 0, fmt.Errorf("counter %q out of range", raw)
	}
	return int(f), nil
}

// decodeNames reads a roster cell. JSON arrays are the current format; any other
// non-empty value is a legacy comma-joined list.
func decodeNames(raw string) []string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return []string{}
	}
	if strings.HasPrefix(value, "[") {
		var names []string
		if err := sonic.UnmarshalString(value, &names); err == nil && names != nil {
			return names
		}
	}

	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		names = append(names, strings.TrimSpace(part))
	}
	return names
}

func encodeNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	return sonic.MarshalString(names)
}

// EncodeCSV writes the table with the canonical header followed by any extra columns.
func EncodeCSV(w io.Writer, table Table) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(Columns)+len(table.ExtraColumns))
	header = append(header, Columns...)
	header = append(header, table.ExtraColumns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for idx, item := range table.Records {
		row, err := encodeRow(item, table.ExtraColumns)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", idx, err)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", idx, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func encodeRow(item TeamRecord, extraColumns []string) ([]string, error) {
	players, err := encodeNames(item.Players)
	if err != nil {
		return nil, fmt.Errorf("encode players: %w", err)
	}
	substitutes, err := encodeNames(item.Substitutes)
	if err != nil {
		return nil, fmt.Errorf("encode substitutes: %w", err)
	}

	row := make([]string, 0, len(Columns)+len(extraColumns))
	row = append(row,
		item.Timestamp,
		string(item.Game),
		item.Team,
		players,
		substitutes,
		strconv.Itoa(item.Played),
		strconv.Itoa(item.Won),
		strconv.Itoa(item.Lost),
		strconv.Itoa(item.Draw),
		strconv.Itoa(item.GoalsFor),
		strconv.Itoa(item.GoalsAgainst),
		strconv.Itoa(item.Points),
	)
	for _, col := range extraColumns {
		row = append(row, item.Extra[col])
	}
	return row, nil
}
