package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModels builds one multi-row INSERT from structs of the same type. Columns
// come from exported fields with a `db` tag; placeholders are numbered row by row.
func InsertModels(table string, models ...any) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var (
		rowType reflect.Type
		fields  []int
		cols    []string
	)

	var buf strings.Builder
	args := make([]any, 0)
	argIndex := 1
	for rowIdx, model := range models {
		value, err := structValue(model)
		if err != nil {
			return "", nil, fmt.Errorf("insert row %d: %w", rowIdx, err)
		}

		if rowType == nil {
			rowType = value.Type()
			fields, cols = dbFields(rowType)
			if len(cols) == 0 {
				return "", nil, fmt.Errorf("model %s has no db columns", rowType)
			}
			args = make([]any, 0, len(models)*len(cols))

			buf.WriteString("INSERT INTO ")
			buf.WriteString(table)
			buf.WriteString(" (")
			buf.WriteString(strings.Join(cols, ", "))
			buf.WriteString(") VALUES ")
		} else if value.Type() != rowType {
			return "", nil, fmt.Errorf("insert row %d is %s, expected %s", rowIdx, value.Type(), rowType)
		}

		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for i, field := range fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(placeholder(argIndex))
			args = append(args, value.Field(field).Interface())
			argIndex++
		}
		buf.WriteString(")")
	}

	return buf.String(), args, nil
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct, got %s", value.Kind())
	}
	return value, nil
}

func dbFields(typ reflect.Type) ([]int, []string) {
	fields := make([]int, 0, typ.NumField())
	cols := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		fields = append(fields, i)
		cols = append(cols, col)
	}
	return fields, cols
}
