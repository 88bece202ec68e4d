package omerogw

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// The gateway returns projection values as JSON. Numbers arrive as
// json.Number and a null as nil.

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value %v (%T) for integer column", v, v)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	default:
		return false
	}
}

// column returns row[i], or an error when the row is too short.
func column(row []any, i int) (any, error) {
	if i >= len(row) {
		return nil, fmt.Errorf("projection row has %d columns, wanted column %d", len(row), i)
	}

	return row[i], nil
}

func int64Column(row []any, i int) (int64, error) {
	v, err := column(row, i)
	if err != nil {
		return 0, err
	}

	return toInt64(v)
}

// firstColumnIDs collects the first column of every row.
func firstColumnIDs(rows [][]any) ([]int64, error) {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := int64Column(row, 0)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}
