package repository

import (
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// statementRows returns the rows produced by statement idx of a Query response
func statementRows(results []interface{}, idx int) []interface{} {
	if idx >= len(results) {
		return nil
	}
	resp, ok := results[idx].(map[string]interface{})
	if !ok {
		return nil
	}
	rows, ok := resp["result"].([]interface{})
	if !ok {
		// Single record results (e.g. CREATE on an explicit id)
		if row, ok := resp["result"].(map[string]interface{}); ok {
			return []interface{}{row}
		}
		return nil
	}
	return rows
}

// asRecord asserts a row into a field map
func asRecord(row interface{}) (map[string]interface{}, error) {
	data, ok := row.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result format %T", row)
	}
	return data, nil
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		// {"tb": "user", "id": "xyz"} or {"Table": ..., "ID": ...}
		tb, _ := v["tb"].(string)
		if tb == "" {
			tb, _ = v["Table"].(string)
		}
		idPart := v["id"]
		if idPart == nil {
			idPart = v["ID"]
		}
		if tb != "" && idPart != nil {
			return fmt.Sprintf("%s:%v", tb, idPart)
		}
	}
	return fmt.Sprintf("%v", id)
}

// parseTime parses time from the formats the driver may hand back
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// extractCount reads the count field of a "SELECT count() ... GROUP ALL" response
func extractCount(results []interface{}) int {
	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return 0
	}
	data, ok := rows[0].(map[string]interface{})
	if !ok {
		return 0
	}
	switch c := data["count"].(type) {
	case float64:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}
