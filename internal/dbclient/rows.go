package dbclient

import (
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"hostpanel/internal/domain"
)

// readRows scans rows into tagged values, keeping engine column order.
// limit <= 0 reads everything.
func readRows(rows *sql.Rows, limit int) ([]domain.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	typeNames := make([]string, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			typeNames[i] = t.DatabaseTypeName()
		}
	}

	var out []domain.Row
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := domain.Row{Columns: cols, Values: make([]domain.Value, len(cols))}
		for j, v := range values {
			row.Values[j] = normalizeValue(v, typeNames[j])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

// decimalPattern matches JSON number literals. ZEROFILL digits such as "00042"
// do not match and stay text.
var decimalPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

var numericTypes = map[string]bool{
	"TINYINT": true, "SMALLINT": true, "MEDIUMINT": true, "INT": true, "INTEGER": true,
	"BIGINT": true, "DECIMAL": true, "NUMERIC": true, "FLOAT": true, "DOUBLE": true,
	"REAL": true, "YEAR": true, "INT2": true, "INT4": true, "INT8": true,
	"FLOAT4": true, "FLOAT8": true,
}

var binaryTypes = map[string]bool{
	"BLOB": true, "TINYBLOB": true, "MEDIUMBLOB": true, "LONGBLOB": true,
	"BINARY": true, "VARBINARY": true, "BYTEA": true, "BIT": true, "GEOMETRY": true,
}

func baseType(dbType string) string {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	t = strings.TrimPrefix(t, "UNSIGNED ")
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	return t
}

// normalizeValue converts a scanned driver value into a tagged cell.
func normalizeValue(v any, dbType string) domain.Value {
	switch val := v.(type) {
	case nil:
		return domain.NullValue()
	case []byte:
		return normalizeBytes(val, dbType)
	case string:
		if numericTypes[baseType(dbType)] && decimalPattern.MatchString(val) {
			return domain.NumberValue(val)
		}
		return domain.TextValue(val)
	case int64:
		return domain.NumberValue(strconv.FormatInt(val, 10))
	case int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return domain.NumberValue(fmt.Sprint(val))
	case float64:
		return floatValue(val, 64)
	case float32:
		return floatValue(float64(val), 32)
	case bool:
		if val {
			return domain.NumberValue("1")
		}
		return domain.NumberValue("0")
	case time.Time:
		return domain.TextValue(val.Format(time.RFC3339))
	default:
		return domain.TextValue(fmt.Sprint(val))
	}
}

func normalizeBytes(b []byte, dbType string) domain.Value {
	base := baseType(dbType)
	switch {
	case binaryTypes[base]:
		return domain.BinaryValue(b)
	case numericTypes[base] && decimalPattern.Match(b):
		return domain.NumberValue(string(b))
	case !utf8.Valid(b):
		return domain.BinaryValue(b)
	default:
		return domain.TextValue(string(b))
	}
}

func floatValue(f float64, bits int) domain.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.TextValue(strconv.FormatFloat(f, 'g', -1, bits))
	}
	return domain.NumberValue(strconv.FormatFloat(f, 'g', -1, bits))
}
