package sqltype

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Built-in types.
var (
	Boolean = New("boolean", CodeBoolean,
		func(v bool) (driver.Value, error) { return v, nil },
		decodeBool,
		strconv.ParseBool,
	)

	Int = New("int", CodeInteger,
		func(v int) (driver.Value, error) { return int64(v), nil },
		func(src any) (int, error) {
			n, err := decodeInt64(src)
			return int(n), err
		},
		strconv.Atoi,
	)

	Long = New("bigint", CodeBigint,
		func(v int64) (driver.Value, error) { return v, nil },
		decodeInt64,
		func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
	)

	Double = New("double", CodeDouble,
		func(v float64) (driver.Value, error) { return v, nil },
		decodeFloat64,
		func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
	)

	Varchar = New("varchar", CodeVarchar,
		func(v string) (driver.Value, error) { return v, nil },
		decodeString,
		func(s string) (string, error) { return s, nil },
	)

	Text = New("text", CodeText,
		func(v string) (driver.Value, error) { return v, nil },
		decodeString,
		func(s string) (string, error) { return s, nil },
	)

	Bytes = New("bytes", CodeBinary,
		func(v []byte) (driver.Value, error) { return v, nil },
		func(src any) ([]byte, error) {
			switch s := src.(type) {
			case []byte:
				return s, nil
			case string:
				return []byte(s), nil
			case nil:
				return nil, nil
			}
			return nil, decodeErr("bytes", src)
		},
		nil,
	)

	Timestamp = New("timestamp", CodeTimestamp,
		func(v time.Time) (driver.Value, error) { return v, nil },
		func(src any) (time.Time, error) { return decodeTime(src, time.RFC3339Nano) },
		func(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) },
	)

	Date = New("date", CodeDate,
		func(v time.Time) (driver.Value, error) {
			y, m, d := v.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		},
		func(src any) (time.Time, error) { return decodeTime(src, dateLayout) },
		func(s string) (time.Time, error) { return time.Parse(dateLayout, s) },
	)

	Decimal = New("decimal", CodeDecimal,
		func(v decimal.Decimal) (driver.Value, error) { return v.String(), nil },
		func(src any) (decimal.Decimal, error) {
			var d decimal.Decimal
			if err := d.Scan(src); err != nil {
				return decimal.Decimal{}, err
			}
			return d, nil
		},
		decimal.NewFromString,
	)

	UUID = New("uuid", CodeOther,
		func(v uuid.UUID) (driver.Value, error) { return v.String(), nil },
		func(src any) (uuid.UUID, error) {
			var u uuid.UUID
			if err := u.Scan(src); err != nil {
				return uuid.Nil, err
			}
			return u, nil
		},
		uuid.Parse,
	)

	TextArray = New("text[]", CodeArray,
		func(v []string) (driver.Value, error) { return pq.StringArray(v).Value() },
		func(src any) ([]string, error) {
			var a pq.StringArray
			if err := a.Scan(src); err != nil {
				return nil, err
			}
			return []string(a), nil
		},
		func(s string) ([]string, error) {
			if s == "" {
				return []string{}, nil
			}
			return strings.Split(s, ","), nil
		},
	)
)

// Lookup resolves a type by a schema type name such as "bigint" or
// "varchar(255)". Unknown names fall back to Varchar and report false.
func Lookup(name string) (Type, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	switch n {
	case "bool", "boolean":
		return Boolean, true
	case "int", "integer", "int4", "smallint", "int2", "serial":
		return Int, true
	case "bigint", "int8", "bigserial", "long":
		return Long, true
	case "double", "float", "float8", "real", "double precision":
		return Double, true
	case "decimal", "numeric", "money":
		return Decimal, true
	case "varchar", "character varying", "char", "nvarchar", "string":
		return Varchar, true
	case "text", "clob", "longtext":
		return Text, true
	case "bytea", "blob", "binary", "varbinary", "bytes":
		return Bytes, true
	case "timestamp", "timestamptz", "datetime", "datetime2":
		return Timestamp, true
	case "date":
		return Date, true
	case "uuid", "uniqueidentifier":
		return UUID, true
	case "text[]", "varchar[]":
		return TextArray, true
	}
	return Varchar, false
}

func decodeErr(name string, src any) error {
	return fmt.Errorf("%s: cannot decode %T", name, src)
}

func decodeBool(src any) (bool, error) {
	switch v := src.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case []byte:
		return strconv.ParseBool(string(v))
	case string:
		return strconv.ParseBool(v)
	case nil:
		return false, nil
	}
	return false, decodeErr("boolean", src)
}

func decodeInt64(src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, nil
	}
	return 0, decodeErr("integer", src)
}

func decodeFloat64(src any) (float64, error) {
	switch v := src.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	case nil:
		return 0, nil
	}
	return 0, decodeErr("double", src)
}

func decodeString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	}
	return "", decodeErr("varchar", src)
}

// driverTimeLayouts are the text forms drivers return for time columns
// stored as strings, as SQLite does.
var driverTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func decodeTime(src any, layout string) (time.Time, error) {
	var text string
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case string:
		text = v
	case []byte:
		text = string(v)
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, decodeErr("timestamp", src)
	}
	t, err := time.Parse(layout, text)
	if err == nil {
		return t, nil
	}
	for _, l := range driverTimeLayouts {
		if parsed, perr := time.Parse(l, text); perr == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}
