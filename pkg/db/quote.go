package db

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteOptions captures the dialect-specific parts of literal rendering.
// Everything else (strings, numbers, NULL) renders identically across the
// supported dialects.
type QuoteOptions struct {
	// BoolLiteral renders a boolean. SQLite uses 1/0, PostgreSQL
	// TRUE/FALSE.
	BoolLiteral func(bool) string
	// BytesLiteral renders a byte slice as a blob literal.
	BytesLiteral func([]byte) string
	// TimeLayout formats time values; the result is quoted as a string.
	TimeLayout string
}

// Quote renders v as a SQL literal according to opts. Unknown types fall
// back to their fmt rendering, quoted as a string, which is always safe to
// embed even if semantically wrong for exotic types.
func Quote(v any, opts QuoteOptions) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return QuoteString(val)
	case bool:
		return opts.BoolLiteral(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []byte:
		return opts.BytesLiteral(val)
	case time.Time:
		return QuoteString(val.UTC().Format(opts.TimeLayout))
	case decimal.Decimal:
		// Decimals render as bare numeric literals to avoid float
		// round-tripping.
		return val.String()
	case uuid.UUID:
		return QuoteString(val.String())
	case fmt.Stringer:
		return QuoteString(val.String())
	default:
		return QuoteString(fmt.Sprintf("%v", val))
	}
}

// QuoteString renders s as a single-quoted SQL string literal with
// embedded quotes doubled.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// HexLiteral renders b as an X'..' blob literal (SQLite, MySQL).
func HexLiteral(b []byte) string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}

// ByteaLiteral renders b in PostgreSQL bytea hex form.
func ByteaLiteral(b []byte) string {
	return "'\\x" + hex.EncodeToString(b) + "'"
}
