// Package literal renders constant values as N1QL literals.
//
// Formatting is culture invariant: numbers never carry thousands separators
// and always use '.' as the decimal point. Strings are NFC normalized and
// single-quoted with embedded quotes doubled.
package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/docql/internal/ir"
)

// Keywords used for non-numeric scalar literals.
const (
	KeywordNull    = "NULL"
	KeywordMissing = "MISSING"
	KeywordTrue    = "TRUE"
	KeywordFalse   = "FALSE"
)

// Format renders a Go value as a N1QL literal.
// Unsupported Go types fail with UNSUPPORTED_LITERAL_TYPE.
func Format(v any) (string, error) {
	val, err := ir.FromGo(v)
	if err != nil {
		return "", err
	}
	return FormatValue(val)
}

// FormatValue renders an IRValue as a N1QL literal.
func FormatValue(v ir.IRValue) (string, error) {
	var b strings.Builder
	if err := write(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Quote wraps s in single quotes, doubling any embedded single quote.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(norm.NFC.String(s), "'", "''") + "'"
}

func write(b *strings.Builder, v ir.IRValue) error {
	switch val := v.(type) {
	case ir.IRNull:
		b.WriteString(KeywordNull)
	case ir.IRMissing:
		b.WriteString(KeywordMissing)
	case ir.IRBool:
		if val {
			b.WriteString(KeywordTrue)
		} else {
			b.WriteString(KeywordFalse)
		}
	case ir.IRInt:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case ir.IRFloat:
		s, err := formatFloat(float64(val))
		if err != nil {
			return err
		}
		b.WriteString(s)
	case ir.IRDecimal:
		b.WriteString(val.String())
	case ir.IRString:
		b.WriteString(Quote(string(val)))
	case ir.IRTime:
		b.WriteString(Quote(time.Time(val).Format(time.RFC3339Nano)))
	case ir.IRArray:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := write(b, elem); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case ir.IRObject:
		b.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				b.WriteString(", ")
			}
			key, err := ir.MarshalCanonicalString(k)
			if err != nil {
				return fmt.Errorf("object key %q: %w", k, err)
			}
			b.Write(key)
			b.WriteString(": ")
			if err := write(b, val[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return ir.UnsupportedLiteral(fmt.Sprintf("%T", v))
	}
	return nil
}

// formatFloat uses the shortest representation that round-trips, switching
// to exponent form only for very large or very small magnitudes.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		err := ir.UnsupportedLiteral("float64")
		err.Message = fmt.Sprintf("non-finite float %v has no literal form", f)
		return "", err
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
