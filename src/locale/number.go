// Package locale parses PT-PT formatted numbers, dates and months.
package locale

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// leading numeric prefix, the part of the string a lenient float parser would accept
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber converts a cell value into a decimal. Strings use "." as the
// thousands separator and "," as the decimal separator ("1.234,56" -> 1234.56).
// Anything that cannot be read as a number yields zero.
func ParseNumber(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case int32:
		return decimal.NewFromInt32(n)
	case string:
		return parseNumberString(n)
	}
	return decimal.Zero
}

func parseNumberString(s string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	if cleaned == "" {
		return decimal.Zero
	}

	prefix := numericPrefix.FindString(cleaned)
	if prefix == "" {
		return decimal.Zero
	}
	prefix = strings.TrimSuffix(prefix, ".")
	prefix = strings.Replace(prefix, "-.", "-0.", 1)
	prefix = strings.Replace(prefix, "+.", "0.", 1)
	prefix = strings.TrimPrefix(prefix, "+")
	if strings.HasPrefix(prefix, ".") {
		prefix = "0" + prefix
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}
