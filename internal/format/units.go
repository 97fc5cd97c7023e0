package format

import (
	"fmt"
	"math/big"
	"strings"
)

// FormatUnits renders a base-unit integer as a decimal string with the given
// number of decimals, trimming trailing zeros: 1500000 with 6 decimals is "1.5".
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	if decimals <= 0 {
		return amount.String()
	}

	neg := amount.Sign() < 0
	digits := new(big.Int).Abs(amount).String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ParseUnits is the inverse of FormatUnits: "1.5" with 6 decimals is 1500000.
// Only plain decimal notation is accepted. More fractional digits than decimals
// is an error rather than a silent truncation.
func ParseUnits(value string, decimals int) (*big.Int, error) {
	value = strings.TrimSpace(value)
	whole, frac, hasDot := strings.Cut(value, ".")
	validWhole := isDigits(whole) || (whole == "" && hasDot)
	validFrac := !hasDot || isDigits(frac)
	if !validWhole || !validFrac {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %s has more than %d decimals", value, decimals)
	}
	if whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", decimals-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
