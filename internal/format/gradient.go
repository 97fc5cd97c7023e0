// Package format renders values for display: wallet avatars and token amounts.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// FallbackGradient is shown for anything that is not a 20-byte hex address.
const FallbackGradient = "linear-gradient(135deg, #9CA3AF, #6B7280)"

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// WalletGradient derives a two-colour CSS gradient from an address. The start
// colour is the first six hex digits and the end colour the last six, so the
// same address always renders the same avatar regardless of checksum casing.
func WalletGradient(address string) string {
	if !addressPattern.MatchString(address) {
		return FallbackGradient
	}
	hex := strings.ToLower(address[2:])
	return fmt.Sprintf("linear-gradient(135deg, #%s, #%s)", hex[:6], hex[len(hex)-6:])
}
