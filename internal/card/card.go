// Package card validates MOTO card numbers before they reach the gateway.
package card

import "strings"

// Length is the only card number length this channel accepts.
const Length = 16

// Validate reports whether number is a 16-digit string passing the Luhn
// mod-10 check. Spaces and dashes are ignored; any other non-digit fails.
func Validate(number string) bool {
	cleaned := strings.ReplaceAll(number, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if len(cleaned) != Length {
		return false
	}

	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		c := cleaned[i]
		if c < '0' || c > '9' {
			return false
		}
		n := int(c - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}
