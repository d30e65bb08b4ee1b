// Package pricing converts between display-formatted currency strings and integer amounts.
//
// Amounts are whole won: the estimate flow never produces fractional prices.
package pricing

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrMalformedAmount = errors.New("malformed amount")

// DisplayLanguage is the locale used for grouping digits in rendered amounts.
var DisplayLanguage = language.Korean

const groupSeparator = ","

// ParseAmount converts a digit-grouped string such as "2,000" to 2000.
// Empty or malformed input yields 0.
func ParseAmount(text string) int64 {
	v, err := ParseAmountStrict(text)
	if err != nil {
		return 0
	}
	return v
}

// ParseAmountStrict is ParseAmount but reports ErrMalformedAmount instead of
// collapsing bad input to 0. Empty input is a valid zero.
func ParseAmountStrict(text string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), groupSeparator, "")
	if s == "" {
		return 0, nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrMalformedAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrMalformedAmount
	}
	return v, nil
}

// FormatAmount renders v with thousands grouping for DisplayLanguage.
func FormatAmount(v int64) string {
	return message.NewPrinter(DisplayLanguage).Sprintf("%d", v)
}
