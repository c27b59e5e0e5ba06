package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errInvalidAmount = errors.New("invalid amount")

// ParsePrice converts a decimal string with at most two fractional digits
// into cents.
func ParsePrice(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(s), ".")
	if !digits(whole) && !(whole == "" && hasFrac) {
		return 0, errInvalidAmount
	}
	if hasFrac && (!digits(frac) || len(frac) > 2) {
		return 0, errInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errInvalidAmount
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, errInvalidAmount
	}
	return units*100 + cents, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders cents with exactly two decimals.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
