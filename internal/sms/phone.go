package sms

import (
	"regexp"
	"strconv"
	"strings"
)

// NumberRule adds a country code to bare local numbers.
type NumberRule struct {
	CountryCode string // e.g. "+86"; empty disables the rule
	LocalLength int    // digits in a bare local number
}

// DefaultNumberRule treats 11-digit numbers as mainland China mobiles.
var DefaultNumberRule = NumberRule{CountryCode: "+86", LocalLength: 11}

var reDigits = regexp.MustCompile(`^[0-9]+$`)

// Normalize returns number with the country code prepended when it is a bare
// local number, and whether it changed anything. Numbers that already carry
// a "+" prefix are never bare.
func (r NumberRule) Normalize(number string) (string, bool) {
	if r.CountryCode == "" || r.LocalLength <= 0 {
		return number, false
	}
	number = strings.TrimSpace(number)
	if len(number) != r.LocalLength || !reDigits.MatchString(number) {
		return number, false
	}
	return r.CountryCode + number, true
}

func (r NumberRule) describe() string {
	return strconv.Itoa(r.LocalLength) + "-digit"
}
