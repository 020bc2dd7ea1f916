package crm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Client-side field checks. The backend applies its own full rule set; these
// exist to catch obvious mistakes before a round trip.
var (
	// 10-20 characters drawn from digits, space, hyphen and parentheses,
	// with an optional leading plus.
	mobileRe = regexp.MustCompile(`^\+?[0-9 ()\-]{10,20}$`)

	// Minimal local@domain.tld shape. Intentionally loose; deliverability
	// is the backend's problem.
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidMobile reports whether s is an acceptable mobile number.
func ValidMobile(s string) bool {
	return mobileRe.MatchString(strings.TrimSpace(s))
}

// ValidEmail reports whether s looks like an email address. Empty input is
// not valid here; callers decide whether the field is optional.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidBudget reports whether s parses as a finite number.
func ValidBudget(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
