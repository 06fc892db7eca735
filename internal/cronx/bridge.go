package cronx

import (
	"fmt"
	"strconv"
	"strings"
)

// BridgeClassicExpression adapts a classic 5-field crontab expression to the
// 6-field grammar ParseExpression speaks: it prepends a seconds field of "0"
// and turns whichever of day-of-month/day-of-week is left unrestricted into
// the required "?". When a crontab line restricts both simultaneously (the
// classic OR dialect), day-of-week is forced to "?" and only day-of-month is
// honored. Bare numeric day-of-week tokens are shifted from the classic
// field's 0-6 (0=Sunday) convention to this package's 1-7 (1=Sunday)
// convention; symbolic names (MON, TUE, ...) already resolve correctly via
// dowLookup and are left untouched.
func BridgeClassicExpression(classic string) (string, error) {
	fields := strings.Fields(classic)
	if len(fields) != 5 {
		return "", fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	minute, hour, dom, month, dow := fields[0], fields[1], fields[2], fields[3], fields[4]

	domRestricted := dom != "*"
	dowRestricted := dow != "*"
	dow = ShiftClassicDayOfWeek(dow)
	switch {
	case domRestricted && dowRestricted:
		dow = "?"
	case dowRestricted:
		dom = "?"
	default:
		dow = "?"
	}

	return strings.Join([]string{"0", minute, hour, dom, month, dow}, " "), nil
}

// ShiftClassicDayOfWeek converts bare numeric day-of-week tokens from the
// classic field's 0-6 (0=Sunday) convention to this package's 1-7 (1=Sunday)
// convention (exprDowNames), leaving symbolic names and step values
// untouched. Handles lists, ranges, and step suffixes: "1-5" -> "2-6",
// "1-5/2" -> "2-6/2" (the "2" step is left alone), "MON-FRI" unchanged.
func ShiftClassicDayOfWeek(dow string) string {
	if dow == "*" {
		return dow
	}
	items := strings.Split(dow, ",")
	for i, item := range items {
		rangeAndStep := strings.SplitN(item, "/", 2)
		rangeParts := strings.SplitN(rangeAndStep[0], "-", 2)
		for j, rp := range rangeParts {
			rangeParts[j] = shiftDowToken(rp)
		}
		rangeAndStep[0] = strings.Join(rangeParts, "-")
		items[i] = strings.Join(rangeAndStep, "/")
	}
	return strings.Join(items, ",")
}

// shiftDowToken shifts a single bare numeric token by one day; a symbolic
// name or "*" passes through unchanged.
func shiftDowToken(token string) string {
	n, err := strconv.Atoi(token)
	if err != nil {
		return token
	}
	return strconv.Itoa(n + 1)
}
