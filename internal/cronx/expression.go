package cronx

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// domMode selects which day-of-month matching rule a CronExpression uses.
type domMode int

const (
	domPlain domMode = iota
	domLastDayOfMonth
	domNearestWeekday
)

// dowMode selects which day-of-week matching rule a CronExpression uses.
type dowMode int

const (
	dowPlain dowMode = iota
	dowLastOccurrence
	dowNth
)

// fieldSet is a membership set over one cron field's allowed integer range.
// Unlike the legacy display-oriented Field (field.go), it only needs to
// answer "is v in this field", which is all the next-fire search requires.
type fieldSet struct {
	values map[int]bool
}

func newFieldSet() *fieldSet { return &fieldSet{values: make(map[int]bool)} }

func (f *fieldSet) add(v int) { f.values[v] = true }

// Contains reports whether v is one of the field's allowed values.
func (f *fieldSet) Contains(v int) bool { return f.values[v] }

func (f *fieldSet) empty() bool { return len(f.values) == 0 }

// CronExpression is the parsed form of a 6- or 7-field cron string, following
// the grammar in spec.md §4.A (seconds minutes hours day-of-month month
// day-of-week [year]). It is the computation engine behind component A;
// the legacy 5-field Schedule/Field types (field.go, parser.go) remain the
// CLI's display/lint representation and are unrelated to this type.
type CronExpression struct {
	Seconds *fieldSet
	Minutes *fieldSet
	Hours   *fieldSet
	Months  *fieldSet
	Years   *fieldSet

	DaysOfMonth *fieldSet
	DaysOfWeek  *fieldSet

	DomQuestion bool
	DowQuestion bool

	DomMode       domMode
	LastDayOffset int // "L-n": n days before the last day of the month
	WeekdayBase   int // "dW": day nearest to this day-of-month

	DowMode      dowMode
	DowTarget    int // weekday (1=Sunday..7=Saturday) for "L" / "#" forms
	NthDayOfWeek int // 1..5 for "d#n"

	TimeZone           *time.Location
	OriginalExpression string
}

var exprMonthNames = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// exprDowNames follows the spec's 1-7, 1=Sunday convention. The legacy
// SymbolRegistry in symbols.go uses the 0-6 convention instead, deliberately
// kept independent (see DESIGN.md).
var exprDowNames = map[string]int{
	"SUN": 1, "MON": 2, "TUE": 3, "WED": 4, "THU": 5, "FRI": 6, "SAT": 7,
}

func monthLookup(s string) (int, bool) { v, ok := exprMonthNames[strings.ToUpper(s)]; return v, ok }
func dowLookup(s string) (int, bool)   { v, ok := exprDowNames[strings.ToUpper(s)]; return v, ok }

// ParseExpression parses a 6- or 7-field cron string into a CronExpression.
func ParseExpression(expr string) (*CronExpression, error) {
	fields := strings.Fields(expr)
	if len(fields) != 6 && len(fields) != 7 {
		return nil, fmt.Errorf("cron expression must have 6 or 7 fields, got %d: %q", len(fields), expr)
	}

	secTok, minTok, hourTok, domTok, monTok, dowTok := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]
	yearTok := "*"
	if len(fields) == 7 {
		yearTok = fields[6]
	}

	ce := &CronExpression{
		OriginalExpression: expr,
		TimeZone:           time.Local,
	}

	var err error
	if ce.Seconds, err = parseNumericList(secTok, MinSecond, MaxSecond, true, nil); err != nil {
		return nil, fmt.Errorf("seconds field %q: %w", secTok, err)
	}
	if ce.Minutes, err = parseNumericList(minTok, MinMinute, MaxMinute, true, nil); err != nil {
		return nil, fmt.Errorf("minutes field %q: %w", minTok, err)
	}
	if ce.Hours, err = parseNumericList(hourTok, MinHour, MaxHour, true, nil); err != nil {
		return nil, fmt.Errorf("hours field %q: %w", hourTok, err)
	}
	if ce.Months, err = parseNumericList(monTok, MinMonth, MaxMonth, true, monthLookup); err != nil {
		return nil, fmt.Errorf("month field %q: %w", monTok, err)
	}
	if ce.Years, err = parseNumericList(yearTok, MinYear, MaxYear, false, nil); err != nil {
		return nil, fmt.Errorf("year field %q: %w", yearTok, err)
	}

	if err := ce.parseDayOfMonth(domTok); err != nil {
		return nil, fmt.Errorf("day-of-month field %q: %w", domTok, err)
	}
	if err := ce.parseDayOfWeek(dowTok); err != nil {
		return nil, fmt.Errorf("day-of-week field %q: %w", dowTok, err)
	}

	if ce.DomQuestion == ce.DowQuestion {
		return nil, fmt.Errorf("exactly one of day-of-month and day-of-week must be '?', got dom=%q dow=%q", domTok, dowTok)
	}

	return ce, nil
}

func (ce *CronExpression) parseDayOfMonth(tok string) error {
	switch {
	case tok == "?":
		ce.DomQuestion = true
		return nil
	case tok == "L":
		ce.DomMode = domLastDayOfMonth
		return nil
	case strings.HasPrefix(tok, "L-"):
		n, err := strconv.Atoi(tok[2:])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid L-n offset %q", tok)
		}
		ce.DomMode = domLastDayOfMonth
		ce.LastDayOffset = n
		return nil
	case strings.HasSuffix(tok, "W") && tok != "W":
		base, err := strconv.Atoi(strings.TrimSuffix(tok, "W"))
		if err != nil || base < MinDayOfMonth || base > MaxDayOfMonth {
			return fmt.Errorf("invalid nearest-weekday day %q", tok)
		}
		ce.DomMode = domNearestWeekday
		ce.WeekdayBase = base
		return nil
	default:
		fs, err := parseNumericList(tok, MinDayOfMonth, MaxDayOfMonth, false, nil)
		if err != nil {
			return err
		}
		ce.DaysOfMonth = fs
		ce.DomMode = domPlain
		return nil
	}
}

func (ce *CronExpression) parseDayOfWeek(tok string) error {
	switch {
	case tok == "?":
		ce.DowQuestion = true
		return nil
	case tok == "L":
		ce.DowMode = dowLastOccurrence
		ce.DowTarget = MaxExprDayOfWeek // bare "L" means last Saturday
		return nil
	case strings.HasSuffix(tok, "L") && tok != "L":
		base, err := resolveValue(strings.TrimSuffix(tok, "L"), MinExprDayOfWeek, MaxExprDayOfWeek, dowLookup)
		if err != nil {
			return fmt.Errorf("invalid last-weekday token %q: %w", tok, err)
		}
		ce.DowMode = dowLastOccurrence
		ce.DowTarget = base
		return nil
	case strings.Contains(tok, "#"):
		parts := strings.SplitN(tok, "#", 2)
		base, err := resolveValue(parts[0], MinExprDayOfWeek, MaxExprDayOfWeek, dowLookup)
		if err != nil {
			return fmt.Errorf("invalid weekday in %q: %w", tok, err)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 || n > 5 {
			return fmt.Errorf("nth-occurrence must be 1-5, got %q", parts[1])
		}
		ce.DowMode = dowNth
		ce.DowTarget = base
		ce.NthDayOfWeek = n
		return nil
	default:
		fs, err := parseNumericList(tok, MinExprDayOfWeek, MaxExprDayOfWeek, true, dowLookup)
		if err != nil {
			return err
		}
		ce.DaysOfWeek = fs
		ce.DowMode = dowPlain
		return nil
	}
}

// parseNumericList parses a comma-separated cron field into a fieldSet.
// allowWrap controls whether an inverted range (start > end) is accepted as
// a wrap-around (e.g. hours "22-2"); day-of-month does not allow it since a
// month's length varies.
func parseNumericList(raw string, min, max int, allowWrap bool, lookup func(string) (int, bool)) (*fieldSet, error) {
	fs := newFieldSet()
	for _, part := range strings.Split(raw, ",") {
		if part == "" {
			return nil, fmt.Errorf("empty list entry in %q", raw)
		}
		if err := parseNumericPart(fs, part, min, max, allowWrap, lookup); err != nil {
			return nil, err
		}
	}
	if fs.empty() {
		return nil, fmt.Errorf("field %q yields no values", raw)
	}
	return fs, nil
}

func parseNumericPart(fs *fieldSet, part string, min, max int, allowWrap bool, lookup func(string) (int, bool)) error {
	step := 1
	base := part
	hasStep := false
	if idx := strings.Index(part, "/"); idx >= 0 {
		base = part[:idx]
		stepStr := part[idx+1:]
		s, err := strconv.Atoi(stepStr)
		if err != nil {
			return fmt.Errorf("invalid step %q: %w", stepStr, err)
		}
		if s <= 0 {
			return fmt.Errorf("step must be positive, got %d", s)
		}
		step = s
		hasStep = true
	}

	var start, end int
	switch {
	case base == "*":
		start, end = min, max
	case strings.Contains(base, "-"):
		parts := strings.SplitN(base, "-", 2)
		s, err := resolveValue(parts[0], min, max, lookup)
		if err != nil {
			return err
		}
		e, err := resolveValue(parts[1], min, max, lookup)
		if err != nil {
			return err
		}
		start, end = s, e
	default:
		v, err := resolveValue(base, min, max, lookup)
		if err != nil {
			return err
		}
		start, end = v, v
		if hasStep {
			// "N/s" means N through the field's max, stepped by s.
			end = max
		}
	}

	if start < min || start > max {
		return fmt.Errorf("value %d out of range [%d, %d]", start, min, max)
	}
	if end < min || end > max {
		return fmt.Errorf("value %d out of range [%d, %d]", end, min, max)
	}

	if start <= end {
		for v := start; v <= end; v += step {
			fs.add(v)
		}
		return nil
	}

	if !allowWrap {
		return fmt.Errorf("inverted range %d-%d not supported for this field", start, end)
	}
	for v := start; v <= max; v += step {
		fs.add(v)
	}
	for v := min; v <= end; v += step {
		fs.add(v)
	}
	return nil
}

func resolveValue(tok string, min, max int, lookup func(string) (int, bool)) (int, error) {
	if v, err := strconv.Atoi(tok); err == nil {
		return v, nil
	}
	if lookup != nil {
		if v, ok := lookup(tok); ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("invalid value %q", tok)
}

func (ce *CronExpression) location() *time.Location {
	if ce.TimeZone != nil {
		return ce.TimeZone
	}
	return time.Local
}

// WithLocation returns a shallow copy of ce evaluated in loc instead of its
// parsed/default time zone.
func (ce *CronExpression) WithLocation(loc *time.Location) *CronExpression {
	cp := *ce
	cp.TimeZone = loc
	return &cp
}

// NextValidAfter computes the smallest instant strictly after from that
// satisfies every field, per spec.md §4.A. It returns (zero, false) once the
// search would need a year beyond MaxYear (expression exhausted).
func (ce *CronExpression) NextValidAfter(from time.Time) (time.Time, bool) {
	loc := ce.location()
	t := from.In(loc).Add(time.Second).Truncate(time.Second)

	for attempt := 0; attempt < 600; attempt++ {
		if t.Year() > MaxYear {
			return time.Time{}, false
		}
		if !ce.Years.Contains(t.Year()) {
			t = time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, loc)
			continue
		}

		monthOK := false
		for i := 0; i < 13; i++ {
			if ce.Months.Contains(int(t.Month())) {
				monthOK = true
				break
			}
			t = firstOfNextMonth(t, loc)
			if t.Month() == time.January {
				break
			}
		}
		if !monthOK {
			continue
		}

		startMonth := t.Month()
		dayOK := false
		for i := 0; i < 32; i++ {
			if ce.dayMatches(t) {
				dayOK = true
				break
			}
			t = startOfDay(t.AddDate(0, 0, 1), loc)
			if t.Month() != startMonth {
				break
			}
		}
		if !dayOK {
			continue
		}

		startDay := t.Day()
		hourOK := false
		for i := 0; i < 25; i++ {
			if ce.Hours.Contains(t.Hour()) {
				hourOK = true
				break
			}
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, loc)
			if t.Day() != startDay {
				break
			}
		}
		if !hourOK {
			continue
		}

		startHour := t.Hour()
		minuteOK := false
		for i := 0; i < 61; i++ {
			if ce.Minutes.Contains(t.Minute()) {
				minuteOK = true
				break
			}
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()+1, 0, 0, loc)
			if t.Hour() != startHour {
				break
			}
		}
		if !minuteOK {
			continue
		}

		startMinute := t.Minute()
		secondOK := false
		for i := 0; i < 61; i++ {
			if ce.Seconds.Contains(t.Second()) {
				secondOK = true
				break
			}
			t = t.Add(time.Second)
			if t.Minute() != startMinute {
				break
			}
		}
		if !secondOK {
			continue
		}

		return t, true
	}
	return time.Time{}, false
}

// TimeBefore is the symmetric "previous valid instant" calculator. Like the
// Quartz original this traces to, it is declared but not implemented — see
// spec.md §9 / SPEC_FULL.md §10.
func (ce *CronExpression) TimeBefore(_ time.Time) (time.Time, bool) {
	return time.Time{}, false
}

// Summary renders a human-readable field-set dump for diagnostics.
func (ce *CronExpression) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "seconds=%s minutes=%s hours=%s ", setSummary(ce.Seconds), setSummary(ce.Minutes), setSummary(ce.Hours))
	switch ce.DomMode {
	case domLastDayOfMonth:
		fmt.Fprintf(&b, "day-of-month=last-%d ", ce.LastDayOffset)
	case domNearestWeekday:
		fmt.Fprintf(&b, "day-of-month=nearest-weekday-to-%d ", ce.WeekdayBase)
	default:
		if ce.DomQuestion {
			b.WriteString("day-of-month=? ")
		} else {
			fmt.Fprintf(&b, "day-of-month=%s ", setSummary(ce.DaysOfMonth))
		}
	}
	fmt.Fprintf(&b, "month=%s ", setSummary(ce.Months))
	switch ce.DowMode {
	case dowLastOccurrence:
		fmt.Fprintf(&b, "day-of-week=last-%d ", ce.DowTarget)
	case dowNth:
		fmt.Fprintf(&b, "day-of-week=%d#%d ", ce.DowTarget, ce.NthDayOfWeek)
	default:
		if ce.DowQuestion {
			b.WriteString("day-of-week=? ")
		} else {
			fmt.Fprintf(&b, "day-of-week=%s ", setSummary(ce.DaysOfWeek))
		}
	}
	fmt.Fprintf(&b, "year=%s", setSummary(ce.Years))
	return b.String()
}

func setSummary(fs *fieldSet) string {
	if fs == nil {
		return "-"
	}
	return fmt.Sprintf("%d value(s)", len(fs.values))
}

func (ce *CronExpression) dayMatches(t time.Time) bool {
	if ce.DomQuestion {
		return ce.dowMatches(t)
	}
	return ce.domMatches(t)
}

func (ce *CronExpression) domMatches(t time.Time) bool {
	switch ce.DomMode {
	case domLastDayOfMonth:
		last := daysInMonth(t.Year(), t.Month())
		return t.Day() == last-ce.LastDayOffset
	case domNearestWeekday:
		return t.Day() == nearestWeekdayDay(t.Year(), t.Month(), ce.WeekdayBase)
	default:
		return ce.DaysOfMonth.Contains(t.Day())
	}
}

func (ce *CronExpression) dowMatches(t time.Time) bool {
	weekday := int(t.Weekday()) + 1 // 1=Sunday..7=Saturday, matches spec.md §4.A
	switch ce.DowMode {
	case dowLastOccurrence:
		if weekday != ce.DowTarget {
			return false
		}
		return t.Day()+7 > daysInMonth(t.Year(), t.Month())
	case dowNth:
		if weekday != ce.DowTarget {
			return false
		}
		return (t.Day()-1)/7+1 == ce.NthDayOfWeek
	default:
		return ce.DaysOfWeek.Contains(weekday)
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// nearestWeekdayDay finds the weekday nearest to day within [year, month],
// never crossing a month boundary (spec.md §4.A tie-break rule).
func nearestWeekdayDay(year int, month time.Month, day int) int {
	last := daysInMonth(year, month)
	if day > last {
		day = last
	}
	probe := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	switch probe.Weekday() {
	case time.Saturday:
		if day-1 >= 1 {
			return day - 1
		}
		return day + 2
	case time.Sunday:
		if day+1 <= last {
			return day + 1
		}
		return day - 2
	default:
		return day
	}
}

func firstOfNextMonth(t time.Time, loc *time.Location) time.Time {
	y, m, _ := t.Date()
	if m == time.December {
		return time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc)
	}
	return time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
