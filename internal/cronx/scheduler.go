package cronx

import (
	"time"
)

// Scheduler calculates next run times for cron schedules.
type Scheduler interface {
	// Next calculates the next N occurrences of a cron expression starting from the given time.
	// Returns a slice of time.Time values representing when the cron job would run.
	// Returns an error if the expression is invalid or cannot be parsed.
	Next(expression string, from time.Time, count int) ([]time.Time, error)
}

// scheduler implements the Scheduler interface over the classic 5-field
// dialect. Next is computed with a minute-resolution forward scan rather
// than a field-ascending jump search, matching the shape of
// bdobrica-Ruriko's cronSchedule.Next: simple to verify, and fast enough at
// minute granularity for the job-count sizes this CLI ever asks for. The
// full 6/7-field grammar's jump search lives in expression.go instead.
type scheduler struct {
	parser Parser
}

// maxScanMinutes bounds the forward scan so an expression that (due to a
// leap-year day-of-month, say) only fires every few years still resolves
// well within the search horizon, while a truly unsatisfiable expression
// (e.g. Feb 30) terminates instead of scanning forever.
const maxScanMinutes = 8 * 366 * 24 * 60

// NewScheduler creates a new Scheduler instance.
func NewScheduler() Scheduler {
	return &scheduler{
		parser: NewParser(),
	}
}

// Next implements the Scheduler interface.
func (s *scheduler) Next(expression string, from time.Time, count int) ([]time.Time, error) {
	schedule, err := s.parser.Parse(expression)
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, 0, count)
	current := from

	for i := 0; i < count; i++ {
		next, ok := nextOccurrence(schedule, current)
		if !ok {
			return nil, errExpressionUnsatisfiable(expression)
		}
		times = append(times, next)
		current = next
	}

	return times, nil
}

func errExpressionUnsatisfiable(expression string) error {
	return &unsatisfiableError{expression: expression}
}

type unsatisfiableError struct {
	expression string
}

func (e *unsatisfiableError) Error() string {
	return "cron expression " + e.expression + " has no occurrence within the search horizon"
}

// nextOccurrence finds the first minute strictly after from that matches
// schedule's minute/hour/day-of-month/month/day-of-week fields, applying the
// classic cron OR rule when both day-of-month and day-of-week are
// restricted simultaneously.
func nextOccurrence(schedule *Schedule, from time.Time) (time.Time, bool) {
	t := from.Truncate(time.Minute).Add(time.Minute)

	for i := 0; i < maxScanMinutes; i++ {
		if fieldMatches(schedule.Month, int(t.Month())) &&
			dayMatches(schedule, t) &&
			fieldMatches(schedule.Hour, t.Hour()) &&
			fieldMatches(schedule.Minute, t.Minute()) {
			return t, true
		}
		t = t.Add(time.Minute)
	}

	return time.Time{}, false
}

// dayMatches applies the classic Unix cron rule: when both day-of-month and
// day-of-week are restricted (non-"*"), a day matches if EITHER accepts it;
// when only one is restricted, that one alone decides.
func dayMatches(schedule *Schedule, t time.Time) bool {
	domRestricted := !schedule.DayOfMonth.IsEvery()
	dowRestricted := !schedule.DayOfWeek.IsEvery()

	switch {
	case domRestricted && dowRestricted:
		return fieldMatches(schedule.DayOfMonth, t.Day()) || fieldMatches(schedule.DayOfWeek, int(t.Weekday()))
	case domRestricted:
		return fieldMatches(schedule.DayOfMonth, t.Day())
	case dowRestricted:
		return fieldMatches(schedule.DayOfWeek, int(t.Weekday()))
	default:
		return true
	}
}

// fieldMatches reports whether value satisfies a legacy Field.
func fieldMatches(f Field, value int) bool {
	switch {
	case f.IsEvery():
		return true
	case f.IsStep() && f.IsRange():
		if value < f.RangeStart() || value > f.RangeEnd() {
			return false
		}
		return (value-f.RangeStart())%f.Step() == 0
	case f.IsStep():
		return (value-f.Min())%f.Step() == 0
	case f.IsRange():
		return value >= f.RangeStart() && value <= f.RangeEnd()
	case f.IsList():
		for _, v := range f.ListValues() {
			if v == value {
				return true
			}
		}
		return false
	case f.IsSingle():
		return value == f.Value()
	default:
		return false
	}
}
