package cronx

// Cron field value ranges
const (
	// MinMinute is the minimum minute value (0)
	MinMinute = 0
	// MaxMinute is the maximum minute value (59)
	MaxMinute = 59
	// MinHour is the minimum hour value (0)
	MinHour = 0
	// MaxHour is the maximum hour value (23)
	MaxHour = 23
	// MinDayOfMonth is the minimum day of month value (1)
	MinDayOfMonth = 1
	// MaxDayOfMonth is the maximum day of month value (31)
	MaxDayOfMonth = 31
	// MinMonth is the minimum month value (1)
	MinMonth = 1
	// MaxMonth is the maximum month value (12)
	MaxMonth = 12
	// MinDayOfWeek is the minimum day of week value (0, Sunday)
	MinDayOfWeek = 0
	// MaxDayOfWeek is the maximum day of week value (6, Saturday)
	MaxDayOfWeek = 6
)

// Full-grammar (seconds/year) field bounds used by CronExpression, the
// six/seven-field engine in expression.go. Day-of-week here follows the
// spec's 1-7 (1=Sunday) convention rather than the legacy field's 0-6, since
// the two engines are parsed and evaluated independently (see DESIGN.md).
const (
	MinSecond = 0
	MaxSecond = 59

	MinExprDayOfWeek = 1
	MaxExprDayOfWeek = 7

	MinYear = 1970
	MaxYear = 2199
)
