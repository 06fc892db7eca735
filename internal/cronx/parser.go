package cronx

import (
	"fmt"
	"strings"
	"sync"
)

// Schedule represents a parsed cron schedule with field information.
type Schedule struct {
	Original   string // The original cron expression string
	Minute     Field  // Minute field (MinMinute-MaxMinute)
	Hour       Field  // Hour field (MinHour-MaxHour)
	DayOfMonth Field  // Day of month field (MinDayOfMonth-MaxDayOfMonth)
	Month      Field  // Month field (MinMonth-MaxMonth)
	DayOfWeek  Field  // Day of week field (MinDayOfWeek-MaxDayOfWeek, Sunday=0)
}

// Parser is the abstraction layer for cron expression parsing
type Parser interface {
	Parse(expression string) (*Schedule, error)
}

// parser implements Parser interface
type parser struct {
	symbols SymbolRegistry
	cache   map[string]*Schedule
	cacheMu sync.RWMutex
}

// NewParser creates a new cron expression parser with English locale (default)
func NewParser() Parser {
	return NewParserWithLocale("en")
}

// NewParserWithLocale creates a new cron expression parser with a specific locale
func NewParserWithLocale(locale string) Parser {
	symbols, _ := GetSymbolRegistry(locale)
	return &parser{
		symbols: symbols,
		cache:   make(map[string]*Schedule),
	}
}

// Parse parses a cron expression (5-field format or @alias).
// Results are cached to improve performance when parsing the same expression
// multiple times. This is the classic Unix 5-field dialect (DOM/DOW combine
// with OR semantics when both are restricted) — the full 6/7-field grammar
// with seconds, '?', L/W/# tokens, and a year field lives in expression.go's
// independent CronExpression/ParseExpression engine.
func (p *parser) Parse(expression string) (*Schedule, error) {
	if expression == "" {
		return nil, fmt.Errorf("empty expression")
	}

	p.cacheMu.RLock()
	if cached, ok := p.cache[expression]; ok {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	original := expression

	var fields []string
	if strings.HasPrefix(expression, "@") {
		var ok bool
		fields, ok = aliasFields(expression)
		if !ok {
			return nil, fmt.Errorf("unrecognized descriptor %q", expression)
		}
	} else {
		normalized := strings.ToUpper(expression)
		fields = strings.Fields(normalized)
		if len(fields) != 5 {
			return nil, fmt.Errorf("expected 5 fields, got %d", len(fields))
		}
	}

	minuteField, err := parseField(fields[0], MinMinute, MaxMinute, p.symbols)
	if err != nil {
		return nil, fmt.Errorf("minute field: %w", err)
	}
	if err := validateField(minuteField, MinMinute, MaxMinute); err != nil {
		return nil, fmt.Errorf("minute field: %w", err)
	}
	hourField, err := parseField(fields[1], MinHour, MaxHour, p.symbols)
	if err != nil {
		return nil, fmt.Errorf("hour field: %w", err)
	}
	if err := validateField(hourField, MinHour, MaxHour); err != nil {
		return nil, fmt.Errorf("hour field: %w", err)
	}
	domField, err := parseField(fields[2], MinDayOfMonth, MaxDayOfMonth, p.symbols)
	if err != nil {
		return nil, fmt.Errorf("day-of-month field: %w", err)
	}
	if err := validateField(domField, MinDayOfMonth, MaxDayOfMonth); err != nil {
		return nil, fmt.Errorf("day-of-month field: %w", err)
	}
	monthField, err := parseField(fields[3], MinMonth, MaxMonth, p.symbols)
	if err != nil {
		return nil, fmt.Errorf("month field: %w", err)
	}
	if err := validateField(monthField, MinMonth, MaxMonth); err != nil {
		return nil, fmt.Errorf("month field: %w", err)
	}
	dowField, err := parseField(fields[4], MinDayOfWeek, MaxDayOfWeek, p.symbols)
	if err != nil {
		return nil, fmt.Errorf("day-of-week field: %w", err)
	}
	if err := validateField(dowField, MinDayOfWeek, MaxDayOfWeek); err != nil {
		return nil, fmt.Errorf("day-of-week field: %w", err)
	}

	schedule := &Schedule{
		Original:   original,
		Minute:     minuteField,
		Hour:       hourField,
		DayOfMonth: domField,
		Month:      monthField,
		DayOfWeek:  dowField,
	}

	p.cacheMu.Lock()
	p.cache[expression] = schedule
	p.cacheMu.Unlock()

	return schedule, nil
}

// validateField checks that every value a field can take falls within
// [min, max] and that any step is strictly positive, replacing the range
// checks robfig/cron used to perform for us.
func validateField(f Field, min, max int) error {
	if f.IsStep() && f.Step() <= 0 {
		return fmt.Errorf("step must be positive, got %d", f.Step())
	}
	if f.IsRange() {
		if err := checkBounds(f.RangeStart(), min, max); err != nil {
			return err
		}
		if err := checkBounds(f.RangeEnd(), min, max); err != nil {
			return err
		}
		return nil
	}
	if f.IsList() {
		for _, v := range f.ListValues() {
			if err := checkBounds(v, min, max); err != nil {
				return err
			}
		}
		return nil
	}
	if f.IsSingle() {
		return checkBounds(f.Value(), min, max)
	}
	return nil
}

func checkBounds(v, min, max int) error {
	if v < min || v > max {
		return fmt.Errorf("value %d out of range [%d, %d]", v, min, max)
	}
	return nil
}

// aliasFields converts cron aliases to their 5-field equivalent.
func aliasFields(alias string) ([]string, bool) {
	switch strings.ToLower(alias) {
	case "@yearly", "@annually":
		return []string{"0", "0", "1", "1", "*"}, true
	case "@monthly":
		return []string{"0", "0", "1", "*", "*"}, true
	case "@weekly":
		return []string{"0", "0", "*", "*", "0"}, true
	case "@daily", "@midnight":
		return []string{"0", "0", "*", "*", "*"}, true
	case "@hourly":
		return []string{"0", "*", "*", "*", "*"}, true
	default:
		return nil, false
	}
}
