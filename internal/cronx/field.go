package cronx

import (
	"fmt"
	"strconv"
	"strings"
)

// Field represents a single cron field (minute, hour, etc.)
type Field interface {
	// IsEvery returns true if field is "*" (every value)
	IsEvery() bool

	// IsStep returns true if field has step notation (*/N)
	IsStep() bool

	// Step returns the step value (e.g., 15 for "*/15"), or 1 when the field
	// has no step
	Step() int

	// IsRange returns true if field is a range (e.g., "1-5")
	IsRange() bool

	// RangeStart returns the start of a range
	RangeStart() int

	// RangeEnd returns the end of a range
	RangeEnd() int

	// IsList returns true if field is a comma-separated list
	IsList() bool

	// ListValues returns the list values
	ListValues() []int

	// IsSingle returns true if field is a single value
	IsSingle() bool

	// Value returns the single value
	Value() int

	// Raw returns the raw field string
	Raw() string

	// Min returns the field's lower bound, used to phase step-only ("*/N")
	// matching off the field's own minimum rather than zero.
	Min() int
}

// field implements Field interface
type field struct {
	raw        string
	min        int
	max        int
	isEvery    bool
	isStep     bool
	step       int
	isRange    bool
	rangeStart int
	rangeEnd   int
	isList     bool
	listValues []int
	isSingle   bool
	value      int
}

// parseField parses a single cron field using a specific symbol registry.
// It returns an error if any component value is neither numeric nor a
// recognized symbol name.
func parseField(raw string, min, max int, registry SymbolRegistry) (Field, error) {
	f := &field{
		raw:  raw,
		min:  min,
		max:  max,
		step: 1,
	}

	// Check for wildcard (every)
	if raw == "*" {
		f.isEvery = true
		return f, nil
	}

	// Check for step notation (*/N or N-M/S)
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		stepVal, _ := strconv.Atoi(parts[1])
		f.isStep = true
		f.step = stepVal

		// Check if it's a range with step (N-M/S)
		if strings.Contains(parts[0], "-") && parts[0] != "*" {
			rangeParts := strings.Split(parts[0], "-")
			start, ok := parseValue(rangeParts[0], registry)
			if !ok {
				return nil, fmt.Errorf("invalid value %q", rangeParts[0])
			}
			end, ok := parseValue(rangeParts[1], registry)
			if !ok {
				return nil, fmt.Errorf("invalid value %q", rangeParts[1])
			}
			f.isRange = true
			f.rangeStart = start
			f.rangeEnd = end
		}
		return f, nil
	}

	// Check for range (N-M)
	if strings.Contains(raw, "-") {
		parts := strings.Split(raw, "-")
		start, ok := parseValue(parts[0], registry)
		if !ok {
			return nil, fmt.Errorf("invalid value %q", parts[0])
		}
		end, ok := parseValue(parts[1], registry)
		if !ok {
			return nil, fmt.Errorf("invalid value %q", parts[1])
		}
		f.isRange = true
		f.rangeStart = start
		f.rangeEnd = end
		return f, nil
	}

	// Check for list (N,M,O), where individual entries may themselves be
	// ranges (N,M-O,P) and are expanded to their member values.
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		f.isList = true
		for _, p := range parts {
			if strings.Contains(p, "-") {
				rangeParts := strings.SplitN(p, "-", 2)
				start, ok := parseValue(rangeParts[0], registry)
				if !ok {
					return nil, fmt.Errorf("invalid value %q", rangeParts[0])
				}
				end, ok := parseValue(rangeParts[1], registry)
				if !ok {
					return nil, fmt.Errorf("invalid value %q", rangeParts[1])
				}
				for v := start; v <= end; v++ {
					f.listValues = append(f.listValues, v)
				}
				continue
			}
			v, ok := parseValue(p, registry)
			if !ok {
				return nil, fmt.Errorf("invalid value %q", p)
			}
			f.listValues = append(f.listValues, v)
		}
		return f, nil
	}

	// Single value
	val, ok := parseValue(raw, registry)
	if !ok {
		return nil, fmt.Errorf("invalid value %q", raw)
	}
	f.isSingle = true
	f.value = val
	return f, nil
}

// parseValue converts a string to an integer, supporting both numeric values
// and symbols. ok is false if s is neither.
func parseValue(s string, registry SymbolRegistry) (int, bool) {
	// Try parsing as integer first
	val, err := strconv.Atoi(s)
	if err == nil {
		return val, true
	}

	// Try parsing as symbol (day/month name)
	if v, ok := registry.ParseSymbol(s); ok {
		return v, true
	}

	return 0, false
}

func (f *field) IsEvery() bool     { return f.isEvery }
func (f *field) IsStep() bool      { return f.isStep }
func (f *field) Step() int         { return f.step }
func (f *field) IsRange() bool     { return f.isRange }
func (f *field) RangeStart() int   { return f.rangeStart }
func (f *field) RangeEnd() int     { return f.rangeEnd }
func (f *field) IsList() bool      { return f.isList }
func (f *field) ListValues() []int { return f.listValues }
func (f *field) IsSingle() bool    { return f.isSingle }
func (f *field) Value() int        { return f.value }
func (f *field) Raw() string       { return f.raw }
func (f *field) Min() int          { return f.min }
