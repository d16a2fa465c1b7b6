package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Unit Definition
// --------------------------------------------------------------------------

// Unit defines the output unit for byte counts and transfer rates.
// Scaling is decimal: 1 KB = 1000 B and 1 MB = 1000 KB.
type Unit uint8

const (
	UnitB Unit = iota
	UnitKB
	UnitMB
)

// String returns the string representation of a Unit.
func (u Unit) String() string {
	switch u {
	case UnitB:
		return "B"
	case UnitKB:
		return "KB"
	case UnitMB:
		return "MB"
	default:
		return "unknown"
	}
}

// Factor returns the number of bytes per unit.
func (u Unit) Factor() float64 {
	switch u {
	case UnitKB:
		return 1e3
	case UnitMB:
		return 1e6
	default:
		return 1
	}
}

// ParseUnit converts a string to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B":
		return UnitB, nil
	case "KB":
		return UnitKB, nil
	case "MB":
		return UnitMB, nil
	default:
		return UnitB, fmt.Errorf("invalid unit %q (expected one of: B, KB, MB)", s)
	}
}

// --------------------------------------------------------------------------
// Formatting
// --------------------------------------------------------------------------

// Rate returns the transfer rate in bytes per second. A zero or negative
// elapsed time yields 0 rather than a division fault.
func Rate(bytes int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(bytes) / elapsed.Seconds()
}

// FormatBytes scales a byte count to the given unit, e.g. "976.6 KB".
func FormatBytes(bytes int64, unit Unit) string {
	return fmt.Sprintf("%.1f %s", float64(bytes)/unit.Factor(), unit)
}

// FormatRate scales a rate to the given unit's rate form, e.g. "11.30 MB/s".
// A zero elapsed time is reported as a zero rate.
func FormatRate(bytes int64, elapsed time.Duration, unit Unit) string {
	return fmt.Sprintf("%.2f %s/s", Rate(bytes, elapsed)/unit.Factor(), unit)
}

// ParseRate parses a string produced by FormatRate back into a rate in
// bytes per second. Used by tests to verify formatting round-trips.
func ParseRate(s string) (float64, Unit, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 || !strings.HasSuffix(fields[1], "/s") {
		return 0, UnitB, fmt.Errorf("invalid rate %q (expected '<value> <unit>/s')", s)
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, UnitB, fmt.Errorf("invalid rate value %q: %v", fields[0], err)
	}

	unit, err := ParseUnit(strings.TrimSuffix(fields[1], "/s"))
	if err != nil {
		return 0, UnitB, err
	}

	return value * unit.Factor(), unit, nil
}

// ParseByteSize parses a human byte count like "1000000B", "500KB" or
// "10MB" into a number of bytes using decimal scaling. A bare number is
// interpreted as bytes.
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)

	// Split the numeric prefix from the unit suffix
	idx := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			idx = i
			break
		}
	}

	value, err := strconv.ParseFloat(s[:idx], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %v", s, err)
	}

	unit := UnitB
	if suffix := strings.TrimSpace(s[idx:]); suffix != "" {
		if unit, err = ParseUnit(suffix); err != nil {
			return 0, err
		}
	}

	return int64(value * unit.Factor()), nil
}
