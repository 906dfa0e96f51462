package planner

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidDuration is returned when a duration cannot be parsed or built.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidUnit is returned for an unknown unit suffix such as "5y".
	ErrInvalidUnit = errors.New("invalid unit")
)

const (
	millisecond = 1.0
	second      = 1000 * millisecond
	minute      = 60 * second
	hour        = 60 * minute
	day         = 24 * hour
	week        = 7 * day

	microsecond = millisecond / 1000
	nanosecond  = microsecond / 1000
)

var durationUnits = map[string]float64{
	"ns": nanosecond,
	"us": microsecond,
	"µs": microsecond, // U+00B5 micro sign
	"μs": microsecond, // U+03BC greek mu
	"ms": millisecond,
	"s":  second,
	"m":  minute,
	"h":  hour,
	"d":  day,
	"w":  week,
}

var durationRgx = regexp.MustCompile(`([-+\d.]+)([a-zµμ]+)`)

// Duration is a length of time in whole milliseconds.
type Duration int64

// NewDuration builds a Duration from a millisecond count.
func NewDuration(ms float64) (Duration, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, ms)
	}
	return Duration(ms), nil
}

// ParseDuration parses strings such as "1h36m", "90s" or "1w2d". A leading
// "-" negates the whole value.
func ParseDuration(s string) (Duration, error) {
	switch s {
	case "0", "+0", "-0":
		return 0, nil
	}

	matches := durationRgx.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, ErrInvalidDuration
	}

	total := 0.0
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil || math.IsNaN(value) {
			return 0, ErrInvalidDuration
		}
		factor, ok := durationUnits[m[2]]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrInvalidUnit, m[2])
		}
		total += math.Abs(value) * factor
	}

	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
	}
	return NewDuration(math.Floor(total) * sign)
}

// Milliseconds returns the raw value used for comparisons.
func (d Duration) Milliseconds() int64 { return int64(d) }

// Hours is the hour component of the duration within a day.
func (d Duration) Hours() int { return int((int64(d) % int64(day)) / int64(hour)) }

// Minutes is the minute component of the duration within an hour.
func (d Duration) Minutes() int { return int((int64(d) % int64(hour)) / int64(minute)) }

// String renders the non-zero components in h, m, s, ms order. A zero
// duration renders as "0".
func (d Duration) String() string {
	ms := int64(d)
	if ms == 0 {
		return "0"
	}

	var b strings.Builder
	if ms < 0 {
		b.WriteByte('-')
		ms = -ms
	}

	for _, u := range []struct {
		size   int64
		suffix string
	}{
		{int64(hour), "h"},
		{int64(minute), "m"},
		{int64(second), "s"},
		{int64(millisecond), "ms"},
	} {
		if n := ms / u.size; n != 0 {
			ms -= n * u.size
			b.WriteString(strconv.FormatInt(n, 10))
			b.WriteString(u.suffix)
		}
	}
	return b.String()
}
