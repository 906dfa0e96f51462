package planner

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidShowtime is returned for clock strings that are not in "h:mma" form.
var ErrInvalidShowtime = errors.New("invalid showtime value")

const (
	isoLayout      = "2006-01-02T15:04:05.000Z"
	localISOLayout = "2006-01-02T15:04:05.000Z07:00"
	clockLayout    = "3:04pm"
)

var showtimeRgx = regexp.MustCompile(`^(\d?\d):(\d\d)(am|pm)$`)

// Clock supplies the current instant.
type Clock func() time.Time

var clock Clock = time.Now

// SetClock replaces the source of Now, for tests and the fixed-now debug
// setting. The returned function restores the previous clock.
func SetClock(c Clock) (restore func()) {
	prev := clock
	clock = c
	return func() { clock = prev }
}

// Showtime is a minute-resolution point in time. Seconds and milliseconds
// are always zero.
type Showtime struct {
	t time.Time
}

// NewShowtime behaves like time.Date with seconds and nanoseconds fixed at 0.
// Out of range values are normalized the same way.
func NewShowtime(year int, month time.Month, day, hour, min int, loc *time.Location) Showtime {
	if loc == nil {
		loc = time.Local
	}
	return Showtime{t: time.Date(year, month, day, hour, min, 0, 0, loc)}
}

// ShowtimeAt truncates t to the minute.
func ShowtimeAt(t time.Time) Showtime {
	return NewShowtime(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Location())
}

// Now returns the current instant as a Showtime.
func Now() Showtime { return ShowtimeAt(clock()) }

// ParseShowtime combines a clock string such as "2:00pm" with the date the
// listings page reports.
func ParseShowtime(value string, requested time.Time) (Showtime, error) {
	m := showtimeRgx.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return Showtime{}, fmt.Errorf("%w %q", ErrInvalidShowtime, value)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if hours > 12 || minutes > 59 {
		return Showtime{}, fmt.Errorf("%w %q", ErrInvalidShowtime, value)
	}

	switch {
	case m[3] == "am" && hours == 12:
		hours = 0
	case m[3] == "pm" && hours != 12:
		hours += 12
	}
	return NewShowtime(requested.Year(), requested.Month(), requested.Day(), hours, minutes, requested.Location()), nil
}

// ParseLocalISOString reads the output of LocalISOString.
func ParseLocalISOString(s string) (Showtime, error) {
	t, err := time.Parse(localISOLayout, s)
	if err != nil {
		return Showtime{}, fmt.Errorf("%w %q: %w", ErrInvalidShowtime, s, err)
	}
	return ShowtimeAt(t), nil
}

// CompareShowtimes returns -1, 0 or +1 as a is before, equal to or after b.
func CompareShowtimes(a, b Showtime) int { return a.t.Compare(b.t) }

func (s Showtime) Time() time.Time { return s.t }
func (s Showtime) IsZero() bool { return s.t.IsZero() }
func (s Showtime) Year() int { return s.t.Year() }
func (s Showtime) Month() time.Month { return s.t.Month() }
func (s Showtime) Day() int { return s.t.Day() }
func (s Showtime) Hour() int { return s.t.Hour() }
func (s Showtime) Minute() int { return s.t.Minute() }
func (s Showtime) Before(o Showtime) bool { return s.t.Before(o.t) }
func (s Showtime) After(o Showtime) bool { return s.t.After(o.t) }
func (s Showtime) Equal(o Showtime) bool { return s.t.Equal(o.t) }

func (s Showtime) with(year int, month time.Month, day, hour, min int) Showtime {
	return NewShowtime(year, month, day, hour, min, s.t.Location())
}

// SetYear and the other setters return a copy with one field replaced,
// normalizing overflow like time.Date.
func (s Showtime) SetYear(v int) Showtime {
	return s.with(v, s.Month(), s.Day(), s.Hour(), s.Minute())
}

func (s Showtime) SetMonth(v time.Month) Showtime {
	return s.with(s.Year(), v, s.Day(), s.Hour(), s.Minute())
}

func (s Showtime) SetDay(v int) Showtime {
	return s.with(s.Year(), s.Month(), v, s.Hour(), s.Minute())
}

func (s Showtime) SetHour(v int) Showtime {
	return s.with(s.Year(), s.Month(), s.Day(), v, s.Minute())
}

func (s Showtime) SetMinute(v int) Showtime {
	return s.with(s.Year(), s.Month(), s.Day(), s.Hour(), v)
}

func (s Showtime) AddYears(n int) Showtime { return s.SetYear(s.Year() + n) }
func (s Showtime) AddMonths(n int) Showtime { return s.SetMonth(s.Month() + time.Month(n)) }
func (s Showtime) AddDays(n int) Showtime { return s.SetDay(s.Day() + n) }
func (s Showtime) AddHours(n int) Showtime { return s.SetHour(s.Hour() + n) }
func (s Showtime) AddMinutes(n int) Showtime { return s.SetMinute(s.Minute() + n) }

// ISOString formats the instant in UTC, e.g. "2019-02-02T19:00:00.000Z".
func (s Showtime) ISOString() string { return s.t.UTC().Format(isoLayout) }

// LocalISOString formats the wall-clock time with its numeric UTC offset,
// e.g. "2019-02-02T14:00:00.000-05:00". It is the serialized form.
func (s Showtime) LocalISOString() string { return s.t.Format(localISOLayout) }

// String renders the local clock time, e.g. "4:30pm".
func (s Showtime) String() string { return s.t.Format(clockLayout) }

func (s Showtime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.LocalISOString())), nil
}

func (s *Showtime) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidShowtime, data)
	}
	parsed, err := ParseLocalISOString(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
