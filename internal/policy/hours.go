// Package policy decides whether a date and time-of-day form a legal
// reservation slot.  Every function here is pure: the current instant is
// always passed in by the caller and never read from the system clock.
package policy

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in storage.
const DateLayout = "2006-01-02"

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?$`)
)

// ErrBadDate and ErrBadTime are returned by the parsers for malformed input.
var (
	ErrBadDate = errors.New("date must be formatted YYYY-MM-DD")
	ErrBadTime = errors.New("time must be formatted HH:MM")
)

// TimeOfDay is an offset from local midnight.
type TimeOfDay time.Duration

// Clock builds a TimeOfDay from its components.
func Clock(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// Components splits the value into hour, minute and second.
func (t TimeOfDay) Components() (hour, minute, second int) {
	total := int(time.Duration(t) / time.Second)
	return total / 3600, (total / 60) % 60, total % 60
}

// String renders the value as HH:MM:SS, the storage format.
func (t TimeOfDay) String() string {
	hour, minute, second := t.Components()
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
}

// ParseDate parses a strict YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, ErrBadDate
	}
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return d, nil
}

// ParseTimeOfDay parses HH:MM or HH:MM:SS on a 24 hour clock.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrBadTime
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if h > 23 || min > 59 || sec > 59 {
		return 0, ErrBadTime
	}
	return Clock(h, min, sec), nil
}

// Hours describes when the restaurant takes reservations.
type Hours struct {
	ClosedDay time.Weekday
	Open      TimeOfDay // exclusive
	Close     TimeOfDay // exclusive
	Location  *time.Location
}

// Default is closed on Tuesdays and seats parties strictly between 10:30
// and 21:30, leaving a half hour before the kitchen closes.
var Default = Hours{
	ClosedDay: time.Tuesday,
	Open:      Clock(10, 30, 0),
	Close:     Clock(21, 30, 0),
	Location:  time.UTC,
}

func (h Hours) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}

// IsOpenDay reports whether date does not fall on the closed weekday.
func (h Hours) IsOpenDay(date time.Time) bool {
	return date.In(h.location()).Weekday() != h.ClosedDay
}

// IsWithinServiceHours reports whether t is strictly after opening and
// strictly before the last seating.
func (h Hours) IsWithinServiceHours(t TimeOfDay) bool {
	return t > h.Open && t < h.Close
}

// IsFutureSlot reports whether date+t is not strictly before now.
func (h Hours) IsFutureSlot(date time.Time, t TimeOfDay, now time.Time) bool {
	return !h.At(date, t).Before(now)
}

// At combines a calendar date and a wall-clock time of day into an instant
// in the restaurant's location.  Components go through time.Date so DST
// changeover days keep the wall-clock reading.
func (h Hours) At(date time.Time, t TimeOfDay) time.Time {
	loc := h.location()
	d := date.In(loc)
	hour, minute, second := t.Components()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, second, 0, loc)
}
