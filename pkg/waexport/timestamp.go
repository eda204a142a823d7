package waexport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateOrder is the field order assumed for an ambiguous date token
type DateOrder int

const (
	DayFirst DateOrder = iota
	MonthFirst
)

func (o DateOrder) String() string {
	if o == MonthFirst {
		return "month-first"
	}
	return "day-first"
}

var (
	dateTokenRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)
	clockTokenRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?[ \x{202F}]([AaPp][Mm])$`)
)

// NormalizeTimestamp turns a d/m/yy or m/d/yy date and a 12-hour clock into a
// calendar timestamp. A first field above 12 is always the day and a second
// field above 12 forces month-first; otherwise order decides.
func NormalizeTimestamp(date, clock string, order DateOrder) (Timestamp, error) {
	dm := dateTokenRe.FindStringSubmatch(strings.TrimSpace(date))
	if dm == nil {
		return Timestamp{}, fmt.Errorf("%w: date %q", ErrMalformedTimestamp, date)
	}
	cm := clockTokenRe.FindStringSubmatch(strings.TrimSpace(clock))
	if cm == nil {
		return Timestamp{}, fmt.Errorf("%w: time %q", ErrMalformedTimestamp, clock)
	}

	first, _ := strconv.Atoi(dm[1])
	second, _ := strconv.Atoi(dm[2])
	yy, _ := strconv.Atoi(dm[3])

	var day, month int
	switch {
	case first > 12:
		day, month = first, second
	case second > 12:
		month, day = first, second
	case order == MonthFirst:
		month, day = first, second
	default:
		day, month = first, second
	}
	year := 2000 + yy

	if month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), year) {
		return Timestamp{}, fmt.Errorf("%w: date %q out of range", ErrMalformedTimestamp, date)
	}

	hour, _ := strconv.Atoi(cm[1])
	minute, _ := strconv.Atoi(cm[2])
	sec := 0
	if cm[3] != "" {
		sec, _ = strconv.Atoi(cm[3])
	}
	if hour < 1 || hour > 12 || minute > 59 || sec > 59 {
		return Timestamp{}, fmt.Errorf("%w: time %q out of range", ErrMalformedTimestamp, clock)
	}

	switch strings.ToUpper(cm[4]) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}

	return Timestamp{time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)}, nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
