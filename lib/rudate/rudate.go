// Package rudate parses the Russian human-readable timestamps the site
// renders on profile pages ("сегодня, 09:51", "Был 11 июля 2019 в 15:52").
// The reference time is injected so callers stay deterministic.
package rudate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

func clock(s string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed clock value %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed clock value %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed clock value %q", s)
	}
	return hour, minute, nil
}

// resolve turns a date phrase ("сегодня", "вчера", "5 октября",
// "11 июля 2019") plus a clock value into a concrete time.
func resolve(datePart, timePart string, now time.Time) (time.Time, error) {
	hour, minute, err := clock(timePart)
	if err != nil {
		return time.Time{}, err
	}

	switch datePart {
	case "сегодня":
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
	case "вчера":
		yesterday := now.AddDate(0, 0, -1)
		return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), hour, minute, 0, 0, now.Location()), nil
	}

	fields := strings.Fields(datePart)
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("malformed date phrase %q", datePart)
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed day in %q", datePart)
	}
	month, ok := months[fields[1]]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month in %q", datePart)
	}
	year := now.Year()
	if len(fields) >= 3 {
		year, err = strconv.Atoi(fields[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed year in %q", datePart)
		}
	}
	return time.Date(year, month, day, hour, minute, 0, 0, now.Location()), nil
}

// ParseRegisterDate parses registration timestamps of the form
// "сегодня, 09:51", "вчера, 09:51", "13 сентября, 09:51" and
// "13 сентября 2014, 09:51".
func ParseRegisterDate(s string, now time.Time) (time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ", ", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed register date %q", s)
	}
	return resolve(parts[0], parts[1], now)
}

// ParseLastSeen parses last-seen lines like "Был сегодня в 12:30 (2 часа
// назад)" and "Была 11 июля 2019 в 15:52 (5 лет назад)". The relative
// duration in parentheses is ignored.
func ParseLastSeen(s string, now time.Time) (time.Time, error) {
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Была ")
	s = strings.TrimPrefix(s, "Был ")

	i := strings.LastIndex(s, " в ")
	if i < 0 {
		return time.Time{}, fmt.Errorf("malformed last-seen value %q", s)
	}
	return resolve(s[:i], s[i+len(" в "):], now)
}
