package shops

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayKey is a day-of-week column label as used in the sheet
type DayKey string

const (
	Monday    DayKey = "月"
	Tuesday   DayKey = "火"
	Wednesday DayKey = "水"
	Thursday  DayKey = "木"
	Friday    DayKey = "金"
	Saturday  DayKey = "土"
	Sunday    DayKey = "日"
	Irregular DayKey = "不定期"
)

// Weekdays is the fixed Monday-first cycle
var Weekdays = []DayKey{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayKeys lists every day flag column, irregular last
var DayKeys = []DayKey{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday, Irregular}

// byWeekday maps time.Weekday (Sunday = 0) to a day key
var byWeekday = [7]DayKey{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// MinutesPerDay is the value of 24:00
const MinutesPerDay = 24 * 60

var (
	colonTimeRe = regexp.MustCompile(`^(\d{1,2})\s*:\s*(\d{1,2})$`)
	kanjiTimeRe = regexp.MustCompile(`^(\d{1,2})\s*時\s*(\d{1,2})?\s*(分)?$`)
	hourOnlyRe  = regexp.MustCompile(`^(\d{1,2})$`)
)

// ParseTimeToMinutes converts "22:00", "22：30", "22時30分", "22時" or "22"
// to minutes since midnight. "24:00" is the only accepted value for hour 24.
func ParseTimeToMinutes(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "：", ":")
	if s == "" {
		return 0, false
	}

	if m := colonTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if min > 59 {
			return 0, false
		}
		if h == 24 && min == 0 {
			return MinutesPerDay, true
		}
		if h > 23 {
			return 0, false
		}
		return h*60 + min, true
	}

	if m := kanjiTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		if h > 23 || min > 59 {
			return 0, false
		}
		return h*60 + min, true
	}

	if m := hourOnlyRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h > 23 {
			return 0, false
		}
		return h * 60, true
	}

	return 0, false
}

// DayKeyOf returns the day key of t in t's location
func DayKeyOf(t time.Time) DayKey {
	return byWeekday[t.Weekday()]
}

// PreviousDay returns the day before k. Keys outside the weekly cycle are returned unchanged.
func PreviousDay(k DayKey) DayKey {
	for i, d := range Weekdays {
		if d == k {
			return Weekdays[(i+6)%7]
		}
	}
	return k
}

// FormatNow renders t as "HH:MM（曜）"
func FormatNow(t time.Time) string {
	return fmt.Sprintf("%02d:%02d（%s）", t.Hour(), t.Minute(), DayKeyOf(t))
}
