package slots

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/haven/internal/lexicon"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

// TimeResolution is a resolved incident time. Date and clock are resolved
// independently; either may be absent.
type TimeResolution struct {
	Date    time.Time
	HasDate bool
	Hour    int
	Minute  int
	HasTime bool
}

type relative struct {
	re    *regexp.Regexp
	apply func(now time.Time, m []string) (TimeResolution, bool)
}

func daysAgo(n int) func(time.Time, []string) (TimeResolution, bool) {
	return func(now time.Time, _ []string) (TimeResolution, bool) {
		return TimeResolution{Date: now.AddDate(0, 0, -n), HasDate: true}, true
	}
}

func daysAgoAt(n, hour int) func(time.Time, []string) (TimeResolution, bool) {
	return func(now time.Time, _ []string) (TimeResolution, bool) {
		return TimeResolution{Date: now.AddDate(0, 0, -n), HasDate: true, Hour: hour, HasTime: true}, true
	}
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

// relativeTimes is evaluated in order; longer phrases precede the shorter
// phrases they contain.
var relativeTimes = []relative{
	{regexp.MustCompile(`\bday before yesterday\b`), daysAgo(2)},
	{regexp.MustCompile(`\byesterday morning\b`), daysAgoAt(1, 9)},
	{regexp.MustCompile(`\byesterday afternoon\b`), daysAgoAt(1, 14)},
	{regexp.MustCompile(`\byesterday evening\b`), daysAgoAt(1, 18)},
	{regexp.MustCompile(`\b(?:last night|yesterday night)\b`), daysAgoAt(1, 20)},
	{regexp.MustCompile(`\byesterday\b`), daysAgo(1)},
	{regexp.MustCompile(`\bthis morning\b`), daysAgoAt(0, 9)},
	{regexp.MustCompile(`\bthis afternoon\b`), daysAgoAt(0, 14)},
	{regexp.MustCompile(`\bthis evening\b`), daysAgoAt(0, 18)},
	{regexp.MustCompile(`\btonight\b`), daysAgoAt(0, 20)},
	{regexp.MustCompile(`\b(?:earlier )?today\b`), daysAgo(0)},
	{regexp.MustCompile(`\b(?:two|2) weeks ago\b`), daysAgo(14)},
	{regexp.MustCompile(`\blast week\b`), daysAgo(7)},
	{regexp.MustCompile(`\blast month\b`), func(now time.Time, _ []string) (TimeResolution, bool) {
		return TimeResolution{Date: now.AddDate(0, -1, 0), HasDate: true}, true
	}},
	{regexp.MustCompile(`\b(?:a )?couple (?:of )?days ago\b`), daysAgo(2)},
	{regexp.MustCompile(`\b(?:a )?few days ago\b`), daysAgo(3)},
	{regexp.MustCompile(`\b(\d{1,3}|an?|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve) (minute|hour|day|week|month)s? ago\b`), unitsAgo},
	{regexp.MustCompile(`\b(?:last|on|this past) (monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`), lastWeekday},
	{regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4}|\d{2})\b`), explicitDate},
}

func unitsAgo(now time.Time, m []string) (TimeResolution, bool) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		v, ok := lexicon.NumberWords[m[1]]
		if !ok {
			return TimeResolution{}, false
		}
		n = v
	}
	switch m[2] {
	case "minute":
		at := now.Add(-time.Duration(n) * time.Minute)
		return TimeResolution{Date: at, HasDate: true, Hour: at.Hour(), Minute: at.Minute(), HasTime: true}, true
	case "hour":
		at := now.Add(-time.Duration(n) * time.Hour)
		return TimeResolution{Date: at, HasDate: true, Hour: at.Hour(), Minute: at.Minute(), HasTime: true}, true
	case "day":
		return TimeResolution{Date: now.AddDate(0, 0, -n), HasDate: true}, true
	case "week":
		return TimeResolution{Date: now.AddDate(0, 0, -7*n), HasDate: true}, true
	case "month":
		return TimeResolution{Date: now.AddDate(0, -n, 0), HasDate: true}, true
	}
	return TimeResolution{}, false
}

// lastWeekday resolves to the most recent such day strictly before today.
func lastWeekday(now time.Time, m []string) (TimeResolution, bool) {
	want := weekdays[m[1]]
	diff := (int(now.Weekday()) - int(want) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return TimeResolution{Date: now.AddDate(0, 0, -diff), HasDate: true}, true
}

// explicitDate reads day/month/year, rejecting impossible dates.
func explicitDate(now time.Time, m []string) (TimeResolution, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if d.Day() != day || int(d.Month()) != month {
		return TimeResolution{}, false
	}
	return TimeResolution{Date: d, HasDate: true}, true
}

var (
	clock12 = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24 = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// explicitClock finds a stated time of day and converts it to 24-hour form.
func explicitClock(folded string) (hour, minute int, ok bool) {
	if m := clock12.FindStringSubmatch(folded); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, 0, false
		}
		switch {
		case m[3] == "pm" && hour < 12:
			hour += 12
		case m[3] == "am" && hour == 12:
			hour = 0
		}
		return hour, minute, true
	}
	if m := clock24.FindStringSubmatch(folded); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, 0, false
		}
		return hour, minute, true
	}
	return 0, 0, false
}

// ResolveTime interprets relative and explicit time expressions in folded
// text against now. Nothing recognised yields false; it never guesses.
func ResolveTime(folded string, now time.Time) (TimeResolution, bool) {
	var res TimeResolution
	found := false
	for _, rel := range relativeTimes {
		m := rel.re.FindStringSubmatch(folded)
		if m == nil {
			continue
		}
		if r, ok := rel.apply(now, m); ok {
			res, found = r, true
			break
		}
	}
	if h, mm, ok := explicitClock(folded); ok {
		res.Hour, res.Minute, res.HasTime = h, mm, true
		found = true
	}
	return res, found
}

func extractTiming(t *turn) {
	res, ok := ResolveTime(t.folded, t.now)
	if !ok {
		return
	}
	if res.HasDate {
		t.set(report.StartDay, strconv.Itoa(res.Date.Day()))
		t.set(report.StartMonth, strconv.Itoa(int(res.Date.Month())))
		t.set(report.StartYear, strconv.Itoa(res.Date.Year()))
	}
	if res.HasTime {
		t.set(report.StartTime, formatClock(res))
	}
}

func formatClock(res TimeResolution) string {
	return fmt.Sprintf("%02d:%02d", res.Hour, res.Minute)
}
