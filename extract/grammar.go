package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/m-mizutani/travai"
)

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

// clockToken matches "9", "9:30", "9.30am", "10:30:00Z", "9am", "9:30 p.m.". A match
// only counts as a clock time if it has minutes or a meridiem, and a dotted one needs
// the meridiem (see parseClock).
const clockToken = `(\d{1,2})(?:([:.])(\d{2})(?::\d{2})?(?:Z\b)?)?\s*([ap]\.?m\b\.?)?`

var (
	headingRe   = regexp.MustCompile(`^#{1,6}\s*`)
	quoteRe     = regexp.MustCompile(`^>\s*`)
	bulletRe    = regexp.MustCompile(`^[-*+•]\s+`)
	numberingRe = regexp.MustCompile(`^\d{1,3}[.)]\s+`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	emphasisRe  = regexp.MustCompile("\\*\\*|__|\\*|`")

	isoDateRe  = regexp.MustCompile(`(?i)\b(\d{4})-(\d{1,2})-(\d{1,2})(?:T|\b)`)
	dayMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)\b\.?(?:,?\s+(\d{4})\b)?`)
	monthDayRe = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	dayNumRe   = regexp.MustCompile(`(?i)\bday\s+(\d{1,2})\b`)
	weekdayRe  = regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues?|wed|thu(?:rs?)?|fri|sat|sun)\b\.?`)

	clockRangeRe = regexp.MustCompile(`(?i)\b` + clockToken + `\s*(?:-|–|—|~|to|until)\s*` + clockToken)
	clockRe      = regexp.MustCompile(`(?i)\b` + clockToken)
	daypartRe    = regexp.MustCompile(`(?i)\b(morning|noon|afternoon|evening|night)\b`)
	// rateRe matches a daypart used as a rate unit, as in "$220 per night" or "$60/night".
	rateRe = regexp.MustCompile(`(?i)(?:\b(?:per|a|an|each|every)[ \t]+|/[ \t]*)(?:morning|noon|afternoon|evening|night)\b`)

	locationRe = regexp.MustCompile(`(?i)(?:\bat[ \t]+|@[ \t]*|\blocation:[ \t]*)([^,;()|\x00]+)`)

	// danglingRe matches a preposition whose object was a masked temporal token. A
	// hyphenated word such as "Check-in" is not a preposition.
	danglingRe = regexp.MustCompile(`(?i)(?:(?:^|[^\w-])(?:at|on|from|by|around|until|to|in)(?:[ \t]+the)?|@)[ \t]*\x00+`)
)

var daypartHours = map[string]int{
	"morning":   9,
	"noon":      12,
	"afternoon": 14,
	"evening":   19,
	"night":     21,
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

var fillerWords = map[string]struct{}{
	"at": {}, "on": {}, "from": {}, "to": {}, "by": {}, "around": {}, "until": {},
	"and": {}, "then": {}, "the": {}, "in": {}, "of": {}, "for": {}, "-": {},
}

// trailingKept are filler words that end phrases such as "Check in".
var trailingKept = map[string]struct{}{
	"in": {},
}

const mask = '\x00'

// cleanLine removes markdown decoration from a single line.
func cleanLine(line string) string {
	s := strings.TrimSpace(line)
	for {
		before := s
		s = headingRe.ReplaceAllString(s, "")
		s = quoteRe.ReplaceAllString(s, "")
		s = bulletRe.ReplaceAllString(s, "")
		s = numberingRe.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		if s == before {
			break
		}
	}
	s = linkRe.ReplaceAllString(s, "$1")
	s = emphasisRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "|", " ")
	return strings.TrimSpace(s)
}

// segment is one cleaned line whose temporal tokens get masked as they are recognised.
type segment struct {
	text   string
	masked []byte
}

func newSegment(text string) *segment {
	return &segment{text: text, masked: []byte(text)}
}

func (x *segment) maskRange(start, end int) {
	for i := start; i < end; i++ {
		x.masked[i] = mask
	}
}

func (x *segment) current() string {
	return string(x.masked)
}

// dateAnchor is a recognised calendar date and where it sits in the segment.
type dateAnchor struct {
	date  time.Time
	start int
}

type dateMatcher struct {
	re      *regexp.Regexp
	resolve func(s string, m []int, span travai.DateRange) (time.Time, bool)
}

var dateMatchers = []dateMatcher{
	{re: isoDateRe, resolve: resolveISO},
	{re: dayMonthRe, resolve: resolveDayMonth},
	{re: monthDayRe, resolve: resolveMonthDay},
	{re: dayNumRe, resolve: resolveDayNumber},
}

// findDate masks every date token in the segment and returns the first valid one.
func (x *segment) findDate(span travai.DateRange) (*dateAnchor, bool) {
	var first *dateAnchor
	for _, matcher := range dateMatchers {
		current := x.current()
		for _, m := range matcher.re.FindAllStringSubmatchIndex(current, -1) {
			date, ok := matcher.resolve(current, m, span)
			x.maskRange(m[0], m[1])
			if !ok {
				continue
			}
			if first == nil || m[0] < first.start {
				first = &dateAnchor{date: date, start: m[0]}
			}
		}
	}
	if first == nil {
		return nil, false
	}

	// Weekday names next to a date are part of it.
	for _, m := range weekdayRe.FindAllStringIndex(x.current(), -1) {
		x.maskRange(m[0], m[1])
	}
	return first, true
}

// leadingDate reports whether nothing but punctuation precedes the anchor.
func (x *segment) leadingDate(anchor *dateAnchor) bool {
	prefix := string(x.masked[:anchor.start])
	for _, r := range prefix {
		if r != mask && !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// clock is a time of day in minutes after midnight.
type clock struct {
	start int
	end   int // -1 when absent
}

// findClock masks every clock and daypart token and returns the first usable one.
func (x *segment) findClock() (*clock, bool) {
	var found *clock
	foundAt := -1

	current := x.current()
	for _, m := range clockRangeRe.FindAllStringSubmatchIndex(current, -1) {
		start, end, ok := parseClockRange(current, m)
		if !ok {
			continue
		}
		x.maskRange(m[0], m[1])
		if found == nil {
			found = &clock{start: start, end: end}
			foundAt = m[0]
		}
	}

	current = x.current()
	for _, m := range clockRe.FindAllStringSubmatchIndex(current, -1) {
		minutes, ok := parseClock(group(current, m, 1), group(current, m, 2), group(current, m, 3), group(current, m, 4), "")
		if !ok {
			continue
		}
		x.maskRange(m[0], m[1])
		if found == nil || m[0] < foundAt {
			found = &clock{start: minutes, end: -1}
			foundAt = m[0]
		}
	}

	current = x.current()
	for _, m := range rateRe.FindAllStringIndex(current, -1) {
		x.maskRange(m[0], m[1])
	}

	current = x.current()
	for _, m := range daypartRe.FindAllStringSubmatchIndex(current, -1) {
		x.maskRange(m[0], m[1])
		if found == nil {
			found = &clock{start: daypartHours[strings.ToLower(group(current, m, 1))] * 60, end: -1}
			foundAt = m[0]
		}
	}

	return found, found != nil
}

// summary splits the unmasked remainder into an event name and an optional location.
func (x *segment) summary() (string, string) {
	for _, m := range danglingRe.FindAllStringIndex(x.current(), -1) {
		x.maskRange(m[0], m[1])
	}
	current := x.current()
	name := current
	location := ""

	for _, m := range locationRe.FindAllStringSubmatchIndex(current, -1) {
		candidate := tidy(group(current, m, 1))
		if countLetters(candidate) == 0 {
			continue
		}
		location = candidate
		name = current[:m[0]]
		break
	}

	name = tidy(name)
	if countLetters(name) < 3 && countLetters(location) >= 3 {
		name = location
	}
	return name, location
}

// tidy removes masked tokens, lone punctuation and leading or trailing filler words.
func tidy(s string) string {
	s = strings.ReplaceAll(s, string(mask), " ")
	words := strings.Fields(s)

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if strings.IndexFunc(w, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
			continue
		}
		kept = append(kept, w)
	}

	normalize := func(w string) string {
		return strings.ToLower(strings.Trim(w, ":,;.-–—"))
	}
	isFiller := func(w string) bool {
		_, ok := fillerWords[normalize(w)]
		return ok
	}
	for len(kept) > 0 && isFiller(kept[0]) {
		kept = kept[1:]
	}
	for len(kept) > 0 && isFiller(kept[len(kept)-1]) {
		if _, ok := trailingKept[normalize(kept[len(kept)-1])]; ok {
			break
		}
		kept = kept[:len(kept)-1]
	}

	out := strings.Join(kept, " ")
	return strings.TrimFunc(out, func(r rune) bool {
		return unicode.IsPunct(r) && r != ')' && r != '\'' && r != '"'
	})
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func group(s string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}

func resolveISO(s string, m []int, _ travai.DateRange) (time.Time, bool) {
	t, err := time.Parse("2006-1-2", group(s, m, 1)+"-"+group(s, m, 2)+"-"+group(s, m, 3))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func resolveDayMonth(s string, m []int, span travai.DateRange) (time.Time, bool) {
	return resolveNamedDate(group(s, m, 2), group(s, m, 1), group(s, m, 3), span)
}

func resolveMonthDay(s string, m []int, span travai.DateRange) (time.Time, bool) {
	return resolveNamedDate(group(s, m, 1), group(s, m, 2), group(s, m, 3), span)
}

func resolveDayNumber(s string, m []int, span travai.DateRange) (time.Time, bool) {
	n, err := strconv.Atoi(group(s, m, 1))
	if err != nil || n < 1 {
		return time.Time{}, false
	}
	return span.Start.AddDate(0, 0, n-1), true
}

// resolveNamedDate builds a date from a month name and day. Without a year the trip's
// start year is used, or the following year when only that lands inside the trip.
func resolveNamedDate(monthWord, dayWord, yearWord string, span travai.DateRange) (time.Time, bool) {
	month, ok := months[strings.ToLower(monthWord)[:3]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayWord)
	if err != nil {
		return time.Time{}, false
	}

	if yearWord != "" {
		t, err := dateparse.ParseIn(month.String()+" "+strconv.Itoa(day)+", "+yearWord, time.UTC)
		if err != nil || t.Month() != month || t.Day() != day {
			return time.Time{}, false
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}

	year := span.Start.Year()
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month {
		return time.Time{}, false
	}
	if !span.Contains(t) {
		next := time.Date(year+1, month, day, 0, 0, 0, 0, time.UTC)
		if next.Month() == month && span.Contains(next) {
			return next, true
		}
	}
	return t, true
}

func parseClockRange(s string, m []int) (int, int, bool) {
	endMeridiem := group(s, m, 8)
	end, ok := parseClock(group(s, m, 5), group(s, m, 6), group(s, m, 7), endMeridiem, "")
	if !ok {
		return 0, 0, false
	}
	start, ok := parseClock(group(s, m, 1), group(s, m, 2), group(s, m, 3), group(s, m, 4), endMeridiem)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// parseClock converts clock parts to minutes after midnight. fallbackMeridiem is used
// for the bare start of a range such as "9-11am". A dotted time such as "12.50" is a
// price unless a meridiem follows.
func parseClock(hourWord, separator, minuteWord, meridiem, fallbackMeridiem string) (int, bool) {
	if meridiem == "" && (minuteWord == "" || separator == ".") {
		if fallbackMeridiem == "" {
			return 0, false
		}
		meridiem = fallbackMeridiem
	}

	hour, err := strconv.Atoi(hourWord)
	if err != nil {
		return 0, false
	}
	minute := 0
	if minuteWord != "" {
		if minute, err = strconv.Atoi(minuteWord); err != nil || minute > 59 {
			return 0, false
		}
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return 0, false
		}
		pm := strings.HasPrefix(strings.ToLower(meridiem), "p")
		switch {
		case pm && hour != 12:
			hour += 12
		case !pm && hour == 12:
			hour = 0
		}
	}
	if hour > 23 {
		return 0, false
	}
	return hour*60 + minute, true
}
