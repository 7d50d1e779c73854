package holidays

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// ParseRule parses an RRULE string such as "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
func ParseRule(rule string) (*rrule.RRule, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}
	return r, nil
}

// anchor is the DTSTART of rules that do not carry their own. It is a Monday
// and the first day of a year, so undated rules with an INTERVAL keep the
// same cycle whatever window they are expanded for.
var anchor = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Occurrences returns the dates the rule produces between from and to, inclusive.
// A rule without its own DTSTART is anchored at a fixed epoch. The rule is
// never modified, so a parsed rule can be shared between goroutines.
func Occurrences(rule *rrule.RRule, from, to time.Time) ([]time.Time, error) {
	if rule.OrigOptions.Dtstart.IsZero() {
		opts := rule.OrigOptions
		opts.Dtstart = anchor
		anchored, err := rrule.NewRRule(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to anchor rrule %q: %w", rule.String(), err)
		}
		rule = anchored
	}
	var dates []time.Time
	for _, occurrence := range rule.Between(from, to, true) {
		y, m, d := occurrence.Date()
		dates = append(dates, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	return dates, nil
}

// DateMatcher returns a predicate that reports whether a date is produced by
// the rule. Occurrences are expanded once for the window [from, to].
func DateMatcher(ruleStr string, from, to time.Time) (func(time.Time) bool, error) {
	rule, err := ParseRule(ruleStr)
	if err != nil {
		return nil, err
	}
	occurrences, err := Occurrences(rule, from, to)
	if err != nil {
		return nil, err
	}
	dates := make(map[string]bool, len(occurrences))
	for _, d := range occurrences {
		dates[d.Format(model.DateLayout)] = true
	}
	return func(date time.Time) bool {
		return dates[date.Format(model.DateLayout)]
	}, nil
}
