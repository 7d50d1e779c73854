package holidays

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Provider serves public holidays from fixed dates and recurring rules.
// It is read-only after NewProvider and safe for concurrent use.
type Provider struct {
	fixed     []time.Time
	recurring []*rrule.RRule
}

// NewProvider parses fixed dates (YYYY-MM-DD) and recurring RRULE strings
func NewProvider(fixed []string, recurring []string) (*Provider, error) {
	p := &Provider{}
	for _, date := range fixed {
		t, err := time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", date, err)
		}
		p.fixed = append(p.fixed, t)
	}
	for _, ruleStr := range recurring {
		rule, err := ParseRule(ruleStr)
		if err != nil {
			return nil, err
		}
		p.recurring = append(p.recurring, rule)
	}
	return p, nil
}

// FetchHolidaysForYear returns the sorted, de-duplicated holidays of the year
func (p *Provider) FetchHolidaysForYear(ctx context.Context, year int) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	var result []time.Time
	add := func(t time.Time) {
		key := t.Format(model.DateLayout)
		if t.Year() != year || seen[key] {
			return
		}
		seen[key] = true
		result = append(result, t)
	}

	for _, t := range p.fixed {
		add(t)
	}
	for _, rule := range p.recurring {
		occurrences, err := Occurrences(rule, from, to)
		if err != nil {
			return nil, err
		}
		for _, t := range occurrences {
			add(t)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}
