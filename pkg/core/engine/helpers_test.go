package engine

import (
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

var november = calendar.Month{Year: 2025, Month: time.November}

func testCatalog() model.Catalog {
	return model.Catalog{
		{Key: "early", Label: "Early", Start: model.MustClockTime("08:00"), End: model.MustClockTime("12:00"), Category: model.CategoryWeekday},
		{Key: "evening", Label: "Evening", Start: model.MustClockTime("16:00"), End: model.MustClockTime("20:00"), Category: model.CategoryWeekday},
		{Key: "closing", Label: "Closing", Start: model.MustClockTime("18:00"), End: model.MustClockTime("22:00"), Category: model.CategoryWeekday},
		{Key: "weekend", Label: "Weekend", Start: model.MustClockTime("10:00"), End: model.MustClockTime("16:00"), Category: model.CategoryWeekend},
	}
}

// vetoCriterion rejects the listed staff IDs and scores the rest from a fixed table
type vetoCriterion struct {
	name    string
	vetoed  map[string]bool
	scores  map[string]float64
	weight  float64
	invalid []ViolationError
}

func (c *vetoCriterion) Name() string { return c.name }

func (c *vetoCriterion) IsEligible(state *State, staff *StaffState, slot *Slot) bool {
	return !c.vetoed[staff.ID()]
}

func (c *vetoCriterion) Score(state *State, staff *StaffState, slot *Slot) float64 {
	return c.scores[staff.ID()]
}

func (c *vetoCriterion) Weight() float64 { return c.weight }

func (c *vetoCriterion) ValidateSchedule(state *State) []ViolationError { return c.invalid }
