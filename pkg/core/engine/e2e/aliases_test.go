package e2e

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Type aliases for test readability
type (
	Input         = engine.Input
	ScheduleMonth = engine.ScheduleMonth
	Staff         = model.Staff
)
