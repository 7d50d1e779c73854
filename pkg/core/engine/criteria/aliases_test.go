package criteria

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Type aliases for test readability - shared across all criterion tests
type (
	State      = engine.State
	StaffState = engine.StaffState
	Slot       = engine.Slot
	Config     = engine.Config
	Staff      = model.Staff
)
