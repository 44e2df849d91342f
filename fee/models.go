package fee

import (
	"time"

	"github.com/xraph/tuition/types"
)

// Schedule is the fee configuration for one semester. A semester is a plain
// string key, not a calendar-validated type. Setting a schedule for an
// existing semester overwrites it; only the latest value is retained.
type Schedule struct {
	types.Entity
	Semester string      `json:"semester"`
	Base     types.Money `json:"base"`
	Deadline time.Time   `json:"deadline"`
	Active   bool        `json:"active"`
}

// Discounted returns the net fee after applying a scholarship percent:
// base - floor(base * percent / 100).
func (s *Schedule) Discounted(percent int) types.Money {
	return s.Base.Subtract(s.Base.Percent(percent))
}
