package tuition

import (
	"github.com/xraph/tuition/fee"
	"github.com/xraph/tuition/payment"
	"github.com/xraph/tuition/student"
	"github.com/xraph/tuition/types"
)

// Re-export common types for convenience so users don't have to import the
// sub-packages.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Student is re-exported from student package.
type Student = student.Student

// RegistrationRequest is re-exported from student package.
type RegistrationRequest = student.RegistrationRequest

// FeeSchedule is re-exported from fee package.
type FeeSchedule = fee.Schedule

// Payment is re-exported from payment package.
type Payment = payment.Payment

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
