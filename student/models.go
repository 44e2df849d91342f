package student

import (
	"time"

	"github.com/xraph/tuition/id"
	"github.com/xraph/tuition/types"
)

// Student is a registered student. The wallet address and the external
// student id form a two-way unique mapping; the scholarship percent is the
// only field that changes after creation. Students are never deleted.
type Student struct {
	types.Entity
	Wallet             string `json:"wallet"`
	StudentID          string `json:"student_id"`
	ScholarshipPercent int    `json:"scholarship_percent"`
	Registered         bool   `json:"registered"`
}

// RequestStatus is the lifecycle state of a self-service registration request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// RegistrationRequest is a self-service registration awaiting an admin
// decision. Approved and rejected are terminal states.
type RegistrationRequest struct {
	types.Entity
	ID        id.RequestID  `json:"id"`
	Wallet    string        `json:"wallet"`
	StudentID string        `json:"student_id"`
	Status    RequestStatus `json:"status"`
	DecidedAt *time.Time    `json:"decided_at,omitempty"`
}

// Pending reports whether the request still awaits a decision.
func (r *RegistrationRequest) Pending() bool {
	return r.Status == RequestPending
}
