package audithook

// Action constants for audit events.
const (
	// Registration actions
	ActionStudentRegistered = "student.registered"
	ActionRequestSubmitted  = "request.submitted"
	ActionRequestApproved   = "request.approved"
	ActionRequestRejected   = "request.rejected"

	// Fee actions
	ActionFeeScheduleCreated = "fee_schedule.created"

	// Payment actions
	ActionPaymentReceived = "payment.received"
	ActionRefundProcessed = "refund.processed"

	// Scholarship actions
	ActionScholarshipApplied = "scholarship.applied"
	ActionScholarshipRefund  = "scholarship.refund"

	// Persistence actions
	ActionSnapshotFlushed  = "snapshot.flushed"
	ActionRestoreCompleted = "restore.completed"
)

// Resource constants for audit events.
const (
	ResourceStudent     = "student"
	ResourceRequest     = "registration_request"
	ResourceFeeSchedule = "fee_schedule"
	ResourcePayment     = "payment"
	ResourceScholarship = "scholarship"
	ResourceSnapshot    = "snapshot"
)

// Category constants for audit events.
const (
	CategoryRegistration = "registration"
	CategoryBilling      = "billing"
	CategoryPayment      = "payment"
	CategoryPersistence  = "persistence"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
