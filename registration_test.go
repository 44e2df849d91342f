package tuition_test

import (
	"context"
	"errors"
	"testing"

	tuition "github.com/xraph/tuition"
	"github.com/xraph/tuition/id"
	"github.com/xraph/tuition/student"
)

func TestRegisterStudent(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	st, err := l.RegisterStudent(ctx, "0xaaa", "S-1001")
	if err != nil {
		t.Fatalf("RegisterStudent failed: %v", err)
	}
	if st.Wallet != "0xaaa" || st.StudentID != "S-1001" {
		t.Errorf("registered student = %+v", st)
	}
	if !st.Registered {
		t.Error("Registered flag not set")
	}
	if st.ScholarshipPercent != 0 {
		t.Errorf("new student scholarship = %d, want 0", st.ScholarshipPercent)
	}

	if !l.IsRegistered(ctx, "0xaaa") {
		t.Error("IsRegistered(0xaaa) = false, want true")
	}
	if l.IsRegistered(ctx, "0xzzz") {
		t.Error("IsRegistered(0xzzz) = true, want false")
	}
}

func TestRegisterStudentValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		wallet    string
		studentID string
	}{
		{"empty wallet", "", "S-1001"},
		{"empty student id", "0xaaa", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.RegisterStudent(ctx, tt.wallet, tt.studentID)
			if !tuition.IsValidation(err) {
				t.Errorf("RegisterStudent(%q, %q) error = %v, want validation error",
					tt.wallet, tt.studentID, err)
			}
		})
	}
}

func TestRegisterStudentConflicts(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustRegister(t, l, "0xaaa", "S-1001")

	// Same wallet, different student id.
	if _, err := l.RegisterStudent(ctx, "0xaaa", "S-2002"); !errors.Is(err, tuition.ErrAlreadyRegistered) {
		t.Errorf("duplicate wallet error = %v, want ErrAlreadyRegistered", err)
	}

	// Different wallet, same student id.
	if _, err := l.RegisterStudent(ctx, "0xbbb", "S-1001"); !errors.Is(err, tuition.ErrDuplicateID) {
		t.Errorf("duplicate student id error = %v, want ErrDuplicateID", err)
	}

	// The failed attempts must not have claimed anything.
	if l.IsRegistered(ctx, "0xbbb") {
		t.Error("failed registration claimed the wallet")
	}
	if _, err := l.RegisterStudent(ctx, "0xbbb", "S-2002"); err != nil {
		t.Errorf("fresh registration after conflicts failed: %v", err)
	}
}

func TestStudentLookup(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustRegister(t, l, "0xbbb", "S-1002")
	mustRegister(t, l, "0xaaa", "S-1001")

	byWallet, err := l.GetStudent(ctx, "0xaaa")
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	byID, err := l.GetStudentByID(ctx, "S-1001")
	if err != nil {
		t.Fatalf("GetStudentByID failed: %v", err)
	}
	if byWallet.Wallet != byID.Wallet || byWallet.StudentID != byID.StudentID {
		t.Errorf("lookups disagree: %+v vs %+v", byWallet, byID)
	}

	if _, err := l.GetStudent(ctx, "0xzzz"); !errors.Is(err, tuition.ErrNotRegistered) {
		t.Errorf("GetStudent(unknown) error = %v, want ErrNotRegistered", err)
	}
	if _, err := l.GetStudentByID(ctx, "S-9999"); !errors.Is(err, tuition.ErrNotRegistered) {
		t.Errorf("GetStudentByID(unknown) error = %v, want ErrNotRegistered", err)
	}

	students := l.ListStudents(ctx)
	if len(students) != 2 {
		t.Fatalf("ListStudents returned %d students, want 2", len(students))
	}
	if students[0].Wallet != "0xaaa" || students[1].Wallet != "0xbbb" {
		t.Errorf("ListStudents not ordered by wallet: %s, %s",
			students[0].Wallet, students[1].Wallet)
	}
	if got := l.RegisteredStudentsCount(ctx); got != 2 {
		t.Errorf("RegisteredStudentsCount = %d, want 2", got)
	}
}

func TestRegistrationRequestFlow(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	req, err := l.SubmitRegistrationRequest(ctx, "0xaaa", "S-1001")
	if err != nil {
		t.Fatalf("SubmitRegistrationRequest failed: %v", err)
	}
	if req.Status != student.RequestPending {
		t.Errorf("new request status = %s, want pending", req.Status)
	}
	if !req.Pending() {
		t.Error("Pending() = false for a new request")
	}

	// Approval registers the student and decides the request.
	st, err := l.ApproveRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("ApproveRequest failed: %v", err)
	}
	if st.Wallet != "0xaaa" || st.StudentID != "S-1001" {
		t.Errorf("approved student = %+v", st)
	}
	if !l.IsRegistered(ctx, "0xaaa") {
		t.Error("approved wallet not registered")
	}

	decided, err := l.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if decided.Status != student.RequestApproved {
		t.Errorf("request status after approval = %s, want approved", decided.Status)
	}
	if decided.DecidedAt == nil {
		t.Error("DecidedAt not set after approval")
	}

	// Decided requests are terminal.
	if _, err := l.ApproveRequest(ctx, req.ID); !errors.Is(err, tuition.ErrRequestDecided) {
		t.Errorf("re-approval error = %v, want ErrRequestDecided", err)
	}
	if err := l.RejectRequest(ctx, req.ID); !errors.Is(err, tuition.ErrRequestDecided) {
		t.Errorf("reject after approval error = %v, want ErrRequestDecided", err)
	}
}

func TestUnknownRequest(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	unknown := id.NewRequestID()

	if _, err := l.GetRequest(ctx, unknown); !errors.Is(err, tuition.ErrRequestNotFound) {
		t.Errorf("GetRequest(unknown) error = %v, want ErrRequestNotFound", err)
	}
	if _, err := l.ApproveRequest(ctx, unknown); !errors.Is(err, tuition.ErrRequestNotFound) {
		t.Errorf("ApproveRequest(unknown) error = %v, want ErrRequestNotFound", err)
	}
	if err := l.RejectRequest(ctx, unknown); !errors.Is(err, tuition.ErrRequestNotFound) {
		t.Errorf("RejectRequest(unknown) error = %v, want ErrRequestNotFound", err)
	}
}

func TestRejectRequest(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	req, err := l.SubmitRegistrationRequest(ctx, "0xaaa", "S-1001")
	if err != nil {
		t.Fatalf("SubmitRegistrationRequest failed: %v", err)
	}
	if err := l.RejectRequest(ctx, req.ID); err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}

	if l.IsRegistered(ctx, "0xaaa") {
		t.Error("rejected wallet must not be registered")
	}

	// After rejection the wallet can file a new request.
	if _, err := l.SubmitRegistrationRequest(ctx, "0xaaa", "S-1001"); err != nil {
		t.Errorf("resubmission after rejection failed: %v", err)
	}
}

func TestSubmitRequestConflicts(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustRegister(t, l, "0xaaa", "S-1001")

	if _, err := l.SubmitRegistrationRequest(ctx, "0xaaa", "S-2002"); !errors.Is(err, tuition.ErrAlreadyRegistered) {
		t.Errorf("request for registered wallet error = %v, want ErrAlreadyRegistered", err)
	}
	if _, err := l.SubmitRegistrationRequest(ctx, "0xbbb", "S-1001"); !errors.Is(err, tuition.ErrDuplicateID) {
		t.Errorf("request for taken student id error = %v, want ErrDuplicateID", err)
	}

	// One pending request per wallet.
	if _, err := l.SubmitRegistrationRequest(ctx, "0xbbb", "S-2002"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := l.SubmitRegistrationRequest(ctx, "0xbbb", "S-3003"); !errors.Is(err, tuition.ErrDuplicateRequest) {
		t.Errorf("second pending request error = %v, want ErrDuplicateRequest", err)
	}
}

func TestApproveRequestConflictLeavesPending(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	req, err := l.SubmitRegistrationRequest(ctx, "0xaaa", "S-1001")
	if err != nil {
		t.Fatalf("SubmitRegistrationRequest failed: %v", err)
	}

	// The student id is taken directly after the request was filed.
	mustRegister(t, l, "0xbbb", "S-1001")

	if _, err := l.ApproveRequest(ctx, req.ID); !errors.Is(err, tuition.ErrDuplicateID) {
		t.Errorf("conflicted approval error = %v, want ErrDuplicateID", err)
	}

	// The request stays pending for the admin to reject.
	got, err := l.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if !got.Pending() {
		t.Errorf("request status after failed approval = %s, want pending", got.Status)
	}
	if err := l.RejectRequest(ctx, req.ID); err != nil {
		t.Errorf("rejecting the conflicted request failed: %v", err)
	}
}

func TestListPendingRequests(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	r1, err := l.SubmitRegistrationRequest(ctx, "0xaaa", "S-1001")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	r2, err := l.SubmitRegistrationRequest(ctx, "0xbbb", "S-1002")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := l.ApproveRequest(ctx, r1.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	pending := l.ListPendingRequests(ctx)
	if len(pending) != 1 {
		t.Fatalf("ListPendingRequests returned %d, want 1", len(pending))
	}
	if pending[0].ID.String() != r2.ID.String() {
		t.Errorf("pending request = %s, want %s", pending[0].ID, r2.ID)
	}
}
