package tuition

import (
	"context"
	"sort"

	"github.com/xraph/tuition/id"
	"github.com/xraph/tuition/student"
	"github.com/xraph/tuition/types"
)

// ──────────────────────────────────────────────────
// Student Registration
// ──────────────────────────────────────────────────

// RegisterStudent registers a wallet under an external student id. Both the
// wallet and the student id must be unused; students are never deleted, so
// registration is permanent.
func (l *Ledger) RegisterStudent(ctx context.Context, wallet, studentID string) (*student.Student, error) {
	if wallet == "" {
		return nil, ValidationError{Field: "wallet", Message: "must not be empty"}
	}
	if studentID == "" {
		return nil, ValidationError{Field: "student_id", Message: "must not be empty"}
	}

	l.mu.Lock()
	st, err := l.registerLocked(wallet, studentID)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	l.markDirty()
	l.plugins.EmitStudentRegistered(ctx, st)

	l.logger.Info("student registered",
		"wallet", wallet,
		"student_id", studentID,
	)

	cp := *st
	return &cp, nil
}

// registerLocked inserts a student. Caller holds l.mu.
func (l *Ledger) registerLocked(wallet, studentID string) (*student.Student, error) {
	if _, ok := l.students[wallet]; ok {
		return nil, ErrAlreadyRegistered
	}
	if _, ok := l.byStudentID[studentID]; ok {
		return nil, ErrDuplicateID
	}

	st := &student.Student{
		Entity:     types.EntityAt(l.clock()),
		Wallet:     wallet,
		StudentID:  studentID,
		Registered: true,
	}
	l.students[wallet] = st
	l.byStudentID[studentID] = wallet
	return st, nil
}

// GetStudent returns the student registered under a wallet.
func (l *Ledger) GetStudent(_ context.Context, wallet string) (*student.Student, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st, ok := l.students[wallet]
	if !ok {
		return nil, ErrNotRegistered
	}
	cp := *st
	return &cp, nil
}

// GetStudentByID returns the student registered under an external student id.
func (l *Ledger) GetStudentByID(_ context.Context, studentID string) (*student.Student, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	wallet, ok := l.byStudentID[studentID]
	if !ok {
		return nil, ErrNotRegistered
	}
	cp := *l.students[wallet]
	return &cp, nil
}

// IsRegistered reports whether a wallet belongs to a registered student.
func (l *Ledger) IsRegistered(_ context.Context, wallet string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.students[wallet]
	return ok
}

// ListStudents returns all registered students ordered by wallet.
func (l *Ledger) ListStudents(_ context.Context) []*student.Student {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*student.Student, 0, len(l.students))
	for _, st := range l.students {
		cp := *st
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Wallet < result[j].Wallet
	})
	return result
}

// RegisteredStudentsCount returns the number of registered students.
func (l *Ledger) RegisteredStudentsCount(_ context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.students)
}

// ──────────────────────────────────────────────────
// Registration Requests
// ──────────────────────────────────────────────────

// SubmitRegistrationRequest files a self-service registration for admin
// review. A wallet can have at most one pending request, and neither the
// wallet nor the student id may already be registered.
func (l *Ledger) SubmitRegistrationRequest(ctx context.Context, wallet, studentID string) (*student.RegistrationRequest, error) {
	if wallet == "" {
		return nil, ValidationError{Field: "wallet", Message: "must not be empty"}
	}
	if studentID == "" {
		return nil, ValidationError{Field: "student_id", Message: "must not be empty"}
	}

	l.mu.Lock()
	if _, ok := l.students[wallet]; ok {
		l.mu.Unlock()
		return nil, ErrAlreadyRegistered
	}
	if _, ok := l.byStudentID[studentID]; ok {
		l.mu.Unlock()
		return nil, ErrDuplicateID
	}
	for _, r := range l.requests {
		if r.Wallet == wallet && r.Pending() {
			l.mu.Unlock()
			return nil, ErrDuplicateRequest
		}
	}

	req := &student.RegistrationRequest{
		Entity:    types.EntityAt(l.clock()),
		ID:        id.NewRequestID(),
		Wallet:    wallet,
		StudentID: studentID,
		Status:    student.RequestPending,
	}
	l.requests[req.ID.String()] = req
	l.mu.Unlock()

	l.markDirty()
	l.plugins.EmitRequestSubmitted(ctx, req)

	l.logger.Info("registration request submitted",
		"request_id", req.ID.String(),
		"wallet", wallet,
	)

	cp := *req
	return &cp, nil
}

// ApproveRequest approves a pending registration request and registers the
// student. If the wallet or student id was taken since submission, the
// approval fails and the request stays pending for the admin to reject.
func (l *Ledger) ApproveRequest(ctx context.Context, reqID id.RequestID) (*student.Student, error) {
	l.mu.Lock()
	req, ok := l.requests[reqID.String()]
	if !ok {
		l.mu.Unlock()
		return nil, ErrRequestNotFound
	}
	if !req.Pending() {
		l.mu.Unlock()
		return nil, ErrRequestDecided
	}

	st, err := l.registerLocked(req.Wallet, req.StudentID)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}

	now := l.clock()
	req.Status = student.RequestApproved
	req.DecidedAt = &now
	req.UpdatedAt = now
	l.mu.Unlock()

	l.markDirty()
	l.plugins.EmitRequestApproved(ctx, req)
	l.plugins.EmitStudentRegistered(ctx, st)

	l.logger.Info("registration request approved",
		"request_id", reqID.String(),
		"wallet", req.Wallet,
	)

	cp := *st
	return &cp, nil
}

// RejectRequest rejects a pending registration request.
func (l *Ledger) RejectRequest(ctx context.Context, reqID id.RequestID) error {
	l.mu.Lock()
	req, ok := l.requests[reqID.String()]
	if !ok {
		l.mu.Unlock()
		return ErrRequestNotFound
	}
	if !req.Pending() {
		l.mu.Unlock()
		return ErrRequestDecided
	}

	now := l.clock()
	req.Status = student.RequestRejected
	req.DecidedAt = &now
	req.UpdatedAt = now
	l.mu.Unlock()

	l.markDirty()
	l.plugins.EmitRequestRejected(ctx, req)

	l.logger.Info("registration request rejected",
		"request_id", reqID.String(),
		"wallet", req.Wallet,
	)

	return nil
}

// GetRequest returns a registration request by id.
func (l *Ledger) GetRequest(_ context.Context, reqID id.RequestID) (*student.RegistrationRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	req, ok := l.requests[reqID.String()]
	if !ok {
		return nil, ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

// ListPendingRequests returns all pending registration requests ordered by
// submission time.
func (l *Ledger) ListPendingRequests(_ context.Context) []*student.RegistrationRequest {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*student.RegistrationRequest, 0)
	for _, req := range l.requests {
		if req.Pending() {
			cp := *req
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
