package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/entity"
)

// Completion is a one-shot notification that a create or update finished
// successfully. The staff portal consumes it exactly once to close the
// open form; the sequence number lets a consumer tell a fresh completion
// from one it has already acted on.
type Completion struct {
	Seq     uint64        `json:"seq"`
	Op      entity.OpKind `json:"op"`
	Message string        `json:"message"`
}

// StaffStudentStore is the staff-scoped student collection. On top of the
// uniform CRUD shape it tracks which operation kind is in flight, a
// view-denied flag for revoked view permission, and the completion signal
// above.
type StaffStudentStore struct {
	mu sync.Mutex

	gw      Gateway
	session *SessionStore

	students   []entity.Student
	loading    bool
	err        error
	successMsg string
	op         entity.OpKind
	viewDenied bool

	seq        uint64
	completion *Completion
}

func NewStaffStudentStore(gw Gateway, session *SessionStore) *StaffStudentStore {
	return &StaffStudentStore{
		gw:      gw,
		session: session,
		op:      entity.OpNone,
	}
}

func (s *StaffStudentStore) Load(ctx context.Context) error {
	s.begin(entity.OpFetch)

	students, err := s.gw.StudentsByStaff(ctx, s.session.Token())
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.op = entity.OpNone
		s.err = err
		// The backend distinguishes "your view permission was revoked"
		// from transient failures only by message text.
		s.viewDenied = strings.Contains(err.Error(), entity.ViewDeniedMarker)
		s.mu.Unlock()

		return fmt.Errorf("list students: %w", err)
	}

	s.mu.Lock()
	s.students = students
	s.loading = false
	s.op = entity.OpNone
	s.viewDenied = false
	s.mu.Unlock()

	return nil
}

func (s *StaffStudentStore) Create(ctx context.Context, req school.StudentRequest) (entity.Student, error) {
	if err := ValidateStudent(req); err != nil {
		return entity.Student{}, err
	}

	s.begin(entity.OpCreate)

	student, message, err := s.gw.CreateStudentByStaff(ctx, s.session.Token(), req)
	if err != nil {
		s.fail(err)
		return entity.Student{}, fmt.Errorf("create student: %w", err)
	}

	if message == "" {
		message = "Student created successfully"
	}

	s.mu.Lock()
	if student.ID != "" {
		s.students = append(s.students, student)
	}
	s.complete(entity.OpCreate, message)
	s.mu.Unlock()

	slog.InfoContext(ctx, "staff students: created", "student_id", student.ID)

	return student, nil
}

func (s *StaffStudentStore) Update(ctx context.Context, studentID string, req school.StudentRequest) (entity.Student, error) {
	if err := ValidateStudent(req); err != nil {
		return entity.Student{}, err
	}

	s.begin(entity.OpUpdate)

	student, message, err := s.gw.UpdateStudentByStaff(ctx, s.session.Token(), studentID, req)
	if err != nil {
		s.fail(err)
		return entity.Student{}, fmt.Errorf("update student: %w", err)
	}

	if message == "" {
		message = "Student updated successfully"
	}

	s.mu.Lock()
	for i := range s.students {
		if s.students[i].ID == student.ID {
			s.students[i] = student
			break
		}
	}
	s.complete(entity.OpUpdate, message)
	s.mu.Unlock()

	return student, nil
}

func (s *StaffStudentStore) Delete(ctx context.Context, studentID string) (string, error) {
	s.begin(entity.OpDelete)

	message, err := s.gw.DeleteStudentByStaff(ctx, s.session.Token(), studentID)
	if err != nil {
		s.fail(err)
		return "", fmt.Errorf("delete student: %w", err)
	}

	if message == "" {
		message = "Student deleted successfully"
	}

	s.mu.Lock()
	kept := s.students[:0]
	for _, student := range s.students {
		if student.ID != studentID {
			kept = append(kept, student)
		}
	}
	s.students = kept
	s.loading = false
	s.op = entity.OpNone
	s.successMsg = message
	s.mu.Unlock()

	return message, nil
}

// ConsumeCompletion hands out the pending completion at most once.
func (s *StaffStudentStore) ConsumeCompletion() (Completion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completion == nil {
		return Completion{}, false
	}

	c := *s.completion
	s.completion = nil

	return c, true
}

func (s *StaffStudentStore) Students() []entity.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Student, len(s.students))
	copy(out, s.students)

	return out
}

func (s *StaffStudentStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

func (s *StaffStudentStore) Op() entity.OpKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.op
}

func (s *StaffStudentStore) ViewDenied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewDenied
}

func (s *StaffStudentStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *StaffStudentStore) SuccessMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.successMsg
}

// ClearMessages clears the banner state in lockstep with its dismissal.
func (s *StaffStudentStore) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = nil
	s.successMsg = ""
}

func (s *StaffStudentStore) begin(op entity.OpKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.err = nil
	s.op = op
}

func (s *StaffStudentStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.op = entity.OpNone
	s.err = err
}

// complete must be called with s.mu held.
func (s *StaffStudentStore) complete(op entity.OpKind, message string) {
	s.loading = false
	s.op = entity.OpNone
	s.successMsg = message
	s.seq++
	s.completion = &Completion{Seq: s.seq, Op: op, Message: message}
}
