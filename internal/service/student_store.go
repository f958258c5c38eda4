package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/entity"
)

// StudentStore is the superadmin-facing student collection. It models the
// same server entity as StaffStudentStore but goes through the admin
// endpoints and carries no permission gate.
type StudentStore struct {
	mu sync.Mutex

	gw      Gateway
	session *SessionStore

	students []entity.Student
	loading  bool
	err      error
}

func NewStudentStore(gw Gateway, session *SessionStore) *StudentStore {
	return &StudentStore{
		gw:      gw,
		session: session,
	}
}

func (s *StudentStore) Load(ctx context.Context) error {
	s.begin()

	students, err := s.gw.Students(ctx, s.session.Token())
	if err != nil {
		s.fail(err)
		return fmt.Errorf("list students: %w", err)
	}

	s.mu.Lock()
	s.students = students
	s.loading = false
	s.mu.Unlock()

	return nil
}

func (s *StudentStore) Create(ctx context.Context, req school.StudentRequest) (entity.Student, error) {
	if err := ValidateStudent(req); err != nil {
		return entity.Student{}, err
	}

	s.begin()

	student, err := s.gw.CreateStudent(ctx, s.session.Token(), req)
	if err != nil {
		s.fail(err)
		return entity.Student{}, fmt.Errorf("create student: %w", err)
	}

	s.mu.Lock()
	s.students = append(s.students, student)
	s.loading = false
	s.mu.Unlock()

	return student, nil
}

func (s *StudentStore) Update(ctx context.Context, studentID string, req school.StudentRequest) (entity.Student, error) {
	if err := ValidateStudent(req); err != nil {
		return entity.Student{}, err
	}

	s.begin()

	student, err := s.gw.UpdateStudent(ctx, s.session.Token(), studentID, req)
	if err != nil {
		s.fail(err)
		return entity.Student{}, fmt.Errorf("update student: %w", err)
	}

	s.mu.Lock()
	// Absent ID is a silent no-op, not an error.
	for i := range s.students {
		if s.students[i].ID == student.ID {
			s.students[i] = student
			break
		}
	}
	s.loading = false
	s.mu.Unlock()

	return student, nil
}

func (s *StudentStore) Delete(ctx context.Context, studentID string) (string, error) {
	s.begin()

	message, err := s.gw.DeleteStudent(ctx, s.session.Token(), studentID)
	if err != nil {
		s.fail(err)
		return "", fmt.Errorf("delete student: %w", err)
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
	s.mu.Unlock()

	return message, nil
}

func (s *StudentStore) Students() []entity.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Student, len(s.students))
	copy(out, s.students)

	return out
}

func (s *StudentStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

func (s *StudentStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *StudentStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = nil
}

func (s *StudentStore) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.err = nil
}

func (s *StudentStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.err = err
}
