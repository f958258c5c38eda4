package service

import (
	"context"

	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/entity"
)

// Gateway is the slice of the school backend client the stores depend on.
type Gateway interface {
	Login(ctx context.Context, email, password string) (school.LoginResponse, error)

	CreateStaff(ctx context.Context, token string, req school.StaffRequest) (entity.Staff, error)
	Staffs(ctx context.Context, token string) ([]entity.Staff, error)
	UpdateStaff(ctx context.Context, token, staffID string, req school.StaffRequest) (entity.Staff, error)
	DeleteStaff(ctx context.Context, token, staffID string) (string, error)

	Permissions(ctx context.Context, token, staffID string) (entity.PermissionSet, error)
	UpdatePermissions(ctx context.Context, token, staffID string, set entity.PermissionSet) (entity.PermissionSet, error)

	CreateStudent(ctx context.Context, token string, req school.StudentRequest) (entity.Student, error)
	Students(ctx context.Context, token string) ([]entity.Student, error)
	UpdateStudent(ctx context.Context, token, studentID string, req school.StudentRequest) (entity.Student, error)
	DeleteStudent(ctx context.Context, token, studentID string) (string, error)

	CreateStudentByStaff(ctx context.Context, token string, req school.StudentRequest) (entity.Student, string, error)
	StudentsByStaff(ctx context.Context, token string) ([]entity.Student, error)
	UpdateStudentByStaff(ctx context.Context, token, studentID string, req school.StudentRequest) (entity.Student, string, error)
	DeleteStudentByStaff(ctx context.Context, token, studentID string) (string, error)

	Profile(ctx context.Context, token string) (entity.Profile, error)
	Counts(ctx context.Context, token string) (entity.Counts, error)
}
