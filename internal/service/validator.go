package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/entity"
)

const (
	EmailMaxLen   = 255
	PhoneDigits   = 10
	StudentMinAge = 1
	StudentMaxAge = 100
)

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegexp = regexp.MustCompile(`^\d{10}$`)
)

// Validation happens before any network call; a failing field blocks the
// submission entirely.

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", entity.ErrMissingRequiredField)
	}

	if len(email) > EmailMaxLen {
		return fmt.Errorf("%w: email exceeds %d characters", entity.ErrInvalidEmail, EmailMaxLen)
	}

	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: malformed email", entity.ErrInvalidEmail)
	}

	return nil
}

func ValidatePhone(phone, fieldName string) error {
	if phone == "" {
		return fmt.Errorf("%w: %s is required", entity.ErrMissingRequiredField, fieldName)
	}

	if !phoneRegexp.MatchString(phone) {
		return fmt.Errorf("%w: %s must be exactly %d digits", entity.ErrInvalidPhone, fieldName, PhoneDigits)
	}

	return nil
}

func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", entity.ErrMissingRequiredField, fieldName)
	}

	return nil
}

// ValidateStaff checks a staff create/update payload. The password is
// required on create only; an empty password on update means "unchanged".
func ValidateStaff(req school.StaffRequest, requirePassword bool) error {
	if err := ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}

	if err := ValidateEmail(req.Email); err != nil {
		return err
	}

	if err := ValidatePhone(req.PhoneNumber, "phone number"); err != nil {
		return err
	}

	if requirePassword && req.Password == "" {
		return fmt.Errorf("%w: password is required", entity.ErrMissingRequiredField)
	}

	return nil
}

func ValidateStudent(req school.StudentRequest) error {
	if err := ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}

	if req.Age < StudentMinAge || req.Age > StudentMaxAge {
		return fmt.Errorf("%w: age must be between %d and %d", entity.ErrInvalidAge, StudentMinAge, StudentMaxAge)
	}

	if err := ValidateRequiredString(req.Grade, "grade"); err != nil {
		return err
	}

	return ValidatePhone(req.ContactNumber, "contact number")
}
