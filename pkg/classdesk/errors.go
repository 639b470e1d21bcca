package classdesk

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrModuleNotFound indicates a module was not found
	ErrModuleNotFound = errors.New("module not found")

	// ErrStudentNotFound indicates a student was not found
	ErrStudentNotFound = errors.New("student not found")

	// ErrTeacherNotFound indicates a teacher was not found
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrResourceNotFound indicates a file resource was not found
	ErrResourceNotFound = errors.New("resource not found")

	// ErrBlobNotFound indicates a blob was not found in the blob store
	ErrBlobNotFound = errors.New("blob not found")

	// ErrDuplicateMember indicates the student is already enrolled in the module
	ErrDuplicateMember = errors.New("student already enrolled in module")

	// ErrMemberNotFound indicates the student is not enrolled in the module
	ErrMemberNotFound = errors.New("student not enrolled in module")

	// ErrEmailTaken indicates an account with the email already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login attempt
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MembershipError represents an error related to module membership operations
type MembershipError struct {
	ModuleID  uuid.UUID
	StudentID uuid.UUID
	Op        string
	Err       error
}

func (e *MembershipError) Error() string {
	return fmt.Sprintf("membership operation %s failed for module %s student %s: %v", e.Op, e.ModuleID, e.StudentID, e.Err)
}

func (e *MembershipError) Unwrap() error {
	return e.Err
}

// ResourceError represents an error related to file resource operations
type ResourceError struct {
	ResourceID uuid.UUID
	Kind       Kind
	Op         string
	Err        error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s operation %s failed for resource %s: %v", e.Kind, e.Op, e.ResourceID, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob store operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for blob %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
