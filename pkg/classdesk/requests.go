package classdesk

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// RegisterStudentRequest contains parameters for creating a student account.
// PasswordHash is the already-hashed credential; hashing happens at the
// transport boundary (see the auth package).
type RegisterStudentRequest struct {
	Name         string
	Email        string
	PasswordHash string
}

// RegisterTeacherRequest contains parameters for creating a teacher account
type RegisterTeacherRequest struct {
	Name         string
	Email        string
	PasswordHash string
}

// CreateModuleRequest contains parameters for creating a module with its
// initial member list. Every listed student must exist.
type CreateModuleRequest struct {
	Name       string
	StudentIDs []uuid.UUID
}

// UploadResourceRequest contains parameters for uploading a new file resource
type UploadResourceRequest struct {
	Kind     Kind
	ModuleID uuid.UUID
	Topic    string
	DueDate  *time.Time
	FileName string
	Reader   io.Reader
}

// ReplaceResourceRequest contains parameters for editing a file resource.
// When Reader is nil only the topic and due date change; otherwise the blob
// is swapped for the new file.
type ReplaceResourceRequest struct {
	Kind     Kind
	ID       uuid.UUID
	Topic    string
	DueDate  *time.Time
	FileName string
	Reader   io.Reader
}
