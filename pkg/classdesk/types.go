package classdesk

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the two file-backed resource families. Exercises carry
// a due date; study materials do not.
type Kind string

const (
	KindExercise      Kind = "exercise"
	KindStudyMaterial Kind = "studymaterial"
)

// Valid reports whether k is one of the known resource kinds.
func (k Kind) Valid() bool {
	return k == KindExercise || k == KindStudyMaterial
}

// HasDueDate reports whether resources of this kind carry a due date.
func (k Kind) HasDueDate() bool {
	return k == KindExercise
}

// Student is an account record in the student directory.
type Student struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Teacher is an account record in the teacher directory.
type Teacher struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentSummary is the denormalized member snapshot embedded in a module.
// It is copied from the student record at add time and does not follow
// later changes to the source record.
type StudentSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Summary returns the membership snapshot for a student.
func (s *Student) Summary() StudentSummary {
	return StudentSummary{ID: s.ID, Name: s.Name, Email: s.Email}
}

// Module is a class grouping students and file resources. Members keep
// insertion order and never contain two entries with the same student ID.
type Module struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Members   []StudentSummary `json:"members"`
	CreatedAt time.Time        `json:"created_at"`
}

// FileResource is the metadata half of a file-backed resource. Exactly one
// live blob, addressed by BlobID, belongs to it at any time. UploadDate is
// set at creation and never changes.
type FileResource struct {
	ID         uuid.UUID  `json:"id"`
	Kind       Kind       `json:"kind"`
	ModuleID   uuid.UUID  `json:"module_id"`
	Topic      string     `json:"topic"`
	BlobID     string     `json:"blob_id"`
	FileName   string     `json:"file_name"`
	UploadDate time.Time  `json:"upload_date"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// ModuleResources groups the resources of one kind under their owning module.
type ModuleResources struct {
	ModuleID  uuid.UUID       `json:"module_id"`
	Resources []*FileResource `json:"resources"`
}

// BlobMeta describes a stored blob.
type BlobMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// ResourceDownload is the payload returned for a download: the raw bytes,
// the content type inferred from the file name, and the original file name
// for a content-disposition response.
type ResourceDownload struct {
	Body        io.ReadCloser
	ContentType string
	FileName    string
	Size        int64
}
