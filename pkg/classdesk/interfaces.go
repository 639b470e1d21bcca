package classdesk

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for the binary storage backend. Keys are
// opaque identifiers generated by the service; a key addresses at most one
// blob. Delete of an unknown key fails with ErrBlobNotFound (deletion is not
// idempotent).
type BlobStore interface {
	// Put stores the blob under the given key
	Put(ctx context.Context, key string, reader io.Reader) error

	// Get returns the blob content, or ErrBlobNotFound
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob, or fails with ErrBlobNotFound
	Delete(ctx context.Context, key string) error

	// Meta retrieves storage-level metadata for a blob
	Meta(ctx context.Context, key string) (*BlobMeta, error)
}

// Repository defines the interface for metadata persistence. One collection
// per entity kind; records are keyed by uuid. Absent records map to the
// package sentinel not-found errors. The store provides no cross-entity
// transactions; callers sequence operations themselves.
type Repository interface {
	// Student directory
	CreateStudent(ctx context.Context, student *Student) error
	GetStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*Student, error)
	ListStudents(ctx context.Context) ([]*Student, error)

	// Teacher directory
	CreateTeacher(ctx context.Context, teacher *Teacher) error
	GetTeacherByEmail(ctx context.Context, email string) (*Teacher, error)
	ListTeachers(ctx context.Context) ([]*Teacher, error)

	// Modules and membership. AddModuleMember is atomic add-if-absent: it
	// fails with ErrDuplicateMember without mutating when the student ID is
	// already present among the members.
	CreateModule(ctx context.Context, module *Module) error
	GetModule(ctx context.Context, id uuid.UUID) (*Module, error)
	ListModules(ctx context.Context) ([]*Module, error)
	AddModuleMember(ctx context.Context, moduleID uuid.UUID, member StudentSummary) error
	RemoveModuleMember(ctx context.Context, moduleID, studentID uuid.UUID) error

	// File resources
	CreateResource(ctx context.Context, resource *FileResource) error
	GetResource(ctx context.Context, kind Kind, id uuid.UUID) (*FileResource, error)
	ListResourcesByModule(ctx context.Context, kind Kind, moduleID uuid.UUID) ([]*FileResource, error)
	ListResources(ctx context.Context, kind Kind) ([]*FileResource, error)
	UpdateResource(ctx context.Context, resource *FileResource) error
	DeleteResource(ctx context.Context, kind Kind, id uuid.UUID) error
}
