package classdesk

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the classdesk library
type Service interface {
	// Account operations
	RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*Student, error)
	RegisterTeacher(ctx context.Context, req RegisterTeacherRequest) (*Teacher, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	GetTeacherByEmail(ctx context.Context, email string) (*Teacher, error)
	ListStudents(ctx context.Context) ([]*Student, error)
	ListTeachers(ctx context.Context) ([]*Teacher, error)

	// Module and membership operations
	CreateModule(ctx context.Context, req CreateModuleRequest) (*Module, error)
	GetModule(ctx context.Context, id uuid.UUID) (*Module, error)
	ListModules(ctx context.Context) ([]*Module, error)
	AddMember(ctx context.Context, moduleID, studentID uuid.UUID) error
	RemoveMember(ctx context.Context, moduleID, studentID uuid.UUID) error
	ListMembers(ctx context.Context, moduleID uuid.UUID) ([]StudentSummary, error)

	// File resource operations
	UploadResource(ctx context.Context, req UploadResourceRequest) (*FileResource, error)
	ReplaceResource(ctx context.Context, req ReplaceResourceRequest) (*FileResource, error)
	DeleteResource(ctx context.Context, kind Kind, id uuid.UUID) error
	DownloadResource(ctx context.Context, kind Kind, moduleID, id uuid.UUID) (*ResourceDownload, error)
	ListResourcesByModule(ctx context.Context, kind Kind, moduleID uuid.UUID) ([]*FileResource, error)
	ListResourcesGroupedByModule(ctx context.Context, kind Kind) ([]ModuleResources, error)
}
