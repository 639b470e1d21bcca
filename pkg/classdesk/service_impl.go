package classdesk

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

// Account operations

func (s *service) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*Student, error) {
	if _, err := s.repository.GetStudentByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	student := &Student{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repository.CreateStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return student, nil
}

func (s *service) RegisterTeacher(ctx context.Context, req RegisterTeacherRequest) (*Teacher, error) {
	if _, err := s.repository.GetTeacherByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	teacher := &Teacher{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repository.CreateTeacher(ctx, teacher); err != nil {
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}

	return teacher, nil
}

func (s *service) GetStudent(ctx context.Context, id uuid.UUID) (*Student, error) {
	return s.repository.GetStudent(ctx, id)
}

func (s *service) GetTeacherByEmail(ctx context.Context, email string) (*Teacher, error) {
	return s.repository.GetTeacherByEmail(ctx, email)
}

func (s *service) ListStudents(ctx context.Context) ([]*Student, error) {
	return s.repository.ListStudents(ctx)
}

func (s *service) ListTeachers(ctx context.Context) ([]*Teacher, error) {
	return s.repository.ListTeachers(ctx)
}

// Module and membership operations

func (s *service) CreateModule(ctx context.Context, req CreateModuleRequest) (*Module, error) {
	members := make([]StudentSummary, 0, len(req.StudentIDs))
	seen := make(map[uuid.UUID]bool)
	for _, studentID := range req.StudentIDs {
		if seen[studentID] {
			continue
		}
		student, err := s.repository.GetStudent(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("student %s: %w", studentID, err)
		}
		members = append(members, student.Summary())
		seen[studentID] = true
	}

	module := &Module{
		ID:        uuid.New(),
		Name:      req.Name,
		Members:   members,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repository.CreateModule(ctx, module); err != nil {
		return nil, fmt.Errorf("failed to create module: %w", err)
	}

	return module, nil
}

func (s *service) GetModule(ctx context.Context, id uuid.UUID) (*Module, error) {
	return s.repository.GetModule(ctx, id)
}

func (s *service) ListModules(ctx context.Context) ([]*Module, error) {
	return s.repository.ListModules(ctx)
}

func (s *service) AddMember(ctx context.Context, moduleID, studentID uuid.UUID) error {
	if _, err := s.repository.GetModule(ctx, moduleID); err != nil {
		return &MembershipError{ModuleID: moduleID, StudentID: studentID, Op: "add", Err: err}
	}

	student, err := s.repository.GetStudent(ctx, studentID)
	if err != nil {
		return &MembershipError{ModuleID: moduleID, StudentID: studentID, Op: "add", Err: err}
	}

	// The repository performs the duplicate check and the append in one
	// atomic step; a read-then-write here would leave a race window between
	// concurrent enrollments of the same student.
	if err := s.repository.AddModuleMember(ctx, moduleID, student.Summary()); err != nil {
		return &MembershipError{ModuleID: moduleID, StudentID: studentID, Op: "add", Err: err}
	}

	return nil
}

func (s *service) RemoveMember(ctx context.Context, moduleID, studentID uuid.UUID) error {
	if _, err := s.repository.GetModule(ctx, moduleID); err != nil {
		return &MembershipError{ModuleID: moduleID, StudentID: studentID, Op: "remove", Err: err}
	}

	if _, err := s.repository.GetStudent(ctx, studentID); err != nil {
		return &MembershipError{ModuleID: moduleID, StudentID: studentID, Op: "remove", Err: err}
	}

	if err := s.repository.RemoveModuleMember(ctx, moduleID, studentID); err != nil {
		return &MembershipError{ModuleID: moduleID, StudentID: studentID, Op: "remove", Err: err}
	}

	return nil
}

func (s *service) ListMembers(ctx context.Context, moduleID uuid.UUID) ([]StudentSummary, error) {
	module, err := s.repository.GetModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	return module.Members, nil
}

// File resource operations

func (s *service) UploadResource(ctx context.Context, req UploadResourceRequest) (*FileResource, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown resource kind %q", req.Kind)
	}

	if _, err := s.repository.GetModule(ctx, req.ModuleID); err != nil {
		return nil, err
	}

	blobID := uuid.New().String()
	if err := s.blobStore.Put(ctx, blobID, req.Reader); err != nil {
		return nil, &StorageError{Key: blobID, Op: "put", Err: err}
	}

	var dueDate *time.Time
	if req.Kind.HasDueDate() {
		dueDate = req.DueDate
	}

	resource := &FileResource{
		ID:         uuid.New(),
		Kind:       req.Kind,
		ModuleID:   req.ModuleID,
		Topic:      req.Topic,
		BlobID:     blobID,
		FileName:   req.FileName,
		UploadDate: time.Now().UTC(),
		DueDate:    dueDate,
	}

	if err := s.repository.CreateResource(ctx, resource); err != nil {
		// Best-effort cleanup of the blob that would otherwise be orphaned.
		_ = s.blobStore.Delete(ctx, blobID)
		return nil, &ResourceError{ResourceID: resource.ID, Kind: req.Kind, Op: "upload", Err: err}
	}

	return resource, nil
}

func (s *service) ReplaceResource(ctx context.Context, req ReplaceResourceRequest) (*FileResource, error) {
	resource, err := s.repository.GetResource(ctx, req.Kind, req.ID)
	if err != nil {
		return nil, &ResourceError{ResourceID: req.ID, Kind: req.Kind, Op: "replace", Err: err}
	}

	resource.Topic = req.Topic
	if req.Kind.HasDueDate() && req.DueDate != nil {
		resource.DueDate = req.DueDate
	}

	if req.Reader == nil {
		if err := s.repository.UpdateResource(ctx, resource); err != nil {
			return nil, &ResourceError{ResourceID: req.ID, Kind: req.Kind, Op: "replace", Err: err}
		}
		return resource, nil
	}

	// Store the new blob before touching the old one, so the metadata record
	// never points at a deleted blob. The old blob is removed only after the
	// metadata update commits.
	oldBlobID := resource.BlobID
	newBlobID := uuid.New().String()
	if err := s.blobStore.Put(ctx, newBlobID, req.Reader); err != nil {
		return nil, &StorageError{Key: newBlobID, Op: "put", Err: err}
	}

	resource.BlobID = newBlobID
	resource.FileName = req.FileName
	if err := s.repository.UpdateResource(ctx, resource); err != nil {
		_ = s.blobStore.Delete(ctx, newBlobID)
		return nil, &ResourceError{ResourceID: req.ID, Kind: req.Kind, Op: "replace", Err: err}
	}

	if err := s.blobStore.Delete(ctx, oldBlobID); err != nil {
		// The replace itself has committed; the stale blob needs manual
		// reconciliation.
		return nil, &StorageError{Key: oldBlobID, Op: "delete", Err: err}
	}

	return resource, nil
}

func (s *service) DeleteResource(ctx context.Context, kind Kind, id uuid.UUID) error {
	resource, err := s.repository.GetResource(ctx, kind, id)
	if err != nil {
		return &ResourceError{ResourceID: id, Kind: kind, Op: "delete", Err: err}
	}

	if err := s.blobStore.Delete(ctx, resource.BlobID); err != nil {
		return &StorageError{Key: resource.BlobID, Op: "delete", Err: err}
	}

	if err := s.repository.DeleteResource(ctx, kind, id); err != nil {
		return &ResourceError{ResourceID: id, Kind: kind, Op: "delete", Err: err}
	}

	return nil
}

func (s *service) DownloadResource(ctx context.Context, kind Kind, moduleID, id uuid.UUID) (*ResourceDownload, error) {
	resource, err := s.repository.GetResource(ctx, kind, id)
	if err != nil {
		return nil, &ResourceError{ResourceID: id, Kind: kind, Op: "download", Err: err}
	}

	// A resource is only reachable through its owning module.
	if resource.ModuleID != moduleID {
		return nil, &ResourceError{ResourceID: id, Kind: kind, Op: "download", Err: ErrResourceNotFound}
	}

	body, err := s.blobStore.Get(ctx, resource.BlobID)
	if err != nil {
		return nil, &ResourceError{ResourceID: id, Kind: kind, Op: "download", Err: err}
	}

	var size int64
	if meta, err := s.blobStore.Meta(ctx, resource.BlobID); err == nil {
		size = meta.Size
	}

	return &ResourceDownload{
		Body:        body,
		ContentType: contentTypeForFile(resource.FileName),
		FileName:    resource.FileName,
		Size:        size,
	}, nil
}

func (s *service) ListResourcesByModule(ctx context.Context, kind Kind, moduleID uuid.UUID) ([]*FileResource, error) {
	if _, err := s.repository.GetModule(ctx, moduleID); err != nil {
		return nil, err
	}
	return s.repository.ListResourcesByModule(ctx, kind, moduleID)
}

func (s *service) ListResourcesGroupedByModule(ctx context.Context, kind Kind) ([]ModuleResources, error) {
	resources, err := s.repository.ListResources(ctx, kind)
	if err != nil {
		return nil, err
	}

	byModule := make(map[uuid.UUID][]*FileResource)
	var order []uuid.UUID
	for _, resource := range resources {
		if _, seen := byModule[resource.ModuleID]; !seen {
			order = append(order, resource.ModuleID)
		}
		byModule[resource.ModuleID] = append(byModule[resource.ModuleID], resource)
	}

	groups := make([]ModuleResources, 0, len(order))
	for _, moduleID := range order {
		groups = append(groups, ModuleResources{ModuleID: moduleID, Resources: byModule[moduleID]})
	}

	return groups, nil
}

// contentTypeForFile infers a content type from the file name extension,
// falling back to a generic binary type.
func contentTypeForFile(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
