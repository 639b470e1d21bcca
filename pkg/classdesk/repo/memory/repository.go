package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

// Repository implements classdesk.Repository using in-memory storage
type Repository struct {
	mu        sync.RWMutex
	students  map[uuid.UUID]*classdesk.Student
	teachers  map[uuid.UUID]*classdesk.Teacher
	modules   map[uuid.UUID]*classdesk.Module
	resources map[classdesk.Kind]map[uuid.UUID]*classdesk.FileResource
}

// New creates a new in-memory repository
func New() classdesk.Repository {
	return &Repository{
		students: make(map[uuid.UUID]*classdesk.Student),
		teachers: make(map[uuid.UUID]*classdesk.Teacher),
		modules:  make(map[uuid.UUID]*classdesk.Module),
		resources: map[classdesk.Kind]map[uuid.UUID]*classdesk.FileResource{
			classdesk.KindExercise:      make(map[uuid.UUID]*classdesk.FileResource),
			classdesk.KindStudyMaterial: make(map[uuid.UUID]*classdesk.FileResource),
		},
	}
}

// Student directory

func (r *Repository) CreateStudent(ctx context.Context, student *classdesk.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.students {
		if existing.Email == student.Email {
			return classdesk.ErrEmailTaken
		}
	}

	studentCopy := *student
	r.students[student.ID] = &studentCopy

	return nil
}

func (r *Repository) GetStudent(ctx context.Context, id uuid.UUID) (*classdesk.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	student, exists := r.students[id]
	if !exists {
		return nil, classdesk.ErrStudentNotFound
	}

	studentCopy := *student
	return &studentCopy, nil
}

func (r *Repository) GetStudentByEmail(ctx context.Context, email string) (*classdesk.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, student := range r.students {
		if student.Email == email {
			studentCopy := *student
			return &studentCopy, nil
		}
	}

	return nil, classdesk.ErrStudentNotFound
}

func (r *Repository) ListStudents(ctx context.Context) ([]*classdesk.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*classdesk.Student, 0, len(r.students))
	for _, student := range r.students {
		studentCopy := *student
		result = append(result, &studentCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// Teacher directory

func (r *Repository) CreateTeacher(ctx context.Context, teacher *classdesk.Teacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.teachers {
		if existing.Email == teacher.Email {
			return classdesk.ErrEmailTaken
		}
	}

	teacherCopy := *teacher
	r.teachers[teacher.ID] = &teacherCopy

	return nil
}

func (r *Repository) GetTeacherByEmail(ctx context.Context, email string) (*classdesk.Teacher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, teacher := range r.teachers {
		if teacher.Email == email {
			teacherCopy := *teacher
			return &teacherCopy, nil
		}
	}

	return nil, classdesk.ErrTeacherNotFound
}

func (r *Repository) ListTeachers(ctx context.Context) ([]*classdesk.Teacher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*classdesk.Teacher, 0, len(r.teachers))
	for _, teacher := range r.teachers {
		teacherCopy := *teacher
		result = append(result, &teacherCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// Module operations

func (r *Repository) CreateModule(ctx context.Context, module *classdesk.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.modules[module.ID] = copyModule(module)

	return nil
}

func (r *Repository) GetModule(ctx context.Context, id uuid.UUID) (*classdesk.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	module, exists := r.modules[id]
	if !exists {
		return nil, classdesk.ErrModuleNotFound
	}

	return copyModule(module), nil
}

func (r *Repository) ListModules(ctx context.Context) ([]*classdesk.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*classdesk.Module, 0, len(r.modules))
	for _, module := range r.modules {
		result = append(result, copyModule(module))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// AddModuleMember appends the member snapshot unless the student ID is
// already present. Check and append happen under one lock, so concurrent
// enrollments of the same student cannot both succeed.
func (r *Repository) AddModuleMember(ctx context.Context, moduleID uuid.UUID, member classdesk.StudentSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, exists := r.modules[moduleID]
	if !exists {
		return classdesk.ErrModuleNotFound
	}

	for _, existing := range module.Members {
		if existing.ID == member.ID {
			return classdesk.ErrDuplicateMember
		}
	}

	module.Members = append(module.Members, member)
	return nil
}

func (r *Repository) RemoveModuleMember(ctx context.Context, moduleID, studentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, exists := r.modules[moduleID]
	if !exists {
		return classdesk.ErrModuleNotFound
	}

	for i, member := range module.Members {
		if member.ID == studentID {
			module.Members = append(module.Members[:i], module.Members[i+1:]...)
			return nil
		}
	}

	return classdesk.ErrMemberNotFound
}

// File resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *classdesk.FileResource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	resourceCopy := *resource
	r.resources[resource.Kind][resource.ID] = &resourceCopy

	return nil
}

func (r *Repository) GetResource(ctx context.Context, kind classdesk.Kind, id uuid.UUID) (*classdesk.FileResource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, exists := r.resources[kind][id]
	if !exists {
		return nil, classdesk.ErrResourceNotFound
	}

	resourceCopy := *resource
	return &resourceCopy, nil
}

func (r *Repository) ListResourcesByModule(ctx context.Context, kind classdesk.Kind, moduleID uuid.UUID) ([]*classdesk.FileResource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*classdesk.FileResource
	for _, resource := range r.resources[kind] {
		if resource.ModuleID == moduleID {
			resourceCopy := *resource
			result = append(result, &resourceCopy)
		}
	}

	sortResources(result)

	return result, nil
}

func (r *Repository) ListResources(ctx context.Context, kind classdesk.Kind) ([]*classdesk.FileResource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*classdesk.FileResource, 0, len(r.resources[kind]))
	for _, resource := range r.resources[kind] {
		resourceCopy := *resource
		result = append(result, &resourceCopy)
	}

	sortResources(result)

	return result, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *classdesk.FileResource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[resource.Kind][resource.ID]; !exists {
		return classdesk.ErrResourceNotFound
	}

	resourceCopy := *resource
	r.resources[resource.Kind][resource.ID] = &resourceCopy

	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, kind classdesk.Kind, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[kind][id]; !exists {
		return classdesk.ErrResourceNotFound
	}

	delete(r.resources[kind], id)
	return nil
}

// copyModule returns a deep copy so callers cannot mutate the stored member
// slice through the returned pointer.
func copyModule(module *classdesk.Module) *classdesk.Module {
	moduleCopy := *module
	moduleCopy.Members = make([]classdesk.StudentSummary, len(module.Members))
	copy(moduleCopy.Members, module.Members)
	return &moduleCopy
}

func sortResources(resources []*classdesk.FileResource) {
	sort.Slice(resources, func(i, j int) bool {
		if resources[i].UploadDate.Equal(resources[j].UploadDate) {
			return resources[i].ID.String() < resources[j].ID.String()
		}
		return resources[i].UploadDate.Before(resources[j].UploadDate)
	})
}
