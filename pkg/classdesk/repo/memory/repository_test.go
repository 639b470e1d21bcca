package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

func newStudent(name, email string) *classdesk.Student {
	return &classdesk.Student{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}

func TestStudentDirectory(t *testing.T) {
	repo := New()
	ctx := context.Background()

	student := newStudent("Ada", "ada@example.com")
	require.NoError(t, repo.CreateStudent(ctx, student))

	got, err := repo.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.Email, got.Email)

	byEmail, err := repo.GetStudentByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, student.ID, byEmail.ID)

	_, err = repo.GetStudent(ctx, uuid.New())
	assert.ErrorIs(t, err, classdesk.ErrStudentNotFound)

	// Email collision is rejected regardless of ID
	dup := newStudent("Other Ada", "ada@example.com")
	assert.ErrorIs(t, repo.CreateStudent(ctx, dup), classdesk.ErrEmailTaken)

	students, err := repo.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestTeacherDirectory(t *testing.T) {
	repo := New()
	ctx := context.Background()

	teacher := &classdesk.Teacher{
		ID:        uuid.New(),
		Name:      "Grace",
		Email:     "grace@example.com",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateTeacher(ctx, teacher))

	got, err := repo.GetTeacherByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, got.ID)

	_, err = repo.GetTeacherByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, classdesk.ErrTeacherNotFound)

	dup := &classdesk.Teacher{ID: uuid.New(), Name: "G", Email: "grace@example.com"}
	assert.ErrorIs(t, repo.CreateTeacher(ctx, dup), classdesk.ErrEmailTaken)
}

func TestModuleMembers(t *testing.T) {
	repo := New()
	ctx := context.Background()

	module := &classdesk.Module{
		ID:        uuid.New(),
		Name:      "Algorithms",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateModule(ctx, module))

	a := classdesk.StudentSummary{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
	b := classdesk.StudentSummary{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}

	require.NoError(t, repo.AddModuleMember(ctx, module.ID, a))
	require.NoError(t, repo.AddModuleMember(ctx, module.ID, b))
	assert.ErrorIs(t, repo.AddModuleMember(ctx, module.ID, a), classdesk.ErrDuplicateMember)

	got, err := repo.GetModule(ctx, module.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	assert.Equal(t, a.ID, got.Members[0].ID)
	assert.Equal(t, b.ID, got.Members[1].ID)

	// The returned module is a deep copy
	got.Members[0].Name = "Mutated"
	again, err := repo.GetModule(ctx, module.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Members[0].Name)

	require.NoError(t, repo.RemoveModuleMember(ctx, module.ID, a.ID))
	assert.ErrorIs(t, repo.RemoveModuleMember(ctx, module.ID, a.ID), classdesk.ErrMemberNotFound)

	assert.ErrorIs(t, repo.AddModuleMember(ctx, uuid.New(), a), classdesk.ErrModuleNotFound)
}

func TestConcurrentAddSameMember(t *testing.T) {
	repo := New()
	ctx := context.Background()

	module := &classdesk.Module{ID: uuid.New(), Name: "Algorithms"}
	require.NoError(t, repo.CreateModule(ctx, module))

	member := classdesk.StudentSummary{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.AddModuleMember(ctx, module.ID, member); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one concurrent add may win")

	got, err := repo.GetModule(ctx, module.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)
}

func TestResourceLifecycle(t *testing.T) {
	repo := New()
	ctx := context.Background()

	moduleID := uuid.New()
	resource := &classdesk.FileResource{
		ID:         uuid.New(),
		Kind:       classdesk.KindExercise,
		ModuleID:   moduleID,
		Topic:      "Sorting",
		BlobID:     uuid.New().String(),
		FileName:   "sheet1.pdf",
		UploadDate: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateResource(ctx, resource))

	got, err := repo.GetResource(ctx, classdesk.KindExercise, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, resource.BlobID, got.BlobID)

	// Kinds are separate namespaces
	_, err = repo.GetResource(ctx, classdesk.KindStudyMaterial, resource.ID)
	assert.ErrorIs(t, err, classdesk.ErrResourceNotFound)

	got.Topic = "Sorting II"
	require.NoError(t, repo.UpdateResource(ctx, got))
	updated, err := repo.GetResource(ctx, classdesk.KindExercise, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sorting II", updated.Topic)

	missing := &classdesk.FileResource{ID: uuid.New(), Kind: classdesk.KindExercise}
	assert.ErrorIs(t, repo.UpdateResource(ctx, missing), classdesk.ErrResourceNotFound)

	require.NoError(t, repo.DeleteResource(ctx, classdesk.KindExercise, resource.ID))
	assert.ErrorIs(t, repo.DeleteResource(ctx, classdesk.KindExercise, resource.ID), classdesk.ErrResourceNotFound)
}

func TestListResourcesOrdering(t *testing.T) {
	repo := New()
	ctx := context.Background()

	moduleID := uuid.New()
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateResource(ctx, &classdesk.FileResource{
			ID:         uuid.New(),
			Kind:       classdesk.KindStudyMaterial,
			ModuleID:   moduleID,
			Topic:      "Slides",
			BlobID:     uuid.New().String(),
			FileName:   "s.pdf",
			UploadDate: base.Add(time.Duration(2-i) * time.Minute),
		}))
	}

	listed, err := repo.ListResourcesByModule(ctx, classdesk.KindStudyMaterial, moduleID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i].UploadDate.Before(listed[i-1].UploadDate))
	}

	all, err := repo.ListResources(ctx, classdesk.KindStudyMaterial)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	other, err := repo.ListResourcesByModule(ctx, classdesk.KindStudyMaterial, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
