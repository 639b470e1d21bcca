package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements classdesk.Repository using PostgreSQL. Member
// snapshots are stored embedded in the module row as jsonb, mirroring the
// single-document read the data model calls for.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) classdesk.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) classdesk.Repository {
	return &Repository{db: pool}
}

func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return classdesk.ErrEmailTaken
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Student directory

func (r *Repository) CreateStudent(ctx context.Context, student *classdesk.Student) error {
	query := `
		INSERT INTO student (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		student.ID, student.Name, student.Email, student.PasswordHash, student.CreatedAt)
	if err != nil {
		return handlePostgresError("create student", err)
	}

	return nil
}

func (r *Repository) GetStudent(ctx context.Context, id uuid.UUID) (*classdesk.Student, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM student WHERE id = $1`

	var student classdesk.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID, &student.Name, &student.Email, &student.PasswordHash, &student.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, classdesk.ErrStudentNotFound
		}
		return nil, err
	}

	return &student, nil
}

func (r *Repository) GetStudentByEmail(ctx context.Context, email string) (*classdesk.Student, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM student WHERE email = $1`

	var student classdesk.Student
	err := r.db.QueryRow(ctx, query, email).Scan(
		&student.ID, &student.Name, &student.Email, &student.PasswordHash, &student.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, classdesk.ErrStudentNotFound
		}
		return nil, err
	}

	return &student, nil
}

func (r *Repository) ListStudents(ctx context.Context) ([]*classdesk.Student, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM student ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list students", err)
	}
	defer rows.Close()

	var result []*classdesk.Student
	for rows.Next() {
		var student classdesk.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Email, &student.PasswordHash, &student.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &student)
	}

	return result, rows.Err()
}

// Teacher directory

func (r *Repository) CreateTeacher(ctx context.Context, teacher *classdesk.Teacher) error {
	query := `
		INSERT INTO teacher (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		teacher.ID, teacher.Name, teacher.Email, teacher.PasswordHash, teacher.CreatedAt)
	if err != nil {
		return handlePostgresError("create teacher", err)
	}

	return nil
}

func (r *Repository) GetTeacherByEmail(ctx context.Context, email string) (*classdesk.Teacher, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM teacher WHERE email = $1`

	var teacher classdesk.Teacher
	err := r.db.QueryRow(ctx, query, email).Scan(
		&teacher.ID, &teacher.Name, &teacher.Email, &teacher.PasswordHash, &teacher.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, classdesk.ErrTeacherNotFound
		}
		return nil, err
	}

	return &teacher, nil
}

func (r *Repository) ListTeachers(ctx context.Context) ([]*classdesk.Teacher, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM teacher ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list teachers", err)
	}
	defer rows.Close()

	var result []*classdesk.Teacher
	for rows.Next() {
		var teacher classdesk.Teacher
		if err := rows.Scan(&teacher.ID, &teacher.Name, &teacher.Email, &teacher.PasswordHash, &teacher.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &teacher)
	}

	return result, rows.Err()
}

// Module operations

func (r *Repository) CreateModule(ctx context.Context, module *classdesk.Module) error {
	members, err := json.Marshal(module.Members)
	if err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}

	query := `
		INSERT INTO module (id, name, members, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, module.ID, module.Name, members, module.CreatedAt); err != nil {
		return handlePostgresError("create module", err)
	}

	return nil
}

func (r *Repository) GetModule(ctx context.Context, id uuid.UUID) (*classdesk.Module, error) {
	query := `
		SELECT id, name, members, created_at
		FROM module WHERE id = $1`

	var module classdesk.Module
	var members []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&module.ID, &module.Name, &members, &module.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, classdesk.ErrModuleNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(members, &module.Members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal members: %w", err)
	}

	return &module, nil
}

func (r *Repository) ListModules(ctx context.Context) ([]*classdesk.Module, error) {
	query := `
		SELECT id, name, members, created_at
		FROM module ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list modules", err)
	}
	defer rows.Close()

	var result []*classdesk.Module
	for rows.Next() {
		var module classdesk.Module
		var members []byte
		if err := rows.Scan(&module.ID, &module.Name, &members, &module.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(members, &module.Members); err != nil {
			return nil, fmt.Errorf("failed to unmarshal members: %w", err)
		}
		result = append(result, &module)
	}

	return result, rows.Err()
}

// AddModuleMember appends the snapshot in a single conditional update, so
// the duplicate check and the append cannot interleave with a concurrent
// enrollment.
func (r *Repository) AddModuleMember(ctx context.Context, moduleID uuid.UUID, member classdesk.StudentSummary) error {
	snapshot, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}

	query := `
		UPDATE module
		SET members = members || $2::jsonb
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM jsonb_array_elements(members) m
			WHERE m->>'id' = $3
		  )`

	tag, err := r.db.Exec(ctx, query, moduleID, snapshot, member.ID.String())
	if err != nil {
		return handlePostgresError("add module member", err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetModule(ctx, moduleID); err != nil {
			return err
		}
		return classdesk.ErrDuplicateMember
	}

	return nil
}

func (r *Repository) RemoveModuleMember(ctx context.Context, moduleID, studentID uuid.UUID) error {
	query := `
		UPDATE module
		SET members = (
			SELECT COALESCE(jsonb_agg(m), '[]'::jsonb)
			FROM jsonb_array_elements(members) m
			WHERE m->>'id' <> $2
		)
		WHERE id = $1
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(members) m
			WHERE m->>'id' = $2
		  )`

	tag, err := r.db.Exec(ctx, query, moduleID, studentID.String())
	if err != nil {
		return handlePostgresError("remove module member", err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetModule(ctx, moduleID); err != nil {
			return err
		}
		return classdesk.ErrMemberNotFound
	}

	return nil
}

// File resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *classdesk.FileResource) error {
	query := `
		INSERT INTO resource (id, kind, module_id, topic, blob_id, file_name, upload_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		resource.ID, string(resource.Kind), resource.ModuleID, resource.Topic,
		resource.BlobID, resource.FileName, resource.UploadDate, resource.DueDate)
	if err != nil {
		return handlePostgresError("create resource", err)
	}

	return nil
}

func (r *Repository) GetResource(ctx context.Context, kind classdesk.Kind, id uuid.UUID) (*classdesk.FileResource, error) {
	query := `
		SELECT id, kind, module_id, topic, blob_id, file_name, upload_date, due_date
		FROM resource WHERE id = $1 AND kind = $2`

	resource, err := scanResource(r.db.QueryRow(ctx, query, id, string(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, classdesk.ErrResourceNotFound
		}
		return nil, err
	}

	return resource, nil
}

func (r *Repository) ListResourcesByModule(ctx context.Context, kind classdesk.Kind, moduleID uuid.UUID) ([]*classdesk.FileResource, error) {
	query := `
		SELECT id, kind, module_id, topic, blob_id, file_name, upload_date, due_date
		FROM resource WHERE kind = $1 AND module_id = $2
		ORDER BY upload_date, id`

	rows, err := r.db.Query(ctx, query, string(kind), moduleID)
	if err != nil {
		return nil, handlePostgresError("list resources by module", err)
	}
	defer rows.Close()

	return collectResources(rows)
}

func (r *Repository) ListResources(ctx context.Context, kind classdesk.Kind) ([]*classdesk.FileResource, error) {
	query := `
		SELECT id, kind, module_id, topic, blob_id, file_name, upload_date, due_date
		FROM resource WHERE kind = $1
		ORDER BY upload_date, id`

	rows, err := r.db.Query(ctx, query, string(kind))
	if err != nil {
		return nil, handlePostgresError("list resources", err)
	}
	defer rows.Close()

	return collectResources(rows)
}

func (r *Repository) UpdateResource(ctx context.Context, resource *classdesk.FileResource) error {
	query := `
		UPDATE resource
		SET topic = $3, blob_id = $4, file_name = $5, due_date = $6
		WHERE id = $1 AND kind = $2`

	tag, err := r.db.Exec(ctx, query,
		resource.ID, string(resource.Kind), resource.Topic,
		resource.BlobID, resource.FileName, resource.DueDate)
	if err != nil {
		return handlePostgresError("update resource", err)
	}

	if tag.RowsAffected() == 0 {
		return classdesk.ErrResourceNotFound
	}

	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, kind classdesk.Kind, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resource WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return handlePostgresError("delete resource", err)
	}

	if tag.RowsAffected() == 0 {
		return classdesk.ErrResourceNotFound
	}

	return nil
}

func scanResource(row pgx.Row) (*classdesk.FileResource, error) {
	var resource classdesk.FileResource
	var kind string
	err := row.Scan(&resource.ID, &kind, &resource.ModuleID, &resource.Topic,
		&resource.BlobID, &resource.FileName, &resource.UploadDate, &resource.DueDate)
	if err != nil {
		return nil, err
	}
	resource.Kind = classdesk.Kind(kind)
	return &resource, nil
}

func collectResources(rows pgx.Rows) ([]*classdesk.FileResource, error) {
	var result []*classdesk.FileResource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, resource)
	}
	return result, rows.Err()
}
