package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/stemsi/unirecords-backend/internal/model"
)

var ErrDuplicateStudent = errors.New("student with this code or email already exists")

// StudentRepository handles student data access.
type StudentRepository interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByCode(ctx context.Context, code string) (*model.Student, error)
	List(ctx context.Context, q string, limit, offset int) ([]model.Student, int, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int) error
}

type studentRepository struct {
	db DBTX
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db DBTX) StudentRepository {
	return &studentRepository{db: db}
}

const studentColumns = `id, code, full_name, email, class_name, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }, s *model.Student) error {
	return row.Scan(&s.ID, &s.Code, &s.FullName, &s.Email, &s.ClassName, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a student by ID.
func (r *studentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id), s)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return s, nil
}

// GetByCode retrieves a student by their unique student number.
func (r *studentRepository) GetByCode(ctx context.Context, code string) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE code = $1`, code), s)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return s, nil
}

// List retrieves students ordered by code, optionally filtered by a search
// term matched against name, code and email.
func (r *studentRepository) List(ctx context.Context, q string, limit, offset int) ([]model.Student, int, error) {
	where := ``
	var args []any
	if q = strings.TrimSpace(q); q != "" {
		where = ` WHERE full_name ILIKE $1 OR code ILIKE $1 OR email ILIKE $1`
		args = append(args, likePattern(q))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY code LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student.
func (r *studentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO students (code, full_name, email, class_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Code, s.FullName, s.Email, s.ClassName,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapError(err, ErrDuplicateStudent)
}

// Update modifies a student's details.
func (r *studentRepository) Update(ctx context.Context, s *model.Student) error {
	err := r.db.QueryRow(ctx,
		`UPDATE students SET code = $1, full_name = $2, email = $3, class_name = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		s.Code, s.FullName, s.Email, s.ClassName, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapError(err, ErrDuplicateStudent)
}

// Delete removes a student; their enrollments cascade.
func (r *studentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return expectOne(tag, err, nil)
}
