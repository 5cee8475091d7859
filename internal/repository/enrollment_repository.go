package repository

import (
	"context"
	"errors"

	"github.com/stemsi/unirecords-backend/internal/model"
)

// ErrDuplicateEnrollment is returned when the (student, course, semester)
// triple already exists. The unique index rejects racing inserts too.
var ErrDuplicateEnrollment = errors.New("student already enrolled in this course for the semester")

// EnrollmentRepository handles enrollment and grade data access.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetDetail(ctx context.Context, id int) (*model.EnrollmentDetail, error)
	ListByStudent(ctx context.Context, studentID int) ([]model.EnrollmentDetail, error)
	ListRecent(ctx context.Context, studentID *int, limit int) ([]model.EnrollmentDetail, error)
	ListForExport(ctx context.Context, studentID *int) ([]model.EnrollmentDetail, error)
	UpdateScore(ctx context.Context, id int, score *float64) error
	Delete(ctx context.Context, id int) error
}

type enrollmentRepository struct {
	db DBTX
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(db DBTX) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// The course side is a LEFT JOIN so an enrollment whose course row is gone
// still shows up, with a nil Course.
const enrollmentDetailSelect = `
	SELECT e.id, e.student_id, e.course_id, e.semester, e.score, e.created_at,
	       s.code, s.full_name, s.email,
	       c.id, c.code, c.name, c.credits
	FROM enrollments e
	JOIN students s ON s.id = e.student_id
	LEFT JOIN courses c ON c.id = e.course_id`

func scanEnrollmentDetail(row interface{ Scan(...any) error }) (model.EnrollmentDetail, error) {
	var d model.EnrollmentDetail
	var (
		courseID      *int
		courseCode    *string
		courseName    *string
		courseCredits *int
	)
	err := row.Scan(
		&d.ID, &d.StudentID, &d.CourseID, &d.Semester, &d.Score, &d.CreatedAt,
		&d.StudentCode, &d.StudentName, &d.StudentEmail,
		&courseID, &courseCode, &courseName, &courseCredits,
	)
	if err != nil {
		return d, err
	}
	if courseID != nil {
		d.Course = &model.CourseRef{ID: *courseID}
		if courseCode != nil {
			d.Course.Code = *courseCode
		}
		if courseName != nil {
			d.Course.Name = *courseName
		}
		if courseCredits != nil {
			d.Course.Credits = *courseCredits
		}
	}
	return d, nil
}

func (r *enrollmentRepository) queryDetails(ctx context.Context, query string, args ...any) ([]model.EnrollmentDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EnrollmentDetail
	for rows.Next() {
		d, err := scanEnrollmentDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create inserts a single enrollment as its own statement.
func (r *enrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id, semester, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.StudentID, e.CourseID, e.Semester, e.Score,
	).Scan(&e.ID, &e.CreatedAt)
	return mapError(err, ErrDuplicateEnrollment)
}

// GetDetail retrieves one enrollment with its student and course.
func (r *enrollmentRepository) GetDetail(ctx context.Context, id int) (*model.EnrollmentDetail, error) {
	d, err := scanEnrollmentDetail(r.db.QueryRow(ctx, enrollmentDetailSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return &d, nil
}

// ListByStudent retrieves every enrollment of a student ordered by course code, then semester.
func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID int) ([]model.EnrollmentDetail, error) {
	return r.queryDetails(ctx,
		enrollmentDetailSelect+` WHERE e.student_id = $1 ORDER BY c.code NULLS LAST, e.semester NULLS FIRST, e.id`,
		studentID,
	)
}

// ListRecent retrieves the newest enrollments, optionally scoped to one student.
func (r *enrollmentRepository) ListRecent(ctx context.Context, studentID *int, limit int) ([]model.EnrollmentDetail, error) {
	if studentID != nil {
		return r.queryDetails(ctx,
			enrollmentDetailSelect+` WHERE e.student_id = $1 ORDER BY e.id DESC LIMIT $2`,
			*studentID, limit,
		)
	}
	return r.queryDetails(ctx, enrollmentDetailSelect+` ORDER BY e.id DESC LIMIT $1`, limit)
}

// ListForExport retrieves all enrollments in export order, optionally scoped to one student.
func (r *enrollmentRepository) ListForExport(ctx context.Context, studentID *int) ([]model.EnrollmentDetail, error) {
	if studentID != nil {
		return r.queryDetails(ctx,
			enrollmentDetailSelect+` WHERE e.student_id = $1 ORDER BY s.code, c.code, e.semester`,
			*studentID,
		)
	}
	return r.queryDetails(ctx, enrollmentDetailSelect+` ORDER BY s.code, c.code, e.semester`)
}

// UpdateScore sets or clears the score of an enrollment.
func (r *enrollmentRepository) UpdateScore(ctx context.Context, id int, score *float64) error {
	tag, err := r.db.Exec(ctx, `UPDATE enrollments SET score = $1 WHERE id = $2`, score, id)
	return expectOne(tag, err, nil)
}

// Delete removes an enrollment.
func (r *enrollmentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	return expectOne(tag, err, nil)
}
