package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/stemsi/unirecords-backend/internal/model"
)

var ErrDuplicateCourse = errors.New("course with this code already exists")

type CourseRepository interface {
	GetByID(ctx context.Context, id int) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	List(ctx context.Context, q string, limit, offset int) ([]model.Course, int, error)
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id int) error
}

type courseRepository struct {
	db DBTX
}

func NewCourseRepository(db DBTX) CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `id, code, name, credits, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }, c *model.Course) error {
	return row.Scan(&c.ID, &c.Code, &c.Name, &c.Credits, &c.CreatedAt, &c.UpdatedAt)
}

func (r *courseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	if err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id), c); err != nil {
		return nil, mapError(err, nil)
	}
	return c, nil
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	c := &model.Course{}
	if err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE code = $1`, code), c); err != nil {
		return nil, mapError(err, nil)
	}
	return c, nil
}

func (r *courseRepository) List(ctx context.Context, q string, limit, offset int) ([]model.Course, int, error) {
	where := ``
	var args []any
	if q = strings.TrimSpace(q); q != "" {
		where = ` WHERE name ILIKE $1 OR code ILIKE $1`
		args = append(args, likePattern(q))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + courseColumns + ` FROM courses` + where +
		` ORDER BY code LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (code, name, credits)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, course.Code, course.Name, course.Credits).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	return mapError(err, ErrDuplicateCourse)
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	query := `
		UPDATE courses
		SET code = $1, name = $2, credits = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, course.Code, course.Name, course.Credits, course.ID).
		Scan(&course.CreatedAt, &course.UpdatedAt)
	return mapError(err, ErrDuplicateCourse)
}

func (r *courseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return expectOne(tag, err, nil)
}
