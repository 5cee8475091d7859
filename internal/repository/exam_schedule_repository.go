package repository

import (
	"context"

	"github.com/stemsi/unirecords-backend/internal/model"
)

type ExamScheduleRepository interface {
	List(ctx context.Context) ([]model.ExamSchedule, error)
	Upcoming(ctx context.Context, limit int) ([]model.ExamSchedule, error)
	GetByID(ctx context.Context, id int) (*model.ExamSchedule, error)
	Create(ctx context.Context, e *model.ExamSchedule) error
	Update(ctx context.Context, e *model.ExamSchedule) error
	Delete(ctx context.Context, id int) error
}

type examScheduleRepository struct {
	db DBTX
}

func NewExamScheduleRepository(db DBTX) ExamScheduleRepository {
	return &examScheduleRepository{db: db}
}

const examSelect = `
	SELECT x.id, x.course_id, c.code, c.name, to_char(x.exam_date, 'YYYY-MM-DD'), x.room, x.note
	FROM exam_schedules x
	JOIN courses c ON c.id = x.course_id`

func scanExam(row interface{ Scan(...any) error }, e *model.ExamSchedule) error {
	return row.Scan(&e.ID, &e.CourseID, &e.CourseCode, &e.CourseName, &e.ExamDate, &e.Room, &e.Note)
}

func (r *examScheduleRepository) list(ctx context.Context, query string, args ...any) ([]model.ExamSchedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.ExamSchedule
	for rows.Next() {
		var e model.ExamSchedule
		if err := scanExam(rows, &e); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (r *examScheduleRepository) List(ctx context.Context) ([]model.ExamSchedule, error) {
	return r.list(ctx, examSelect+` ORDER BY x.exam_date, x.id`)
}

// Upcoming returns the next exams from today onwards.
func (r *examScheduleRepository) Upcoming(ctx context.Context, limit int) ([]model.ExamSchedule, error) {
	return r.list(ctx, examSelect+` WHERE x.exam_date >= CURRENT_DATE ORDER BY x.exam_date, x.id LIMIT $1`, limit)
}

func (r *examScheduleRepository) GetByID(ctx context.Context, id int) (*model.ExamSchedule, error) {
	e := &model.ExamSchedule{}
	if err := scanExam(r.db.QueryRow(ctx, examSelect+` WHERE x.id = $1`, id), e); err != nil {
		return nil, mapError(err, nil)
	}
	return e, nil
}

func (r *examScheduleRepository) Create(ctx context.Context, e *model.ExamSchedule) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO exam_schedules (course_id, exam_date, room, note)
		 VALUES ($1, $2::date, $3, $4)
		 RETURNING id`,
		e.CourseID, e.ExamDate, e.Room, e.Note,
	).Scan(&e.ID)
	return mapError(err, nil)
}

func (r *examScheduleRepository) Update(ctx context.Context, e *model.ExamSchedule) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE exam_schedules SET course_id = $1, exam_date = $2::date, room = $3, note = $4 WHERE id = $5`,
		e.CourseID, e.ExamDate, e.Room, e.Note, e.ID,
	)
	return expectOne(tag, err, nil)
}

func (r *examScheduleRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exam_schedules WHERE id = $1`, id)
	return expectOne(tag, err, nil)
}
