package repository

import (
	"context"

	"github.com/stemsi/unirecords-backend/internal/model"
)

type ClassScheduleRepository interface {
	List(ctx context.Context, limit int) ([]model.ClassSchedule, error)
	GetByID(ctx context.Context, id int) (*model.ClassSchedule, error)
	Create(ctx context.Context, s *model.ClassSchedule) error
	Update(ctx context.Context, s *model.ClassSchedule) error
	Delete(ctx context.Context, id int) error
}

type classScheduleRepository struct {
	db DBTX
}

func NewClassScheduleRepository(db DBTX) ClassScheduleRepository {
	return &classScheduleRepository{db: db}
}

const classScheduleSelect = `
	SELECT t.id, t.course_id, c.code, c.name, t.weekday, t.time_slot, t.room
	FROM class_schedules t
	JOIN courses c ON c.id = t.course_id`

func scanClassSchedule(row interface{ Scan(...any) error }, s *model.ClassSchedule) error {
	return row.Scan(&s.ID, &s.CourseID, &s.CourseCode, &s.CourseName, &s.Weekday, &s.TimeSlot, &s.Room)
}

// List returns timetable slots ordered by weekday and time. A limit <= 0 returns all.
func (r *classScheduleRepository) List(ctx context.Context, limit int) ([]model.ClassSchedule, error) {
	query := classScheduleSelect + ` ORDER BY t.weekday, t.time_slot, t.id`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ClassSchedule
	for rows.Next() {
		var s model.ClassSchedule
		if err := scanClassSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *classScheduleRepository) GetByID(ctx context.Context, id int) (*model.ClassSchedule, error) {
	s := &model.ClassSchedule{}
	if err := scanClassSchedule(r.db.QueryRow(ctx, classScheduleSelect+` WHERE t.id = $1`, id), s); err != nil {
		return nil, mapError(err, nil)
	}
	return s, nil
}

func (r *classScheduleRepository) Create(ctx context.Context, s *model.ClassSchedule) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO class_schedules (course_id, weekday, time_slot, room)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		s.CourseID, s.Weekday, s.TimeSlot, s.Room,
	).Scan(&s.ID)
	return mapError(err, nil)
}

func (r *classScheduleRepository) Update(ctx context.Context, s *model.ClassSchedule) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE class_schedules SET course_id = $1, weekday = $2, time_slot = $3, room = $4 WHERE id = $5`,
		s.CourseID, s.Weekday, s.TimeSlot, s.Room, s.ID,
	)
	return expectOne(tag, err, nil)
}

func (r *classScheduleRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM class_schedules WHERE id = $1`, id)
	return expectOne(tag, err, nil)
}
