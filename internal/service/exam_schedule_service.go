package service

import (
	"context"
	"fmt"

	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
)

var ErrExamNotFound = fmt.Errorf("exam schedule: %w", repository.ErrNotFound)

// ExamScheduleService manages exam sittings.
type ExamScheduleService struct {
	examRepo repository.ExamScheduleRepository
}

func NewExamScheduleService(examRepo repository.ExamScheduleRepository) *ExamScheduleService {
	return &ExamScheduleService{examRepo: examRepo}
}

// List returns all exams ordered by date.
func (s *ExamScheduleService) List(ctx context.Context) ([]model.ExamSchedule, error) {
	exams, err := s.examRepo.List(ctx)
	if exams == nil && err == nil {
		exams = []model.ExamSchedule{}
	}
	return exams, err
}

func (s *ExamScheduleService) Create(ctx context.Context, req model.ExamScheduleRequest) (*model.ExamSchedule, error) {
	e := &model.ExamSchedule{
		CourseID: req.CourseID,
		ExamDate: req.ExamDate,
		Room:     trimOptional(req.Room),
		Note:     trimOptional(req.Note),
	}
	if err := s.examRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return s.reload(ctx, e.ID)
}

func (s *ExamScheduleService) Update(ctx context.Context, id int, req model.ExamScheduleRequest) (*model.ExamSchedule, error) {
	e := &model.ExamSchedule{
		ID:       id,
		CourseID: req.CourseID,
		ExamDate: req.ExamDate,
		Room:     trimOptional(req.Room),
		Note:     trimOptional(req.Note),
	}
	if err := s.examRepo.Update(ctx, e); err != nil {
		return nil, notFoundAs(err, ErrExamNotFound)
	}
	return s.reload(ctx, id)
}

func (s *ExamScheduleService) Delete(ctx context.Context, id int) error {
	return notFoundAs(s.examRepo.Delete(ctx, id), ErrExamNotFound)
}

// reload fetches the stored row so the response carries the course code and name.
func (s *ExamScheduleService) reload(ctx context.Context, id int) (*model.ExamSchedule, error) {
	e, err := s.examRepo.GetByID(ctx, id)
	return e, notFoundAs(err, ErrExamNotFound)
}
