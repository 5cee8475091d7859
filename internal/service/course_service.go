package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/response"
)

var ErrCourseNotFound = fmt.Errorf("course: %w", repository.ErrNotFound)

// CourseService handles course business logic.
type CourseService struct {
	courseRepo repository.CourseRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo repository.CourseRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo}
}

func (s *CourseService) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound)
	}
	return c, nil
}

func (s *CourseService) List(ctx context.Context, q model.ListQuery) ([]model.Course, *response.Pagination, error) {
	page, perPage := clampPage(q.Page, q.PerPage)

	courses, total, err := s.courseRepo.List(ctx, q.Q, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, buildPagination(page, perPage, total), nil
}

// Create adds a course; a missing credit weight defaults to model.DefaultCredits.
func (s *CourseService) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	credits := req.Credits
	if credits == 0 {
		credits = model.DefaultCredits
	}
	c := &model.Course{
		Code:    strings.TrimSpace(req.Code),
		Name:    strings.TrimSpace(req.Name),
		Credits: credits,
	}
	if err := s.courseRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id int, req model.UpdateCourseRequest) (*model.Course, error) {
	c := &model.Course{
		ID:      id,
		Code:    strings.TrimSpace(req.Code),
		Name:    strings.TrimSpace(req.Name),
		Credits: req.Credits,
	}
	if err := s.courseRepo.Update(ctx, c); err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound)
	}
	return c, nil
}

// Delete removes a course together with its enrollments, exams and timetable slots.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	return notFoundAs(s.courseRepo.Delete(ctx, id), ErrCourseNotFound)
}
