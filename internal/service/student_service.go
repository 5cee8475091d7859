package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/response"
)

// ErrStudentNotFound is returned when the requested student does not exist.
var ErrStudentNotFound = fmt.Errorf("student: %w", repository.ErrNotFound)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo repository.StudentRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo repository.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	st, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrStudentNotFound)
	}
	return st, nil
}

// List retrieves students matching q with pagination.
func (s *StudentService) List(ctx context.Context, q model.ListQuery) ([]model.Student, *response.Pagination, error) {
	page, perPage := clampPage(q.Page, q.PerPage)

	students, total, err := s.studentRepo.List(ctx, q.Q, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, buildPagination(page, perPage, total), nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req model.CreateStudentRequest) (*model.Student, error) {
	st := &model.Student{
		Code:      strings.TrimSpace(req.Code),
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.TrimSpace(req.Email),
		ClassName: trimOptional(req.ClassName),
	}
	if err := s.studentRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Update modifies a student's details.
func (s *StudentService) Update(ctx context.Context, id int, req model.UpdateStudentRequest) (*model.Student, error) {
	st := &model.Student{
		ID:        id,
		Code:      strings.TrimSpace(req.Code),
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.TrimSpace(req.Email),
		ClassName: trimOptional(req.ClassName),
	}
	if err := s.studentRepo.Update(ctx, st); err != nil {
		return nil, notFoundAs(err, ErrStudentNotFound)
	}
	return st, nil
}

// Delete removes a student and, by cascade, their enrollments.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	return notFoundAs(s.studentRepo.Delete(ctx, id), ErrStudentNotFound)
}

// trimOptional trims an optional free-text value; blank becomes nil.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
