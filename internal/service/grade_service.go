package service

import (
	"context"

	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
)

// GradeService computes GPA figures from stored enrollments. Results are
// never cached; every call reads the current enrollments.
type GradeService struct {
	studentRepo    repository.StudentRepository
	enrollmentRepo repository.EnrollmentRepository
}

// NewGradeService creates a new GradeService.
func NewGradeService(studentRepo repository.StudentRepository, enrollmentRepo repository.EnrollmentRepository) *GradeService {
	return &GradeService{studentRepo: studentRepo, enrollmentRepo: enrollmentRepo}
}

// ComputeGPA returns the credit-weighted GPA and graded credit total of a
// student. A student without graded enrollments gets 0 / 0, not an error.
func (s *GradeService) ComputeGPA(ctx context.Context, studentID int) (grading.Summary, error) {
	rows, err := s.enrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return grading.Summary{}, err
	}
	return Summarize(rows), nil
}

// StudentGPA is ComputeGPA for an existing student; unknown IDs yield ErrStudentNotFound.
func (s *GradeService) StudentGPA(ctx context.Context, studentID int) (grading.Summary, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return grading.Summary{}, notFoundAs(err, ErrStudentNotFound)
	}
	return s.ComputeGPA(ctx, studentID)
}

// Summarize aggregates already loaded enrollment rows.
func Summarize(rows []model.EnrollmentDetail) grading.Summary {
	entries := make([]grading.Entry, 0, len(rows))
	for _, r := range rows {
		e := grading.Entry{Score: r.Score}
		if r.Course != nil {
			e.HasCourse = true
			e.Credits = r.Course.Credits
		}
		entries = append(entries, e)
	}
	return grading.Aggregate(entries)
}

// withLetters fills the derived letter grade of each row.
func withLetters(rows []model.EnrollmentDetail) []model.EnrollmentDetail {
	for i := range rows {
		rows[i].Letter = grading.LetterOf(rows[i].Score)
	}
	return rows
}
