package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
)

// RecentEnrollmentLimit caps the enrollment list endpoint.
const RecentEnrollmentLimit = 200

var ErrEnrollmentNotFound = fmt.Errorf("enrollment: %w", repository.ErrNotFound)

// EnrollmentService handles single enrollment and grade entry.
type EnrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	notifier       GradeNotifier
	log            zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, notifier GradeNotifier, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
		log:            log.With().Str("component", "enrollment_service").Logger(),
	}
}

// ListRecent returns the newest enrollments, scoped to one student when studentID is set.
func (s *EnrollmentService) ListRecent(ctx context.Context, studentID *int) ([]model.EnrollmentDetail, error) {
	rows, err := s.enrollmentRepo.ListRecent(ctx, studentID, RecentEnrollmentLimit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.EnrollmentDetail{}
	}
	return withLetters(rows), nil
}

// Assign enrolls a student in a course, optionally with a score. A duplicate
// (student, course, semester) yields repository.ErrDuplicateEnrollment.
func (s *EnrollmentService) Assign(ctx context.Context, req model.AssignEnrollmentRequest) (*model.EnrollmentDetail, error) {
	e := &model.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Semester:  trimOptional(req.Semester),
		Score:     req.Score,
	}
	if err := s.enrollmentRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	detail, err := s.enrollmentRepo.GetDetail(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, detail)
	return detail, nil
}

// UpdateScore corrects or clears a grade. A new score triggers a fresh notification.
func (s *EnrollmentService) UpdateScore(ctx context.Context, id int, score *float64) (*model.EnrollmentDetail, error) {
	if err := s.enrollmentRepo.UpdateScore(ctx, id, score); err != nil {
		return nil, notFoundAs(err, ErrEnrollmentNotFound)
	}

	detail, err := s.enrollmentRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrEnrollmentNotFound)
	}
	s.notify(ctx, detail)
	return detail, nil
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int) error {
	return notFoundAs(s.enrollmentRepo.Delete(ctx, id), ErrEnrollmentNotFound)
}

// notify sends the grade notification for a graded enrollment. Delivery
// failures are logged and never reach the caller.
func (s *EnrollmentService) notify(ctx context.Context, d *model.EnrollmentDetail) {
	d.Letter = grading.LetterOf(d.Score)
	if d.Score == nil || d.Course == nil || d.StudentEmail == "" {
		return
	}
	if err := s.notifier.NotifyGrade(ctx, d.StudentEmail, d.Course.Name, *d.Score); err != nil {
		s.log.Warn().Err(err).
			Int("enrollment_id", d.ID).
			Msg("Grade notification failed")
	}
}
