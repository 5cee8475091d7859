package service

import (
	"context"

	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
)

const dashboardListSize = 5

// DashboardData consolidates all metrics for the dashboard.
type DashboardData struct {
	TotalStudents     int                                `json:"total_students"`
	TotalCourses      int                                `json:"total_courses"`
	TotalEnrollments  int                                `json:"total_enrollments"`
	ScoreDistribution []repository.ScoreBucket           `json:"score_distribution"`
	TopCourses        []repository.CourseEnrollmentCount `json:"top_courses"`
	MyGPA             *grading.Summary                   `json:"my_gpa,omitempty"`
	UpcomingExams     []model.ExamSchedule               `json:"upcoming_exams"`
	Timetable         []model.ClassSchedule              `json:"timetable"`
}

// DashboardService handles dashboard business logic.
type DashboardService struct {
	repo         *repository.DashboardRepository
	examRepo     repository.ExamScheduleRepository
	scheduleRepo repository.ClassScheduleRepository
	grades       *GradeService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	repo *repository.DashboardRepository,
	examRepo repository.ExamScheduleRepository,
	scheduleRepo repository.ClassScheduleRepository,
	grades *GradeService,
) *DashboardService {
	return &DashboardService{repo: repo, examRepo: examRepo, scheduleRepo: scheduleRepo, grades: grades}
}

// GetDashboardData fetches the dashboard metrics sequentially. When studentID
// is set the caller's own GPA is included.
func (s *DashboardService) GetDashboardData(ctx context.Context, studentID *int) (*DashboardData, error) {
	students, courses, enrollments, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	distribution, err := s.repo.GetScoreDistribution(ctx)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.GetTopCourses(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}

	exams, err := s.examRepo.Upcoming(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}

	slots, err := s.scheduleRepo.List(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		TotalStudents:     students,
		TotalCourses:      courses,
		TotalEnrollments:  enrollments,
		ScoreDistribution: distribution,
		TopCourses:        top,
		UpcomingExams:     exams,
		Timetable:         slots,
	}

	if studentID != nil {
		gpa, err := s.grades.ComputeGPA(ctx, *studentID)
		if err != nil {
			return nil, err
		}
		data.MyGPA = &gpa
	}

	// Ensure JSON arrays are [] not null
	if data.ScoreDistribution == nil {
		data.ScoreDistribution = []repository.ScoreBucket{}
	}
	if data.TopCourses == nil {
		data.TopCourses = []repository.CourseEnrollmentCount{}
	}
	if data.UpcomingExams == nil {
		data.UpcomingExams = []model.ExamSchedule{}
	}
	if data.Timetable == nil {
		data.Timetable = []model.ClassSchedule{}
	}

	return data, nil
}
