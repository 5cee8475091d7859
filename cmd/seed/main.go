package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stemsi/unirecords-backend/internal/database"
	"github.com/stemsi/unirecords-backend/internal/logger"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/service"
)

const demoPassword = "123456"

type demoEnrollment struct {
	courseCode string
	semester   string
	score      float64
}

func main() {
	withSamples := flag.Bool("samples", false, "Also add a sample exam and timetable slot when none exist")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	s := &seeder{
		students:    repository.NewStudentRepository(pool),
		courses:     repository.NewCourseRepository(pool),
		enrollments: repository.NewEnrollmentRepository(pool),
		users:       repository.NewUserRepository(pool),
		exams:       repository.NewExamScheduleRepository(pool),
		schedules:   repository.NewClassScheduleRepository(pool),
		log:         log,
	}
	s.userService = service.NewUserService(s.users, s.students, service.NewAuthService(cfg, nil, s.users), log)

	fmt.Println("=== Seeding Demo Data ===")

	if err := s.run(ctx, *withSamples); err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}

	fmt.Println("\nSeed completed.")
}

type seeder struct {
	students    repository.StudentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	exams       repository.ExamScheduleRepository
	schedules   repository.ClassScheduleRepository
	userService *service.UserService
	log         zerolog.Logger
}

// run is idempotent: existing rows are found by their natural keys and kept.
func (s *seeder) run(ctx context.Context, withSamples bool) error {
	for _, email := range []string{"admin@demo.com", "teacher@demo.com"} {
		role := model.RoleAdmin
		if email == "teacher@demo.com" {
			role = model.RoleTeacher
		}
		if err := s.ensureUser(ctx, model.CreateUserRequest{Email: email, Password: demoPassword, Role: role}); err != nil {
			return err
		}
	}

	className := "DTS1"
	student, err := s.ensureStudent(ctx, &model.Student{
		Code:      "SV001",
		FullName:  "Nguyen Van A",
		Email:     "student@demo.com",
		ClassName: &className,
	})
	if err != nil {
		return err
	}

	if err := s.ensureUser(ctx, model.CreateUserRequest{
		Email:     "student@demo.com",
		Password:  demoPassword,
		Role:      model.RoleStudent,
		StudentID: &student.ID,
	}); err != nil {
		return err
	}

	courses := map[string]*model.Course{}
	for _, c := range []model.Course{
		{Code: "MATH101", Name: "Calculus I", Credits: 3},
		{Code: "CS102", Name: "Intro to CS", Credits: 4},
	} {
		course, err := s.ensureCourse(ctx, c)
		if err != nil {
			return err
		}
		courses[course.Code] = course
	}

	for _, d := range []demoEnrollment{
		{courseCode: "MATH101", semester: "2025A", score: 8.0},
		{courseCode: "CS102", semester: "2025A", score: 7.2},
	} {
		semester, score := d.semester, d.score
		e := &model.Enrollment{
			StudentID: student.ID,
			CourseID:  courses[d.courseCode].ID,
			Semester:  &semester,
			Score:     &score,
		}
		if err := s.enrollments.Create(ctx, e); err != nil {
			if errors.Is(err, repository.ErrDuplicateEnrollment) {
				continue
			}
			return fmt.Errorf("enroll %s in %s: %w", student.Code, d.courseCode, err)
		}
		fmt.Printf("Enrolled %s in %s (%s)\n", student.Code, d.courseCode, d.semester)
	}

	if withSamples {
		return s.ensureSamples(ctx, courses["MATH101"])
	}
	return nil
}

func (s *seeder) ensureUser(ctx context.Context, req model.CreateUserRequest) error {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("look up user %s: %w", req.Email, err)
	}

	if _, err := s.userService.Create(ctx, req); err != nil {
		return fmt.Errorf("create user %s: %w", req.Email, err)
	}
	fmt.Printf("Created %s account %s\n", req.Role, req.Email)
	return nil
}

func (s *seeder) ensureStudent(ctx context.Context, st *model.Student) (*model.Student, error) {
	existing, err := s.students.GetByCode(ctx, st.Code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up student %s: %w", st.Code, err)
	}

	if err := s.students.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create student %s: %w", st.Code, err)
	}
	fmt.Printf("Created student %s (%s)\n", st.Code, st.FullName)
	return st, nil
}

func (s *seeder) ensureCourse(ctx context.Context, c model.Course) (*model.Course, error) {
	existing, err := s.courses.GetByCode(ctx, c.Code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up course %s: %w", c.Code, err)
	}

	if err := s.courses.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("create course %s: %w", c.Code, err)
	}
	fmt.Printf("Created course %s (%s)\n", c.Code, c.Name)
	return &c, nil
}

func (s *seeder) ensureSamples(ctx context.Context, course *model.Course) error {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return err
	}
	if len(exams) == 0 {
		room, note := "A101", "Giữa kỳ"
		exam := &model.ExamSchedule{CourseID: course.ID, ExamDate: "2025-12-20", Room: &room, Note: &note}
		if err := s.exams.Create(ctx, exam); err != nil {
			return fmt.Errorf("create sample exam: %w", err)
		}
		fmt.Println("Created sample exam schedule")
	}

	slots, err := s.schedules.List(ctx, 1)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		room := "A204"
		slot := &model.ClassSchedule{CourseID: course.ID, Weekday: 1, TimeSlot: "07:30 - 09:30", Room: &room}
		if err := s.schedules.Create(ctx, slot); err != nil {
			return fmt.Errorf("create sample timetable slot: %w", err)
		}
		fmt.Println("Created sample timetable slot")
	}

	s.log.Debug().Int("course_id", course.ID).Msg("Sample schedules checked")
	return nil
}
