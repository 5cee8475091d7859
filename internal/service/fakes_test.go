package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
)

func ptr[T any](v T) *T { return &v }

type fakeStudents struct {
	byID map[int]*model.Student
}

func newFakeStudents(students ...model.Student) *fakeStudents {
	f := &fakeStudents{byID: map[int]*model.Student{}}
	for i := range students {
		s := students[i]
		f.byID[s.ID] = &s
	}
	return f
}

func (f *fakeStudents) GetByID(_ context.Context, id int) (*model.Student, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStudents) GetByCode(_ context.Context, code string) (*model.Student, error) {
	for _, s := range f.byID {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStudents) List(context.Context, string, int, int) ([]model.Student, int, error) {
	var out []model.Student
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeStudents) Create(_ context.Context, s *model.Student) error {
	s.ID = len(f.byID) + 1
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStudents) Update(_ context.Context, s *model.Student) error {
	if _, ok := f.byID[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStudents) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCourses struct {
	byID map[int]*model.Course
}

func newFakeCourses(courses ...model.Course) *fakeCourses {
	f := &fakeCourses{byID: map[int]*model.Course{}}
	for i := range courses {
		c := courses[i]
		f.byID[c.ID] = &c
	}
	return f
}

func (f *fakeCourses) GetByID(_ context.Context, id int) (*model.Course, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCourses) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range f.byID {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCourses) List(context.Context, string, int, int) ([]model.Course, int, error) {
	return nil, 0, nil
}

func (f *fakeCourses) Create(_ context.Context, c *model.Course) error {
	c.ID = len(f.byID) + 1
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCourses) Update(context.Context, *model.Course) error { return nil }
func (f *fakeCourses) Delete(context.Context, int) error           { return nil }

// fakeEnrollments enforces the (student, course, semester) uniqueness the
// database index provides, treating a nil semester as a value.
type fakeEnrollments struct {
	mu       sync.Mutex
	students *fakeStudents
	courses  *fakeCourses
	rows     []model.Enrollment
	failWith error
}

func (f *fakeEnrollments) Create(_ context.Context, e *model.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.students.byID[e.StudentID]; !ok {
		return repository.ErrReferenceMissing
	}
	if _, ok := f.courses.byID[e.CourseID]; !ok {
		return repository.ErrReferenceMissing
	}
	for _, r := range f.rows {
		if r.StudentID == e.StudentID && r.CourseID == e.CourseID && sameSemester(r.Semester, e.Semester) {
			return repository.ErrDuplicateEnrollment
		}
	}
	e.ID = len(f.rows) + 1
	e.CreatedAt = time.Now()
	f.rows = append(f.rows, *e)
	return nil
}

func sameSemester(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeEnrollments) detail(e model.Enrollment) model.EnrollmentDetail {
	d := model.EnrollmentDetail{Enrollment: e}
	if s, ok := f.students.byID[e.StudentID]; ok {
		d.StudentCode, d.StudentName, d.StudentEmail = s.Code, s.FullName, s.Email
	}
	if c, ok := f.courses.byID[e.CourseID]; ok {
		d.Course = &model.CourseRef{ID: c.ID, Code: c.Code, Name: c.Name, Credits: c.Credits}
	}
	return d
}

func (f *fakeEnrollments) GetDetail(_ context.Context, id int) (*model.EnrollmentDetail, error) {
	for _, r := range f.rows {
		if r.ID == id {
			d := f.detail(r)
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEnrollments) ListByStudent(_ context.Context, studentID int) ([]model.EnrollmentDetail, error) {
	var out []model.EnrollmentDetail
	for _, r := range f.rows {
		if r.StudentID == studentID {
			out = append(out, f.detail(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Course == nil || out[j].Course == nil {
			return out[j].Course == nil && out[i].Course != nil
		}
		return out[i].Course.Code < out[j].Course.Code
	})
	return out, nil
}

func (f *fakeEnrollments) ListRecent(ctx context.Context, studentID *int, limit int) ([]model.EnrollmentDetail, error) {
	return f.ListForExport(ctx, studentID)
}

func (f *fakeEnrollments) ListForExport(_ context.Context, studentID *int) ([]model.EnrollmentDetail, error) {
	var out []model.EnrollmentDetail
	for _, r := range f.rows {
		if studentID == nil || r.StudentID == *studentID {
			out = append(out, f.detail(r))
		}
	}
	return out, nil
}

func (f *fakeEnrollments) UpdateScore(_ context.Context, id int, score *float64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Score = score
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeEnrollments) Delete(_ context.Context, id int) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type notification struct {
	Email, Course string
	Score         float64
}

type recordingNotifier struct {
	sent []notification
	err  error
}

func (n *recordingNotifier) NotifyGrade(_ context.Context, email, courseName string, score float64) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification{email, courseName, score})
	return nil
}

// fixture seeds the records from the demo dataset.
type fixture struct {
	students    *fakeStudents
	courses     *fakeCourses
	enrollments *fakeEnrollments
	notifier    *recordingNotifier
}

func newFixture() *fixture {
	students := newFakeStudents(
		model.Student{ID: 1, Code: "SV001", FullName: "Nguyen Van A", Email: "student@demo.com", ClassName: ptr("DTS1")},
		model.Student{ID: 2, Code: "SV002", FullName: "Siti Aminah"},
	)
	courses := newFakeCourses(
		model.Course{ID: 1, Code: "MATH101", Name: "Calculus I", Credits: 3},
		model.Course{ID: 2, Code: "CS102", Name: "Intro to CS", Credits: 4},
	)
	return &fixture{
		students:    students,
		courses:     courses,
		enrollments: &fakeEnrollments{students: students, courses: courses},
		notifier:    &recordingNotifier{},
	}
}
