package service

import (
	"context"
	"testing"

	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEnrollments(t *testing.T, f *fixture, rows ...model.Enrollment) {
	t.Helper()
	for i := range rows {
		require.NoError(t, f.enrollments.Create(context.Background(), &rows[i]))
	}
}

func TestComputeGPA(t *testing.T) {
	f := newFixture()
	svc := NewGradeService(f.students, f.enrollments)

	got, err := svc.ComputeGPA(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, grading.Summary{GPA: 0, TotalCredits: 0}, got)

	seedEnrollments(t, f,
		model.Enrollment{StudentID: 1, CourseID: 1, Semester: ptr("2025A"), Score: ptr(9.0)},
		model.Enrollment{StudentID: 1, CourseID: 2, Semester: ptr("2025A"), Score: ptr(7.2)},
		model.Enrollment{StudentID: 1, CourseID: 2, Semester: ptr("2025B")},
	)

	got, err = svc.ComputeGPA(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3.43, got.GPA)
	assert.Equal(t, 7, got.TotalCredits)
}

func TestStudentGPAUnknownStudent(t *testing.T) {
	svc := NewGradeService(newFakeStudents(), &fakeEnrollments{})

	_, err := svc.StudentGPA(context.Background(), 42)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestSummarizeSkipsUnresolvedCourse(t *testing.T) {
	rows := []model.EnrollmentDetail{
		{Enrollment: model.Enrollment{Score: ptr(9.0)}, Course: &model.CourseRef{Credits: 2}},
		{Enrollment: model.Enrollment{Score: ptr(2.0)}},
	}
	assert.Equal(t, grading.Summary{GPA: 4, TotalCredits: 2}, Summarize(rows))
}
