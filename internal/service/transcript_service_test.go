package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptUnknownStudent(t *testing.T) {
	f := newFixture()
	svc := NewTranscriptService(f.students, f.enrollments)

	file, err := svc.Render(context.Background(), 99)
	assert.Nil(t, file)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTranscriptWithoutEnrollments(t *testing.T) {
	f := newFixture()
	svc := NewTranscriptService(f.students, f.enrollments)

	doc, err := svc.Document(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, doc.Lines)
	assert.Equal(t, "", doc.ClassName)
	assert.Equal(t, "Total SKS: 0   IPK (4.0): 0.0", transcript.FooterText(doc.Summary))

	file, err := svc.Render(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "transcript_SV002.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))
}

func TestTranscriptRows(t *testing.T) {
	f := newFixture()
	seedEnrollments(t, f,
		model.Enrollment{StudentID: 1, CourseID: 1, Semester: ptr("2025A"), Score: ptr(9.0)},
		model.Enrollment{StudentID: 1, CourseID: 2, Semester: ptr("2025A"), Score: ptr(7.2)},
	)
	svc := NewTranscriptService(f.students, f.enrollments)

	doc, err := svc.Document(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "CS102", doc.Lines[0].CourseCode)
	assert.Equal(t, "B", doc.Lines[0].Letter)
	assert.Equal(t, "MATH101", doc.Lines[1].CourseCode)
	assert.Equal(t, "DTS1", doc.ClassName)
	assert.Equal(t, "Total SKS: 7   IPK (4.0): 3.43", transcript.FooterText(doc.Summary))
}
