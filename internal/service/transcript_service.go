package service

import (
	"context"
	"fmt"

	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/transcript"
)

// TranscriptFile is a rendered transcript ready for download.
type TranscriptFile struct {
	Filename string
	Content  []byte
}

// TranscriptService builds PDF transcripts.
type TranscriptService struct {
	studentRepo    repository.StudentRepository
	enrollmentRepo repository.EnrollmentRepository
}

// NewTranscriptService creates a new TranscriptService.
func NewTranscriptService(studentRepo repository.StudentRepository, enrollmentRepo repository.EnrollmentRepository) *TranscriptService {
	return &TranscriptService{studentRepo: studentRepo, enrollmentRepo: enrollmentRepo}
}

// Document assembles the transcript content of a student without rendering it.
// Rows follow course code order; enrollments whose course no longer resolves
// are left off the listing and out of the GPA.
func (s *TranscriptService) Document(ctx context.Context, studentID int) (*transcript.Document, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, notFoundAs(err, ErrStudentNotFound)
	}

	rows, err := s.enrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	doc := &transcript.Document{
		StudentCode: student.Code,
		StudentName: student.FullName,
	}
	if student.ClassName != nil {
		doc.ClassName = *student.ClassName
	}

	for _, r := range rows {
		if r.Course == nil {
			continue
		}
		doc.Lines = append(doc.Lines, transcript.Line{
			CourseCode: r.Course.Code,
			CourseName: r.Course.Name,
			Credits:    r.Course.Credits,
			Score:      r.Score,
			Letter:     grading.LetterOf(r.Score),
		})
	}
	doc.Summary = Summarize(rows)
	return doc, nil
}

// Render produces the transcript PDF of a student.
func (s *TranscriptService) Render(ctx context.Context, studentID int) (*TranscriptFile, error) {
	doc, err := s.Document(ctx, studentID)
	if err != nil {
		return nil, err
	}

	content, err := transcript.Render(*doc)
	if err != nil {
		return nil, fmt.Errorf("render transcript: %w", err)
	}
	return &TranscriptFile{Filename: transcript.Filename(doc.StudentCode), Content: content}, nil
}
