package service

import (
	"context"
	"io"

	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/tabular"
)

const (
	ExportFilename    = "grades_export.xlsx"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet       = "grades"
)

// ExportHeader lists the export columns. The first four round-trip through the importer.
var ExportHeader = []string{
	ColStudentCode, "student_name", ColCourseCode, "course_name", "credits", ColSemester, ColScore, "letter",
}

// ExportService writes enrollments to a spreadsheet.
type ExportService struct {
	enrollmentRepo repository.EnrollmentRepository
}

// NewExportService creates a new ExportService.
func NewExportService(enrollmentRepo repository.EnrollmentRepository) *ExportService {
	return &ExportService{enrollmentRepo: enrollmentRepo}
}

// Export writes every enrollment, or only those of studentID when set, as .xlsx to w.
func (s *ExportService) Export(ctx context.Context, studentID *int, w io.Writer) error {
	details, err := s.enrollmentRepo.ListForExport(ctx, studentID)
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(details))
	for _, d := range withLetters(details) {
		var courseCode, courseName string
		var credits any = ""
		if d.Course != nil {
			courseCode, courseName, credits = d.Course.Code, d.Course.Name, d.Course.Credits
		}
		var semester, score any = "", ""
		if d.Semester != nil {
			semester = *d.Semester
		}
		if d.Score != nil {
			score = *d.Score
		}
		rows = append(rows, []any{
			d.StudentCode, d.StudentName, courseCode, courseName, credits, semester, score, d.Letter,
		})
	}

	return tabular.WriteXLSX(w, exportSheet, ExportHeader, rows)
}
