package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/tabular"
)

// Logical import columns. Older spreadsheet templates label the score "grade".
const (
	ColStudentCode = "student_code"
	ColCourseCode  = "course_code"
	ColSemester    = "semester"
	ColScore       = "score"
	colScoreAlias  = "grade"
)

// ErrInvalidFile wraps failures to parse an uploaded spreadsheet.
var ErrInvalidFile = errors.New("invalid import file")

// MissingColumnsError rejects an import whose header lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// RowStatus is what happened to one imported row.
type RowStatus string

const (
	RowInserted       RowStatus = "inserted"
	RowUnknownStudent RowStatus = "unknown_student"
	RowUnknownCourse  RowStatus = "unknown_course"
	RowDuplicate      RowStatus = "duplicate"
	RowFailed         RowStatus = "failed"
)

// RowOutcome reports the result of one data row. Row is the line number in the file.
type RowOutcome struct {
	Row         int       `json:"row"`
	StudentCode string    `json:"student_code"`
	CourseCode  string    `json:"course_code"`
	Semester    *string   `json:"semester"`
	Score       *float64  `json:"score"`
	Status      RowStatus `json:"status"`
}

// ImportSummary is the result of a bulk grade import.
type ImportSummary struct {
	InsertedCount int          `json:"inserted_count"`
	Rows          []RowOutcome `json:"rows"`
}

// ImportService inserts enrollments from a spreadsheet, one row at a time.
// Rows are committed individually: a bad row never undoes the rows before it.
type ImportService struct {
	studentRepo    repository.StudentRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	notifier       GradeNotifier
	log            zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	studentRepo repository.StudentRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	notifier GradeNotifier,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
		log:            log.With().Str("component", "import_service").Logger(),
	}
}

// ImportFile parses an .xlsx or .csv upload and imports its rows.
func (s *ImportService) ImportFile(ctx context.Context, filename string, r io.Reader) (*ImportSummary, error) {
	table, err := tabular.Read(filename, r)
	if err != nil {
		if errors.Is(err, tabular.ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return s.ImportRows(ctx, table)
}

// ImportRows imports every data row of table in order. Rows naming an
// unknown student or course, and rows duplicating an existing enrollment,
// are skipped and reported; they never fail the import.
func (s *ImportService) ImportRows(ctx context.Context, table *tabular.Table) (*ImportSummary, error) {
	scoreCol, err := checkColumns(table)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Rows: make([]RowOutcome, 0, len(table.Rows))}

	for _, row := range table.Rows {
		outcome, err := s.importRow(ctx, row, scoreCol)
		if err != nil {
			return summary, fmt.Errorf("import row %d: %w", row.Number, err)
		}
		if outcome.Status == RowInserted {
			summary.InsertedCount++
		}
		summary.Rows = append(summary.Rows, outcome)
	}

	s.log.Info().
		Int("rows", len(table.Rows)).
		Int("inserted", summary.InsertedCount).
		Msg("Grade import finished")

	return summary, nil
}

// checkColumns verifies the four logical columns and returns the header name
// holding the score.
func checkColumns(table *tabular.Table) (string, error) {
	scoreCol := ColScore
	if !table.HasColumn(ColScore) && table.HasColumn(colScoreAlias) {
		scoreCol = colScoreAlias
	}

	var missing []string
	for _, col := range []string{ColStudentCode, ColCourseCode, ColSemester, scoreCol} {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingColumnsError{Columns: missing}
	}
	return scoreCol, nil
}

// importRow returns an error only for failures that are not about the row
// itself, such as a lost database connection during lookup.
func (s *ImportService) importRow(ctx context.Context, row tabular.Row, scoreCol string) (RowOutcome, error) {
	out := RowOutcome{
		Row:         row.Number,
		StudentCode: strings.TrimSpace(row.Get(ColStudentCode)),
		CourseCode:  strings.TrimSpace(row.Get(ColCourseCode)),
		Semester:    trimOptional(ptrTo(row.Get(ColSemester))),
		Score:       grading.ParseScore(row.Get(scoreCol)),
	}

	student, err := s.studentRepo.GetByCode(ctx, out.StudentCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			out.Status = RowUnknownStudent
			return out, nil
		}
		return out, err
	}

	course, err := s.courseRepo.GetByCode(ctx, out.CourseCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			out.Status = RowUnknownCourse
			return out, nil
		}
		return out, err
	}

	e := &model.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		Semester:  out.Semester,
		Score:     out.Score,
	}
	if err := s.enrollmentRepo.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicateEnrollment) {
			out.Status = RowDuplicate
			return out, nil
		}
		s.log.Warn().Err(err).Int("row", row.Number).Msg("Import row insert failed, skipping")
		out.Status = RowFailed
		return out, nil
	}
	out.Status = RowInserted

	if out.Score != nil && student.Email != "" {
		if err := s.notifier.NotifyGrade(ctx, student.Email, course.Name, *out.Score); err != nil {
			s.log.Warn().Err(err).
				Str("student_code", student.Code).
				Str("course_code", course.Code).
				Msg("Grade notification failed")
		}
	}
	return out, nil
}

func ptrTo(s string) *string {
	return &s
}
