package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvTable(t *testing.T, src string) *tabular.Table {
	t.Helper()
	tbl, err := tabular.ReadCSV(strings.NewReader(src))
	require.NoError(t, err)
	return tbl
}

func newImportService(f *fixture) *ImportService {
	return NewImportService(f.students, f.courses, f.enrollments, f.notifier, zerolog.Nop())
}

func TestImportRowsInsertsOnce(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)
	src := "student_code,course_code,semester,score\n" +
		"SV001,MATH101,2025A,8\n" +
		"SV001,CS102,2025A,7.2\n"

	first, err := svc.ImportRows(context.Background(), csvTable(t, src))
	require.NoError(t, err)
	assert.Equal(t, 2, first.InsertedCount)

	second, err := svc.ImportRows(context.Background(), csvTable(t, src))
	require.NoError(t, err)
	assert.Equal(t, 0, second.InsertedCount)
	for _, r := range second.Rows {
		assert.Equal(t, RowDuplicate, r.Status)
	}

	assert.Len(t, f.enrollments.rows, 2)
	assert.Len(t, f.notifier.sent, 2)
}

func TestImportRowsSkipsUnknownCodes(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)
	src := "Student_Code,Course_Code,Semester,Score\n" +
		"SV999,MATH101,2025A,8\n" +
		"SV001,NOPE1,2025A,8\n"

	summary, err := svc.ImportRows(context.Background(), csvTable(t, src))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.InsertedCount)
	require.Len(t, summary.Rows, 2)
	assert.Equal(t, RowUnknownStudent, summary.Rows[0].Status)
	assert.Equal(t, RowUnknownCourse, summary.Rows[1].Status)
	assert.Empty(t, f.enrollments.rows)
	assert.Empty(t, f.notifier.sent)
}

func TestImportRowsMissingColumn(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)
	src := "student_code,course_code,score\n" +
		"SV001,MATH101,8\n"

	summary, err := svc.ImportRows(context.Background(), csvTable(t, src))
	assert.Nil(t, summary)

	var mce *MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"semester"}, mce.Columns)
	assert.Contains(t, err.Error(), "semester")
	assert.Empty(t, f.enrollments.rows)
}

func TestImportRowsMissingColumnsSorted(t *testing.T) {
	svc := newImportService(newFixture())

	_, err := svc.ImportRows(context.Background(), csvTable(t, "course_code\nMATH101\n"))

	var mce *MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"score", "semester", "student_code"}, mce.Columns)
}

func TestImportRowsGradeAliasAndScoreParsing(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)
	src := "student_code,course_code,semester,grade\n" +
		" SV001 , MATH101 ,  ,abc\n" +
		"SV001,CS102,2025B,11\n" +
		"SV002,CS102,2025B,4.5\n"

	summary, err := svc.ImportRows(context.Background(), csvTable(t, src))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.InsertedCount)

	rows := f.enrollments.rows
	require.Len(t, rows, 3)
	assert.Nil(t, rows[0].Semester)
	assert.Nil(t, rows[0].Score)
	assert.Nil(t, rows[1].Score)
	assert.Equal(t, 4.5, *rows[2].Score)

	// SV002 has no email, ungraded rows never notify.
	assert.Empty(t, f.notifier.sent)
}

func TestImportRowsNotifierFailureDoesNotAbort(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp unavailable")
	svc := newImportService(f)
	src := "student_code,course_code,semester,score\n" +
		"SV001,MATH101,2025A,3\n" +
		"SV001,CS102,2025A,9\n"

	summary, err := svc.ImportRows(context.Background(), csvTable(t, src))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.InsertedCount)
	assert.Len(t, f.enrollments.rows, 2)
}

func TestImportRowsInsertFailureIsRowLocal(t *testing.T) {
	f := newFixture()
	f.enrollments.failWith = errors.New("check constraint violated")
	svc := newImportService(f)

	summary, err := svc.ImportRows(context.Background(), csvTable(t, "student_code,course_code,semester,score\nSV001,MATH101,2025A,8\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.InsertedCount)
	assert.Equal(t, RowFailed, summary.Rows[0].Status)
}

type unreachableStudents struct{ *fakeStudents }

func (unreachableStudents) GetByCode(context.Context, string) (*model.Student, error) {
	return nil, errors.New("connection reset")
}

func TestImportRowsStopsOnLookupFailure(t *testing.T) {
	f := newFixture()
	svc := NewImportService(unreachableStudents{f.students}, f.courses, f.enrollments, f.notifier, zerolog.Nop())

	_, err := svc.ImportRows(context.Background(), csvTable(t, "student_code,course_code,semester,score\nSV001,MATH101,2025A,8\n"))
	assert.Error(t, err)
	assert.Empty(t, f.enrollments.rows)
}

func TestImportFileRejectsUnknownFormat(t *testing.T) {
	svc := newImportService(newFixture())

	_, err := svc.ImportFile(context.Background(), "grades.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, tabular.ErrUnsupportedFormat)

	_, err = svc.ImportFile(context.Background(), "grades.xlsx", strings.NewReader("garbage"))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestImportFileCSV(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	summary, err := svc.ImportFile(context.Background(), "grades.csv",
		strings.NewReader("student_code,course_code,semester,score\nSV001,MATH101,2025A,8\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InsertedCount)
	assert.Equal(t, RowInserted, summary.Rows[0].Status)
	assert.Equal(t, 2, summary.Rows[0].Row)
}
