package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	src := "\ufeffStudent_Code, COURSE_CODE ,Semester,Score\n" +
		"SV001,MATH101,2025A,8\n" +
		",,,\n" +
		"SV002,CS102\n"

	tbl, err := ReadCSV(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"student_code", "course_code", "semester", "score"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, 2, tbl.Rows[0].Number)
	assert.Equal(t, "MATH101", tbl.Rows[0].Get("Course_Code"))
	assert.Equal(t, "8", tbl.Rows[0].Get("score"))

	assert.Equal(t, 4, tbl.Rows[1].Number)
	assert.Equal(t, "", tbl.Rows[1].Get("semester"))
	assert.True(t, tbl.HasColumn("SEMESTER"))
	assert.False(t, tbl.HasColumn("grade"))
}

func TestReadEmpty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Header)
	assert.Empty(t, tbl.Rows)
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read("grades.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, "Grades",
		[]string{"Student_Code", "Course_Code", "Semester", "Grade"},
		[][]any{
			{"SV001", "MATH101", "2025A", 8.0},
			{"SV001", "CS102", "2025A", ""},
		})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Grades"}, f.GetSheetList())
	require.NoError(t, f.Close())

	tbl, err := Read("export.XLSX", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"student_code", "course_code", "semester", "grade"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "8", tbl.Rows[0].Get("grade"))
	assert.Equal(t, "CS102", tbl.Rows[1].Get("course_code"))
	assert.Equal(t, "", tbl.Rows[1].Get("grade"))
}

func TestReadXLSXInvalid(t *testing.T) {
	_, err := Read("grades.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestReadXLSXIgnoresNumberFormat(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"student_code", "course_code", "semester", "score"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"SV001", "MATH101", "2025A", 8.46}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"SV002", "MATH101", "2025A", 3.6}))

	integer, err := f.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "D2", "D3", integer))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tbl, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "8.46", tbl.Rows[0].Get("score"))
	assert.Equal(t, "3.6", tbl.Rows[1].Get("score"))
}
