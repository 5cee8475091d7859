package transcript

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func texts(p page) []string {
	out := make([]string, 0, len(p.ops))
	for _, op := range p.ops {
		out = append(out, op.text)
	}
	return out
}

func TestLayoutEmptyTranscript(t *testing.T) {
	pages := layout(Document{StudentCode: "SV001", StudentName: "Nguyen Van A"})

	require.Len(t, pages, 1)
	got := texts(pages[0])
	assert.Contains(t, got, "TRANSKRIP NILAI - TRANSCRIPT")
	assert.Contains(t, got, "NIM: SV001")
	assert.Contains(t, got, "Kode MK")
	assert.Equal(t, "Total SKS: 0   IPK (4.0): 0.0", got[len(got)-1])
}

func TestLayoutRows(t *testing.T) {
	doc := Document{
		StudentCode: "SV001",
		Lines: []Line{
			{CourseCode: "CS102", CourseName: "Introduction to Computer Science and Programming", Credits: 4, Score: ptr(7.25), Letter: "B"},
			{CourseCode: "MATH101", CourseName: "Calculus I", Credits: 3},
		},
		Summary: grading.Summary{GPA: 3.43, TotalCredits: 7},
	}

	pages := layout(doc)
	require.Len(t, pages, 1)
	got := texts(pages[0])

	assert.Contains(t, got, "Introduction to Computer Scien")
	assert.Contains(t, got, "7.2")
	assert.Contains(t, got, "4")
	assert.Equal(t, "Total SKS: 7   IPK (4.0): 3.43", got[len(got)-1])
}

func TestLayoutPaginatesWithoutRepeatingHeaders(t *testing.T) {
	var lines []Line
	for i := 0; i < 60; i++ {
		lines = append(lines, Line{CourseCode: fmt.Sprintf("C%03d", i), CourseName: "Course", Credits: 2, Score: ptr(8), Letter: "B"})
	}

	pages := layout(Document{StudentCode: "SV002", Lines: lines})
	require.Len(t, pages, 2)

	assert.Contains(t, texts(pages[0]), "Kode MK")
	assert.NotContains(t, texts(pages[1]), "Kode MK")
	assert.Contains(t, texts(pages[1]), "C059")

	for _, p := range pages {
		for _, op := range p.ops {
			assert.LessOrEqual(t, op.y, pageHeight)
		}
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "", FormatScore(nil))
	assert.Equal(t, "8.0", FormatScore(ptr(8)))
	assert.Equal(t, "Total SKS: 12   IPK (4.0): 4.0", FooterText(grading.Summary{GPA: 4, TotalCredits: 12}))
	assert.Equal(t, "transcript_SV001.pdf", Filename("SV001"))
	assert.Equal(t, "Nguyễn", truncate("Nguyễn", 30))
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(Document{StudentCode: "SV001", StudentName: "Nguyen Van A", ClassName: "DTS1"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
