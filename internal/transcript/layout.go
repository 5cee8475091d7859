// Package transcript lays out and renders a student's grade transcript as an A4 PDF.
package transcript

import (
	"fmt"
	"strconv"

	"github.com/stemsi/unirecords-backend/internal/grading"
)

const (
	cm         = 28.3465
	pageHeight = 841.89

	marginX       = 2 * cm
	titleY        = 2 * cm
	rowStep       = 0.55 * cm
	headerGap     = 0.6 * cm
	bottomLimit   = pageHeight - 3*cm
	footerY       = pageHeight - 2.5*cm
	nameMaxRunes  = 30
	fontRegular   = "go"
	fontBold      = "go-bold"
	sizeTitle     = 16
	sizeInfo      = 11
	sizeTable     = 10
	sizeFooter    = 11
	headerRowY    = 5 * cm
	firstInfoY    = 3 * cm
	infoLineSpace = 0.6 * cm
)

type align int

const (
	alignLeft align = iota
	alignRight
)

// column positions; right-aligned columns are anchored on their right edge.
var (
	colCode    = column{x: 2 * cm}
	colName    = column{x: 5 * cm}
	colCredits = column{x: 14.5 * cm, align: alignRight}
	colScore   = column{x: 16.5 * cm, align: alignRight}
	colLetter  = column{x: 19 * cm, align: alignRight}
)

type column struct {
	x     float64
	align align
}

// Line is one course row on the transcript.
type Line struct {
	CourseCode string
	CourseName string
	Credits    int
	Score      *float64
	Letter     string
}

// Document is everything printed on a transcript.
type Document struct {
	StudentCode string
	StudentName string
	ClassName   string
	Lines       []Line
	Summary     grading.Summary
}

// textOp is a single string drawn at a baseline position (points, top-left origin).
type textOp struct {
	x, y  float64
	text  string
	font  string
	size  float64
	align align
}

type page struct {
	ops []textOp
}

// layout positions every string of doc onto pages. Column headers appear on the
// first page only; the summary footer is always on the last page.
func layout(doc Document) []page {
	pages := []page{{}}
	cur := &pages[0]

	draw := func(c column, y float64, text, font string, size float64) {
		cur.ops = append(cur.ops, textOp{x: c.x, y: y, text: text, font: font, size: size, align: c.align})
	}

	draw(column{x: marginX}, titleY, "TRANSKRIP NILAI - TRANSCRIPT", fontBold, sizeTitle)

	info := []string{
		"NIM: " + doc.StudentCode,
		"Nama: " + doc.StudentName,
		"Kelas: " + doc.ClassName,
	}
	for i, s := range info {
		draw(column{x: marginX}, firstInfoY+float64(i)*infoLineSpace, s, fontRegular, sizeInfo)
	}

	y := headerRowY
	draw(column{x: colCode.x}, y, "Kode MK", fontBold, sizeTable)
	draw(column{x: colName.x}, y, "Nama Mata Kuliah", fontBold, sizeTable)
	draw(column{x: 13 * cm}, y, "SKS", fontBold, sizeTable)
	draw(column{x: 15 * cm}, y, "Nilai", fontBold, sizeTable)
	draw(column{x: 17 * cm}, y, "Huruf", fontBold, sizeTable)
	y += headerGap

	for _, l := range doc.Lines {
		draw(colCode, y, l.CourseCode, fontRegular, sizeTable)
		draw(colName, y, truncate(l.CourseName, nameMaxRunes), fontRegular, sizeTable)
		draw(colCredits, y, strconv.Itoa(l.Credits), fontRegular, sizeTable)
		draw(colScore, y, FormatScore(l.Score), fontRegular, sizeTable)
		draw(colLetter, y, l.Letter, fontRegular, sizeTable)

		y += rowStep
		if y > bottomLimit {
			pages = append(pages, page{})
			cur = &pages[len(pages)-1]
			y = titleY
		}
	}

	draw(column{x: marginX}, footerY, FooterText(doc.Summary), fontBold, sizeFooter)
	return pages
}

// FooterText is the summary line printed under the last course row.
func FooterText(s grading.Summary) string {
	return fmt.Sprintf("Total SKS: %d   IPK (4.0): %s", s.TotalCredits, grading.Format(s.GPA))
}

// FormatScore prints a score with one decimal, or "" when ungraded.
func FormatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}

// ContentType is the media type of a rendered transcript.
const ContentType = "application/pdf"

// Filename is the suggested download name for a student's transcript.
func Filename(studentCode string) string {
	return fmt.Sprintf("transcript_%s.pdf", studentCode)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
