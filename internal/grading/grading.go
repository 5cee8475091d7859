// Package grading holds the university's grading policy: how a raw score on
// the 0–10 scale becomes a letter grade and a grade point, and how grade
// points roll up into a credit-weighted GPA.
package grading

import (
	"math"
	"strconv"
	"strings"
)

// Score bounds accepted anywhere a score enters the system.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Letter is a single-character letter grade.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

type band struct {
	min        float64
	letter     Letter
	gradePoint float64
}

// bands is ordered from the highest threshold down; the first band whose
// lower bound the score reaches wins.
var bands = []band{
	{min: 8.5, letter: LetterA, gradePoint: 4.0},
	{min: 7.0, letter: LetterB, gradePoint: 3.0},
	{min: 5.5, letter: LetterC, gradePoint: 2.0},
	{min: 4.0, letter: LetterD, gradePoint: 1.0},
}

// Result is the letter and grade point derived from a score.
// Graded is false when the score was absent; Letter and GradePoint are then zero values.
type Result struct {
	Letter     Letter  `json:"letter,omitempty"`
	GradePoint float64 `json:"grade_point"`
	Graded     bool    `json:"graded"`
}

// Classify maps a score to its letter grade and grade point.
// A nil score means "not yet graded" and yields an ungraded Result.
// Range checking is the caller's job; see ParseScore and ValidScore.
func Classify(score *float64) Result {
	if score == nil {
		return Result{}
	}
	for _, b := range bands {
		if *score >= b.min {
			return Result{Letter: b.letter, GradePoint: b.gradePoint, Graded: true}
		}
	}
	return Result{Letter: LetterF, GradePoint: 0.0, Graded: true}
}

// LetterOf is a shorthand returning the letter as a string, or "" when ungraded.
func LetterOf(score *float64) string {
	return string(Classify(score).Letter)
}

// ValidScore reports whether v lies in the accepted [0,10] range.
func ValidScore(v float64) bool {
	return !math.IsNaN(v) && v >= MinScore && v <= MaxScore
}

// Format prints v in its shortest form while keeping at least one decimal,
// so 8 prints "8.0" and 7.25 prints "7.25".
func Format(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ParseScore reads a score cell from an import file. Blank, non-numeric and
// out-of-range values are treated as absent rather than as errors.
// A comma decimal separator ("7,5") is accepted.
func ParseScore(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || !ValidScore(v) {
		return nil
	}
	return &v
}
