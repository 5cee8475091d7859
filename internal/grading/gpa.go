package grading

import "math"

// Entry is one enrollment as seen by the GPA aggregator.
// HasCourse is false when the enrollment's course reference could not be resolved.
type Entry struct {
	Score     *float64
	Credits   int
	HasCourse bool
}

// Summary is a student's credit-weighted GPA on the 4.0 scale.
type Summary struct {
	GPA          float64 `json:"gpa"`
	TotalCredits int     `json:"total_credits"`
}

// Aggregate computes the credit-weighted GPA of entries. Entries without a
// score or without a course are skipped. With no graded credits the GPA is 0.
func Aggregate(entries []Entry) Summary {
	var points float64
	var credits int

	for _, e := range entries {
		if e.Score == nil || !e.HasCourse {
			continue
		}
		points += Classify(e.Score).GradePoint * float64(e.Credits)
		credits += e.Credits
	}

	if credits == 0 {
		return Summary{GPA: 0, TotalCredits: 0}
	}
	return Summary{GPA: Round2(points / float64(credits)), TotalCredits: credits}
}

// Round2 rounds v half-up to two decimal places. The small epsilon absorbs
// binary representation error so that e.g. 2.675 rounds to 2.68.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5+1e-9) / 100
}
