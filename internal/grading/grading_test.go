package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		score  *float64
		letter Letter
		gp     float64
	}{
		{"zero", ptr(0), LetterF, 0.0},
		{"just below D", ptr(3.99), LetterF, 0.0},
		{"D boundary", ptr(4.0), LetterD, 1.0},
		{"just below C", ptr(5.49), LetterD, 1.0},
		{"C boundary", ptr(5.5), LetterC, 2.0},
		{"just below B", ptr(6.99), LetterC, 2.0},
		{"B boundary", ptr(7.0), LetterB, 3.0},
		{"just below A", ptr(8.49), LetterB, 3.0},
		{"A boundary", ptr(8.5), LetterA, 4.0},
		{"max", ptr(10), LetterA, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.score)
			assert.True(t, got.Graded)
			assert.Equal(t, tt.letter, got.Letter)
			assert.Equal(t, tt.gp, got.GradePoint)
		})
	}
}

func TestClassifyAbsent(t *testing.T) {
	got := Classify(nil)
	assert.False(t, got.Graded)
	assert.Empty(t, got.Letter)
	assert.Zero(t, got.GradePoint)
	assert.Equal(t, "", LetterOf(nil))
}

func TestClassifyEveryTenthInRange(t *testing.T) {
	valid := map[Letter]bool{LetterA: true, LetterB: true, LetterC: true, LetterD: true, LetterF: true}
	for i := 0; i < 100; i++ {
		s := float64(i) / 10
		got := Classify(&s)
		assert.Truef(t, valid[got.Letter], "score %.1f gave %q", s, got.Letter)
	}
}

func TestAggregate(t *testing.T) {
	t.Run("no entries", func(t *testing.T) {
		assert.Equal(t, Summary{}, Aggregate(nil))
	})

	t.Run("only ungraded", func(t *testing.T) {
		got := Aggregate([]Entry{{Score: nil, Credits: 3, HasCourse: true}})
		assert.Equal(t, Summary{GPA: 0, TotalCredits: 0}, got)
	})

	t.Run("weighted average", func(t *testing.T) {
		got := Aggregate([]Entry{
			{Score: ptr(9.0), Credits: 3, HasCourse: true},
			{Score: ptr(7.2), Credits: 4, HasCourse: true},
		})
		assert.Equal(t, 3.43, got.GPA)
		assert.Equal(t, 7, got.TotalCredits)
	})

	t.Run("both B grades", func(t *testing.T) {
		got := Aggregate([]Entry{
			{Score: ptr(8.0), Credits: 3, HasCourse: true},
			{Score: ptr(7.2), Credits: 4, HasCourse: true},
		})
		assert.Equal(t, Summary{GPA: 3.0, TotalCredits: 7}, got)
	})

	t.Run("skips unresolved course and missing score", func(t *testing.T) {
		got := Aggregate([]Entry{
			{Score: ptr(9.0), Credits: 2, HasCourse: true},
			{Score: ptr(1.0), Credits: 5, HasCourse: false},
			{Score: nil, Credits: 4, HasCourse: true},
		})
		assert.Equal(t, Summary{GPA: 4.0, TotalCredits: 2}, got)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.43, Round2(24.0/7))
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 4.0, Round2(4))
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"-1", nil},
		{"10.5", nil},
		{"NaN", nil},
		{"7.5", ptr(7.5)},
		{" 8 ", ptr(8)},
		{"6,25", ptr(6.25)},
		{"0", ptr(0)},
		{"10", ptr(10)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScore(tt.raw))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.0", Format(0))
	assert.Equal(t, "8.0", Format(8))
	assert.Equal(t, "7.25", Format(7.25))
	assert.Equal(t, "3.43", Format(3.43))
}
