package model

import "time"

// Enrollment registers a student for a course in a semester.
// A nil Score means the enrollment has not been graded yet.
type Enrollment struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	CourseID  int       `json:"course_id"`
	Semester  *string   `json:"semester"`
	Score     *float64  `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrollmentDetail is an enrollment joined with its student and course.
// Course is nil when the course reference could not be resolved.
type EnrollmentDetail struct {
	Enrollment
	StudentCode  string     `json:"student_code"`
	StudentName  string     `json:"student_name"`
	StudentEmail string     `json:"student_email"`
	Course       *CourseRef `json:"course"`
	Letter       string     `json:"letter,omitempty"`
}

// CourseRef is the part of a course shown alongside an enrollment.
type CourseRef struct {
	ID      int    `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// AssignEnrollmentRequest registers a student for a course, optionally with a score.
type AssignEnrollmentRequest struct {
	StudentID int      `json:"student_id" binding:"required,min=1"`
	CourseID  int      `json:"course_id" binding:"required,min=1"`
	Semester  *string  `json:"semester" binding:"omitempty,max=10"`
	Score     *float64 `json:"score" binding:"omitempty,score"`
}

// UpdateScoreRequest corrects the score of an enrollment. A null score clears it.
type UpdateScoreRequest struct {
	Score *float64 `json:"score" binding:"omitempty,score"`
}
