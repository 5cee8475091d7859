package model

// ExamSchedule is a scheduled exam sitting for a course.
// ExamDate is a calendar date formatted as YYYY-MM-DD.
type ExamSchedule struct {
	ID         int     `json:"id"`
	CourseID   int     `json:"course_id"`
	CourseCode string  `json:"course_code"`
	CourseName string  `json:"course_name"`
	ExamDate   string  `json:"exam_date"`
	Room       *string `json:"room"`
	Note       *string `json:"note"`
}

// ExamScheduleRequest is the payload for creating or updating an exam schedule.
type ExamScheduleRequest struct {
	CourseID int     `json:"course_id" binding:"required,min=1"`
	ExamDate string  `json:"exam_date" binding:"required,datetime=2006-01-02"`
	Room     *string `json:"room" binding:"omitempty,max=50"`
	Note     *string `json:"note" binding:"omitempty,max=255"`
}
