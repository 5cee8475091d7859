package model

// ClassSchedule is one weekly timetable slot of a course.
// Weekday follows ISO numbering: 1 is Monday, 7 is Sunday.
type ClassSchedule struct {
	ID         int     `json:"id"`
	CourseID   int     `json:"course_id"`
	CourseCode string  `json:"course_code"`
	CourseName string  `json:"course_name"`
	Weekday    int     `json:"weekday"`
	TimeSlot   string  `json:"time_slot"`
	Room       *string `json:"room"`
}

// ClassScheduleRequest is the payload for creating or updating a timetable slot.
type ClassScheduleRequest struct {
	CourseID int     `json:"course_id" binding:"required,min=1"`
	Weekday  int     `json:"weekday" binding:"required,min=1,max=7"`
	TimeSlot string  `json:"time_slot" binding:"required,max=50"`
	Room     *string `json:"room" binding:"omitempty,max=50"`
}
