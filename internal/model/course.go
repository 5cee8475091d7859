package model

import "time"

// Course is a subject offered for enrollment. Credits weight its grade in the GPA.
type Course struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultCredits applies when a course is created without a credit weight.
const DefaultCredits = 3

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=20"`
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Credits int    `json:"credits" binding:"omitempty,min=1,max=20"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=20"`
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Credits int    `json:"credits" binding:"required,min=1,max=20"`
}
