package model

import "time"

// Student is a person enrolled at the university. Code is the student number (NIM).
type Student struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	ClassName *string   `json:"class_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	Code      string  `json:"code" binding:"required,min=1,max=20"`
	FullName  string  `json:"full_name" binding:"required,min=2,max=120"`
	Email     string  `json:"email" binding:"required,email,max=120"`
	ClassName *string `json:"class_name" binding:"omitempty,max=50"`
}

// UpdateStudentRequest is the payload for updating a student.
type UpdateStudentRequest struct {
	Code      string  `json:"code" binding:"required,min=1,max=20"`
	FullName  string  `json:"full_name" binding:"required,min=2,max=120"`
	Email     string  `json:"email" binding:"required,email,max=120"`
	ClassName *string `json:"class_name" binding:"omitempty,max=50"`
}

// ListQuery is the common search + pagination query for list endpoints.
type ListQuery struct {
	Q       string `form:"q" binding:"omitempty,max=100"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in pagination defaults.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
}

// Offset is the row offset of the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}
