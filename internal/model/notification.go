package model

// SendMailRequest is the payload for a manually sent email. When Score is
// present the grade notification template is used instead of Subject and Body.
type SendMailRequest struct {
	To         string   `json:"to" binding:"required,email"`
	Subject    string   `json:"subject" binding:"omitempty,max=200"`
	Body       string   `json:"body" binding:"omitempty,max=5000"`
	CourseName string   `json:"course_name" binding:"omitempty,max=120"`
	Score      *float64 `json:"score" binding:"omitempty,score"`
}
