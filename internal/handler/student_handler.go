package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/response"
	"github.com/stemsi/unirecords-backend/internal/service"
	"github.com/stemsi/unirecords-backend/internal/transcript"
	"github.com/stemsi/unirecords-backend/internal/validator"
)

// StudentHandler handles student records and per-student grade views.
type StudentHandler struct {
	studentService    *service.StudentService
	gradeService      *service.GradeService
	transcriptService *service.TranscriptService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	studentService *service.StudentService,
	gradeService *service.GradeService,
	transcriptService *service.TranscriptService,
) *StudentHandler {
	return &StudentHandler{
		studentService:    studentService,
		gradeService:      gradeService,
		transcriptService: transcriptService,
	}
}

// ListStudents godoc
// GET /api/v1/students
// Lists students with pagination, optionally filtered by q over name, code and email.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var q model.ListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	students, pagination, err := h.studentService.List(c.Request.Context(), q)
	if err != nil {
		failWith(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}

// GetStudent godoc
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// CreateStudent godoc
// POST /api/v1/students
// Creates a new student. Code and email must be unique.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
// Deletes a student together with their enrollments.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student deleted successfully"})
}

// GetGPA godoc
// GET /api/v1/students/:id/gpa
// Returns the credit-weighted GPA on the 4-point scale and the graded credit total.
func (h *StudentHandler) GetGPA(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	summary, err := h.gradeService.StudentGPA(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// DownloadTranscript godoc
// GET /api/v1/students/:id/transcript
// Streams the transcript PDF of a student.
func (h *StudentHandler) DownloadTranscript(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	file, err := h.transcriptService.Render(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Attachment(c, file.Filename, transcript.ContentType, file.Content)
}
