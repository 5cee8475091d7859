package handler

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/middleware"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/response"
	"github.com/stemsi/unirecords-backend/internal/service"
	"github.com/stemsi/unirecords-backend/internal/validator"
)

var importExtensions = map[string]bool{".xlsx": true, ".xlsm": true, ".csv": true}

// EnrollmentHandler handles enrollments, grade entry, bulk import and export.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	importService     *service.ImportService
	exportService     *service.ExportService
	maxUploadBytes    int64
	log               zerolog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(
	enrollmentService *service.EnrollmentService,
	importService *service.ImportService,
	exportService *service.ExportService,
	maxUploadBytes int64,
	log zerolog.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		importService:     importService,
		exportService:     exportService,
		maxUploadBytes:    maxUploadBytes,
		log:               log.With().Str("component", "enrollment_handler").Logger(),
	}
}

// ListEnrollments godoc
// GET /api/v1/enrollments
// Lists the most recent enrollments. Student tokens only see their own rows.
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	rows, err := h.enrollmentService.ListRecent(c.Request.Context(), claims.OwnStudentID())
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollments": rows})
}

// AssignEnrollment godoc
// POST /api/v1/enrollments
// Enrolls a student in a course, optionally entering the score.
func (h *EnrollmentHandler) AssignEnrollment(c *gin.Context) {
	var req model.AssignEnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Assign(c.Request.Context(), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// UpdateScore godoc
// PUT /api/v1/enrollments/:id/score
// Corrects or clears the score of an enrollment.
func (h *EnrollmentHandler) UpdateScore(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.UpdateScoreRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.UpdateScore(c.Request.Context(), id, req.Score)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollment": enrollment})
}

// DeleteEnrollment godoc
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.enrollmentService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "enrollment deleted successfully"})
}

// ImportGrades godoc
// POST /api/v1/enrollments/import
// Accepts a multipart "file" (.xlsx or .csv) with columns student_code,
// course_code, semester and score. Returns the inserted count and a per-row report.
func (h *EnrollmentHandler) ImportGrades(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !importExtensions[ext] {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFile)
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportFile(c.Request.Context(), fileHeader.Filename, file)
	if err != nil && summary != nil {
		// Rows before the failure are committed; report them with the error.
		_ = c.Error(err)
		h.log.Error().Err(err).
			Str("file", fileHeader.Filename).
			Int("inserted", summary.InsertedCount).
			Msg("Grade import aborted")
		response.FailWithData(c, http.StatusInternalServerError, response.ErrImportAborted, summary)
		return
	}
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// ExportGrades godoc
// GET /api/v1/enrollments/export
// Downloads enrollments as an .xlsx workbook. Student tokens only export their own rows.
func (h *EnrollmentHandler) ExportGrades(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.Export(c.Request.Context(), claims.OwnStudentID(), &buf); err != nil {
		failWith(c, err)
		return
	}

	response.Attachment(c, service.ExportFilename, service.ExportContentType, buf.Bytes())
}
