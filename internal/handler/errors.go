package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/response"
	"github.com/stemsi/unirecords-backend/internal/service"
	"github.com/stemsi/unirecords-backend/internal/tabular"
)

// failWith writes the error envelope matching a service or repository error.
func failWith(c *gin.Context, err error) {
	var missing *service.MissingColumnsError
	switch {
	case errors.As(err, &missing):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrMissingColumns,
			"Kolom wajib tidak ditemukan: "+strings.Join(missing.Columns, ", "))
	case errors.Is(err, tabular.ErrUnsupportedFormat):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrInvalidFile):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFile)
	case errors.Is(err, repository.ErrDuplicateEnrollment):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateEnroll)
	case errors.Is(err, repository.ErrDuplicateStudent),
		errors.Is(err, repository.ErrDuplicateCourse),
		errors.Is(err, repository.ErrDuplicateEmail):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrReferenceMissing):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrReferenceMissing)
	case errors.Is(err, service.ErrStudentLinkRequired):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"student_id": "student_id is required for student accounts"})
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// paramID parses the :id path parameter, writing INVALID_ID on failure.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
