package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/model"
	"github.com/uniexam/uniexam-backend/internal/response"
	"github.com/uniexam/uniexam-backend/internal/service"
	"github.com/uniexam/uniexam-backend/internal/validator"
)

// ExamAdminHandler handles instructor-facing exam management endpoints.
type ExamAdminHandler struct {
	examService *service.ExamService
}

// NewExamAdminHandler creates a new ExamAdminHandler.
func NewExamAdminHandler(examService *service.ExamService) *ExamAdminHandler {
	return &ExamAdminHandler{examService: examService}
}

// Create godoc
// POST /api/v1/instructor/exams
// Creates an exam with its question manifest and bulk-enrolls the listed students.
func (h *ExamAdminHandler) Create(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), req)
	if err != nil {
		// A manifest that passes binding can still be invalid, for
		// example duplicated question ids. That is the caller's fault,
		// not a corrupted stored exam.
		if errors.Is(err, model.ErrMalformedManifest) {
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrBadManifest)
			return
		}
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// Get godoc
// GET /api/v1/instructor/exams/:exam_id
func (h *ExamAdminHandler) Get(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// List godoc
// GET /api/v1/instructor/exams
func (h *ExamAdminHandler) List(c *gin.Context) {
	exams, err := h.examService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if exams == nil {
		exams = []model.Exam{}
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Cancel godoc
// POST /api/v1/instructor/exams/:exam_id/cancel
// Cancels an exam. Allowed only before the exam window opens.
func (h *ExamAdminHandler) Cancel(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exam, err := h.examService.Cancel(c.Request.Context(), examID, time.Now())
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// Results godoc
// GET /api/v1/instructor/exams/:exam_id/results
// Returns per-student results. An optional ?user_id= narrows to one student.
func (h *ExamAdminHandler) Results(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var userID *int
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		userID = &id
	}

	results, err := h.examService.Results(c.Request.Context(), examID, userID)
	if err != nil {
		failFromService(c, err)
		return
	}
	if results == nil {
		results = []model.ExamResult{}
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
