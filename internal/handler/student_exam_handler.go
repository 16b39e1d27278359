package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniexam/uniexam-backend/internal/middleware"
	"github.com/uniexam/uniexam-backend/internal/model"
	"github.com/uniexam/uniexam-backend/internal/response"
	"github.com/uniexam/uniexam-backend/internal/service"
	"github.com/uniexam/uniexam-backend/internal/validator"
)

// StudentExamHandler handles student-facing exam endpoints.
type StudentExamHandler struct {
	sessionService *service.ExamSessionService
}

// NewStudentExamHandler creates a new StudentExamHandler.
func NewStudentExamHandler(sessionService *service.ExamSessionService) *StudentExamHandler {
	return &StudentExamHandler{sessionService: sessionService}
}

// ListExams godoc
// GET /api/v1/student/exams
// Returns the exams the student is enrolled in with their session status.
func (h *StudentExamHandler) ListExams(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	exams, err := h.sessionService.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if exams == nil {
		exams = []service.StudentExam{}
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// GetQuestions godoc
// GET /api/v1/student/exams/:exam_id/questions
// Starts the student's session on first call and returns the question set
// without correctness data. Later calls return the same set in the same order.
func (h *StudentExamHandler) GetQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.sessionService.StartOrResume(c.Request.Context(), examID, claims.UserID, time.Now())
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// SaveAnswers godoc
// POST /api/v1/student/exams/:exam_id/answers
// Overwrites the session's answer sheet. With finished=true the session is
// closed and graded in the same request.
func (h *StudentExamHandler) SaveAnswers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.SaveAnswers(c.Request.Context(), examID, claims.UserID, req, time.Now())
	if err != nil {
		failFromService(c, err)
		return
	}

	data := gin.H{
		"status":            session.Status,
		"remaining_seconds": session.RemainingSeconds,
	}
	if session.Status == model.SessionStatusFinished {
		data["total_score"] = session.TotalScore
	}
	response.Success(c, http.StatusOK, data)
}

// GetState godoc
// GET /api/v1/student/exams/:exam_id/state
// Returns the saved answer sheet and remaining time so a reloaded client
// can pick up where it left off.
func (h *StudentExamHandler) GetState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.sessionService.State(c.Request.Context(), examID, claims.UserID, time.Now())
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Review godoc
// GET /api/v1/student/exams/:exam_id/review
// Returns the graded breakdown of a finished session with correctness revealed.
func (h *StudentExamHandler) Review(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	entries, total, err := h.sessionService.Review(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"entries":     entries,
		"total_score": total,
	})
}
