package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniexam/uniexam-backend/internal/model"
	"github.com/uniexam/uniexam-backend/internal/repository"
	"github.com/uniexam/uniexam-backend/internal/response"
	"github.com/uniexam/uniexam-backend/internal/service"
)

// failFromService maps service-layer errors onto the response envelope.
// Unmapped errors fall through to a 500.
func failFromService(c *gin.Context, err error) {
	if denied, ok := service.AsAccessDenied(err); ok {
		response.Fail(c, http.StatusForbidden, accessReasonCode(denied.Reason))
		return
	}

	var qnf *service.QuestionNotFoundError
	switch {
	case errors.As(err, &qnf):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrUnknownQuestion, qnf.Error())
	case errors.Is(err, service.ErrAlreadyFinished):
		response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
	case errors.Is(err, service.ErrSessionNotFinished):
		response.Fail(c, http.StatusConflict, response.ErrSessionNotFinished)
	case errors.Is(err, service.ErrEmptyAnswerSheet):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyAnswerSheet)
	case errors.Is(err, service.ErrQuestionInfoNotFound):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnknownQuestion)
	case errors.Is(err, service.ErrCancelWindowClosed):
		response.Fail(c, http.StatusConflict, response.ErrCancelWindow)
	case errors.Is(err, model.ErrMalformedManifest):
		response.Fail(c, http.StatusInternalServerError, response.ErrBadManifest)
	case errors.Is(err, repository.ErrVersionConflict):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func accessReasonCode(reason service.AccessReason) response.ErrCode {
	switch reason {
	case service.AccessLocked:
		return response.ErrExamLocked
	case service.AccessNotYetOpen:
		return response.ErrExamNotYetOpen
	case service.AccessClosed:
		return response.ErrExamClosed
	case service.AccessCanceled:
		return response.ErrExamCanceled
	default:
		return response.ErrForbidden
	}
}
