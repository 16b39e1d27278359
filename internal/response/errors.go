package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden            ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly    ErrCode = "STUDENT_ACCESS_ONLY"
	ErrInstructorAccessOnly ErrCode = "INSTRUCTOR_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Exam access ───────────────────────────────────────────────────
	ErrExamLocked     ErrCode = "EXAM_LOCKED"
	ErrExamNotYetOpen ErrCode = "EXAM_NOT_YET_OPEN"
	ErrExamClosed     ErrCode = "EXAM_CLOSED"
	ErrExamCanceled   ErrCode = "EXAM_CANCELED"

	// ─── Exam sessions ─────────────────────────────────────────────────
	ErrSessionFinished    ErrCode = "SESSION_ALREADY_FINISHED"
	ErrSessionNotFinished ErrCode = "SESSION_NOT_FINISHED"
	ErrEmptyAnswerSheet   ErrCode = "EMPTY_ANSWER_SHEET"
	ErrUnknownQuestion    ErrCode = "UNKNOWN_QUESTION"
	ErrBadManifest        ErrCode = "MALFORMED_MANIFEST"
	ErrCancelWindow       ErrCode = "CANCEL_WINDOW_CLOSED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Username or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrInstructorAccessOnly:
		return "This resource is restricted to instructors."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Exam access ───────────────────────────────────────────────────
	case ErrExamLocked:
		return "This exam is currently locked."
	case ErrExamNotYetOpen:
		return "This exam has not opened yet."
	case ErrExamClosed:
		return "This exam has already closed."
	case ErrExamCanceled:
		return "This exam has been canceled."

	// ─── Exam sessions ─────────────────────────────────────────────────
	case ErrSessionFinished:
		return "This exam session has already been finished."
	case ErrSessionNotFinished:
		return "This exam session has not been finished yet."
	case ErrEmptyAnswerSheet:
		return "answer sheet must not be empty"
	case ErrUnknownQuestion:
		return "question information not found"
	case ErrBadManifest:
		return "The exam question manifest is malformed."
	case ErrCancelWindow:
		return "An exam can only be canceled before it begins."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
