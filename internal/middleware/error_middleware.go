package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
)

// HandleAPIError translates an application error into the proper HTTP
// status and error envelope. Uniqueness violations surface as validation
// errors; duplicate membership is the one business conflict in the domain.
func HandleAPIError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := dto.ErrorCodeServer
	detail := "An unexpected error occurred."

	switch {
	case errors.Is(err, apperrors.ErrClubNotFound),
		errors.Is(err, apperrors.ErrFileNotFound),
		errors.Is(err, apperrors.ErrMembershipNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		code = dto.ErrorCodeNotFound
		detail = errorDetail(err, "Not found.")

	case errors.Is(err, apperrors.ErrMembershipExists),
		errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		code = dto.ErrorCodeConflict
		detail = errorDetail(err, "Conflict.")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		status = http.StatusForbidden
		code = dto.ErrorCodePermissionDenied
		detail = errorDetail(err, "You do not have permission to perform this action.")

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrAccountDisabled):
		status = http.StatusUnauthorized
		code = dto.ErrorCodeAuthentication
		detail = errorDetail(err, "No active account found with the given credentials.")

	// Refresh-token failures are validation errors to the caller: the
	// request body carried an unusable token value.
	case errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenNotFound),
		errors.Is(err, apperrors.ErrTokenRevoked):
		status = http.StatusBadRequest
		code = dto.ErrorCodeValidation
		detail = "Token is invalid or expired."

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		status = http.StatusBadRequest
		code = dto.ErrorCodeValidation
		detail = "email: A user with this email already exists."

	case errors.Is(err, apperrors.ErrStudentIDExists):
		status = http.StatusBadRequest
		code = dto.ErrorCodeValidation
		detail = "studentId: A user with this student id already exists."

	case errors.Is(err, apperrors.ErrUserNotFound):
		status = http.StatusBadRequest
		code = dto.ErrorCodeValidation
		detail = errorDetail(err, "userId: User does not exist.")

	case errors.Is(err, apperrors.ErrFileTooLarge),
		errors.Is(err, apperrors.ErrInvalidFileCategory),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		code = dto.ErrorCodeValidation
		detail = errorDetail(err, "Validation failed.")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, detail))
}

// HandleValidationError wraps a request-binding failure in the envelope.
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewErrorResponse(dto.ErrorCodeValidation, dto.NormalizeDetail(err.Error())))
}

// errorDetail prefers the message attached to a CustomError, falling back
// to a fixed default.
func errorDetail(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
