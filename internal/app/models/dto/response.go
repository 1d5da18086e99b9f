package dto

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes surfaced in the error envelope.
const (
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeAuthentication   = "AUTHENTICATION_ERROR"
	ErrorCodePermissionDenied = "PERMISSION_DENIED"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeThrottled        = "THROTTLED"
	ErrorCodeServer           = "SERVER_ERROR"
)

// ErrorDetail carries the machine-readable code and human-readable detail
// of a failed request.
type ErrorDetail struct {
	Code   string `json:"code" example:"VALIDATION_ERROR"`
	Detail string `json:"detail" example:"email: This field is required."`
}

// APIResponse is the uniform envelope every endpoint returns. Successful
// responses carry data and an optional message; failures carry a null data
// field and an error detail.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data"`
	Message *string      `json:"message,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// NewSuccessResponse wraps a payload in the success envelope. An empty
// message is rendered as null.
func NewSuccessResponse(data interface{}, message string) *APIResponse {
	resp := &APIResponse{
		Success: true,
		Data:    data,
	}
	if message != "" {
		resp.Message = &message
	}
	return resp
}

// NewErrorResponse builds the failure envelope for a given code and detail.
func NewErrorResponse(code, detail string) *APIResponse {
	return &APIResponse{
		Success: false,
		Data:    nil,
		Error: &ErrorDetail{
			Code:   code,
			Detail: detail,
		},
	}
}

// CodeForStatus maps an HTTP status code to an envelope error code. Used
// when no application error determined the code already.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrorCodeValidation
	case http.StatusUnauthorized:
		return ErrorCodeAuthentication
	case http.StatusForbidden:
		return ErrorCodePermissionDenied
	case http.StatusNotFound:
		return ErrorCodeNotFound
	case http.StatusMethodNotAllowed:
		return ErrorCodeMethodNotAllowed
	case http.StatusConflict:
		return ErrorCodeConflict
	case http.StatusTooManyRequests:
		return ErrorCodeThrottled
	default:
		return ErrorCodeServer
	}
}

// nonFieldErrorsKey is the cross-field error bucket whose messages carry no
// field prefix in the normalized detail string.
const nonFieldErrorsKey = "non_field_errors"

// NormalizeDetail collapses the possible error-detail shapes into a single
// human-readable string:
//   - a plain string is returned as-is
//   - a list is normalized element-wise and space-joined
//   - a map with a "detail" key recurses into that value
//   - any other map renders as "field: messages" pairs joined by " | ",
//     with non_field_errors contributing its messages unprefixed
func NormalizeDetail(detail interface{}) string {
	switch v := detail.(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, NormalizeDetail(item))
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(v, " ")
	case map[string]interface{}:
		if inner, ok := v["detail"]; ok {
			return NormalizeDetail(inner)
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			message := NormalizeDetail(v[key])
			if key == nonFieldErrorsKey {
				parts = append(parts, message)
			} else {
				parts = append(parts, key+": "+message)
			}
		}
		return strings.Join(parts, " | ")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
