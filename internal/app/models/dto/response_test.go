package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuccessResponseEnvelope(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"message": "User registered successfully"}, "")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, true, decoded["success"])
	assert.NotNil(t, decoded["data"])
	_, hasError := decoded["error"]
	assert.False(t, hasError)
}

func TestNewErrorResponseEnvelope(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeConflict, "User is already a member of this club")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.Nil(t, decoded["data"])

	errObj, ok := decoded["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", errObj["code"])
	assert.Equal(t, "User is already a member of this club", errObj["detail"])
}

func TestCodeForStatus(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:          ErrorCodeValidation,
		http.StatusUnauthorized:        ErrorCodeAuthentication,
		http.StatusForbidden:           ErrorCodePermissionDenied,
		http.StatusNotFound:            ErrorCodeNotFound,
		http.StatusMethodNotAllowed:    ErrorCodeMethodNotAllowed,
		http.StatusConflict:            ErrorCodeConflict,
		http.StatusTooManyRequests:     ErrorCodeThrottled,
		http.StatusInternalServerError: ErrorCodeServer,
		http.StatusBadGateway:          ErrorCodeServer,
	}

	for status, want := range cases {
		assert.Equal(t, want, CodeForStatus(status), "status %d", status)
	}
}

func TestNormalizeDetailString(t *testing.T) {
	assert.Equal(t, "Invalid token.", NormalizeDetail("Invalid token."))
}

func TestNormalizeDetailList(t *testing.T) {
	detail := []interface{}{"Password too short.", "Password too common."}
	assert.Equal(t, "Password too short. Password too common.", NormalizeDetail(detail))
}

func TestNormalizeDetailNestedDetailKey(t *testing.T) {
	detail := map[string]interface{}{"detail": "Not found."}
	assert.Equal(t, "Not found.", NormalizeDetail(detail))

	nested := map[string]interface{}{"detail": []interface{}{"a", "b"}}
	assert.Equal(t, "a b", NormalizeDetail(nested))
}

func TestNormalizeDetailFieldMap(t *testing.T) {
	detail := map[string]interface{}{
		"email":    []interface{}{"This field is required."},
		"password": []interface{}{"Too short.", "Too common."},
	}
	assert.Equal(t,
		"email: This field is required. | password: Too short. Too common.",
		NormalizeDetail(detail))
}

func TestNormalizeDetailNonFieldErrorsUnprefixed(t *testing.T) {
	detail := map[string]interface{}{
		"non_field_errors": []interface{}{"Passwords do not match."},
	}
	assert.Equal(t, "Passwords do not match.", NormalizeDetail(detail))
}

func TestNewPageResponse(t *testing.T) {
	page := NewPageResponse([]string{"a"}, 41, 2, 20)
	assert.Equal(t, int64(41), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 20, page.Size)

	empty := NewPageResponse([]string{}, 0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
}
