package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
	"github.com/sanghoon/clubhub/internal/pkg/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "clubhub.test",
	})
}

func newAuthRouter(m *AuthMiddleware, roles ...models.RoleType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", m.JWTAuth())
	if len(roles) > 0 {
		group.Use(m.RoleRequired(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		userID, _ := CurrentUserID(c)
		role, _ := CurrentUserRole(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": string(role)})
	})
	return r
}

func TestJWTAuthMissingHeader(t *testing.T) {
	m := NewAuthMiddleware(newTestJWTService())
	r := newAuthRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, dto.ErrorCodeAuthentication, errObj["code"])
}

func TestJWTAuthInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(newTestJWTService())
	r := newAuthRouter(m)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthValidTokenSetsContext(t *testing.T) {
	svc := newTestJWTService()
	m := NewAuthMiddleware(svc)
	r := newAuthRouter(m)

	token, err := svc.GenerateAccessToken(&models.User{
		ID:       42,
		Email:    "kim@example.com",
		RoleType: models.RoleStudent,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["userId"])
	assert.Equal(t, "STUDENT", body["role"])
}

func TestRoleRequiredRejectsWrongRole(t *testing.T) {
	svc := newTestJWTService()
	m := NewAuthMiddleware(svc)
	r := newAuthRouter(m, models.RoleAdmin)

	token, err := svc.GenerateAccessToken(&models.User{
		ID:       7,
		Email:    "student@example.com",
		RoleType: models.RoleStudent,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleRequiredAllowsAnyListedRole(t *testing.T) {
	svc := newTestJWTService()
	m := NewAuthMiddleware(svc)
	r := newAuthRouter(m, models.RoleAdmin, models.RoleLeader)

	token, err := svc.GenerateAccessToken(&models.User{
		ID:       8,
		Email:    "leader@example.com",
		RoleType: models.RoleLeader,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleAPIErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apperrors.ErrClubNotFound, http.StatusNotFound, dto.ErrorCodeNotFound},
		{apperrors.ErrMembershipExists, http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodePermissionDenied},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeAuthentication},
		{apperrors.ErrTokenExpired, http.StatusBadRequest, dto.ErrorCodeValidation},
		{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeValidation},
		{apperrors.ErrUserNotFound, http.StatusBadRequest, dto.ErrorCodeValidation},
		{apperrors.ErrFileTooLarge, http.StatusBadRequest, dto.ErrorCodeValidation},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeServer},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		HandleAPIError(c, tc.err)

		assert.Equal(t, tc.wantStatus, w.Code, "error %v", tc.err)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		errObj := body["error"].(map[string]interface{})
		assert.Equal(t, tc.wantCode, errObj["code"], "error %v", tc.err)
	}
}

func TestHandleAPIErrorUsesCustomMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	HandleAPIError(c, apperrors.NewConflictError("User is already a member of this club"))

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "User is already a member of this club", errObj["detail"])
}
