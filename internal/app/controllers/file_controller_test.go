package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/services"
	"github.com/sanghoon/clubhub/internal/middleware"
)

func newFileRouter() (*gin.Engine, *stubFileRepo, *stubClubRepo) {
	gin.SetMode(gin.TestMode)

	fileRepo := &stubFileRepo{}
	clubRepo := newStubClubRepo()
	svc := services.NewFileService(fileRepo, clubRepo, &stubStorage{}, 10*1024*1024)
	ctrl := NewFileController(svc, zerolog.Nop())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, int64(1))
		c.Set(middleware.ContextRoleKey, string(models.RoleAdmin))
	})
	router.GET("/files", ctrl.List)
	router.POST("/files/upload", ctrl.Upload)

	return router, fileRepo, clubRepo
}

func TestFileUploadFilePartsWithClubField(t *testing.T) {
	router, fileRepo, clubRepo := newFileRouter()
	clubRepo.clubs[7] = &models.Club{ID: 7, Name: "Rocket Club", Phase: models.PhaseOperating, IsActive: true}

	body, contentType := multipartBody(t,
		map[string]string{"club": "7", "category": "GENERAL"},
		"file", "a.pdf", "b.pdf")
	req := httptest.NewRequest("POST", "/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, fileRepo.created, 2)
	for _, file := range fileRepo.created {
		require.NotNil(t, file.ClubID)
		assert.Equal(t, int64(7), *file.ClubID)
	}
}

func TestFileUploadAcceptsFilesFieldName(t *testing.T) {
	router, fileRepo, _ := newFileRouter()

	body, contentType := multipartBody(t, nil, "files", "a.pdf")
	req := httptest.NewRequest("POST", "/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, fileRepo.created, 1)
	assert.Equal(t, "a.pdf", fileRepo.created[0].OriginalName)
}

func TestFileUploadRejectsBadClubParam(t *testing.T) {
	router, fileRepo, _ := newFileRouter()

	body, contentType := multipartBody(t, map[string]string{"club": "abc"}, "file", "a.pdf")
	req := httptest.NewRequest("POST", "/files/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fileRepo.created)
}

func TestFileListClubQueryParam(t *testing.T) {
	router, fileRepo, _ := newFileRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/files?club=7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fileRepo.lastListOpts.ClubID)
	assert.Equal(t, int64(7), *fileRepo.lastListOpts.ClubID)
}
