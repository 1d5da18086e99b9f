package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/app/services"
	"github.com/sanghoon/clubhub/internal/middleware"
	"github.com/sanghoon/clubhub/internal/pkg/helpers"
)

// FileController handles file upload and metadata operations
type FileController struct {
	fileService *services.FileService
	logger      zerolog.Logger
}

// NewFileController creates a new FileController
func NewFileController(fileService *services.FileService, logger zerolog.Logger) *FileController {
	return &FileController{
		fileService: fileService,
		logger:      logger,
	}
}

// Upload stores one or more files from a multipart request
// @Summary Upload files
// @Description Accepts multiple files, an optional category (defaults to GENERAL) and an optional owning club id. One oversized file fails the whole batch.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Files to upload"
// @Param category formData string false "File category"
// @Param club formData int false "Owning club ID"
// @Success 201 {object} dto.APIResponse{data=[]dto.FileResponse}
// @Failure 400 {object} dto.APIResponse "Invalid category or oversized file"
// @Failure 404 {object} dto.APIResponse "Unknown club"
// @Router /files/upload [post]
func (c *FileController) Upload(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeValidation, "A multipart form is required."))
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		// Some clients post multiple parts under "files".
		files = form.File["files"]
	}

	var clubID *int64
	if raw := ctx.PostForm("club"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			ctx.JSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrorCodeValidation, "club: A valid integer is required."))
			return
		}
		clubID = &id
	}

	uploaderID, _ := middleware.CurrentUserID(ctx)

	responses, err := c.fileService.Upload(ctx.Request.Context(), uploaderID, files, ctx.PostForm("category"), clubID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("uploaderID", uploaderID).Msg("Upload rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(responses, ""))
}

// List returns a page of file metadata
// @Summary List files
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param club query int false "Owning club filter"
// @Param category query string false "Category filter"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Router /files [get]
func (c *FileController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	params := services.FileListParams{
		Category: ctx.Query("category"),
		Page:     page,
		Size:     size,
	}

	if raw := ctx.Query("club"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			ctx.JSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrorCodeValidation, "club: A valid integer is required."))
			return
		}
		params.ClubID = &id
	}

	resp, err := c.fileService.List(ctx.Request.Context(), params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Get returns one file's metadata with its resolved URL
// @Summary File metadata
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path int true "File ID"
// @Success 200 {object} dto.APIResponse{data=dto.FileResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /files/{id} [get]
func (c *FileController) Get(ctx *gin.Context) {
	fileID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.fileService.Get(ctx.Request.Context(), fileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Delete soft-deletes a file record
// @Summary Delete file
// @Tags files
// @Security BearerAuth
// @Param id path int true "File ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse
// @Router /files/{id} [delete]
func (c *FileController) Delete(ctx *gin.Context) {
	fileID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.fileService.Delete(ctx.Request.Context(), fileID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("fileID", fileID).Msg("File soft-deleted")
	ctx.Status(http.StatusNoContent)
}
