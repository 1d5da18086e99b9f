package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/app/services"
	"github.com/sanghoon/clubhub/internal/middleware"
	"github.com/sanghoon/clubhub/internal/pkg/helpers"
)

// ClubController handles club and membership operations
type ClubController struct {
	clubService *services.ClubService
	logger      zerolog.Logger
}

// NewClubController creates a new ClubController
func NewClubController(clubService *services.ClubService, logger zerolog.Logger) *ClubController {
	return &ClubController{
		clubService: clubService,
		logger:      logger,
	}
}

func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeValidation, name+": A valid integer is required."))
		return 0, false
	}
	return id, true
}

// List returns clubs visible to the caller
// @Summary List clubs
// @Description A STUDENT sees only clubs they belong to; LEADER and ADMIN see all active clubs. Supports name substring and phase filters.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "Case-insensitive name filter"
// @Param phase query string false "Exact phase filter"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PageResponse}
// @Router /clubs [get]
func (c *ClubController) List(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentUserRole(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.clubService.List(ctx.Request.Context(), userID, role, services.ClubListParams{
		Name:  ctx.Query("keyword"),
		Phase: ctx.Query("phase"),
		Page:  page,
		Size:  size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Get returns full club detail including the roster
// @Summary Club detail
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClubDetailResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id} [get]
func (c *ClubController) Get(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.clubService.Get(ctx.Request.Context(), clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail, ""))
}

// formLogo returns the optional "logo" file part of a multipart request,
// or nil when the request carries none.
func formLogo(ctx *gin.Context) *multipart.FileHeader {
	fileHeader, err := ctx.FormFile("logo")
	if err != nil {
		return nil
	}
	return fileHeader
}

// Create creates a new club with an optional logo image
// @Summary Create club
// @Tags clubs
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClubRequest true "Club information"
// @Param logo formData file false "Logo image"
// @Success 201 {object} dto.APIResponse{data=dto.ClubDetailResponse}
// @Failure 403 {object} dto.APIResponse "ADMIN only"
// @Router /clubs [post]
func (c *ClubController) Create(ctx *gin.Context) {
	var req dto.CreateClubRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	detail, err := c.clubService.Create(ctx.Request.Context(), &req, formLogo(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("clubID", detail.ID).Msg("Club created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(detail, ""))
}

// Update applies a partial update to a club
// @Summary Update club
// @Description Any subset of name, description, phase and logo. ADMIN or the club's own LEADER.
// @Tags clubs
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.UpdateClubRequest true "Fields to change"
// @Param logo formData file false "Logo image"
// @Success 200 {object} dto.APIResponse{data=dto.ClubDetailResponse}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id} [patch]
func (c *ClubController) Update(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateClubRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentUserRole(ctx)

	detail, err := c.clubService.Update(ctx.Request.Context(), clubID, userID, role, &req, formLogo(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail, ""))
}

// Delete soft-deletes a club
// @Summary Delete club
// @Description Soft delete; membership rows are not touched.
// @Tags clubs
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.APIResponse "ADMIN only"
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id} [delete]
func (c *ClubController) Delete(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.clubService.Delete(ctx.Request.Context(), clubID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("clubID", clubID).Msg("Club soft-deleted")
	ctx.Status(http.StatusNoContent)
}

// ListMembers returns a club's roster
// @Summary List club members
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubMemberResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id}/members [get]
func (c *ClubController) ListMembers(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	roster, err := c.clubService.GetMembers(ctx.Request.Context(), clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(roster, ""))
}

// AddMember adds a user to a club
// @Summary Add club member
// @Description ADMIN or the club's LEADER. Adding with role LEADER promotes a STUDENT user's global role.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.AddMemberRequest true "Target user and role"
// @Success 201 {object} dto.APIResponse{data=dto.ClubMemberResponse}
// @Failure 400 {object} dto.APIResponse "Unknown user"
// @Failure 409 {object} dto.APIResponse "Already a member"
// @Router /clubs/{id}/members [post]
func (c *ClubController) AddMember(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentUserRole(ctx)

	member, err := c.clubService.AddMember(ctx.Request.Context(), clubID, userID, role, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(member, ""))
}

// RemoveMember removes a user from a club
// @Summary Remove club member
// @Description Hard-deletes the membership row.
// @Tags clubs
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param userId path int true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.APIResponse
// @Router /clubs/{id}/members/{userId} [delete]
func (c *ClubController) RemoveMember(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentUserRole(ctx)

	if err := c.clubService.RemoveMember(ctx.Request.Context(), clubID, targetID, userID, role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
