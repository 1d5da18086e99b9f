package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanghoon/clubhub/internal/app/controllers"
	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	clubController *controllers.ClubController,
	fileController *controllers.FileController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound,
			dto.NewErrorResponse(dto.ErrorCodeNotFound, "Not found."))
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed,
			dto.NewErrorResponse(dto.ErrorCodeMethodNotAllowed, "Method not allowed."))
	})

	api := router.Group("/api")

	// --- Public account routes ---
	accounts := api.Group("/accounts")
	{
		accounts.POST("/register", authController.Register)
		accounts.POST("/login", authController.Login)
		accounts.POST("/token/refresh", authController.Refresh)
		accounts.GET("/me", authMiddleware.JWTAuth(), authController.Me)
	}

	// --- Club routes (all authenticated) ---
	clubs := api.Group("/clubs")
	clubs.Use(authMiddleware.JWTAuth())
	{
		clubs.GET("", clubController.List)
		clubs.GET("/:id", clubController.Get)
		clubs.GET("/:id/members", clubController.ListMembers)

		// ADMIN-only mutations
		clubsAdmin := clubs.Group("")
		clubsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			clubsAdmin.POST("", clubController.Create)
			clubsAdmin.DELETE("/:id", clubController.Delete)
		}

		// ADMIN or the club's own LEADER; ownership is checked in the service
		clubs.PATCH("/:id", clubController.Update)
		clubs.POST("/:id/members", clubController.AddMember)
		clubs.DELETE("/:id/members/:userId", clubController.RemoveMember)
	}

	// --- File routes (all authenticated) ---
	files := api.Group("/files")
	files.Use(authMiddleware.JWTAuth())
	{
		files.GET("", fileController.List)
		files.POST("/upload", fileController.Upload)
		files.GET("/:id", fileController.Get)
		files.DELETE("/:id", fileController.Delete)
	}

	// Health check endpoint (public)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
