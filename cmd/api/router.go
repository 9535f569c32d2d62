package api

import (
	"net/http"

	"github.com/maniishbhandarii/learning-backend-app/internal/auth/delivery"
	authUsecase "github.com/maniishbhandarii/learning-backend-app/internal/auth/usecase"
	"github.com/maniishbhandarii/learning-backend-app/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUc, cfg)

	api := r.Group("/api/v1")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.POST("/refresh-token", authHandler.RefreshToken)

			protected := users.Group("")
			protected.Use(delivery.AuthMiddleware(authUc))
			{
				protected.POST("/logout", authHandler.Logout)
				protected.POST("/change-password", authHandler.ChangePassword)
				protected.GET("/current-user", authHandler.CurrentUser)
				protected.PATCH("/update-account", authHandler.UpdateAccount)
				protected.PATCH("/avatar", authHandler.UpdateAvatar)
				protected.PATCH("/cover-image", authHandler.UpdateCoverImage)
			}
		}
	}
}
