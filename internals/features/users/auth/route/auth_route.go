// file: internals/features/users/auth/route/auth_route.go
package route

import (
	controller "sertifikatku_backend/internals/features/users/auth/controller"
	rateLimiter "sertifikatku_backend/internals/middlewares"
	authMiddleware "sertifikatku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	// ==========================
	// PUBLIC
	// Base: /api/auth
	// ==========================
	baseAuth := app.Group("/api/auth")

	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)

	// ==========================
	// PROTECTED
	// Base: /api/u/auth
	// ==========================
	protectedAuth := app.Group("/api/u/auth", authMiddleware.AuthMiddleware(db))
	protectedAuth.Get("/me", authController.Me)
}
