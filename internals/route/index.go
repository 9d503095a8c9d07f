// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikatku_backend/internals/blockchain"
	certRoute "sertifikatku_backend/internals/features/certificates/certificate/route"
	authRoute "sertifikatku_backend/internals/features/users/auth/route"
	rateLimiter "sertifikatku_backend/internals/middlewares"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, chain blockchain.ChainService) {
	// rate limiter global untuk semua endpoint
	app.Use(rateLimiter.GlobalRateLimiter())

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	log.Println("[INFO] Setting up CertificateRoutes...")
	certRoute.CertificateRoutes(app, db, chain)
}
