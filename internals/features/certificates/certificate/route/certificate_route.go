// file: internals/features/certificates/certificate/route/certificate_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikatku_backend/internals/blockchain"
	"sertifikatku_backend/internals/constants"
	controller "sertifikatku_backend/internals/features/certificates/certificate/controller"
	rateLimiter "sertifikatku_backend/internals/middlewares"
	authMiddleware "sertifikatku_backend/internals/middlewares/auth"
)

func CertificateRoutes(app *fiber.App, db *gorm.DB, chain blockchain.ChainService) {
	certController := controller.NewCertificateController(db, chain)
	shareController := controller.NewShareLinkController(db)

	// ==========================
	// PUBLIC (tanpa login)
	// Base: /api/certificates
	// ==========================
	public := app.Group("/api/certificates")
	public.Post("/verify", rateLimiter.VerifyRateLimiter(), certController.Verify)
	// daftar dulu /share/:token supaya tidak ketangkap /:id
	public.Get("/share/:token", shareController.Resolve)
	public.Get("/:id", certController.GetByID)

	// ==========================
	// PRIVATE (login, role apapun)
	// Base: /api/u/certificates
	// ==========================
	user := app.Group("/api/u/certificates", authMiddleware.AuthMiddleware(db))
	user.Get("/my-certificates", certController.MyCertificates)
	user.Post("/:id/share", shareController.Create)
	user.Post("/share/:token/deactivate", shareController.Deactivate)

	// ==========================
	// ISSUER (login + role issuer/admin)
	// Base: /api/a/certificates
	// ==========================
	issuer := app.Group("/api/a/certificates",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorIssuer("sertifikat"), constants.IssuerAndAbove...),
	)
	issuer.Post("/issue", certController.Issue)
	issuer.Get("/issued", certController.Issued)
	issuer.Post("/:id/revoke", certController.Revoke)
}
