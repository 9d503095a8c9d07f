package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certDTO "sertifikatku_backend/internals/features/certificates/certificate/dto"
	certService "sertifikatku_backend/internals/features/certificates/certificate/service"
	helper "sertifikatku_backend/internals/helpers"
)

type ShareLinkController struct {
	DB      *gorm.DB
	Service *certService.ShareLinkService
}

func NewShareLinkController(db *gorm.DB) *ShareLinkController {
	return &ShareLinkController{
		DB:      db,
		Service: certService.NewShareLinkService(db),
	}
}

// POST /api/u/certificates/:id/share
func (ctrl *ShareLinkController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req certDTO.CreateShareLinkRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
	}

	link, err := ctrl.Service.Create(c.UserContext(), userID, c.Params("id"), req.ExpiresInDays)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonCreated(c, "Share link berhasil dibuat", fiber.Map{
		"share_link": certDTO.ToShareLinkResponse(link),
		"share_url":  "/verify/share/" + link.ShareLinkToken,
	})
}

// GET /api/certificates/share/:token (public)
func (ctrl *ShareLinkController) Resolve(c *fiber.Ctx) error {
	link, cert, err := ctrl.Service.Resolve(c.UserContext(), c.Params("token"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonOK(c, "ok", certDTO.SharedCertificateResponse{
		Certificate: certDTO.ToCertificateResponse(cert),
		ShareLink:   certDTO.ToShareLinkResponse(link),
	})
}

// POST /api/u/certificates/share/:token/deactivate
func (ctrl *ShareLinkController) Deactivate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	link, err := ctrl.Service.Deactivate(c.UserContext(), userID, c.Params("token"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonUpdated(c, "Share link dinonaktifkan", certDTO.ToShareLinkResponse(link))
}
