package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikatku_backend/internals/blockchain"
	certDTO "sertifikatku_backend/internals/features/certificates/certificate/dto"
	certService "sertifikatku_backend/internals/features/certificates/certificate/service"
	helper "sertifikatku_backend/internals/helpers"
)

type CertificateController struct {
	DB      *gorm.DB
	Service *certService.CertificateService
}

func NewCertificateController(db *gorm.DB, chain blockchain.ChainService) *CertificateController {
	return &CertificateController{
		DB:      db,
		Service: certService.NewCertificateService(db, chain),
	}
}

// POST /api/a/certificates/issue
func (ctrl *CertificateController) Issue(c *fiber.Ctx) error {
	issuerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req certDTO.IssueCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	cert, err := ctrl.Service.Issue(c.UserContext(), issuerID, req)
	if err != nil {
		// ⚠️ Anchoring gagal tapi record tetap tersimpan (status failed) —
		// kembalikan 500 BESERTA record-nya, jangan hilangkan jejak
		if cert != nil {
			return helper.JsonErrorWithData(c, fiber.StatusInternalServerError,
				"Gagal menyimpan sertifikat ke blockchain: "+err.Error(),
				fiber.Map{"certificate": certDTO.ToCertificateResponse(cert)})
		}
		return helper.FromFiberError(c, err)
	}

	return helper.JsonCreated(c, "Sertifikat berhasil diterbitkan", certDTO.ToCertificateResponse(cert))
}

// POST /api/certificates/verify (public)
func (ctrl *CertificateController) Verify(c *fiber.Ctx) error {
	var req certDTO.VerifyCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	result, err := ctrl.Service.Verify(c.UserContext(), req.CertificateHash, req.CertificateID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	resp := certDTO.VerifyCertificateResponse{
		Verified:           result.Verified,
		Reason:             result.Reason,
		BlockchainVerified: result.Verified,
		BlockchainChecked:  result.ChainChecked,
		Message:            verifyMessage(result),
	}
	if result.Certificate != nil {
		certResp := certDTO.ToCertificateResponse(result.Certificate)
		resp.Certificate = &certResp
	}

	return helper.JsonOK(c, "ok", resp)
}

// verifyMessage: teks untuk end user. "Tidak bisa dicek" HARUS dibedakan
// dari "dicek dan tidak ada" — jangan disamakan.
func verifyMessage(result *certService.VerifyResult) string {
	if result.Verified {
		return "Sertifikat terverifikasi"
	}
	switch result.Reason {
	case certService.VerifyReasonRevoked:
		return "Sertifikat sudah dicabut"
	case certService.VerifyReasonHashMismatch:
		return "Data sertifikat tidak cocok dengan hash tersimpan"
	case certService.VerifyReasonChainUnreachable:
		return "Sertifikat tidak dapat diverifikasi: blockchain tidak terjangkau"
	default:
		return "Sertifikat tidak ditemukan di blockchain"
	}
}

// GET /api/certificates/:id (public)
func (ctrl *CertificateController) GetByID(c *fiber.Ctx) error {
	cert, err := ctrl.Service.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", certDTO.ToCertificateResponse(cert))
}

// GET /api/u/certificates/my-certificates
func (ctrl *CertificateController) MyCertificates(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	certs, total, err := ctrl.Service.ListByOwner(c.UserContext(), userID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ok", certDTO.ToCertificateResponses(certs), &pagination)
}

// GET /api/a/certificates/issued
func (ctrl *CertificateController) Issued(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	certs, total, err := ctrl.Service.ListByIssuer(c.UserContext(), userID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ok", certDTO.ToCertificateResponses(certs), &pagination)
}

// POST /api/a/certificates/:id/revoke
func (ctrl *CertificateController) Revoke(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetRoleFromToken(c)

	cert, err := ctrl.Service.Revoke(c.UserContext(), c.Params("id"), userID, role)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonUpdated(c, "Sertifikat berhasil dicabut", certDTO.ToCertificateResponse(cert))
}
