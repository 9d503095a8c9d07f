package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sertifikatku_backend/internals/blockchain"
	"sertifikatku_backend/internals/constants"
	certDTO "sertifikatku_backend/internals/features/certificates/certificate/dto"
	certModel "sertifikatku_backend/internals/features/certificates/certificate/model"
	userModel "sertifikatku_backend/internals/features/users/user/model"
)

const issueDateLayout = "2006-01-02"

// Alasan hasil verifikasi (reason di response)
const (
	VerifyReasonRevoked          = "revoked"
	VerifyReasonHashMismatch     = "hash_mismatch"
	VerifyReasonNotOnChain       = "not_on_chain"
	VerifyReasonChainUnreachable = "chain_unreachable"
)

// CertificateService mengatur siklus hidup sertifikat:
// issue (hash + simpan + anchor), verify, revoke, listing.
type CertificateService struct {
	DB    *gorm.DB
	Chain blockchain.ChainService
}

func NewCertificateService(db *gorm.DB, chain blockchain.ChainService) *CertificateService {
	return &CertificateService{DB: db, Chain: chain}
}

type VerifyResult struct {
	Verified     bool
	Reason       string
	ChainChecked bool
	Certificate  *certModel.CertificateModel
}

// ==========================================================
// ISSUE
// ==========================================================
// Alur: validasi → hitung hash → simpan record pending → anchor ke chain →
// transisi status. Kalau anchoring gagal, record TIDAK di-rollback:
// status jadi failed dan record dikembalikan bersama errornya
// (jejak "sudah dicoba dan gagal" lebih berguna daripada tidak ada record).
func (s *CertificateService) Issue(ctx context.Context, issuerID uuid.UUID, req certDTO.IssueCertificateRequest) (*certModel.CertificateModel, error) {
	studentName := strings.TrimSpace(req.StudentName)
	courseName := strings.TrimSpace(req.CourseName)
	if studentName == "" || courseName == "" || strings.TrimSpace(req.OwnerID) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "student_name, course_name, dan owner_id wajib diisi")
	}

	ownerID, err := uuid.Parse(strings.TrimSpace(req.OwnerID))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "owner_id tidak valid")
	}

	// 🔍 Pastikan owner terdaftar
	var owner userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Owner tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	// 🗓️ Parse tanggal (default: hari ini, UTC)
	issueDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.IssueDate != "" {
		parsed, err := time.Parse(issueDateLayout, req.IssueDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Format issue_date tidak valid. Gunakan YYYY-MM-DD")
		}
		issueDate = parsed
	}
	var expirationDate *time.Time
	if req.ExpirationDate != "" {
		parsed, err := time.Parse(issueDateLayout, req.ExpirationDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Format expiration_date tidak valid. Gunakan YYYY-MM-DD")
		}
		expirationDate = &parsed
	}

	var metadata datatypes.JSON
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "metadata tidak valid")
		}
		metadata = datatypes.JSON(raw)
	}

	issueDateStr := issueDate.Format(issueDateLayout)
	certHash := ComputeCertificateHash(studentName, courseName, issueDateStr, issuerID.String(), ownerID.String())

	cert := certModel.CertificateModel{
		CertificateOwnerID:          ownerID,
		CertificateIssuerID:         issuerID,
		CertificateStudentName:      studentName,
		CertificateCourseName:       courseName,
		CertificateIssueDate:        issueDate,
		CertificateExpirationDate:   expirationDate,
		CertificateMetadata:         metadata,
		CertificateHash:             certHash,
		CertificateBlockchainStatus: certModel.BlockchainStatusPending,
	}

	// 💾 Simpan record pending dulu (dapat certificate_id)
	if err := s.DB.WithContext(ctx).Create(&cert).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, fiber.NewError(fiber.StatusConflict, "Sertifikat dengan data identik sudah pernah diterbitkan")
		}
		log.Printf("[ERROR] simpan sertifikat: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan sertifikat")
	}

	// ⛓️ Anchor ke blockchain (blocking, dibatasi timeout adapter)
	txHash, anchorErr := s.Chain.Anchor(ctx, cert.CertificateID.String(), certHash, studentName, courseName, issueDateStr)
	if anchorErr != nil {
		log.Printf("[ERROR] anchoring %s gagal: %v", cert.CertificateID, anchorErr)
		s.transitionAnchorStatus(ctx, &cert, certModel.BlockchainStatusFailed, nil)
		return &cert, anchorErr
	}

	s.transitionAnchorStatus(ctx, &cert, certModel.BlockchainStatusConfirmed, &txHash)
	return &cert, nil
}

// transitionAnchorStatus: pending → confirmed|failed, sekali saja.
// Guard WHERE status='pending' + row_version supaya request yang balapan
// tidak menimpa transisi yang sudah terjadi.
func (s *CertificateService) transitionAnchorStatus(ctx context.Context, cert *certModel.CertificateModel, status string, txHash *string) {
	updates := map[string]interface{}{
		"certificate_blockchain_status": status,
		"certificate_row_version":       gorm.Expr("certificate_row_version + 1"),
	}
	if txHash != nil {
		updates["certificate_blockchain_tx_hash"] = *txHash
	}

	res := s.DB.WithContext(ctx).
		Model(&certModel.CertificateModel{}).
		Where("certificate_id = ? AND certificate_blockchain_status = ?", cert.CertificateID, certModel.BlockchainStatusPending).
		Updates(updates)
	if res.Error != nil {
		log.Printf("[ERROR] update status anchoring %s: %v", cert.CertificateID, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		log.Printf("[WARN] status anchoring %s sudah bertransisi, update dilewati", cert.CertificateID)
		return
	}

	cert.CertificateBlockchainStatus = status
	cert.CertificateBlockchainTxHash = txHash
	cert.CertificateRowVersion++
}

// ==========================================================
// VERIFY
// ==========================================================
// Revocation lokal selalu menang atas status chain. Hash dihitung ulang dari
// field tersimpan (defense-in-depth). Hasil chain fail-closed dibedakan:
// not_on_chain (dicek, tidak ada) vs chain_unreachable (tidak bisa dicek).
func (s *CertificateService) Verify(ctx context.Context, certHash, certificateID string) (*VerifyResult, error) {
	certHash = strings.TrimSpace(certHash)
	certificateID = strings.TrimSpace(certificateID)
	if certHash == "" && certificateID == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "certificate_hash atau certificate_id wajib diisi")
	}

	var cert certModel.CertificateModel
	var err error
	if certificateID != "" {
		id, parseErr := uuid.Parse(certificateID)
		if parseErr != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "certificate_id tidak valid")
		}
		err = s.DB.WithContext(ctx).First(&cert, "certificate_id = ?", id).Error
	} else {
		err = s.DB.WithContext(ctx).First(&cert, "certificate_hash = ?", strings.ToLower(certHash)).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan di database")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	// ⛔ Revoked → selalu gagal verifikasi, apapun kata chain
	if cert.CertificateIsRevoked {
		return &VerifyResult{Verified: false, Reason: VerifyReasonRevoked, Certificate: &cert}, nil
	}

	// 🔁 Hitung ulang hash dari field tersimpan
	recomputed := ComputeCertificateHash(
		cert.CertificateStudentName,
		cert.CertificateCourseName,
		cert.IssueDateString(),
		cert.CertificateIssuerID.String(),
		cert.CertificateOwnerID.String(),
	)
	if recomputed != cert.CertificateHash {
		log.Printf("[WARN] hash mismatch untuk %s (tersimpan vs dihitung ulang)", cert.CertificateID)
		return &VerifyResult{Verified: false, Reason: VerifyReasonHashMismatch, Certificate: &cert}, nil
	}

	onChain, checked := s.Chain.Verify(ctx, cert.CertificateHash)
	if !checked {
		return &VerifyResult{Verified: false, Reason: VerifyReasonChainUnreachable, ChainChecked: false, Certificate: &cert}, nil
	}
	if !onChain {
		return &VerifyResult{Verified: false, Reason: VerifyReasonNotOnChain, ChainChecked: true, Certificate: &cert}, nil
	}
	return &VerifyResult{Verified: true, ChainChecked: true, Certificate: &cert}, nil
}

// ==========================================================
// REVOKE
// ==========================================================
// Hanya issuer asal atau pemegang role issuer/admin. Lokal saja — record
// on-chain tidak pernah diubah (chain = "pernah terbit", DB = "masih dipercaya").
func (s *CertificateService) Revoke(ctx context.Context, certificateID string, actorID uuid.UUID, actorRole string) (*certModel.CertificateModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(certificateID))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "certificate_id tidak valid")
	}

	var cert certModel.CertificateModel
	if err := s.DB.WithContext(ctx).First(&cert, "certificate_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	if cert.CertificateIssuerID != actorID && actorRole != constants.RoleIssuer && actorRole != constants.RoleAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hanya issuer yang boleh mencabut sertifikat")
	}

	if cert.CertificateIsRevoked {
		// sudah dicabut; idempoten
		return &cert, nil
	}

	// ✍️ Single guarded UPDATE: transisi false→true sekali saja
	res := s.DB.WithContext(ctx).
		Model(&certModel.CertificateModel{}).
		Where("certificate_id = ? AND certificate_is_revoked = ?", id, false).
		Updates(map[string]interface{}{
			"certificate_is_revoked":  true,
			"certificate_row_version": gorm.Expr("certificate_row_version + 1"),
		})
	if res.Error != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mencabut sertifikat")
	}

	cert.CertificateIsRevoked = true
	cert.CertificateRowVersion++
	return &cert, nil
}

// ==========================================================
// LOOKUP & LISTING
// ==========================================================

func (s *CertificateService) FindByID(ctx context.Context, certificateID string) (*certModel.CertificateModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(certificateID))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "certificate_id tidak valid")
	}

	var cert certModel.CertificateModel
	if err := s.DB.WithContext(ctx).First(&cert, "certificate_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return &cert, nil
}

func (s *CertificateService) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]certModel.CertificateModel, int64, error) {
	return s.list(ctx, "certificate_owner_id = ?", ownerID, offset, limit)
}

func (s *CertificateService) ListByIssuer(ctx context.Context, issuerID uuid.UUID, offset, limit int) ([]certModel.CertificateModel, int64, error) {
	return s.list(ctx, "certificate_issuer_id = ?", issuerID, offset, limit)
}

func (s *CertificateService) list(ctx context.Context, cond string, arg uuid.UUID, offset, limit int) ([]certModel.CertificateModel, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&certModel.CertificateModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data sertifikat")
	}

	var certs []certModel.CertificateModel
	if err := s.DB.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&certs).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data sertifikat")
	}
	return certs, total, nil
}
