package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	certModel "sertifikatku_backend/internals/features/certificates/certificate/model"
)

const defaultShareTTLDays = 7

// ShareLinkService: capability token berbatas waktu untuk akses baca
// sertifikat tanpa login.
type ShareLinkService struct {
	DB *gorm.DB
}

func NewShareLinkService(db *gorm.DB) *ShareLinkService {
	return &ShareLinkService{DB: db}
}

// generateLinkToken: 32 byte random → 64 hex char, cukup untuk tahan enumerasi.
func generateLinkToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Create bikin share link baru. Hanya pemilik sertifikat yang boleh.
func (s *ShareLinkService) Create(ctx context.Context, actorID uuid.UUID, certificateID string, expiresInDays int) (*certModel.ShareLinkModel, error) {
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

	if cert.CertificateOwnerID != actorID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hanya pemilik yang boleh membagikan sertifikatnya")
	}

	if expiresInDays <= 0 {
		expiresInDays = defaultShareTTLDays
	}

	token, err := generateLinkToken()
	if err != nil {
		log.Printf("[ERROR] generate link token: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat share link")
	}

	link := certModel.ShareLinkModel{
		ShareLinkCertificateID: cert.CertificateID,
		ShareLinkToken:         token,
		ShareLinkExpiresAt:     time.Now().UTC().Add(time.Duration(expiresInDays) * 24 * time.Hour),
		ShareLinkIsActive:      true,
	}
	if err := s.DB.WithContext(ctx).Create(&link).Error; err != nil {
		log.Printf("[ERROR] simpan share link: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat share link")
	}

	return &link, nil
}

// Resolve dereferensi token → sertifikat. Increment access_count atomik:
// satu UPDATE dengan predikat aktif+belum-kedaluwarsa, jadi dua request
// yang balapan tidak saling menimpa hitungan (no lost update).
func (s *ShareLinkService) Resolve(ctx context.Context, token string) (*certModel.ShareLinkModel, *certModel.CertificateModel, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Share link tidak ditemukan")
	}

	var link certModel.ShareLinkModel
	if err := s.DB.WithContext(ctx).First(&link, "share_link_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "Share link tidak ditemukan")
		}
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	now := time.Now().UTC()
	if !link.Usable(now) {
		return nil, nil, fiber.NewError(fiber.StatusGone, "Share link sudah kedaluwarsa")
	}

	res := s.DB.WithContext(ctx).
		Model(&certModel.ShareLinkModel{}).
		Where("share_link_id = ? AND share_link_is_active = ? AND share_link_expires_at > ?", link.ShareLinkID, true, now).
		UpdateColumn("share_link_access_count", gorm.Expr("share_link_access_count + 1"))
	if res.Error != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if res.RowsAffected == 0 {
		// keburu kedaluwarsa/nonaktif di antara baca dan update
		return nil, nil, fiber.NewError(fiber.StatusGone, "Share link sudah kedaluwarsa")
	}
	link.ShareLinkAccessCount++

	var cert certModel.CertificateModel
	if err := s.DB.WithContext(ctx).First(&cert, "certificate_id = ?", link.ShareLinkCertificateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan")
		}
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	return &link, &cert, nil
}

// Deactivate mematikan link sebelum expiry (dipakai pemilik).
func (s *ShareLinkService) Deactivate(ctx context.Context, actorID uuid.UUID, token string) (*certModel.ShareLinkModel, error) {
	token = strings.TrimSpace(token)

	var link certModel.ShareLinkModel
	if err := s.DB.WithContext(ctx).First(&link, "share_link_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Share link tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var cert certModel.CertificateModel
	if err := s.DB.WithContext(ctx).First(&cert, "certificate_id = ?", link.ShareLinkCertificateID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if cert.CertificateOwnerID != actorID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hanya pemilik yang boleh menonaktifkan share link")
	}

	if err := s.DB.WithContext(ctx).
		Model(&certModel.ShareLinkModel{}).
		Where("share_link_id = ?", link.ShareLinkID).
		UpdateColumn("share_link_is_active", false).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menonaktifkan share link")
	}
	link.ShareLinkIsActive = false
	return &link, nil
}
