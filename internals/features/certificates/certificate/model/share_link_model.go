package model

import (
	"time"

	"github.com/google/uuid"
)

// ShareLinkModel merepresentasikan tabel share_links.
// Link hidup sendiri (tidak ikut terhapus bersama sertifikat).
type ShareLinkModel struct {
	ShareLinkID            uint      `json:"share_link_id" gorm:"column:share_link_id;primaryKey"`
	ShareLinkCertificateID uuid.UUID `json:"share_link_certificate_id" gorm:"column:share_link_certificate_id;type:uuid;not null;index"`
	ShareLinkToken         string    `json:"share_link_token" gorm:"column:share_link_token;size:64;uniqueIndex;not null"`
	ShareLinkExpiresAt     time.Time `json:"share_link_expires_at" gorm:"column:share_link_expires_at;not null"`
	ShareLinkIsActive      bool      `json:"share_link_is_active" gorm:"column:share_link_is_active;not null;default:true"`
	ShareLinkAccessCount   int       `json:"share_link_access_count" gorm:"column:share_link_access_count;not null;default:0"`
	CreatedAt              time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ShareLinkModel) TableName() string {
	return "share_links"
}

// IsExpired: link kedaluwarsa saat now >= expires_at
func (m *ShareLinkModel) IsExpired(now time.Time) bool {
	return !now.Before(m.ShareLinkExpiresAt)
}

// Usable: aktif dan belum kedaluwarsa
func (m *ShareLinkModel) Usable(now time.Time) bool {
	return m.ShareLinkIsActive && !m.IsExpired(now)
}
