package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status anchoring di blockchain (transisi sekali: pending → confirmed|failed)
const (
	BlockchainStatusPending   = "pending"
	BlockchainStatusConfirmed = "confirmed"
	BlockchainStatusFailed    = "failed"
)

// CertificateModel merepresentasikan tabel certificates.
// Field sumber hash (student, course, issue_date, issuer, owner) immutable
// setelah create — tidak ada endpoint update yang menyentuhnya.
type CertificateModel struct {
	CertificateID             uuid.UUID      `json:"certificate_id" gorm:"column:certificate_id;type:uuid;primaryKey"`
	CertificateOwnerID        uuid.UUID      `json:"certificate_owner_id" gorm:"column:certificate_owner_id;type:uuid;not null;index"`
	CertificateIssuerID       uuid.UUID      `json:"certificate_issuer_id" gorm:"column:certificate_issuer_id;type:uuid;not null;index"`
	CertificateStudentName    string         `json:"certificate_student_name" gorm:"column:certificate_student_name;size:120;not null"`
	CertificateCourseName     string         `json:"certificate_course_name" gorm:"column:certificate_course_name;size:120;not null"`
	CertificateIssueDate      time.Time      `json:"certificate_issue_date" gorm:"column:certificate_issue_date;type:date;not null"`
	CertificateExpirationDate *time.Time     `json:"certificate_expiration_date,omitempty" gorm:"column:certificate_expiration_date;type:date"`
	CertificateMetadata       datatypes.JSON `json:"certificate_metadata,omitempty" gorm:"column:certificate_metadata"`

	CertificateHash             string  `json:"certificate_hash" gorm:"column:certificate_hash;size:64;uniqueIndex;not null"`
	CertificateBlockchainTxHash *string `json:"certificate_blockchain_tx_hash,omitempty" gorm:"column:certificate_blockchain_tx_hash;size:66"`
	CertificateBlockchainStatus string  `json:"certificate_blockchain_status" gorm:"column:certificate_blockchain_status;type:varchar(20);not null;default:'pending'"`

	CertificateIsRevoked bool `json:"certificate_is_revoked" gorm:"column:certificate_is_revoked;not null;default:false"`

	// guard optimistik untuk update status/revoke yang balapan
	CertificateRowVersion int `json:"-" gorm:"column:certificate_row_version;not null;default:1"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (CertificateModel) TableName() string {
	return "certificates"
}

func (m *CertificateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CertificateID == uuid.Nil {
		m.CertificateID = uuid.New()
	}
	if m.CertificateBlockchainStatus == "" {
		m.CertificateBlockchainStatus = BlockchainStatusPending
	}
	if m.CertificateRowVersion == 0 {
		m.CertificateRowVersion = 1
	}
	return nil
}

// IssueDateString format tanggal terbit sesuai input hash (YYYY-MM-DD)
func (m *CertificateModel) IssueDateString() string {
	return m.CertificateIssueDate.Format("2006-01-02")
}
