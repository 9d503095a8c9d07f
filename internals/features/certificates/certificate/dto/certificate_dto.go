package dto

import (
	"encoding/json"
	"time"

	certModel "sertifikatku_backend/internals/features/certificates/certificate/model"
)

// ============== REQUESTS ==============

type IssueCertificateRequest struct {
	StudentName    string                 `json:"student_name" validate:"required,min=1,max=120"`
	CourseName     string                 `json:"course_name" validate:"required,min=1,max=120"`
	OwnerID        string                 `json:"owner_id" validate:"required,uuid4"`
	IssueDate      string                 `json:"issue_date,omitempty"`
	ExpirationDate string                 `json:"expiration_date,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type VerifyCertificateRequest struct {
	CertificateHash string `json:"certificate_hash,omitempty"`
	CertificateID   string `json:"certificate_id,omitempty"`
}

type CreateShareLinkRequest struct {
	ExpiresInDays int `json:"expires_in_days,omitempty"`
}

// ============== RESPONSES ==============

type CertificateResponse struct {
	CertificateID      string                 `json:"certificate_id"`
	OwnerID            string                 `json:"owner_id"`
	IssuerID           string                 `json:"issuer_id"`
	StudentName        string                 `json:"student_name"`
	CourseName         string                 `json:"course_name"`
	IssueDate          string                 `json:"issue_date"`
	ExpirationDate     *string                `json:"expiration_date,omitempty"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
	CertificateHash    string                 `json:"certificate_hash"`
	BlockchainTxHash   *string                `json:"blockchain_tx_hash,omitempty"`
	BlockchainStatus   string                 `json:"blockchain_status"`
	IsRevoked          bool                   `json:"is_revoked"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

type ShareLinkResponse struct {
	ShareLinkID   uint      `json:"share_link_id"`
	CertificateID string    `json:"certificate_id"`
	LinkToken     string    `json:"link_token"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsActive      bool      `json:"is_active"`
	AccessCount   int       `json:"access_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type VerifyCertificateResponse struct {
	Verified           bool                 `json:"verified"`
	Reason             string               `json:"reason,omitempty"`
	BlockchainVerified bool                 `json:"blockchain_verified"`
	BlockchainChecked  bool                 `json:"blockchain_checked"`
	Message            string               `json:"message"`
	Certificate        *CertificateResponse `json:"certificate,omitempty"`
}

type SharedCertificateResponse struct {
	Certificate CertificateResponse `json:"certificate"`
	ShareLink   ShareLinkResponse   `json:"share_link"`
}

// ============== MAPPERS ==============

func ToCertificateResponse(m *certModel.CertificateModel) CertificateResponse {
	resp := CertificateResponse{
		CertificateID:    m.CertificateID.String(),
		OwnerID:          m.CertificateOwnerID.String(),
		IssuerID:         m.CertificateIssuerID.String(),
		StudentName:      m.CertificateStudentName,
		CourseName:       m.CertificateCourseName,
		IssueDate:        m.IssueDateString(),
		CertificateHash:  m.CertificateHash,
		BlockchainTxHash: m.CertificateBlockchainTxHash,
		BlockchainStatus: m.CertificateBlockchainStatus,
		IsRevoked:        m.CertificateIsRevoked,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.CertificateExpirationDate != nil {
		exp := m.CertificateExpirationDate.Format("2006-01-02")
		resp.ExpirationDate = &exp
	}
	if len(m.CertificateMetadata) > 0 {
		meta := map[string]interface{}{}
		if err := json.Unmarshal(m.CertificateMetadata, &meta); err == nil {
			resp.Metadata = meta
		}
	}
	return resp
}

func ToCertificateResponses(models []certModel.CertificateModel) []CertificateResponse {
	out := make([]CertificateResponse, 0, len(models))
	for i := range models {
		out = append(out, ToCertificateResponse(&models[i]))
	}
	return out
}

func ToShareLinkResponse(m *certModel.ShareLinkModel) ShareLinkResponse {
	return ShareLinkResponse{
		ShareLinkID:   m.ShareLinkID,
		CertificateID: m.ShareLinkCertificateID.String(),
		LinkToken:     m.ShareLinkToken,
		ExpiresAt:     m.ShareLinkExpiresAt,
		IsActive:      m.ShareLinkIsActive,
		AccessCount:   m.ShareLinkAccessCount,
		CreatedAt:     m.CreatedAt,
	}
}
