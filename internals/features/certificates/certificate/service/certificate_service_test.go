package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sertifikatku_backend/internals/blockchain"
	"sertifikatku_backend/internals/constants"
	certDTO "sertifikatku_backend/internals/features/certificates/certificate/dto"
	certModel "sertifikatku_backend/internals/features/certificates/certificate/model"
	userModel "sertifikatku_backend/internals/features/users/user/model"
)

// stubChain: implementasi ChainService untuk test, tanpa jaringan.
type stubChain struct {
	anchorTx    string
	anchorErr   error
	onChain     bool
	checked     bool
	anchorCalls int
}

func (s *stubChain) Anchor(ctx context.Context, certificateID, certHash, studentName, courseName, issueDate string) (string, error) {
	s.anchorCalls++
	if s.anchorErr != nil {
		return "", s.anchorErr
	}
	return s.anchorTx, nil
}

func (s *stubChain) Verify(ctx context.Context, certHash string) (bool, bool) {
	return s.onChain, s.checked
}

func (s *stubChain) Lookup(ctx context.Context, certHash string) (*blockchain.AnchorRecord, bool) {
	return nil, false
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // satu koneksi supaya :memory: konsisten

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&certModel.CertificateModel{},
		&certModel.ShareLinkModel{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *userModel.UserModel {
	t.Helper()
	user := userModel.UserModel{
		UserName: name,
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func issueRequest(ownerID uuid.UUID) certDTO.IssueCertificateRequest {
	return certDTO.IssueCertificateRequest{
		StudentName: "Alice",
		CourseName:  "CS101",
		OwnerID:     ownerID.String(),
		IssueDate:   "2024-01-15",
	}
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

// ==========================================================
// ISSUE
// ==========================================================

func TestIssueConfirmsOnAnchorSuccess(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	chain := &stubChain{anchorTx: "0xdeadbeef"}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)
	require.NotNil(t, cert)

	expected := ComputeCertificateHash("Alice", "CS101", "2024-01-15", issuer.ID.String(), owner.ID.String())
	assert.Equal(t, expected, cert.CertificateHash)
	assert.Equal(t, certModel.BlockchainStatusConfirmed, cert.CertificateBlockchainStatus)
	require.NotNil(t, cert.CertificateBlockchainTxHash)
	assert.Equal(t, "0xdeadbeef", *cert.CertificateBlockchainTxHash)
	assert.Equal(t, 1, chain.anchorCalls)

	// record beneran tersimpan dengan status confirmed
	var stored certModel.CertificateModel
	require.NoError(t, db.First(&stored, "certificate_id = ?", cert.CertificateID).Error)
	assert.Equal(t, certModel.BlockchainStatusConfirmed, stored.CertificateBlockchainStatus)
}

func TestIssueMockModeStoresSentinelTx(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	chain := &stubChain{anchorTx: blockchain.MockTxHash}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)
	assert.Equal(t, certModel.BlockchainStatusConfirmed, cert.CertificateBlockchainStatus)
	require.NotNil(t, cert.CertificateBlockchainTxHash)
	assert.Equal(t, blockchain.MockTxHash, *cert.CertificateBlockchainTxHash)
}

func TestIssueKeepsRecordOnAnchorFailure(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	chain := &stubChain{anchorErr: &blockchain.AnchorError{Reason: blockchain.ReasonConnectionRefused}}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.Error(t, err)
	require.NotNil(t, cert, "record gagal-anchor harus tetap dikembalikan")

	// record TIDAK di-rollback: tersimpan dengan status failed
	var stored certModel.CertificateModel
	require.NoError(t, db.First(&stored, "certificate_id = ?", cert.CertificateID).Error)
	assert.Equal(t, certModel.BlockchainStatusFailed, stored.CertificateBlockchainStatus)
	assert.Nil(t, stored.CertificateBlockchainTxHash)

	var anchorErr *blockchain.AnchorError
	require.ErrorAs(t, err, &anchorErr)
	assert.Equal(t, blockchain.ReasonConnectionRefused, anchorErr.Reason)
}

func TestIssueValidation(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)
	svc := NewCertificateService(db, &stubChain{anchorTx: "0x1"})

	// field wajib kosong
	req := issueRequest(owner.ID)
	req.StudentName = ""
	_, err := svc.Issue(context.Background(), issuer.ID, req)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))

	// owner tidak ada
	req = issueRequest(uuid.New())
	req.OwnerID = uuid.New().String()
	_, err = svc.Issue(context.Background(), issuer.ID, req)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))

	// tanggal salah format
	req = issueRequest(owner.ID)
	req.IssueDate = "15-01-2024"
	_, err = svc.Issue(context.Background(), issuer.ID, req)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))

	// tidak ada record nyangkut dari request yang gagal validasi
	var count int64
	require.NoError(t, db.Model(&certModel.CertificateModel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIssueDuplicateHashConflict(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)
	svc := NewCertificateService(db, &stubChain{anchorTx: "0x1"})

	_, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)

	// data identik → hash identik → conflict
	_, err = svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

// ==========================================================
// VERIFY
// ==========================================================

func TestVerifyRevokedOverridesChain(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	// chain bilang confirmed, tapi revocation lokal harus menang
	chain := &stubChain{anchorTx: "0x1", onChain: true, checked: true}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)
	_, err = svc.Revoke(context.Background(), cert.CertificateID.String(), issuer.ID, constants.RoleIssuer)
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), cert.CertificateHash, "")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, VerifyReasonRevoked, result.Reason)
}

func TestVerifyDistinguishesUnreachableFromAbsent(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	chain := &stubChain{anchorTx: "0x1"}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)

	// chain tidak terjangkau → chain_unreachable, bukan not_on_chain
	chain.onChain = false
	chain.checked = false
	result, err := svc.Verify(context.Background(), cert.CertificateHash, "")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, VerifyReasonChainUnreachable, result.Reason)
	assert.False(t, result.ChainChecked)

	// chain dicek dan bilang tidak ada → not_on_chain
	chain.checked = true
	result, err = svc.Verify(context.Background(), cert.CertificateHash, "")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, VerifyReasonNotOnChain, result.Reason)
	assert.True(t, result.ChainChecked)
}

func TestVerifyDetectsTamperedFields(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	chain := &stubChain{anchorTx: "0x1", onChain: true, checked: true}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)

	// ubah field sumber hash langsung di DB (simulasi tamper)
	require.NoError(t, db.Model(&certModel.CertificateModel{}).
		Where("certificate_id = ?", cert.CertificateID).
		UpdateColumn("certificate_student_name", "Mallory").Error)

	result, err := svc.Verify(context.Background(), cert.CertificateHash, "")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, VerifyReasonHashMismatch, result.Reason)
}

func TestVerifyLookupByIDAndNotFound(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	chain := &stubChain{anchorTx: "0x1", onChain: true, checked: true}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), "", cert.CertificateID.String())
	require.NoError(t, err)
	assert.True(t, result.Verified)

	_, err = svc.Verify(context.Background(), "", uuid.New().String())
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))

	_, err = svc.Verify(context.Background(), "", "")
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

// ==========================================================
// REVOKE
// ==========================================================

func TestRevokeAuthorization(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	svc := NewCertificateService(db, &stubChain{anchorTx: "0x1"})
	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)

	// student biasa (bukan issuer asal, bukan role issuer) → 403
	_, err = svc.Revoke(context.Background(), cert.CertificateID.String(), owner.ID, constants.RoleStudent)
	assert.Equal(t, fiber.StatusForbidden, fiberCode(t, err))

	// is_revoked tidak berubah
	var stored certModel.CertificateModel
	require.NoError(t, db.First(&stored, "certificate_id = ?", cert.CertificateID).Error)
	assert.False(t, stored.CertificateIsRevoked)

	// issuer lain dengan role issuer boleh
	otherIssuer := seedUser(t, db, "issuer2", constants.RoleIssuer)
	revoked, err := svc.Revoke(context.Background(), cert.CertificateID.String(), otherIssuer.ID, constants.RoleIssuer)
	require.NoError(t, err)
	assert.True(t, revoked.CertificateIsRevoked)
}

func TestRevokeIdempotent(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner := seedUser(t, db, "student1", constants.RoleStudent)

	svc := NewCertificateService(db, &stubChain{anchorTx: "0x1"})
	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)

	first, err := svc.Revoke(context.Background(), cert.CertificateID.String(), issuer.ID, constants.RoleIssuer)
	require.NoError(t, err)
	versionAfterFirst := first.CertificateRowVersion

	second, err := svc.Revoke(context.Background(), cert.CertificateID.String(), issuer.ID, constants.RoleIssuer)
	require.NoError(t, err)
	assert.True(t, second.CertificateIsRevoked)

	// revoke kedua tidak boleh menaikkan row_version lagi
	var stored certModel.CertificateModel
	require.NoError(t, db.First(&stored, "certificate_id = ?", cert.CertificateID).Error)
	assert.Equal(t, versionAfterFirst, stored.CertificateRowVersion)
}

// ==========================================================
// END-TO-END
// ==========================================================

func TestIssueVerifyRevokeEndToEnd(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer7", constants.RoleIssuer)
	owner := seedUser(t, db, "student42", constants.RoleStudent)

	chain := &stubChain{anchorTx: "0xfeed", onChain: true, checked: true}
	svc := NewCertificateService(db, chain)

	cert, err := svc.Issue(context.Background(), issuer.ID, issueRequest(owner.ID))
	require.NoError(t, err)
	assert.Equal(t, certModel.BlockchainStatusConfirmed, cert.CertificateBlockchainStatus)

	result, err := svc.Verify(context.Background(), cert.CertificateHash, "")
	require.NoError(t, err)
	assert.True(t, result.Verified)

	_, err = svc.Revoke(context.Background(), cert.CertificateID.String(), issuer.ID, constants.RoleIssuer)
	require.NoError(t, err)

	result, err = svc.Verify(context.Background(), cert.CertificateHash, "")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, VerifyReasonRevoked, result.Reason)
}

// ==========================================================
// LISTING
// ==========================================================

func TestListByOwnerAndIssuer(t *testing.T) {
	db := newTestDB(t)
	issuer := seedUser(t, db, "issuer1", constants.RoleIssuer)
	owner1 := seedUser(t, db, "student1", constants.RoleStudent)
	owner2 := seedUser(t, db, "student2", constants.RoleStudent)

	svc := NewCertificateService(db, &stubChain{anchorTx: "0x1"})

	req := issueRequest(owner1.ID)
	_, err := svc.Issue(context.Background(), issuer.ID, req)
	require.NoError(t, err)

	req = issueRequest(owner2.ID)
	req.CourseName = "CS102"
	_, err = svc.Issue(context.Background(), issuer.ID, req)
	require.NoError(t, err)

	certs, total, err := svc.ListByOwner(context.Background(), owner1.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, certs, 1)
	assert.Equal(t, owner1.ID, certs[0].CertificateOwnerID)

	certs, total, err = svc.ListByIssuer(context.Background(), issuer.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, certs, 2)
}
