package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Delimiter kanonik antar field — tidak diharapkan muncul di isi field.
const hashFieldDelimiter = "|"

// ComputeCertificateHash menghitung fingerprint SHA-256 sertifikat.
// Deterministik dan pure: input sama → hash sama. Dua sertifikat dengan
// {student, course, date, issuer, owner} identik memang menghasilkan hash
// identik (deteksi duplikat penerbitan, bukan bug).
func ComputeCertificateHash(studentName, courseName, issueDate, issuerID, ownerID string) string {
	data := strings.Join([]string{studentName, courseName, issueDate, issuerID, ownerID}, hashFieldDelimiter)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
