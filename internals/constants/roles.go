package constants

import "fmt"

// Role yang dikenal sistem
const (
	RoleStudent = "student"
	RoleIssuer  = "issuer"
	RoleAdmin   = "admin"
)

// Template pesan error role
const (
	ErrOnlyIssuersCanAccess = "❌ Hanya issuer atau admin yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess  = "❌ Hanya admin yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorIssuer(feature string) string {
	return fmt.Sprintf(ErrOnlyIssuersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleIssuer,
		RoleAdmin,
	}

	IssuerAndAbove = []string{
		RoleIssuer,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
