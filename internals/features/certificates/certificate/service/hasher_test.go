package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCertificateHashDeterministic(t *testing.T) {
	h1 := ComputeCertificateHash("Alice", "CS101", "2024-01-15", "issuer-7", "owner-42")
	h2 := ComputeCertificateHash("Alice", "CS101", "2024-01-15", "issuer-7", "owner-42")

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.Equal(t, strings.ToLower(h1), h1, "hash harus lowercase hex")
}

func TestComputeCertificateHashSensitivity(t *testing.T) {
	base := ComputeCertificateHash("Alice", "CS101", "2024-01-15", "issuer-7", "owner-42")

	variants := []string{
		ComputeCertificateHash("alice", "CS101", "2024-01-15", "issuer-7", "owner-42"),
		ComputeCertificateHash("Alice", "CS102", "2024-01-15", "issuer-7", "owner-42"),
		ComputeCertificateHash("Alice", "CS101", "2024-01-16", "issuer-7", "owner-42"),
		ComputeCertificateHash("Alice", "CS101", "2024-01-15", "issuer-8", "owner-42"),
		ComputeCertificateHash("Alice", "CS101", "2024-01-15", "issuer-7", "owner-43"),
	}
	for i, v := range variants {
		assert.NotEqual(t, base, v, "variant %d harus menghasilkan hash berbeda", i)
	}
}

func TestComputeCertificateHashFieldOrderMatters(t *testing.T) {
	// field yang tertukar posisi tidak boleh menghasilkan hash sama
	a := ComputeCertificateHash("Alice", "CS101", "2024-01-15", "x", "y")
	b := ComputeCertificateHash("CS101", "Alice", "2024-01-15", "x", "y")
	assert.NotEqual(t, a, b)
}
