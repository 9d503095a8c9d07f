package blockchain

import "fmt"

// Alasan kegagalan anchoring (lihat AnchorError)
type AnchorReason string

const (
	ReasonNotConfigured       AnchorReason = "not_configured"
	ReasonConnectionRefused   AnchorReason = "connection_refused"
	ReasonTransactionReverted AnchorReason = "transaction_reverted"
)

// AnchorError dikembalikan oleh Anchor saat transaksi chain gagal.
// Timeout dianggap connection_refused; receipt status 0 → transaction_reverted.
type AnchorError struct {
	Reason AnchorReason
	Err    error
}

func (e *AnchorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("anchor %s: %v", e.Reason, e.Err)
	}
	return "anchor " + string(e.Reason)
}

func (e *AnchorError) Unwrap() error { return e.Err }
