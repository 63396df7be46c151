package model

import "time"

// InvoiceStatus tracks how far an invoice has progressed through processing.
type InvoiceStatus string

// Invoice status constants.
const (
	StatusPending    InvoiceStatus = "pending"
	StatusExtracted  InvoiceStatus = "extracted"
	StatusDownloaded InvoiceStatus = "downloaded"
	StatusReviewed   InvoiceStatus = "reviewed"
	StatusFiled      InvoiceStatus = "filed"
	StatusSkipped    InvoiceStatus = "skipped"
	StatusError      InvoiceStatus = "error"
)

// Qualifies reports whether an invoice in this status counts as a committed
// record for vendor history purposes. Drafts, skips and failures do not.
func (s InvoiceStatus) Qualifies() bool {
	switch s {
	case StatusExtracted, StatusDownloaded, StatusReviewed, StatusFiled:
		return true
	default:
		return false
	}
}

// QualifyingStatuses lists the statuses that contribute to vendor history.
func QualifyingStatuses() []InvoiceStatus {
	return []InvoiceStatus{StatusExtracted, StatusDownloaded, StatusReviewed, StatusFiled}
}

// Invoice is a processed invoice record as persisted by the store.
type Invoice struct {
	Date           time.Time
	CreatedAt      time.Time
	ID             string
	Account        string
	SenderDomain   string
	InvoiceNumber  string
	VendorProduct  string
	Category       DeductibleCategory
	Status         InvoiceStatus
	AmountCents    int64
	VATRecoverable bool
}
