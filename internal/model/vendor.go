package model

// VendorHistory aggregates previously processed invoices from one sender
// domain within one account. It is computed on demand and never cached; a
// sender with no qualifying history yields the zero value.
type VendorHistory struct {
	SenderDomain       string
	LastCategory       DeductibleCategory // empty when no history exists
	InvoiceCount       int
	TotalAmountCents   int64
	AverageAmountCents int64
}

// HasHistory reports whether any qualifying invoices exist for the sender.
func (h VendorHistory) HasHistory() bool {
	return h.InvoiceCount > 0
}
