package models

// Order lifecycle statuses. Status only advances through sync, proof upload,
// proof send, and customer decision actions.
const (
	StatusDraft             = "draft"
	StatusOpen              = "open"
	StatusProofSent         = "proof_sent"
	StatusApproved          = "approved"
	StatusApprovedWithNotes = "approved_with_notes"
	StatusChangesRequested  = "changes_requested"
)

// IsDecided reports whether the customer has already submitted a decision for
// an order in this status. A decided order never accepts a second submission.
func IsDecided(status string) bool {
	switch status {
	case StatusApproved, StatusApprovedWithNotes, StatusChangesRequested:
		return true
	}
	return false
}

// IsSyncProtected reports whether the local workflow has progressed past the
// point where resynchronizing external fields is safe. The sync job counts
// these orders as skipped instead of overwriting them.
func IsSyncProtected(status string) bool {
	return status == StatusProofSent || IsDecided(status)
}

// ValidDecision reports whether a customer-submitted decision value is one of
// the accepted terminal decision statuses.
func ValidDecision(decision string) bool {
	return IsDecided(decision)
}
