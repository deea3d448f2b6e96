package domain

// LedgerOutcome describes what a ledger operation did. The no-op outcomes
// are successes, not errors.
type LedgerOutcome string

const (
	OutcomeApplied         LedgerOutcome = "applied"
	OutcomeAlreadyApplied  LedgerOutcome = "already_applied"
	OutcomeReversed        LedgerOutcome = "reversed"
	OutcomeAlreadyReversed LedgerOutcome = "already_reversed"
	OutcomeNoEffect        LedgerOutcome = "no_effect"
)

// LedgerResult is returned by apply and reverse operations.
// Transaction is set only when a new entry was written.
type LedgerResult struct {
	Outcome     LedgerOutcome
	Transaction *Transaction
}

// Wrote reports whether the operation appended a transaction.
func (r LedgerResult) Wrote() bool {
	return r.Transaction != nil
}

// StatusChange is an explicit status transition request. From is the status
// the caller believes the document has; it is never inferred from stored state.
type StatusChange struct {
	DocumentID string
	From       DocumentStatus
	To         DocumentStatus
	Initiator  Initiator
	ActorID    string
}

// PropagatedStatus records a status the engine set on a linked document.
type PropagatedStatus struct {
	DocumentID string         `json:"documentID"`
	Type       DocumentType   `json:"type"`
	From       DocumentStatus `json:"from"`
	To         DocumentStatus `json:"to"`
}

// ChangeResult summarizes everything one document operation committed.
type ChangeResult struct {
	Document   *Document
	Ledger     []LedgerResult
	Propagated []PropagatedStatus
}
