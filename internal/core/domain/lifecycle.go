package domain

import "github.com/SscSPs/docledger/internal/apperrors"

// Initiator identifies who asked for a status change.
type Initiator string

const (
	InitiatorUser   Initiator = "user"
	InitiatorSystem Initiator = "system"
)

type transitionRule struct {
	types      []DocumentType // empty means every type
	systemOnly bool
}

func (r transitionRule) allows(t DocumentType, by Initiator) bool {
	if r.systemOnly && by != InitiatorSystem {
		return false
	}
	if len(r.types) == 0 {
		return true
	}
	for _, allowed := range r.types {
		if allowed == t {
			return true
		}
	}
	return false
}

type transitionKey struct {
	from DocumentStatus
	to   DocumentStatus
}

var transitionRules = map[transitionKey][]transitionRule{
	{StatusDraft, StatusIssued}: {{}},
	{StatusIssued, StatusCompleted}: {
		{types: []DocumentType{Receipt, StatementOfPayment}},
		{types: []DocumentType{PaymentVoucher}, systemOnly: true},
	},
	{StatusIssued, StatusPaid}:      {{types: []DocumentType{Invoice}, systemOnly: true}},
	{StatusPaid, StatusIssued}:      {{types: []DocumentType{Invoice}, systemOnly: true}},
	{StatusCompleted, StatusIssued}: {{systemOnly: true}},
	{StatusCancelled, StatusDraft}:  {{}},
}

// ValidateTransition checks a status change against the document lifecycle.
// Moving to cancelled is allowed from every other status. A change to the
// same status is not a transition and is always accepted.
func ValidateTransition(t DocumentType, from, to DocumentStatus, by Initiator) error {
	if from == to {
		return nil
	}
	if to == StatusCancelled {
		return nil
	}
	for _, rule := range transitionRules[transitionKey{from, to}] {
		if rule.allows(t, by) {
			return nil
		}
	}
	return &apperrors.InvalidTransitionError{DocumentType: string(t), From: string(from), To: string(to)}
}

// IsCompletingTransition reports whether the change moves a document into completed.
func IsCompletingTransition(from, to DocumentStatus) bool {
	return from != StatusCompleted && to == StatusCompleted
}

// IsUncompletingTransition reports whether the change moves a document out of completed.
func IsUncompletingTransition(from, to DocumentStatus) bool {
	return from == StatusCompleted && to != StatusCompleted
}
